package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Payments     core.PaymentRepository
	Appointments core.AppointmentRepository
	Patients     core.PatientRepository
	Products     core.ProductRepository
	Policy       model.StockAlertPolicy
	// Location is the clinic time zone used for "today" and "this month". Defaults to UTC.
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// DashboardService computes the home screen numbers.
type DashboardService struct {
	payments     core.PaymentRepository
	appointments core.AppointmentRepository
	patients     core.PatientRepository
	products     core.ProductRepository
	policy       model.StockAlertPolicy
	loc          *time.Location
	logger       *slog.Logger
	now          func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	s := &DashboardService{
		payments:     opts.Payments,
		appointments: opts.Appointments,
		patients:     opts.Patients,
		products:     opts.Products,
		policy:       withPolicyDefaults(opts.Policy),
		loc:          opts.Location,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "dashboard_service")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Stats runs every aggregate concurrently. The first failure cancels the rest.
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	now := s.now().In(s.loc)
	today := model.DayOf(now)
	month := model.MonthOf(now)
	st := &model.DashboardStats{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.RevenueToday, err = s.payments.SumForDate(gctx, today.From)
		return err
	})
	g.Go(func() (err error) {
		st.AppointmentsToday, err = s.appointments.CountBetween(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		st.NewPatientsMonth, err = s.patients.CountCreatedSince(gctx, month.From)
		return err
	})
	g.Go(func() (err error) {
		st.ExpiringProducts, err = s.products.ListExpiring(gctx, now, now.Add(s.policy.ExpiryWindow))
		return err
	})
	g.Go(func() (err error) {
		st.LowStockProducts, err = s.products.ListLowStock(gctx, s.policy.LowStockThreshold)
		return err
	})
	g.Go(func() error {
		appts, err := s.appointments.ListBetween(gctx, model.TimeRange{From: now, To: today.To})
		if err != nil {
			return err
		}
		for _, a := range appts {
			if a.Status == model.AppointmentScheduled {
				st.UpcomingToday = append(st.UpcomingToday, a)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "dashboard aggregates failed", "error", err)
		return nil, err
	}
	return st, nil
}

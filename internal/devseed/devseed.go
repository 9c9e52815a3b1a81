// Package devseed loads demo clinic data into a development database.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/data"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	patients  *service.PatientService
	stock     *service.StockService
	financial *service.FinancialService
	calendar  *service.CalendarService
	now       func() time.Time
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB, loc *time.Location) Services {
	patientRepo := data.NewPatientRepo(db)
	paymentRepo := data.NewPaymentRepo(db)
	productRepo := data.NewProductRepo(db)
	return Services{
		patients: service.NewPatientService(service.PatientServiceOptions{
			Patients: patientRepo,
			Clinical: data.NewClinicalRepo(db),
			Payments: paymentRepo,
		}),
		stock: service.NewStockService(service.StockServiceOptions{Products: productRepo}),
		financial: service.NewFinancialService(service.FinancialServiceOptions{
			Records:  data.NewFinancialRepo(db),
			Payments: paymentRepo,
		}),
		calendar: service.NewCalendarService(service.CalendarServiceOptions{
			Appointments: data.NewAppointmentRepo(db),
			Patients:     patientRepo,
			Settings:     data.NewSettingsRepo(db),
			Location:     loc,
		}),
		now: time.Now,
	}
}

// Run executes the full development seeding workflow. Records that already exist by
// name are left alone, so running it twice is harmless.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0

	patientIDs, n := seedPatients(ctx, svcs.patients, logger)
	failures += n
	failures += seedProducts(ctx, svcs.stock, svcs.now(), logger)
	failures += seedRecords(ctx, svcs.financial, svcs.now(), logger)
	failures += seedAppointments(ctx, svcs.calendar, patientIDs, svcs.now(), logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultPatients() []model.PatientInput {
	return []model.PatientInput{
		{Name: "Ana Beatriz Souza", Age: intPtr(34), Phone: "(11) 98765-4321"},
		{Name: "Carla Mendes", Age: intPtr(42), Phone: "(11) 99876-1234"},
		{Name: "Juliana Rocha", Age: intPtr(29), Phone: "(21) 97654-3210"},
		{Name: "Marina Lopes", Phone: "(31) 96543-2109"},
	}
}

// seedPatients creates the demo patients and returns the ids of all of them by name.
func seedPatients(ctx context.Context, svc *service.PatientService, logger *slog.Logger) (map[string]string, int) {
	ids := map[string]string{}
	existing, err := svc.List(ctx, model.PatientListOptions{Limit: 500})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list patients", "error", err)
		return ids, 1
	}
	for _, p := range existing {
		ids[p.Name] = p.ID
	}

	failures := 0
	for _, in := range defaultPatients() {
		if _, ok := ids[in.Name]; ok {
			logger.InfoContext(ctx, "patient already exists", "name", in.Name)
			continue
		}
		p, err := svc.Create(ctx, in)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create patient", "name", in.Name, "error", err)
			failures++
			continue
		}
		ids[p.Name] = p.ID
		logger.InfoContext(ctx, "seeded patient", "name", p.Name)
	}
	return ids, failures
}

func defaultProducts(now time.Time) []model.ProductInput {
	return []model.ProductInput{
		{
			Name: "Toxina Botulínica 100U", Brand: "Botox", LotNumber: "BTX-2291",
			ExpiryDate: datePtr(now.AddDate(0, 0, 20)), CostPrice: 95000, SalePrice: 180000,
			Supplier: "Allergan", Quantity: 8,
		},
		{
			Name: "Ácido Hialurônico 1ml", Brand: "Juvéderm", LotNumber: "AH-7710",
			ExpiryDate: datePtr(now.AddDate(1, 0, 0)), CostPrice: 60000, SalePrice: 150000,
			Supplier: "Allergan", Quantity: 3,
		},
		{
			Name: "Bioestimulador de Colágeno", Brand: "Sculptra", LotNumber: "SC-0412",
			ExpiryDate: datePtr(now.AddDate(0, 8, 0)), CostPrice: 120000, SalePrice: 250000,
			Supplier: "Galderma", Quantity: 12,
		},
		{
			Name: "Protetor Solar FPS 50", Brand: "La Roche-Posay", CostPrice: 4500, SalePrice: 8900,
			Supplier: "Distribuidora Sul", Quantity: 20,
		},
	}
}

func seedProducts(ctx context.Context, svc *service.StockService, now time.Time, logger *slog.Logger) int {
	existing, err := svc.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list products", "error", err)
		return 1
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	failures := 0
	for _, in := range defaultProducts(now) {
		if names[in.Name] {
			logger.InfoContext(ctx, "product already exists", "name", in.Name)
			continue
		}
		if _, err := svc.Create(ctx, in); err != nil {
			logger.ErrorContext(ctx, "failed to create product", "name", in.Name, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "seeded product", "name", in.Name)
	}
	return failures
}

func defaultRecords(now time.Time) []model.RecordInput {
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return []model.RecordInput{
		{Description: "Aluguel da sala", Amount: 350000, Type: model.EntryExpense, Date: month, Category: "Estrutura"},
		{Description: "Compra de insumos", Amount: 128000, Type: model.EntryExpense, Date: month.AddDate(0, 0, 4), Category: "Insumos"},
		{Description: "Curso de capacitação ministrado", Amount: 90000, Type: model.EntryIncome, Date: month.AddDate(0, 0, 9), Category: "Outros"},
	}
}

func seedRecords(ctx context.Context, svc *service.FinancialService, now time.Time, logger *slog.Logger) int {
	ledger, err := svc.Ledger(ctx, model.DateRange{})
	if err != nil {
		logger.ErrorContext(ctx, "failed to load ledger", "error", err)
		return 1
	}
	seen := make(map[string]bool, len(ledger.Entries))
	for _, e := range ledger.Entries {
		seen[e.Description] = true
	}

	failures := 0
	for _, in := range defaultRecords(now) {
		if seen[in.Description] {
			continue
		}
		if _, err := svc.AddRecord(ctx, in); err != nil {
			logger.ErrorContext(ctx, "failed to create financial record", "description", in.Description, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "seeded financial record", "description", in.Description)
	}
	return failures
}

type appointmentSeed struct {
	patient   string
	inDays    int
	hour      int
	procedure string
}

func defaultAppointments() []appointmentSeed {
	return []appointmentSeed{
		{patient: "Ana Beatriz Souza", inDays: 0, hour: 10, procedure: "Toxina botulínica"},
		{patient: "Carla Mendes", inDays: 1, hour: 14, procedure: "Preenchimento labial"},
		{patient: "Juliana Rocha", inDays: 3, hour: 9, procedure: "Limpeza de pele"},
	}
}

// seedAppointments only runs against an empty week so repeated seeds do not pile up.
func seedAppointments(
	ctx context.Context,
	svc *service.CalendarService,
	patientIDs map[string]string,
	now time.Time,
	logger *slog.Logger,
) int {
	week, err := svc.Week(ctx, now)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load calendar week", "error", err)
		return 1
	}
	for _, day := range week.Days {
		if len(day.Appointments) > 0 {
			logger.InfoContext(ctx, "calendar week already has appointments; skipping")
			return 0
		}
	}

	loc := svc.Location()
	local := now.In(loc)
	failures := 0
	for _, a := range defaultAppointments() {
		id, ok := patientIDs[a.patient]
		if !ok {
			continue
		}
		day := local.AddDate(0, 0, a.inDays)
		at := time.Date(day.Year(), day.Month(), day.Day(), a.hour, 0, 0, 0, loc)
		if _, err := svc.Schedule(ctx, model.AppointmentInput{PatientID: id, Date: at, Procedure: a.procedure}); err != nil {
			logger.ErrorContext(ctx, "failed to schedule appointment", "patient", a.patient, "error", err)
			failures++
		}
	}
	return failures
}

func intPtr(i int) *int { return &i }

func datePtr(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &d
}

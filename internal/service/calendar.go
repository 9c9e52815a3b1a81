package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const googleCalendarBase = "https://calendar.google.com/calendar/embed"

// CalendarServiceOptions groups dependencies for CalendarService.
type CalendarServiceOptions struct {
	Appointments core.AppointmentRepository
	Patients     core.PatientRepository
	Settings     core.SettingsRepository
	Location     *time.Location
	Logger       *slog.Logger
	Now          func() time.Time
}

// CalendarService handles appointments and the linked external calendar.
type CalendarService struct {
	appointments core.AppointmentRepository
	patients     core.PatientRepository
	settings     core.SettingsRepository
	loc          *time.Location
	logger       *slog.Logger
	now          func() time.Time
}

// CalendarDay is one column of the week view.
type CalendarDay struct {
	Date         time.Time
	Today        bool
	Appointments []model.Appointment
}

// CalendarWeek is the week view: seven days starting on Monday.
type CalendarWeek struct {
	Range model.TimeRange
	Days  []CalendarDay
	Prev  time.Time
	Next  time.Time
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(opts CalendarServiceOptions) *CalendarService {
	s := &CalendarService{
		appointments: opts.Appointments,
		patients:     opts.Patients,
		settings:     opts.Settings,
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
	s.logger = s.logger.With("component", "calendar_service")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Location returns the clinic time zone.
func (s *CalendarService) Location() *time.Location { return s.loc }

// Week returns the appointments of the week containing anchor, bucketed by day.
// A zero anchor means the current week.
func (s *CalendarService) Week(ctx context.Context, anchor time.Time) (*CalendarWeek, error) {
	now := s.now().In(s.loc)
	if anchor.IsZero() {
		anchor = now
	}
	r := model.WeekOf(anchor.In(s.loc))
	appts, err := s.appointments.ListBetween(ctx, r)
	if err != nil {
		return nil, err
	}

	week := &CalendarWeek{Range: r, Prev: r.From.AddDate(0, 0, -7), Next: r.To, Days: make([]CalendarDay, 7)}
	todayStart := model.DayOf(now).From
	for i := range week.Days {
		d := r.From.AddDate(0, 0, i)
		week.Days[i] = CalendarDay{Date: d, Today: d.Equal(todayStart)}
	}
	for _, a := range appts {
		local := a.Date.In(s.loc)
		idx := int(model.DayOf(local).From.Sub(r.From).Hours() / 24)
		if idx < 0 || idx >= len(week.Days) {
			continue
		}
		a.Date = local
		week.Days[idx].Appointments = append(week.Days[idx].Appointments, a)
	}
	return week, nil
}

// Schedule validates and creates an appointment for an existing patient.
func (s *CalendarService) Schedule(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		return nil, err
	}
	a, err := s.appointments.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "appointment scheduled", "appointment_id", a.ID, "patient_id", a.PatientID)
	return a, nil
}

// UpdateStatus moves an appointment to status.
func (s *CalendarService) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	if !status.Valid() {
		return apperrors.ValidationField("status", "Status inválido.")
	}
	return s.appointments.UpdateStatus(ctx, id, status)
}

// CalendarID returns the linked external calendar id, or "" when none is configured.
func (s *CalendarService) CalendarID(ctx context.Context) (string, error) {
	return s.settings.Get(ctx, model.SettingCalendarID)
}

// SetCalendarID stores the external calendar id. An empty id unlinks the calendar.
func (s *CalendarService) SetCalendarID(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if strings.ContainsAny(id, " \t\r\n") {
		return apperrors.ValidationField("calendar_id", "ID de calendário inválido.")
	}
	return s.settings.Set(ctx, model.SettingCalendarID, id)
}

// CalendarLink builds the public link of an external calendar in the clinic time zone.
func (s *CalendarService) CalendarLink(id string) string {
	if id == "" {
		return ""
	}
	q := url.Values{}
	q.Set("src", id)
	q.Set("ctz", s.loc.String())
	return googleCalendarBase + "?" + q.Encode()
}

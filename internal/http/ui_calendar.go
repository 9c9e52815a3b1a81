package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
)

const maxPatientsForSelect = 500

// Calendar renders the week containing ?week=YYYY-MM-DD, or the current week.
// GET /calendar.
func (h *UIHandlers) Calendar(w http.ResponseWriter, r *http.Request) {
	builder := NewTemplateData(r, calendarMeta())
	if err := h.calendarData(r, builder, r.URL.Query().Get("week")); err != nil {
		h.logger().ErrorContext(r.Context(), "load calendar failed", "error", err)
		markPageError(builder.Build())
	}
	h.renderPage(w, r, builder.With("Values", map[string]string{}).Build())
}

func calendarMeta() PageMeta {
	return PageMeta{Title: "Agenda", PageTitle: "Agenda", CurrentPage: PageCalendar}
}

// calendarData loads the week, the patient picker and the linked external calendar.
func (h *UIHandlers) calendarData(r *http.Request, b *TemplateDataBuilder, weekParam string) error {
	ctx := r.Context()
	loc := h.CalendarSvc.Location()
	var anchor time.Time
	if t, err := time.ParseInLocation(validation.DateLayout, strings.TrimSpace(weekParam), loc); err == nil {
		anchor = t
	}
	week, err := h.CalendarSvc.Week(ctx, anchor)
	if err != nil {
		return err
	}
	b.With("Week", week).
		With("WeekParam", week.Range.From.Format(validation.DateLayout)).
		With("PrevWeek", week.Prev.Format(validation.DateLayout)).
		With("NextWeek", week.Next.Format(validation.DateLayout)).
		With("Statuses", []model.AppointmentStatus{
			model.AppointmentScheduled, model.AppointmentCompleted, model.AppointmentCancelled,
		})

	if h.PatientSvc != nil {
		patients, err := h.PatientSvc.List(ctx, model.PatientListOptions{Limit: maxPatientsForSelect})
		if err != nil {
			h.logger().WarnContext(ctx, "load patients for calendar failed", "error", err)
		}
		b.With("PatientOptions", patients)
	}

	calID, err := h.CalendarSvc.CalendarID(ctx)
	if err != nil {
		h.logger().WarnContext(ctx, "load calendar id failed", "error", err)
	}
	v, _ := ViewerFromContext(ctx)
	b.With("CalendarID", calID).
		With("CalendarLink", h.CalendarSvc.CalendarLink(calID)).
		With("CanEditSettings", v.HasPermission(domainauth.PermissionSettings))
	return nil
}

// CalendarSchedule creates an appointment.
// POST /calendar/appointments.
func (h *UIHandlers) CalendarSchedule(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.AppointmentInput]{
		W: w, R: r,
		Parser: func(r *http.Request) (model.AppointmentInput, map[string]string) {
			f := newFormValues(r, h.CalendarSvc.Location())
			in := model.AppointmentInput{
				PatientID: f.check("patient_id", validation.Required("Paciente", 64)),
				Date:      f.datetime("date", "Data e horário"),
				Procedure: f.check("procedure", validation.Required("Procedimento", 200)),
			}
			if f.str("date") == "" {
				f.fv.Add("date", "Informe data e horário.")
			}
			return in, f.errors()
		},
		Submit: func(ctx context.Context, in model.AppointmentInput) (string, error) {
			if _, err := h.CalendarSvc.Schedule(ctx, in); err != nil {
				return "", err
			}
			return "/calendar?week=" + in.Date.Format(validation.DateLayout), nil
		},
		Renderer: h.renderCalendarForm,
		PageMeta: calendarMeta(),
		Data: func(model.AppointmentInput) map[string]any {
			return map[string]any{
				"Values":   submitted(r, "patient_id", "date", "procedure"),
				"OpenForm": true,
			}
		},
		OnError: h.logMutationError,
	})
}

// CalendarUpdateStatus marks an appointment scheduled, completed or cancelled.
// POST /calendar/appointments/{id}/status.
func (h *UIHandlers) CalendarUpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := model.AppointmentStatus(strings.TrimSpace(r.PostFormValue("status")))
	back := "/calendar"
	if week := strings.TrimSpace(r.PostFormValue("week")); week != "" {
		if _, err := time.Parse(validation.DateLayout, week); err == nil {
			back += "?week=" + week
		}
	}
	if err := h.CalendarSvc.UpdateStatus(r.Context(), r.PathValue("id"), status); err != nil {
		h.failMutation(w, r, err)
		return
	}
	Redirect(w, r, back)
}

// CalendarSettings stores the external calendar id. Routed behind the settings permission.
// POST /calendar/settings.
func (h *UIHandlers) CalendarSettings(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[string]{
		W: w, R: r,
		Parser: func(r *http.Request) (string, map[string]string) {
			f := newFormValues(r, nil)
			return f.check("calendar_id", validation.Optional("ID do calendário", 300)), f.errors()
		},
		Submit: func(ctx context.Context, id string) (string, error) {
			if err := h.CalendarSvc.SetCalendarID(ctx, id); err != nil {
				return "", err
			}
			return "/calendar", nil
		},
		Renderer: h.renderCalendarForm,
		PageMeta: calendarMeta(),
		Data: func(id string) map[string]any {
			return map[string]any{"SettingsValue": id, "OpenSettings": true, "Values": map[string]string{}}
		},
		OnError: h.logMutationError,
	})
}

// renderCalendarForm re-renders the calendar after a failed form, keeping the week.
func (h *UIHandlers) renderCalendarForm(w http.ResponseWriter, r *http.Request, data any) {
	if m, ok := data.(map[string]any); ok {
		week := r.PostFormValue("week")
		if week == "" {
			week = strings.TrimSpace(r.PostFormValue("date"))
			week, _, _ = strings.Cut(week, "T")
		}
		if err := h.calendarData(r, &TemplateDataBuilder{data: m, r: r}, week); err != nil {
			h.logger().ErrorContext(r.Context(), "load calendar failed", "error", err)
		}
		if id, ok := m["SettingsValue"].(string); ok {
			m["CalendarID"] = id
		}
	}
	h.renderForm(w, r, data)
}

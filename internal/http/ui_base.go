package httpx

import (
	"context"
	"html"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/domain/nav"
	"github.com/Killzin1000/quality-estetica2/internal/http/templates/core"
	"github.com/Killzin1000/quality-estetica2/internal/http/ui/viewmodel"
	obserrors "github.com/Killzin1000/quality-estetica2/internal/observability/errors"
	"github.com/Killzin1000/quality-estetica2/internal/service"
)

const errMsgLoadFailed = "Não foi possível carregar os dados. Tente novamente."

// PatientsService is the patient record surface the UI needs.
type PatientsService interface {
	List(ctx context.Context, opts model.PatientListOptions) ([]model.Patient, error)
	Get(ctx context.Context, id string) (*model.Patient, error)
	Create(ctx context.Context, in model.PatientInput) (*model.Patient, error)
	Update(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error)
	Delete(ctx context.Context, id string) error
	Record(ctx context.Context, id string) (*model.PatientRecord, error)
	AddPhoto(ctx context.Context, patientID string, in model.PhotoInput) (*model.PatientPhoto, error)
	DeletePhoto(ctx context.Context, patientID, photoID string) error
	AddMarker(ctx context.Context, patientID string, in model.MarkerInput) (*model.BodyMarker, error)
	DeleteMarker(ctx context.Context, patientID, markerID string) error
	AddAnamnesis(ctx context.Context, patientID string, raw []byte) (*model.AnamnesisRecord, error)
	AddNote(ctx context.Context, patientID string, in model.NoteInput) (*model.ClinicalNote, error)
}

// PaymentsService records patient payments and product sales.
type PaymentsService interface {
	Record(ctx context.Context, patientID string, in model.PaymentInput) (*model.Payment, error)
}

// StockUIService is the product inventory surface the UI needs.
type StockUIService interface {
	Policy() model.StockAlertPolicy
	List(ctx context.Context) ([]model.Product, error)
	InStock(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id string, in model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	Alerts(ctx context.Context) (service.StockAlerts, error)
}

// FinancialUIService serves the ledger screen.
type FinancialUIService interface {
	Ledger(ctx context.Context, r model.DateRange) (*service.Ledger, error)
	AddRecord(ctx context.Context, in model.RecordInput) (*model.FinancialRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

// DashboardUIService computes the home screen figures.
type DashboardUIService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// CalendarUIService serves the weekly agenda.
type CalendarUIService interface {
	Location() *time.Location
	Week(ctx context.Context, anchor time.Time) (*service.CalendarWeek, error)
	Schedule(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	CalendarID(ctx context.Context) (string, error)
	SetCalendarID(ctx context.Context, id string) error
	CalendarLink(id string) string
}

// SkinAnalysisUIService builds before/after comparisons.
type SkinAnalysisUIService interface {
	Gallery(ctx context.Context) ([]service.ComparisonSet, error)
}

// AdminUsersUIService manages profile access.
type AdminUsersUIService interface {
	List(ctx context.Context) ([]domainauth.Profile, error)
	Get(ctx context.Context, id string) (*domainauth.Profile, error)
	UpdateAccess(ctx context.Context, actor domainauth.Profile, targetID string, upd domainauth.AccessUpdate) (*domainauth.Profile, error)
}

var (
	_ PatientsService       = (*service.PatientService)(nil)
	_ PaymentsService       = (*service.PaymentService)(nil)
	_ StockUIService        = (*service.StockService)(nil)
	_ FinancialUIService    = (*service.FinancialService)(nil)
	_ DashboardUIService    = (*service.DashboardService)(nil)
	_ CalendarUIService     = (*service.CalendarService)(nil)
	_ SkinAnalysisUIService = (*service.SkinAnalysisService)(nil)
	_ AdminUsersUIService   = (*service.AdminUserService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	PatientSvc   PatientsService
	PaymentSvc   PaymentsService
	StockSvc     StockUIService
	FinancialSvc FinancialUIService
	DashboardSvc DashboardUIService
	CalendarSvc  CalendarUIService
	SkinSvc      SkinAnalysisUIService
	AdminUserSvc AdminUsersUIService
	// Location is the clinic time zone used to read dates submitted by forms.
	Location *time.Location
	Now      func() time.Time
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) loc() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request and its viewer.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	title := meta.Title
	if title == "" {
		title = meta.PageTitle
	}
	layout := viewmodel.Layout{
		Title:       title + " · Quality Estética",
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		RequestID:   RequestIDFromContext(r.Context()),
	}

	v, ok := ViewerFromContext(r.Context())
	if !ok {
		return layout
	}
	if p := v.Profile(); p != nil {
		layout.User = &viewmodel.User{
			Name:    p.DisplayName(),
			Email:   p.Email,
			Role:    core.RoleLabel(p.Role),
			IsAdmin: v.IsAdmin(),
		}
	}
	active := pageViews[meta.CurrentPage]
	for _, view := range nav.VisibleViews(v) {
		layout.Nav = append(layout.Nav, viewmodel.NavItem{
			View:   string(view),
			Label:  view.Label(),
			Path:   view.Path(),
			Active: view == active,
		})
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":       layout.Title,
		"PageTitle":   layout.PageTitle,
		"CurrentPage": layout.CurrentPage,
		"CSRFToken":   layout.CSRFToken,
		"RequestID":   layout.RequestID,
		"Nav":         layout.Nav,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// A not-found fetch error renders the 404 page instead.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if DetermineErrorStatus(err) == http.StatusNotFound {
				h.NotFound(w, r)
				return
			}
			h.logger().ErrorContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage, "error", err)
			markPageError(data)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a dashboard page, or only its content for htmx navigation.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	page, _ := data["CurrentPage"].(string)

	// <title> lets htmx update document.title on partial swaps.
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}
	if err := h.T.Execute(w, ContentTemplateFor(page), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderStandalone renders a screen without the sidebar with the given status.
func (h *UIHandlers) renderStandalone(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var buf strings.Builder
	if err := h.T.Execute(&buf, "standalone-layout", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "standalone render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// renderForm re-renders a form page after a failed submission.
func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, data any) {
	m, ok := data.(map[string]any)
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if WantsPartial(r) {
		page, _ := m["CurrentPage"].(string)
		if err := h.T.Execute(w, ContentTemplateFor(page), m); err != nil {
			h.logger().Error("form content render failed", "page", page, "error", err)
		}
		return
	}
	if err := h.T.Execute(w, "layout", m); err != nil {
		h.logger().Error("form page render failed", "error", err)
	}
}

// GateScreen renders the full-screen state the gate settled on: loading, pending or blocked.
// htmx requests are asked to reload so the screen replaces the whole page.
func (h *UIHandlers) GateScreen(w http.ResponseWriter, r *http.Request, g nav.Gate) {
	if IsHTMX(r) {
		w.Header().Set("Hx-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	var meta PageMeta
	status := http.StatusOK
	switch g {
	case nav.GateLoading:
		meta = PageMeta{Title: "Carregando", CurrentPage: PageLoading}
	case nav.GatePending:
		meta = PageMeta{Title: "Aguardando Aprovação", PageTitle: "Aguardando Aprovação", CurrentPage: PagePending}
		status = http.StatusForbidden
	case nav.GateBlocked:
		meta = PageMeta{Title: "Acesso Bloqueado", PageTitle: "Acesso Bloqueado", CurrentPage: PageBlocked}
		status = http.StatusForbidden
	default:
		h.NotFound(w, r)
		return
	}
	data := basePageData(r, meta)
	if v, ok := ViewerFromContext(r.Context()); ok {
		if p := v.Profile(); p != nil {
			data["Email"] = p.Email
		}
	}
	h.renderStandalone(w, r, status, data)
}

// Denied renders the no-permission placeholder inside the normal layout.
func (h *UIHandlers) Denied(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Acesso restrito", PageTitle: "Acesso restrito", CurrentPage: PageDenied}).
		With("Message", DeniedMessage).
		Build()
	h.renderPage(w, r, data)
}

// NotFound renders the 404 page, or a JSON error for API clients.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found"})
		return
	}
	h.renderErrorPage(w, r, http.StatusNotFound, "A página que você procura não existe.")
}

// renderErrorPage renders the standalone error page with status.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := basePageData(r, PageMeta{Title: http.StatusText(status), CurrentPage: PageNotFound})
	data["Code"] = status
	data["Message"] = message
	var buf strings.Builder
	if h.T == nil {
		http.Error(w, message, status)
		return
	}
	if err := h.T.Execute(&buf, "error-layout", data); err != nil {
		h.logger().Error("error page render failed", "error", err)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// failMutation reports a failed action that has no form to re-render: a toast for
// htmx requests, the error page otherwise.
func (h *UIHandlers) failMutation(w http.ResponseWriter, r *http.Request, err error) {
	status := DetermineErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger().ErrorContext(r.Context(), "mutation failed",
			"path", r.URL.Path, "error_type", obserrors.Classify(err), "error", err)
	}
	msg := processError(err, map[string]string{})
	if IsHTMX(r) {
		triggerToast(w, msg, "error")
		w.Header().Set("Hx-Reswap", "none")
		w.WriteHeader(status)
		return
	}
	h.renderErrorPage(w, r, status, msg)
}

// deleteHandlerOpts encapsulates common delete-handling behavior for UI endpoints.
type deleteHandlerOpts struct {
	Delete       func(ctx context.Context) error
	RedirectPath string
}

// handleDelete runs a delete and redirects, or reports why it failed.
func (h *UIHandlers) handleDelete(w http.ResponseWriter, r *http.Request, opts deleteHandlerOpts) {
	if err := opts.Delete(r.Context()); err != nil {
		h.failMutation(w, r, err)
		return
	}
	Redirect(w, r, opts.RedirectPath)
}

func (h *UIHandlers) logMutationError(r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "form submission failed",
		"path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()),
		"error_type", obserrors.Classify(err), "error", err)
}

func itoa(n int) string { return strconv.Itoa(n) }

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = errMsgLoadFailed
}

// withData copies extra values into data, for re-rendering forms.
func withData(data map[string]any, extra map[string]any) map[string]any {
	maps.Copy(data, extra)
	return data
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	SetHXTrigger(w, "showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="dev-error"><h2>Template Rendering Error</h2><p><strong>Context:</strong> ` +
			html.EscapeString(context) + `</p><p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) +
			`</p><pre>` + html.EscapeString(err.Error()) + `</pre></div>`))
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

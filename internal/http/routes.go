package httpx

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	qualityestetica "github.com/Killzin1000/quality-estetica2"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/nav"
	"github.com/Killzin1000/quality-estetica2/internal/observability/metrics"
	"github.com/Killzin1000/quality-estetica2/internal/service"
	"github.com/Killzin1000/quality-estetica2/internal/session"
)

const (
	defaultAuthAttemptsPerMinute = 10
	defaultAuthBurst             = 5
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     *service.AuthService
	Registry *session.Registry

	Patients     PatientsService
	Payments     PaymentsService
	Stock        StockUIService
	Financial    FinancialUIService
	Dashboard    DashboardUIService
	Calendar     CalendarUIService
	SkinAnalysis SkinAnalysisUIService
	AdminUsers   AdminUsersUIService

	Metrics *metrics.Metrics
	Cookies CookieConfig
	// AuthLimiter throttles sign-in and sign-up posts per client IP. Optional.
	AuthLimiter *IPRateLimiter

	// TemplateFS overrides the template source; tests point it at the repository templates.
	TemplateFS fs.FS
	Location   *time.Location
	Now        func() time.Time
	IsDev      bool // Development mode flag for hot reloading
	Logger     *slog.Logger
}

// NewRouter creates the HTTP handler: browser routes, the session API, health and metrics.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}
	sm := &SessionMiddleware{
		Auth:     services.Auth,
		Registry: services.Registry,
		UI:       ui,
		Cookies:  services.Cookies,
		Metrics:  services.Metrics,
		Logger:   logger,
	}
	authHandlers := &AuthHandlers{
		Svc:      services.Auth,
		Registry: services.Registry,
		UI:       ui,
		Cookies:  services.Cookies,
		Logger:   logger,
	}
	limiter := services.AuthLimiter
	if limiter == nil {
		limiter = NewIPRateLimiter(defaultAuthAttemptsPerMinute, defaultAuthBurst)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /metrics", services.Metrics.Handler())
	mux.Handle("GET /static/", staticWithFallback(services.IsDev, logger))
	mux.Handle("GET /api/session", sm.LoadViewer(http.HandlerFunc(sessionHandler)))

	registerAuthRoutes(mux, authHandlers, sm, limiter)
	registerUIRoutes(mux, ui, sm)

	var handler http.Handler = &notFoundHandler{mux: mux, ui: ui}
	handler = CSRFProtection(CSRFConfig{Cookies: services.Cookies})(handler)
	handler = services.Metrics.Instrument(handler)
	handler = Recover(logger)(handler)
	return Logging(logger)(handler), nil
}

func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(qualityestetica.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, fmt.Errorf("template sub-filesystem: %w", err)
			}
			templateFS = sub
		}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Location:   services.Location,
		Now:        services.Now,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	return &UIHandlers{
		T:            tr,
		PatientSvc:   services.Patients,
		PaymentSvc:   services.Payments,
		StockSvc:     services.Stock,
		FinancialSvc: services.Financial,
		DashboardSvc: services.Dashboard,
		CalendarSvc:  services.Calendar,
		SkinSvc:      services.SkinAnalysis,
		AdminUserSvc: services.AdminUsers,
		Location:     services.Location,
		Now:          services.Now,
		IsDev:        services.IsDev,
		Logger:       logger,
	}, nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, sm *SessionMiddleware, limiter *IPRateLimiter) {
	throttle := RateLimit(limiter, http.HandlerFunc(h.TooManyAttempts))
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, sm.LoadViewer(fn))
	}

	handle("GET /auth/signin", h.SignInPage)
	mux.Handle("POST /auth/signin", throttle(sm.LoadViewer(http.HandlerFunc(h.SignIn))))
	handle("GET /auth/signup", h.SignUpPage)
	mux.Handle("POST /auth/signup", throttle(sm.LoadViewer(http.HandlerFunc(h.SignUp))))
	handle("POST /auth/signout", h.SignOut)
	handle("POST /auth/refresh", h.Refresh)
	handle("GET /auth/sso/login", h.SSOLogin)
	handle("GET /auth/sso/callback", h.SSOCallback)
}

// registerUIRoutes mounts every feature screen behind the gate and its view check.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, sm *SessionMiddleware) {
	view := func(v nav.View) func(string, http.HandlerFunc) {
		return func(pattern string, fn http.HandlerFunc) {
			mux.Handle(pattern, sm.Gate(sm.RequireView(v)(fn)))
		}
	}

	view(nav.ViewDashboard)("GET /{$}", h.Index)

	patients := view(nav.ViewPatients)
	patients("GET /patients", h.Patients)
	patients("GET /patients/new", h.PatientNew)
	patients("POST /patients/new", h.PatientCreate)
	patients("GET /patients/{id}", h.PatientProfile)
	patients("GET /patients/{id}/edit", h.PatientEdit)
	patients("POST /patients/{id}/edit", h.PatientUpdate)
	patients("POST /patients/{id}/delete", h.PatientDelete)
	patients("POST /patients/{id}/photos", h.PatientAddPhoto)
	patients("POST /patients/{id}/photos/{photoID}/delete", h.PatientDeletePhoto)
	patients("POST /patients/{id}/markers", h.PatientAddMarker)
	patients("POST /patients/{id}/markers/{markerID}/delete", h.PatientDeleteMarker)
	patients("POST /patients/{id}/anamnesis", h.PatientAddAnamnesis)
	patients("POST /patients/{id}/notes", h.PatientAddNote)
	patients("POST /patients/{id}/payments", h.PatientAddPayment)

	stock := view(nav.ViewStock)
	stock("GET /stock", h.Stock)
	stock("GET /stock/new", h.ProductNew)
	stock("POST /stock/new", h.ProductCreate)
	stock("GET /stock/{id}/edit", h.ProductEdit)
	stock("POST /stock/{id}/edit", h.ProductUpdate)
	stock("POST /stock/{id}/delete", h.ProductDelete)

	financial := view(nav.ViewFinancial)
	financial("GET /financial", h.Financial)
	financial("POST /financial/records", h.FinancialAddRecord)
	financial("POST /financial/records/{id}/delete", h.FinancialDeleteRecord)

	calendar := view(nav.ViewCalendar)
	calendar("GET /calendar", h.Calendar)
	calendar("POST /calendar/appointments", h.CalendarSchedule)
	calendar("POST /calendar/appointments/{id}/status", h.CalendarUpdateStatus)
	mux.Handle("POST /calendar/settings", sm.Gate(sm.RequireView(nav.ViewCalendar)(
		sm.RequirePermission(domainauth.PermissionSettings)(http.HandlerFunc(h.CalendarSettings)))))

	view(nav.ViewSkinAnalysis)("GET /skin-analysis", h.SkinAnalysis)

	admin := view(nav.ViewAdminUsers)
	admin("GET /admin/users", h.AdminUsers)
	admin("GET /admin/users/{id}", h.AdminUserEdit)
	admin("POST /admin/users/{id}", h.AdminUserUpdate)
}

// staticWithFallback serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(false, http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	staticSub, err := fs.Sub(qualityestetica.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		return staticWithCacheHeaders(false, http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(true, http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// staticWithCacheHeaders lets browsers cache embedded assets for a day. Disk assets are never cached.
func staticWithCacheHeaders(cacheable bool, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the app's 404 page for unmatched routes.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") {
		h.ui.NotFound(w, r)
		return
	}
	cw.flushTo(w, h.ui.logger())
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Error("failed to write captured response", "error", err)
	}
}

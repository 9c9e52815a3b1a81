package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/nav"
	"github.com/Killzin1000/quality-estetica2/internal/observability/metrics"
	"github.com/Killzin1000/quality-estetica2/internal/service"
	"github.com/Killzin1000/quality-estetica2/internal/session"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// Logging assigns every request a ULID request id and logs the request once it completes.
// An incoming X-Request-Id is kept when it is a valid ULID.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get(RequestIDHeader)
			if _, err := ulid.ParseStrict(id); err != nil {
				id = ulid.Make().String()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(SetRequestIDInContext(r.Context(), id))

			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", id),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionMiddleware resolves the browser session of each request and enforces the access gate.
type SessionMiddleware struct {
	Auth     *service.AuthService
	Registry *session.Registry
	UI       *UIHandlers
	Cookies  CookieConfig
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func (m *SessionMiddleware) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// LoadViewer attaches the request's Viewer to the context without gating.
// Invalid or expired tokens are cleared and the request proceeds anonymously.
func (m *SessionMiddleware) LoadViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ViewerFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		v := m.resolve(w, r)
		next.ServeHTTP(w, r.WithContext(SetViewerInContext(r.Context(), v)))
	})
}

func (m *SessionMiddleware) resolve(w http.ResponseWriter, r *http.Request) *Viewer {
	ctx := r.Context()
	token := sessionToken(r)
	if token == "" {
		return anonymousViewer()
	}
	claims, err := m.Auth.ResolveClaims(token)
	if err != nil {
		m.logger().DebugContext(ctx, "discarding session token", "error", err)
		m.Cookies.clearCookie(w, r, SessionCookieName)
		return anonymousViewer()
	}

	sid := claims.SessionID
	if m.Auth.DueForRefresh(claims) {
		res, refreshed, err := m.Auth.Refresh(ctx, sid)
		switch {
		case err != nil:
			m.logger().DebugContext(ctx, "session refresh skipped", "error", err)
		case refreshed:
			m.Cookies.setSessionCookie(w, r, res.Token, res.Session.ExpiresAt)
		}
	}

	store := m.Registry.Get(ctx, sid)
	return &Viewer{SessionID: sid, Store: store, Snapshot: store.Snapshot()}
}

func anonymousViewer() *Viewer {
	st := session.Anonymous()
	return &Viewer{Store: st, Snapshot: st.Snapshot()}
}

// Gate lets a request through only when the top-level gate routes to the views.
// Otherwise it renders the loading, pending or blocked screen, or redirects to sign-in.
func (m *SessionMiddleware) Gate(next http.Handler) http.Handler {
	return m.LoadViewer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := ViewerFromContext(r.Context())
		g := nav.Decide(v.Snapshot.GateState())
		m.Metrics.ObserveGate(g.String())

		switch g {
		case nav.GateRoute:
			next.ServeHTTP(w, r)
		case nav.GateSignIn:
			if v.SessionID != "" {
				m.Registry.Forget(v.SessionID)
				m.Cookies.clearCookie(w, r, SessionCookieName)
			}
			redirectToSignIn(w, r)
		default:
			m.UI.GateScreen(w, r, g)
		}
	}))
}

// RequireView renders the no-permission placeholder instead of the view when the
// viewer's profile does not grant it. The placeholder is a normal 200 page.
func (m *SessionMiddleware) RequireView(view nav.View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, _ := ViewerFromContext(r.Context())
			if v == nil || !nav.Allowed(view, v) {
				m.Metrics.ObserveAccessDenied(string(view))
				m.UI.Denied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission is RequireView for actions guarded by a permission rather than a view.
func (m *SessionMiddleware) RequirePermission(p domainauth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, _ := ViewerFromContext(r.Context())
			if !v.HasPermission(p) {
				m.Metrics.ObserveAccessDenied(string(p))
				m.UI.Denied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirectToSignIn sends the browser to the sign-in page, remembering where it was going.
func redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	target := "/auth/signin"
	if p := redirectPathForRequest(r); p != "/" {
		target += "?redirect_uri=" + url.QueryEscape(p)
	}
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
	}
	if r.Method != http.MethodGet {
		return "/"
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Host != "" && !u.IsAbs() {
		return ""
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// safeRedirectPath keeps redirects same-origin: a relative path starting with a single "/".
// Anything else becomes "/".
func safeRedirectPath(candidate string) string {
	if candidate == "" || strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}

package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/nav"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
	"github.com/Killzin1000/quality-estetica2/internal/service"
	"github.com/Killzin1000/quality-estetica2/internal/session"
)

const (
	msgInvalidCredentials = "Credenciais inválidas."
	msgTooManyAttempts    = "Muitas tentativas. Aguarde um instante."
	msgSSOFailed          = "Não foi possível concluir o login. Tente novamente."
	minPasswordLen        = 6
)

// AuthFlows defines the authentication operations the handlers drive.
type AuthFlows interface {
	PasswordEnabled() bool
	SSOEnabled() bool
	SignIn(ctx context.Context, email, password string) (*service.SignInResult, error)
	SignUp(ctx context.Context, in ports.SignUpInput) (*service.SignInResult, error)
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*service.SignInResult, error)
	SignOut(ctx context.Context, sessionID string) error
}

var _ AuthFlows = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for sign-in, sign-up, sign-out and SSO.
type AuthHandlers struct {
	Svc      AuthFlows
	Registry *session.Registry
	UI       *UIHandlers
	Cookies  CookieConfig
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SignInPage renders the sign-in form. Signed-in viewers with access go straight to the dashboard.
// GET /auth/signin?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	if h.alreadySignedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := h.authPageData(r, PageMeta{Title: "Entrar", PageTitle: "Entrar", CurrentPage: PageSignIn})
	data["RedirectURI"] = safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	h.UI.renderStandalone(w, r, http.StatusOK, data)
}

// SignIn verifies e-mail and password and starts a session.
// POST /auth/signin.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))
	keep := map[string]any{"Email": email, "RedirectURI": redirectURI}

	res, err := h.Svc.SignIn(r.Context(), email, password)
	if err != nil {
		opts := h.authErrorOpts(w, r, PageMeta{Title: "Entrar", PageTitle: "Entrar", CurrentPage: PageSignIn}, keep)
		if errors.Is(err, domainauth.ErrInvalidCredentials) {
			opts.StatusCode = http.StatusUnauthorized
			RenderError(h.withPlainMessage(opts, msgInvalidCredentials))
			return
		}
		h.logFailure(r, "sign in failed", err)
		opts.Err = err
		RenderError(opts)
		return
	}
	h.begin(w, r, res)
	Redirect(w, r, redirectURI)
}

// SignUpPage renders the registration form.
// GET /auth/signup.
func (h *AuthHandlers) SignUpPage(w http.ResponseWriter, r *http.Request) {
	if h.alreadySignedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := h.authPageData(r, PageMeta{Title: "Criar conta", PageTitle: "Criar conta", CurrentPage: PageSignUp})
	h.UI.renderStandalone(w, r, http.StatusOK, data)
}

// SignUp registers a new identity with a pending profile and signs it in.
// The gate then shows the waiting-for-approval screen.
// POST /auth/signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	in := ports.SignUpInput{
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	meta := PageMeta{Title: "Criar conta", PageTitle: "Criar conta", CurrentPage: PageSignUp}
	keep := map[string]any{"Email": in.Email, "FullName": in.FullName}

	fv := validation.New().
		Validate("full_name", in.FullName, validation.Required("Nome", 200)).
		Validate("email", in.Email, validation.Required("E-mail", 254), validation.Email("E-mail")).
		Validate("password", in.Password, validation.MinLength("Senha", minPasswordLen))
	if !fv.Valid() {
		opts := h.authErrorOpts(w, r, meta, keep)
		opts.FieldErrors = fv.Errors()
		RenderError(opts)
		return
	}

	res, err := h.Svc.SignUp(r.Context(), in)
	if err != nil {
		h.logFailure(r, "sign up failed", err)
		opts := h.authErrorOpts(w, r, meta, keep)
		opts.Err = err
		RenderError(opts)
		return
	}
	h.begin(w, r, res)
	Redirect(w, r, "/")
}

// SignOut ends the session and returns to the sign-in page.
// POST /auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if v, ok := ViewerFromContext(ctx); ok && v.SessionID != "" {
		var err error
		if st, live := h.Registry.Lookup(v.SessionID); live {
			err = st.SignOut(ctx)
		} else {
			err = h.Svc.SignOut(ctx, v.SessionID)
		}
		if err != nil {
			h.logger().WarnContext(ctx, "sign out failed", "error", err)
		}
		h.Registry.Forget(v.SessionID)
	}
	h.Cookies.clearCookie(w, r, SessionCookieName)
	Redirect(w, r, "/auth/signin")
}

// Refresh refetches the viewer's profile, for "Verificar Novamente" on the pending screen.
// POST /auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if v, ok := ViewerFromContext(r.Context()); ok && v.SessionID != "" {
		h.Registry.Get(r.Context(), v.SessionID).RefreshProfile(r.Context())
	}
	Redirect(w, r, "/")
}

// SSOLogin starts the identity provider redirect flow.
// GET /auth/sso/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logFailure(r, "sso begin failed", err)
		h.UI.renderErrorPage(w, r, DetermineErrorStatus(err), msgSSOFailed)
		return
	}
	h.Cookies.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback completes the flow: state must match the cookie set by SSOLogin.
// GET /auth/sso/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		h.UI.renderErrorPage(w, r, http.StatusBadRequest, msgSSOFailed)
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		h.UI.renderErrorPage(w, r, http.StatusBadRequest, msgSSOFailed)
		return
	}

	res, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logFailure(r, "sso callback failed", err)
		h.UI.renderErrorPage(w, r, http.StatusUnauthorized, msgSSOFailed)
		return
	}

	h.begin(w, r, res)
	h.Cookies.clearCookie(w, r, oauthStateCookie)
	h.Cookies.clearCookie(w, r, oauthNonceCookie)
	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

// TooManyAttempts re-renders the sign-in form when the rate limiter rejects a request.
func (h *AuthHandlers) TooManyAttempts(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Entrar", PageTitle: "Entrar", CurrentPage: PageSignIn}
	if strings.HasPrefix(r.URL.Path, "/auth/signup") {
		meta = PageMeta{Title: "Criar conta", PageTitle: "Criar conta", CurrentPage: PageSignUp}
	}
	opts := h.authErrorOpts(w, r, meta, map[string]any{"Email": strings.TrimSpace(r.PostFormValue("email"))})
	opts.StatusCode = http.StatusTooManyRequests
	w.Header().Set("Retry-After", "60")
	RenderError(h.withPlainMessage(opts, msgTooManyAttempts))
}

// begin sets the session cookie and warms the viewer's store.
func (h *AuthHandlers) begin(w http.ResponseWriter, r *http.Request, res *service.SignInResult) {
	h.Cookies.setSessionCookie(w, r, res.Token, res.Session.ExpiresAt)
	if h.Registry != nil {
		h.Registry.Get(r.Context(), res.Session.ID)
	}
}

func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	ck, err := r.Cookie(postLoginRedirectCookie)
	if err != nil {
		return "/"
	}
	h.Cookies.clearCookie(w, r, postLoginRedirectCookie)
	return safeRedirectPath(ck.Value)
}

func (h *AuthHandlers) alreadySignedIn(r *http.Request) bool {
	v, ok := ViewerFromContext(r.Context())
	return ok && nav.Decide(v.Snapshot.GateState()) == nav.GateRoute
}

func (h *AuthHandlers) authPageData(r *http.Request, meta PageMeta) map[string]any {
	data := basePageData(r, meta)
	data["PasswordEnabled"] = h.Svc.PasswordEnabled()
	data["SSOEnabled"] = h.Svc.SSOEnabled()
	return data
}

func (h *AuthHandlers) authErrorOpts(w http.ResponseWriter, r *http.Request, meta PageMeta, keep map[string]any) ErrorOpts {
	data := map[string]any{
		"PasswordEnabled": h.Svc.PasswordEnabled(),
		"SSOEnabled":      h.Svc.SSOEnabled(),
	}
	for k, v := range keep {
		data[k] = v
	}
	return ErrorOpts{
		W:        w,
		R:        r,
		PageMeta: meta,
		Data:     data,
		Renderer: func(w http.ResponseWriter, r *http.Request, data any) {
			if err := h.UI.T.Execute(w, "standalone-layout", data); err != nil {
				h.logger().ErrorContext(r.Context(), "auth page render failed", "error", err)
			}
		},
	}
}

// withPlainMessage shows msg as the general error without going through error mapping.
func (h *AuthHandlers) withPlainMessage(opts ErrorOpts, msg string) ErrorOpts {
	opts.Err = nil
	if opts.Data == nil {
		opts.Data = map[string]any{}
	}
	opts.Data["Error"] = true
	opts.Data["ErrorMessage"] = msg
	return opts
}

func (h *AuthHandlers) logFailure(r *http.Request, msg string, err error) {
	if DetermineErrorStatus(err) >= http.StatusInternalServerError {
		h.logger().ErrorContext(r.Context(), msg, "error", err)
		return
	}
	h.logger().InfoContext(r.Context(), msg, "error", err)
}

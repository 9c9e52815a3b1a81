package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

const (
	defaultSessionTTL    = 12 * time.Hour
	defaultRefreshWindow = time.Hour
)

// Auth event names reported to the AuthObserver.
const (
	AuthEventSignUp      = "sign_up"
	AuthEventSignIn      = "sign_in"
	AuthEventSignOut     = "sign_out"
	AuthEventRefresh     = "refresh"
	AuthEventSSOCallback = "sso_callback"
)

// AuthObserver receives the outcome of every authentication operation.
type AuthObserver interface {
	ObserveAuth(event string, err error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	// Credentials enables e-mail/password sign-up and sign-in.
	Credentials ports.CredentialAuthenticator
	// Provider enables the SSO flow; Roles and Profiles are required with it.
	Provider ports.AuthProvider
	Roles    ports.RoleMapper
	Profiles core.ProfileRepository

	Sessions ports.SessionStore
	Tokens   ports.TokenCodec
	// Events is optional; without it session changes are not broadcast.
	Events   ports.SessionEventBus
	Observer AuthObserver
	Logger   *slog.Logger

	SessionTTL    time.Duration
	RefreshWindow time.Duration
	Now           func() time.Time
}

// AuthService orchestrates authentication flows: credentials or SSO identity, profile
// provisioning, session persistence, browser tokens and session-change notifications.
type AuthService struct {
	credentials   ports.CredentialAuthenticator
	provider      ports.AuthProvider
	roles         ports.RoleMapper
	profiles      core.ProfileRepository
	sessions      ports.SessionStore
	tokens        ports.TokenCodec
	events        ports.SessionEventBus
	observer      AuthObserver
	logger        *slog.Logger
	sessionTTL    time.Duration
	refreshWindow time.Duration
	now           func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil || opts.Tokens == nil {
		panic("auth service requires a session store and a token codec")
	}
	s := &AuthService{
		credentials:   opts.Credentials,
		provider:      opts.Provider,
		roles:         opts.Roles,
		profiles:      opts.Profiles,
		sessions:      opts.Sessions,
		tokens:        opts.Tokens,
		events:        opts.Events,
		observer:      opts.Observer,
		logger:        opts.Logger,
		sessionTTL:    opts.SessionTTL,
		refreshWindow: opts.RefreshWindow,
		now:           opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "auth_service")
	if s.sessionTTL <= 0 {
		s.sessionTTL = defaultSessionTTL
	}
	if s.refreshWindow <= 0 {
		s.refreshWindow = defaultRefreshWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SignInResult is a started session together with the browser token wrapping it.
type SignInResult struct {
	Session domainauth.Session
	Token   string
}

// PasswordEnabled reports whether e-mail/password authentication is configured.
func (s *AuthService) PasswordEnabled() bool { return s.credentials != nil }

// SSOEnabled reports whether the redirect-based SSO flow is configured.
func (s *AuthService) SSOEnabled() bool { return s.provider != nil }

// SignUp registers credentials with a pending profile and signs the new identity in.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (res *SignInResult, err error) {
	defer func() { s.observe(AuthEventSignUp, err) }()
	if s.credentials == nil {
		return nil, apperrors.Forbidden("Cadastro por e-mail desativado.")
	}
	id, err := s.credentials.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "identity registered", "user_id", id.UserID)
	return s.startSession(ctx, id)
}

// SignIn verifies credentials and starts a session.
// Wrong e-mail or password yields domainauth.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (res *SignInResult, err error) {
	defer func() { s.observe(AuthEventSignIn, err) }()
	if s.credentials == nil {
		return nil, apperrors.Forbidden("Login por e-mail desativado.")
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domainauth.ErrInvalidCredentials
	}
	id, err := s.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, id)
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an SSO flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, apperrors.Forbidden("Login SSO desativado.")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the code for an identity, provisions its profile on first
// login and starts a session. Existing profiles keep their stored access.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (res *SignInResult, err error) {
	defer func() { s.observe(AuthEventSSOCallback, err) }()
	if s.provider == nil {
		return nil, apperrors.Forbidden("Login SSO desativado.")
	}
	switch {
	case in.Code == "":
		return nil, errors.New("authorization code is required")
	case in.State == "":
		return nil, errors.New("state parameter is required")
	case in.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	id, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code, State: in.State, Nonce: in.Nonce})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := s.provision(ctx, id); err != nil {
		return nil, err
	}
	return s.startSession(ctx, id)
}

func (s *AuthService) provision(ctx context.Context, id domainauth.Identity) error {
	if s.profiles == nil || s.roles == nil {
		return nil
	}
	p := domainauth.NewPendingProfile(id, s.now().UTC())
	p.Role, p.Status = s.roles.Map(id.Groups)
	if _, err := s.profiles.Create(ctx, p); err != nil {
		return fmt.Errorf("provision profile: %w", err)
	}
	return nil
}

// GetSession returns the live session for sessionID. Unknown ids yield domainauth.ErrNoSession;
// expired sessions are deleted and yield domainauth.ErrSessionExpired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, domainauth.ErrNoSession
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domainauth.ErrNoSession) || errors.Is(err, domainauth.ErrSessionExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			return nil, errors.Join(domainauth.ErrSessionExpired, fmt.Errorf("delete session: %w", delErr))
		}
		return nil, domainauth.ErrSessionExpired
	}
	return &sess, nil
}

// ResolveToken verifies a browser token and returns the session id it carries.
func (s *AuthService) ResolveToken(token string) (string, error) {
	claims, err := s.ResolveClaims(token)
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

// ResolveClaims verifies a browser token and returns its claims.
func (s *AuthService) ResolveClaims(token string) (ports.TokenClaims, error) {
	if token == "" {
		return ports.TokenClaims{}, domainauth.ErrNoSession
	}
	return s.tokens.Parse(token)
}

// DueForRefresh reports whether a token with claims expires inside the refresh window.
func (s *AuthService) DueForRefresh(claims ports.TokenClaims) bool {
	if claims.ExpiresAt == 0 {
		return false
	}
	return time.Unix(claims.ExpiresAt, 0).Sub(s.now()) <= s.refreshWindow
}

// SessionTTL is the lifetime of newly started sessions.
func (s *AuthService) SessionTTL() time.Duration { return s.sessionTTL }

// SignOut deletes the session and broadcasts signed_out. Unknown sessions are not an error.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) (err error) {
	defer func() { s.observe(AuthEventSignOut, err) }()
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.publish(ctx, domainauth.SessionEvent{Kind: domainauth.EventSignedOut, SessionID: sessionID})
	return nil
}

// Refresh extends a session whose expiry falls inside the refresh window and re-issues its
// token, broadcasting token_refreshed. refreshed is false when nothing needed to change.
func (s *AuthService) Refresh(ctx context.Context, sessionID string) (res *SignInResult, refreshed bool, err error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	if sess.ExpiresAt.Sub(now) > s.refreshWindow {
		return &SignInResult{Session: *sess}, false, nil
	}
	defer func() { s.observe(AuthEventRefresh, err) }()

	sess.ExpiresAt = now.Add(s.sessionTTL).UTC()
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, false, fmt.Errorf("save session: %w", err)
	}
	token, err := s.tokens.Issue(*sess)
	if err != nil {
		return nil, false, fmt.Errorf("issue token: %w", err)
	}
	id := sess.Identity()
	s.publish(ctx, domainauth.SessionEvent{
		Kind: domainauth.EventTokenRefreshed, SessionID: sess.ID, UserID: sess.UserID, Identity: &id,
	})
	return &SignInResult{Session: *sess, Token: token}, true, nil
}

func (s *AuthService) startSession(ctx context.Context, id domainauth.Identity) (*SignInResult, error) {
	now := s.now().UTC()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		Email:     id.Email,
		FullName:  id.FullName,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	sid := sess.Identity()
	s.publish(ctx, domainauth.SessionEvent{
		Kind: domainauth.EventSignedIn, SessionID: sess.ID, UserID: sess.UserID, Identity: &sid,
	})
	s.logger.InfoContext(ctx, "session started", "user_id", sess.UserID, "expires_at", sess.ExpiresAt)
	return &SignInResult{Session: sess, Token: token}, nil
}

// publish broadcasts ev. Delivery failures are logged; the caller's operation already succeeded.
func (s *AuthService) publish(ctx context.Context, ev domainauth.SessionEvent) {
	if s.events == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = s.now().UTC()
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "publish session event", "kind", ev.Kind, "error", err)
	}
}

func (s *AuthService) observe(event string, err error) {
	if s.observer != nil {
		s.observer.ObserveAuth(event, err)
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword uses e-mail and password accounts stored in PostgreSQL.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// minTokenSecretLen matches the HS256 key size.
const minTokenSecretLen = 32

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DefaultDevUserID is the profile id of the mock identity when DEV_AUTH_USER_ID is unset.
const DefaultDevUserID = "00000000-0000-4000-8000-00000000de00"

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing. UserID must be a uuid.
type DevAuthConfig struct {
	UserID   string   `env:"USER_ID"   envDefault:"00000000-0000-4000-8000-00000000de00"`
	Email    string   `env:"EMAIL"     envDefault:"dev@qualityestetica.local"`
	FullName string   `env:"FULL_NAME" envDefault:"Dev Admin"`
	Groups   []string `env:"GROUPS"    envDefault:"admins"                    envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup and UserGroup map SSO groups to roles. Unused in password mode.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"admins"`
	UserGroup  string `env:"USER_GROUP"  envDefault:"users"`

	// SessionTTL bounds a signed-in session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	// SessionIdleEvict drops a live store nobody has touched for this long.
	SessionIdleEvict time.Duration `env:"SESSION_IDLE_EVICT" envDefault:"30m"`
	// ProfileFetchTimeout bounds one profile load of a live store.
	ProfileFetchTimeout time.Duration `env:"PROFILE_FETCH_TIMEOUT" envDefault:"5s"`

	// TokenSecret signs the session cookie. Required outside dev mode.
	TokenSecret string `env:"TOKEN_SECRET"`
	// TokenRefreshWindow re-issues cookies that expire within this window.
	TokenRefreshWindow time.Duration `env:"TOKEN_REFRESH_WINDOW" envDefault:"1h"`

	// BcryptCost is the password hashing cost.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// SignInRate is the sustained sign-in attempts per minute per client IP.
	SignInRate  int `env:"SIGNIN_RATE"  envDefault:"10"`
	SignInBurst int `env:"SIGNIN_BURST" envDefault:"5"`
}

// Sanitize normalises auth values and falls back to defaults for unusable ones.
func (c *AuthConfig) Sanitize() {
	c.TokenSecret = strings.TrimSpace(c.TokenSecret)
	c.AdminGroup = strings.TrimSpace(c.AdminGroup)
	c.UserGroup = strings.TrimSpace(c.UserGroup)
	c.OAuth.DiscoveryURL = strings.TrimSpace(c.OAuth.DiscoveryURL)

	if c.Mode == "" {
		c.Mode = AuthModePassword
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 12 * time.Hour
	}
	if c.SessionIdleEvict <= 0 {
		c.SessionIdleEvict = 30 * time.Minute
	}
	if c.ProfileFetchTimeout <= 0 {
		c.ProfileFetchTimeout = 5 * time.Second
	}
	if c.TokenRefreshWindow < 0 {
		c.TokenRefreshWindow = 0
	}
	if c.TokenRefreshWindow >= c.SessionTTL {
		c.TokenRefreshWindow = c.SessionTTL / 2
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		c.BcryptCost = 12
	}
	if c.SignInRate <= 0 {
		c.SignInRate = 10
	}
	if c.SignInBurst <= 0 {
		c.SignInBurst = 5
	}
}

// Validate checks mode-specific requirements. Dev mode tolerates a missing token secret.
func (c *AuthConfig) Validate(isDev bool) error {
	var errs []error
	if len(c.TokenSecret) < minTokenSecretLen && !isDev {
		errs = append(errs, fmt.Errorf("TOKEN_SECRET must be at least %d bytes", minTokenSecretLen))
	}
	switch c.Mode {
	case AuthModeOAuth:
		if c.OAuth.DiscoveryURL == "" || c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
			errs = append(errs, errors.New("AUTH_MODE=oauth requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET"))
		}
	case AuthModeMock:
		if !isDev {
			errs = append(errs, errors.New("AUTH_MODE=mock is only allowed with DEV=true"))
		}
		if _, err := uuid.Parse(c.DevAuth.UserID); err != nil {
			errs = append(errs, fmt.Errorf("DEV_AUTH_USER_ID must be a uuid: %w", err))
		}
	}
	return errors.Join(errs...)
}

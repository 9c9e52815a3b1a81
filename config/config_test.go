package config

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModePassword {
		t.Errorf("expected password auth by default, got %q", cfg.Auth.Mode)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Clinic.LowStockThreshold != 5 {
		t.Errorf("expected low stock threshold 5, got %d", cfg.Clinic.LowStockThreshold)
	}
	if cfg.Clinic.ExpiryWindow() != 30*24*time.Hour {
		t.Errorf("expected 30 day expiry window, got %v", cfg.Clinic.ExpiryWindow())
	}
	if cfg.Clinic.Timezone != "America/Sao_Paulo" {
		t.Errorf("expected America/Sao_Paulo, got %q", cfg.Clinic.Timezone)
	}
	if cfg.Redis.EventsChannel == "" {
		t.Error("expected a default events channel")
	}
	if cfg.Auth.DevAuth.UserID != DefaultDevUserID {
		t.Errorf("expected default dev user id %q, got %q", DefaultDevUserID, cfg.Auth.DevAuth.UserID)
	}
}

func TestAppConfig_DefaultMockModeValidates(t *testing.T) {
	t.Setenv("AUTH_MODE", "mock")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if err := cfg.Auth.Validate(true); err != nil {
		t.Fatalf("default mock configuration should validate: %v", err)
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("ADMIN_GROUP", "cn=admins,ou=groups,dc=example,dc=org")
	t.Setenv("USER_GROUP", "cn=users,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://clinica.example.com/auth/sso/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_USER_ID", "7f1c2a8e-4b1d-4c55-9a0e-3f6d2b8c9e10")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_FULL_NAME", "Dev User")
	t.Setenv("DEV_AUTH_GROUPS", "admins;devs")
	t.Setenv("SESSION_TTL", "8h")
	t.Setenv("SESSION_IDLE_EVICT", "10m")
	t.Setenv("PROFILE_FETCH_TIMEOUT", "2s")
	t.Setenv("TOKEN_SECRET", strings.Repeat("k", 32))
	t.Setenv("TOKEN_REFRESH_WINDOW", "30m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SIGNIN_RATE", "20")
	t.Setenv("SIGNIN_BURST", "3")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://clinica.example.com/auth/sso/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			UserID:   "7f1c2a8e-4b1d-4c55-9a0e-3f6d2b8c9e10",
			Email:    "dev@example.com",
			FullName: "Dev User",
			Groups:   []string{"admins", "devs"},
		},
		AdminGroup:          "cn=admins,ou=groups,dc=example,dc=org",
		UserGroup:           "cn=users,ou=groups,dc=example,dc=org",
		SessionTTL:          8 * time.Hour,
		SessionIdleEvict:    10 * time.Minute,
		ProfileFetchTimeout: 2 * time.Second,
		TokenSecret:         strings.Repeat("k", 32),
		TokenRefreshWindow:  30 * time.Minute,
		BcryptCost:          10,
		SignInRate:          20,
		SignInBurst:         3,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    AuthMode
		wantErr bool
	}{
		{input: "password", want: AuthModePassword},
		{input: "OAuth", want: AuthModeOAuth},
		{input: " mock ", want: AuthModeMock},
		{input: "firebase", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got AuthMode
			err := got.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		SessionTTL:         2 * time.Hour,
		TokenRefreshWindow: 3 * time.Hour,
		BcryptCost:         99,
		SignInRate:         -1,
		TokenSecret:        "  secret  ",
	}

	cfg.Sanitize()

	if cfg.Mode != AuthModePassword {
		t.Errorf("expected empty mode to default to password, got %q", cfg.Mode)
	}
	if cfg.TokenRefreshWindow != time.Hour {
		t.Errorf("expected refresh window clamped to half the ttl, got %v", cfg.TokenRefreshWindow)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost reset to 12, got %d", cfg.BcryptCost)
	}
	if cfg.SignInRate != 10 || cfg.SignInBurst != 5 {
		t.Errorf("expected rate defaults, got %d/%d", cfg.SignInRate, cfg.SignInBurst)
	}
	if cfg.SessionIdleEvict != 30*time.Minute {
		t.Errorf("expected idle eviction default, got %v", cfg.SessionIdleEvict)
	}
	if cfg.TokenSecret != "secret" {
		t.Errorf("expected trimmed secret, got %q", cfg.TokenSecret)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	secret := strings.Repeat("s", 32)
	tests := []struct {
		name    string
		cfg     AuthConfig
		isDev   bool
		wantErr string
	}{
		{
			name: "password mode with secret",
			cfg:  AuthConfig{Mode: AuthModePassword, TokenSecret: secret},
		},
		{
			name:    "short secret in production",
			cfg:     AuthConfig{Mode: AuthModePassword, TokenSecret: "short"},
			wantErr: "TOKEN_SECRET",
		},
		{
			name:  "short secret tolerated in dev",
			cfg:   AuthConfig{Mode: AuthModePassword},
			isDev: true,
		},
		{
			name:    "oauth without discovery",
			cfg:     AuthConfig{Mode: AuthModeOAuth, TokenSecret: secret, OAuth: OAuthConfig{ClientID: "id", ClientSecret: "s"}},
			wantErr: "OAUTH_DISCOVERY_URL",
		},
		{
			name:    "mock outside dev",
			cfg:     AuthConfig{Mode: AuthModeMock, TokenSecret: secret, DevAuth: DevAuthConfig{UserID: DefaultDevUserID}},
			wantErr: "DEV=true",
		},
		{
			name:  "mock in dev",
			cfg:   AuthConfig{Mode: AuthModeMock, DevAuth: DevAuthConfig{UserID: DefaultDevUserID}},
			isDev: true,
		},
		{
			name:    "mock with non-uuid user id",
			cfg:     AuthConfig{Mode: AuthModeMock, DevAuth: DevAuthConfig{UserID: "dev-user"}},
			isDev:   true,
			wantErr: "DEV_AUTH_USER_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.isDev)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHTTPConfig_Validate(t *testing.T) {
	tests := []struct {
		domain  string
		wantErr bool
	}{
		{domain: ""},
		{domain: "localhost"},
		{domain: ".clinica.com.br"},
		{domain: "app.clinica.com.br"},
		{domain: "com.br", wantErr: true},
		{domain: "com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			cfg := HTTPConfig{CookieDomain: tt.domain}
			cfg.Sanitize()
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected %q to be rejected", tt.domain)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.domain, err)
			}
		})
	}
}

func TestHTTPConfig_SanitizeStripsLeadingDot(t *testing.T) {
	cfg := HTTPConfig{CookieDomain: " .Clinica.com.br ", Addr: " "}
	cfg.Sanitize()
	if cfg.CookieDomain != "clinica.com.br" {
		t.Errorf("expected normalised domain, got %q", cfg.CookieDomain)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
}

func TestClinicConfig_SanitizeAndValidate(t *testing.T) {
	cfg := ClinicConfig{LowStockThreshold: 0, ExpiryWindowDays: -3, Timezone: " "}
	cfg.Sanitize()

	if cfg.LowStockThreshold != 5 || cfg.ExpiryWindowDays != 30 {
		t.Errorf("expected defaults, got %d/%d", cfg.LowStockThreshold, cfg.ExpiryWindowDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Location().String() != "America/Sao_Paulo" {
		t.Errorf("expected clinic location, got %s", cfg.Location())
	}

	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown timezone to be rejected")
	}
	if cfg.Location() != time.UTC {
		t.Errorf("expected UTC fallback, got %s", cfg.Location())
	}
}

func TestClinicConfig_ParseAnamnesisSummary(t *testing.T) {
	t.Setenv("ANAMNESIS_SUMMARY", "Alergias=allergies;Pele=skin_type")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := []string{"Alergias=allergies", "Pele=skin_type"}
	if !reflect.DeepEqual(cfg.Clinic.AnamnesisSummary, want) {
		t.Errorf("expected %v, got %v", want, cfg.Clinic.AnamnesisSummary)
	}
}

func TestDBConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name     string
		in       DBConfig
		wantOpen int
		wantIdle int
	}{
		{name: "defaults kept", in: DBConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnectTimeout: time.Second}, wantOpen: 10, wantIdle: 5},
		{name: "zero open conns", in: DBConfig{MaxIdleConns: 2}, wantOpen: 10, wantIdle: 2},
		{name: "idle above open", in: DBConfig{MaxOpenConns: 3, MaxIdleConns: 8}, wantOpen: 3, wantIdle: 3},
		{name: "negative idle", in: DBConfig{MaxOpenConns: 4, MaxIdleConns: -1}, wantOpen: 4, wantIdle: 0},
	}
	for _, tt := range tests {
		cfg := tt.in
		cfg.Sanitize()
		if cfg.MaxOpenConns != tt.wantOpen || cfg.MaxIdleConns != tt.wantIdle {
			t.Errorf("%s: got open=%d idle=%d, want open=%d idle=%d",
				tt.name, cfg.MaxOpenConns, cfg.MaxIdleConns, tt.wantOpen, tt.wantIdle)
		}
		if cfg.ConnectTimeout <= 0 {
			t.Errorf("%s: expected a positive connect timeout", tt.name)
		}
	}
}

func TestRedisConfig_Sanitize(t *testing.T) {
	cfg := RedisConfig{URI: " redis:6379 ", EventsChannel: " ", ProfileCacheTTL: 0, DB: -1}
	cfg.Sanitize()

	if cfg.URI != "redis:6379" {
		t.Errorf("expected trimmed uri, got %q", cfg.URI)
	}
	if cfg.EventsChannel != "quality:session-events" {
		t.Errorf("expected default channel, got %q", cfg.EventsChannel)
	}
	if cfg.ProfileCacheTTL != 5*time.Minute {
		t.Errorf("expected default cache ttl, got %v", cfg.ProfileCacheTTL)
	}
	if cfg.DB != 0 {
		t.Errorf("expected db 0, got %d", cfg.DB)
	}
}

func TestObservabilityConfig_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := ObservabilityConfig{LogLevel: tt.in}
			cfg.Sanitize()
			if got := cfg.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppConfig_DetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatal("expected NODE_ENV=development to enable dev mode")
	}
}

package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Killzin1000/quality-estetica2/config"
	"github.com/Killzin1000/quality-estetica2/internal/adapters/authroles"
	"github.com/Killzin1000/quality-estetica2/internal/adapters/devauth"
	"github.com/Killzin1000/quality-estetica2/internal/adapters/oidc"
	"github.com/Killzin1000/quality-estetica2/internal/adapters/passwordauth"
	redisadapter "github.com/Killzin1000/quality-estetica2/internal/adapters/redis"
	"github.com/Killzin1000/quality-estetica2/internal/adapters/tokens"
	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
	"github.com/Killzin1000/quality-estetica2/internal/service"
)

// devTokenSecret signs cookies in dev mode when TOKEN_SECRET is unset.
const devTokenSecret = "quality-estetica-dev-only-token-secret"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	IsDev       bool
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Profiles    core.ProfileRepository
	Events      ports.SessionEventBus
	Observer    service.AuthObserver
	Logger      *slog.Logger
	Now         func() time.Time
}

// BuildAuthService creates an auth service based on the configured auth mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secret := cfg.Auth.TokenSecret
	if secret == "" && cfg.IsDev {
		logger.Warn("TOKEN_SECRET not set; using the development secret")
		secret = devTokenSecret
	}
	codec, err := tokens.NewCodec(secret, tokens.WithIssuer("quality-estetica"))
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	opts := service.AuthServiceOptions{
		Profiles:      cfg.Profiles,
		Sessions:      redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"),
		Tokens:        codec,
		Events:        cfg.Events,
		Observer:      cfg.Observer,
		Logger:        logger,
		SessionTTL:    cfg.Auth.SessionTTL,
		RefreshWindow: cfg.Auth.TokenRefreshWindow,
		Now:           cfg.Now,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		err = withDevProvider(&opts, cfg)
	case config.AuthModeOAuth:
		err = withOAuthProvider(&opts, cfg)
	default:
		err = withPasswordAuth(&opts, cfg)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("auth configured", "mode", cfg.Auth.Mode)
	return service.NewAuthService(opts), nil
}

func withPasswordAuth(opts *service.AuthServiceOptions, cfg AuthConfig) error {
	if cfg.DB == nil {
		return errors.New("password auth requires a database")
	}
	authn, err := passwordauth.New(cfg.DB, passwordauth.Options{Cost: cfg.Auth.BcryptCost, Now: cfg.Now})
	if err != nil {
		return fmt.Errorf("password authenticator: %w", err)
	}
	opts.Credentials = authn
	return nil
}

func roleMapper(auth config.AuthConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		AdminGroup: auth.AdminGroup,
		StaffGroup: auth.UserGroup,
	}
}

func withDevProvider(opts *service.AuthServiceOptions, cfg AuthConfig) error {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.Auth.DevAuth.UserID,
		Email:           cfg.Auth.DevAuth.Email,
		FullName:        cfg.Auth.DevAuth.FullName,
		Groups:          cfg.Auth.DevAuth.Groups,
		SessionDuration: cfg.Auth.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("dev auth provider: %w", err)
	}
	opts.Provider = prov
	opts.Roles = roleMapper(cfg.Auth)
	return nil
}

func withOAuthProvider(opts *service.AuthServiceOptions, cfg AuthConfig) error {
	oauth := cfg.Auth.OAuth
	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		return fmt.Errorf("oidc provider: %w", err)
	}
	opts.Provider = prov
	opts.Roles = roleMapper(cfg.Auth)
	return nil
}

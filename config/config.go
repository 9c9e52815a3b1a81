package config

import (
	"errors"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication, session and token configuration
//   - database.go: PostgreSQL and Redis configuration
//   - http.go: HTTP server and cookie configuration
//   - clinic.go: Stock alerts, timezone and anamnesis summary
//   - observability.go: Logging and metrics
type AppConfig struct {
	// IsDev controls development mode behavior (template hot reloading, disk assets).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Clinic ClinicConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Postgres.Sanitize()
	c.Auth.Sanitize()
	c.Redis.Sanitize()
	c.Clinic.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports settings the server cannot start with. Call it after Sanitize.
func (c *AppConfig) Validate() error {
	return errors.Join(
		c.HTTP.Validate(),
		c.Auth.Validate(c.IsDev),
		c.Clinic.Validate(),
	)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

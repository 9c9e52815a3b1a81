package config

import (
	"fmt"
	"strings"
	"time"
)

// ClinicConfig holds business settings of the clinic.
type ClinicConfig struct {
	// LowStockThreshold flags products whose quantity is below this value.
	LowStockThreshold int `env:"LOW_STOCK_THRESHOLD" envDefault:"5"`
	// ExpiryWindowDays flags products expiring within this many days.
	ExpiryWindowDays int `env:"EXPIRY_WINDOW_DAYS" envDefault:"30"`
	// Timezone is the IANA zone used for dates, weeks and "today".
	Timezone string `env:"CLINIC_TIMEZONE" envDefault:"America/Sao_Paulo"`
	// AnamnesisSummary lists "Label=jmespath" entries shown on the patient profile.
	// Empty uses the built-in anamnesis form fields.
	AnamnesisSummary []string `env:"ANAMNESIS_SUMMARY" envSeparator:";"`
}

// Sanitize falls back to defaults for non-positive thresholds.
func (c *ClinicConfig) Sanitize() {
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = 5
	}
	if c.ExpiryWindowDays <= 0 {
		c.ExpiryWindowDays = 30
	}
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = "America/Sao_Paulo"
	}
}

// Validate checks that the timezone is known.
func (c *ClinicConfig) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("CLINIC_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// ExpiryWindow returns the expiry alert window as a duration.
func (c ClinicConfig) ExpiryWindow() time.Duration {
	return time.Duration(c.ExpiryWindowDays) * 24 * time.Hour
}

// Location loads the clinic timezone, falling back to UTC.
func (c ClinicConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

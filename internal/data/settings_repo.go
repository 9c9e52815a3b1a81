package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// SettingsRepo stores clinic-wide key/value settings.
type SettingsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{DB: db, timeProvider: RealTimeProvider{}}
}

var _ core.SettingsRepository = (*SettingsRepo)(nil)

// Get returns the value of key, or "" when unset.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM clinic_settings WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, apperrors.MapDBError(err))
	}
	return v, nil
}

// Set upserts key.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO clinic_settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, r.timeProvider.Now())
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, apperrors.MapDBError(err))
	}
	return nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const profileColumns = `id, email, full_name, role, permissions, status, created_at`

// ProfileRepo provides database operations for authorization profiles.
type ProfileRepo struct {
	DB *sql.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

var _ core.ProfileRepository = (*ProfileRepo)(nil)

func scanProfile(row rowScanner) (domainauth.Profile, error) {
	var (
		p           domainauth.Profile
		role        string
		status      string
		permissions []string
		fullName    sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Email, &fullName, &role, textArray(&permissions), &status, &p.CreatedAt); err != nil {
		return domainauth.Profile{}, err
	}
	p.FullName = fullName.String
	p.Role = domainauth.Role(role)
	p.Status = domainauth.Status(status)
	// Tags no longer known are ignored rather than failing the whole profile.
	valid := make([]domainauth.Permission, 0, len(permissions))
	for _, raw := range permissions {
		valid = append(valid, domainauth.Permission(strings.TrimSpace(raw)))
	}
	p.Permissions = domainauth.NewPermissionSet(valid...)
	return p, nil
}

func profileNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.Wrap(domainauth.ErrProfileNotFound, apperrors.ErrCodeNotFound, "Usuário não encontrado.")
	}
	return apperrors.MapDBError(err)
}

// GetByID returns the profile with id. A missing profile matches domainauth.ErrProfileNotFound.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*domainauth.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return nil, profileNotFound(err)
	}
	return &p, nil
}

// GetByEmail returns the profile with the given e-mail (case-insensitive).
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domainauth.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if err != nil {
		return nil, profileNotFound(err)
	}
	return &p, nil
}

// List returns every profile, newest first.
func (r *ProfileRepo) List(ctx context.Context) ([]domainauth.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", apperrors.MapDBError(err))
	}
	out, err := collectRows(rows, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	return out, nil
}

// Create inserts p. When a profile with the same id exists it is returned unchanged.
func (r *ProfileRepo) Create(ctx context.Context, p domainauth.Profile) (*domainauth.Profile, error) {
	if !p.Role.Valid() || !p.Status.Valid() {
		return nil, apperrors.Validation("Perfil inválido.")
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, role, permissions, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Email, nullable(p.FullName), string(p.Role), p.Permissions.Strings(), string(p.Status), p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", apperrors.MapDBError(err))
	}
	return r.GetByID(ctx, p.ID)
}

// UpdateAccess replaces role, status and permissions. Admin profiles store no permissions.
func (r *ProfileRepo) UpdateAccess(ctx context.Context, id string, upd domainauth.AccessUpdate) (*domainauth.Profile, error) {
	if !upd.Role.Valid() || !upd.Status.Valid() {
		return nil, apperrors.Validation("Papel ou status inválido.")
	}
	perms := upd.Permissions.Strings()
	if upd.Role == domainauth.RoleAdmin {
		perms = []string{}
	}
	p, err := scanProfile(r.DB.QueryRowContext(ctx, `
		UPDATE profiles SET role = $2, status = $3, permissions = $4
		WHERE id = $1
		RETURNING `+profileColumns,
		id, string(upd.Role), string(upd.Status), perms))
	if err != nil {
		return nil, profileNotFound(err)
	}
	return &p, nil
}

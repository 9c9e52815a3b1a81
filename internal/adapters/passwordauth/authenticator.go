// Package passwordauth verifies e-mail/password credentials stored in Postgres.
package passwordauth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Killzin1000/quality-estetica2/internal/data/pgxutil"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

const maxPasswordBytes = 72 // bcrypt input limit

// Authenticator implements ports.CredentialAuthenticator on the auth_users table.
type Authenticator struct {
	db   *sql.DB
	cost int
	now  func() time.Time

	// dummyHash keeps the unknown-email path as slow as a real comparison.
	dummyHash []byte
}

// Options configures an Authenticator.
type Options struct {
	// Cost is the bcrypt cost; zero uses bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
}

// New creates an Authenticator.
func New(db *sql.DB, opts Options) (*Authenticator, error) {
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Authenticator{db: db, cost: cost, now: now, dummyHash: dummy}, nil
}

var _ ports.CredentialAuthenticator = (*Authenticator)(nil)

const (
	insertAuthUserSQL = `INSERT INTO auth_users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	insertProfileSQL  = `INSERT INTO profiles (id, email, full_name, role, permissions, status, created_at)
		VALUES ($1, $2, $3, $4, '{}', $5, $6)`
	selectCredentialSQL = `SELECT a.id, a.email, a.password_hash, COALESCE(p.full_name, '')
		FROM auth_users a LEFT JOIN profiles p ON p.id = a.id
		WHERE a.email = $1`
	updatePasswordSQL = `UPDATE auth_users SET password_hash = $2 WHERE id = $1`
)

// Register creates the credentials and the pending collaborator profile in one transaction.
func (a *Authenticator) Register(ctx context.Context, in ports.SignUpInput) (domainauth.Identity, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return domainauth.Identity{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	id := domainauth.Identity{
		UserID:   uuid.NewString(),
		Email:    email,
		FullName: strings.TrimSpace(in.FullName),
	}
	profile := domainauth.NewPendingProfile(id, a.now().UTC())

	err = pgxutil.WithSQLTx(ctx, a.db, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertAuthUserSQL, id.UserID, email, string(hash), profile.CreatedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertProfileSQL,
			profile.ID, profile.Email, profile.FullName, string(profile.Role), string(profile.Status), profile.CreatedAt)
		return err
	}})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return domainauth.Identity{}, apperrors.ValidationField("email", "Este e-mail já está cadastrado.")
		}
		return domainauth.Identity{}, fmt.Errorf("register %s: %w", email, mapped)
	}
	return id, nil
}

// Authenticate returns the identity for valid credentials and domainauth.ErrInvalidCredentials otherwise.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (domainauth.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		id   domainauth.Identity
		hash string
	)
	err := a.db.QueryRowContext(ctx, selectCredentialSQL, email).Scan(&id.UserID, &id.Email, &hash, &id.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("lookup credentials: %w", apperrors.MapDBError(err))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}
	return id, nil
}

// SetPassword replaces the password of an existing user.
func (a *Authenticator) SetPassword(ctx context.Context, userID, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := a.db.ExecContext(ctx, updatePasswordSQL, userID, string(hash))
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("Usuário não encontrado.")
	}
	return nil
}

// NormalizeEmail lowercases and validates an address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", apperrors.ValidationField("email", "Informe um e-mail válido.")
	}
	return email, nil
}

// ValidatePassword enforces the length bounds.
func ValidatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordLen {
		return apperrors.ValidationField("password", "A senha deve ter pelo menos 6 caracteres.")
	}
	if len(pw) > maxPasswordBytes {
		return apperrors.ValidationField("password", "A senha é longa demais.")
	}
	return nil
}

package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const (
	patientColumns     = `id, name, age, phone, photo_url, created_at`
	defaultPatientPage = 100
	maxPatientPage     = 500
	msgPatientNotFound = "Paciente não encontrado."
)

// PatientRepo provides database operations for patients.
type PatientRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPatientRepo creates a new PatientRepo with the real clock.
func NewPatientRepo(db *sql.DB) *PatientRepo {
	return &PatientRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewPatientRepoWithTimeProvider creates a PatientRepo with a custom clock (useful for tests).
func NewPatientRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PatientRepo {
	return &PatientRepo{DB: db, timeProvider: tp}
}

var _ core.PatientRepository = (*PatientRepo)(nil)

func scanPatient(row rowScanner) (model.Patient, error) {
	var (
		p            model.Patient
		age          sql.NullInt32
		phone, photo sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &age, &phone, &photo, &p.CreatedAt); err != nil {
		return model.Patient{}, err
	}
	if age.Valid {
		a := int(age.Int32)
		p.Age = &a
	}
	p.Phone, p.PhotoURL = phone.String, photo.String
	return p, nil
}

// Create inserts a new patient.
func (r *PatientRepo) Create(ctx context.Context, in model.PatientInput) (*model.Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := scanPatient(r.DB.QueryRowContext(ctx, `
		INSERT INTO patients (name, age, phone, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+patientColumns,
		in.Name, in.Age, nullable(in.Phone), nullable(in.PhotoURL), r.timeProvider.Now()))
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", apperrors.MapDBError(err))
	}
	return &p, nil
}

// GetByID retrieves a patient by ID.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	p, err := scanPatient(r.DB.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		return nil, mapNotFound(err, msgPatientNotFound)
	}
	return &p, nil
}

// List returns patients ordered by name, optionally filtered by a case-insensitive name substring.
func (r *PatientRepo) List(ctx context.Context, opts model.PatientListOptions) ([]model.Patient, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPatientPage
	}
	limit = min(limit, maxPatientPage)
	offset := max(opts.Offset, 0)

	var w whereBuilder
	if q := strings.TrimSpace(opts.Q); q != "" {
		w.add("name ILIKE ?", "%"+escapeLike(q)+"%")
	}
	query := `SELECT ` + patientColumns + ` FROM patients` + w.clause() +
		` ORDER BY name ASC, created_at DESC LIMIT ` + w.placeholder(limit) + ` OFFSET ` + w.placeholder(offset)

	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanPatient)
}

// Update replaces the editable fields of a patient.
func (r *PatientRepo) Update(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := scanPatient(r.DB.QueryRowContext(ctx, `
		UPDATE patients SET name = $2, age = $3, phone = $4, photo_url = $5
		WHERE id = $1
		RETURNING `+patientColumns,
		id, in.Name, in.Age, nullable(in.Phone), nullable(in.PhotoURL)))
	if err != nil {
		return nil, mapNotFound(err, msgPatientNotFound)
	}
	return &p, nil
}

// Delete removes a patient. Patients with payments cannot be removed.
func (r *PatientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return requireAffected(res, msgPatientNotFound)
}

// CountCreatedSince counts patients registered at or after since.
func (r *PatientRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM patients WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

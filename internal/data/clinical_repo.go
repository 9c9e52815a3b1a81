package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// ClinicalRepo stores the clinical record of a patient: photos, body markers, anamnesis and notes.
type ClinicalRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewClinicalRepo creates a new ClinicalRepo with the real clock.
func NewClinicalRepo(db *sql.DB) *ClinicalRepo {
	return &ClinicalRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewClinicalRepoWithTimeProvider creates a ClinicalRepo with a custom clock.
func NewClinicalRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ClinicalRepo {
	return &ClinicalRepo{DB: db, timeProvider: tp}
}

var _ core.ClinicalRepository = (*ClinicalRepo)(nil)

// Photos.

const photoColumns = `id, patient_id, url, type, created_at`

func scanPhoto(row rowScanner) (model.PatientPhoto, error) {
	var ph model.PatientPhoto
	err := row.Scan(&ph.ID, &ph.PatientID, &ph.URL, &ph.Type, &ph.CreatedAt)
	return ph, err
}

func (r *ClinicalRepo) ListPhotos(ctx context.Context, patientID string) ([]model.PatientPhoto, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+photoColumns+` FROM patient_photos WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanPhoto)
}

func (r *ClinicalRepo) ListComparisonPhotos(ctx context.Context, limit int) ([]model.PatientPhoto, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+photoColumns+` FROM patient_photos
		WHERE type IN ('before', 'after')
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list comparison photos: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanPhoto)
}

func (r *ClinicalRepo) AddPhoto(ctx context.Context, patientID string, in model.PhotoInput) (*model.PatientPhoto, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ph, err := scanPhoto(r.DB.QueryRowContext(ctx, `
		INSERT INTO patient_photos (patient_id, url, type, created_at) VALUES ($1, $2, $3, $4)
		RETURNING `+photoColumns,
		patientID, in.URL, string(in.Type), r.timeProvider.Now()))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &ph, nil
}

func (r *ClinicalRepo) DeletePhoto(ctx context.Context, patientID, photoID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM patient_photos WHERE id = $1 AND patient_id = $2`, photoID, patientID)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return requireAffected(res, "Foto não encontrada.")
}

// Body markers.

const markerColumns = `id, patient_id, x, y, note, side, created_at`

func scanMarker(row rowScanner) (model.BodyMarker, error) {
	var m model.BodyMarker
	err := row.Scan(&m.ID, &m.PatientID, &m.X, &m.Y, &m.Note, &m.Side, &m.CreatedAt)
	return m, err
}

func (r *ClinicalRepo) ListMarkers(ctx context.Context, patientID string) ([]model.BodyMarker, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+markerColumns+` FROM body_markers WHERE patient_id = $1 ORDER BY created_at ASC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanMarker)
}

func (r *ClinicalRepo) AddMarker(ctx context.Context, patientID string, in model.MarkerInput) (*model.BodyMarker, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m, err := scanMarker(r.DB.QueryRowContext(ctx, `
		INSERT INTO body_markers (patient_id, x, y, note, side, created_at) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+markerColumns,
		patientID, in.X, in.Y, in.Note, string(in.Side), r.timeProvider.Now()))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &m, nil
}

func (r *ClinicalRepo) DeleteMarker(ctx context.Context, patientID, markerID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM body_markers WHERE id = $1 AND patient_id = $2`, markerID, patientID)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return requireAffected(res, "Marcação não encontrada.")
}

// Anamnesis.

func scanAnamnesis(row rowScanner) (model.AnamnesisRecord, error) {
	var (
		a   model.AnamnesisRecord
		raw []byte
	)
	if err := row.Scan(&a.ID, &a.PatientID, &raw, &a.CreatedAt); err != nil {
		return model.AnamnesisRecord{}, err
	}
	a.Data = json.RawMessage(raw)
	return a, nil
}

func (r *ClinicalRepo) ListAnamnesis(ctx context.Context, patientID string) ([]model.AnamnesisRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, patient_id, data, created_at FROM anamnesis_records
		WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list anamnesis: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanAnamnesis)
}

// AddAnamnesis stores a questionnaire. data must be a JSON object.
func (r *ClinicalRepo) AddAnamnesis(ctx context.Context, patientID string, data []byte) (*model.AnamnesisRecord, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, apperrors.Validation("Ficha de anamnese inválida.")
	}
	a, err := scanAnamnesis(r.DB.QueryRowContext(ctx, `
		INSERT INTO anamnesis_records (patient_id, data, created_at) VALUES ($1, $2, $3)
		RETURNING id, patient_id, data, created_at`,
		patientID, data, r.timeProvider.Now()))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &a, nil
}

// Clinical notes.

const noteColumns = `id, patient_id, content, date, created_at`

func scanNote(row rowScanner) (model.ClinicalNote, error) {
	var n model.ClinicalNote
	err := row.Scan(&n.ID, &n.PatientID, &n.Content, &n.Date, &n.CreatedAt)
	return n, err
}

func (r *ClinicalRepo) ListNotes(ctx context.Context, patientID string) ([]model.ClinicalNote, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM clinical_notes WHERE patient_id = $1 ORDER BY date DESC, created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanNote)
}

// AddNote stores an evolution note; a zero date means today.
func (r *ClinicalRepo) AddNote(ctx context.Context, patientID string, in model.NoteInput) (*model.ClinicalNote, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := r.timeProvider.Now()
	if in.Date.IsZero() {
		in.Date = now
	}
	n, err := scanNote(r.DB.QueryRowContext(ctx, `
		INSERT INTO clinical_notes (patient_id, content, date, created_at) VALUES ($1, $2, $3, $4)
		RETURNING `+noteColumns,
		patientID, in.Content, in.Date, now))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &n, nil
}

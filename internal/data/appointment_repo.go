package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// AppointmentRepo provides database operations for the agenda.
type AppointmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAppointmentRepo creates a new AppointmentRepo with the real clock.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo {
	return &AppointmentRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewAppointmentRepoWithTimeProvider creates an AppointmentRepo with a custom clock.
func NewAppointmentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AppointmentRepo {
	return &AppointmentRepo{DB: db, timeProvider: tp}
}

var _ core.AppointmentRepository = (*AppointmentRepo)(nil)

func scanAppointment(row rowScanner) (model.Appointment, error) {
	var (
		a    model.Appointment
		name sql.NullString
	)
	if err := row.Scan(&a.ID, &a.PatientID, &name, &a.Date, &a.Procedure, &a.Status, &a.CreatedAt); err != nil {
		return model.Appointment{}, err
	}
	a.PatientName = name.String
	return a, nil
}

// Create schedules an appointment with status scheduled.
func (r *AppointmentRepo) Create(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a, err := scanAppointment(r.DB.QueryRowContext(ctx, `
		WITH ins AS (
			INSERT INTO appointments (patient_id, date, procedure, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, patient_id, date, procedure, status, created_at
		)
		SELECT ins.id, ins.patient_id, p.name, ins.date, ins.procedure, ins.status, ins.created_at
		FROM ins LEFT JOIN patients p ON p.id = ins.patient_id`,
		in.PatientID, in.Date, in.Procedure, string(model.AppointmentScheduled), r.timeProvider.Now()))
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", apperrors.MapDBError(err))
	}
	return &a, nil
}

// ListBetween returns appointments in [r.From, r.To) ordered by time, with the patient name.
func (r *AppointmentRepo) ListBetween(ctx context.Context, tr model.TimeRange) ([]model.Appointment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.id, a.patient_id, p.name, a.date, a.procedure, a.status, a.created_at
		FROM appointments a LEFT JOIN patients p ON p.id = a.patient_id
		WHERE a.date >= $1 AND a.date < $2
		ORDER BY a.date ASC`, tr.From, tr.To)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanAppointment)
}

// CountBetween counts non-cancelled appointments in [r.From, r.To).
func (r *AppointmentRepo) CountBetween(ctx context.Context, tr model.TimeRange) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT count(*) FROM appointments
		WHERE date >= $1 AND date < $2 AND status <> 'cancelled'`, tr.From, tr.To).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	if !status.Valid() {
		return apperrors.ValidationField("status", "Status inválido.")
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return requireAffected(res, "Agendamento não encontrado.")
}

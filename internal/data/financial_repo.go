package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const financialColumns = `id, description, amount, type, date, category, created_at`

// FinancialRepo stores manual ledger records.
type FinancialRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewFinancialRepo creates a new FinancialRepo with the real clock.
func NewFinancialRepo(db *sql.DB) *FinancialRepo {
	return &FinancialRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewFinancialRepoWithTimeProvider creates a FinancialRepo with a custom clock.
func NewFinancialRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *FinancialRepo {
	return &FinancialRepo{DB: db, timeProvider: tp}
}

var _ core.FinancialRepository = (*FinancialRepo)(nil)

func scanRecord(row rowScanner) (model.FinancialRecord, error) {
	var rec model.FinancialRecord
	err := row.Scan(&rec.ID, &rec.Description, &rec.Amount, &rec.Type, &rec.Date, &rec.Category, &rec.CreatedAt)
	return rec, err
}

// CreateRecord inserts a manual income or expense; a zero date means today.
func (r *FinancialRepo) CreateRecord(ctx context.Context, in model.RecordInput) (*model.FinancialRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := r.timeProvider.Now()
	if in.Date.IsZero() {
		in.Date = now
	}
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, `
		INSERT INTO financial_records (description, amount, type, date, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+financialColumns,
		in.Description, in.Amount, string(in.Type), in.Date, in.Category, now))
	if err != nil {
		return nil, fmt.Errorf("create financial record: %w", apperrors.MapDBError(err))
	}
	return &rec, nil
}

// ListRecords returns records whose date falls in the inclusive range, newest first.
// Zero bounds are open.
func (r *FinancialRepo) ListRecords(ctx context.Context, dr model.DateRange) ([]model.FinancialRecord, error) {
	var w whereBuilder
	if !dr.Start.IsZero() {
		w.add("date >= ?::date", dr.Start)
	}
	if !dr.End.IsZero() {
		w.add("date <= ?::date", dr.End)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+financialColumns+` FROM financial_records`+w.clause()+` ORDER BY date DESC, created_at DESC`,
		w.args...)
	if err != nil {
		return nil, fmt.Errorf("list financial records: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanRecord)
}

func (r *FinancialRepo) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM financial_records WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return requireAffected(res, "Lançamento não encontrado.")
}

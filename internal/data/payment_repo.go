package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/data/pgxutil"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const paymentColumns = `id, patient_id, date, procedure, amount, payment_method, payment_method_2,
	amount_method_1, amount_method_2, discount, observation, receipt_url, created_at`

// PaymentRepo stores patient payments.
type PaymentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPaymentRepo creates a new PaymentRepo with the real clock.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewPaymentRepoWithTimeProvider creates a PaymentRepo with a custom clock.
func NewPaymentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: tp}
}

var _ core.PaymentRepository = (*PaymentRepo)(nil)

// scanPayment reads paymentColumns, optionally preceded by the patient name.
func scanPayment(row rowScanner, withName bool) (model.Payment, error) {
	var (
		p            model.Payment
		name         sql.NullString
		obs, receipt sql.NullString
		dest         []any
	)
	if withName {
		dest = append(dest, &name)
	}
	dest = append(dest, &p.ID, &p.PatientID, &p.Date, &p.Procedure, &p.Amount, &p.Method, &p.Method2,
		&p.AmountMethod1, &p.AmountMethod2, &p.Discount, &obs, &receipt, &p.CreatedAt)
	if err := row.Scan(dest...); err != nil {
		return model.Payment{}, err
	}
	p.PatientName, p.Observation, p.ReceiptURL = name.String, obs.String, receipt.String
	return p, nil
}

// Create inserts the payment. When sale is set the product stock is decremented in the
// same transaction, and the payment is rejected if fewer units remain than are sold.
func (r *PaymentRepo) Create(ctx context.Context, p model.Payment, sale *core.StockDecrement) (*model.Payment, error) {
	now := r.timeProvider.Now()
	if p.Date.IsZero() {
		p.Date = now
	}
	var out model.Payment
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		if sale != nil {
			if err := decrementStock(ctx, tx, *sale); err != nil {
				return err
			}
		}
		var err error
		out, err = scanPayment(tx.QueryRowContext(ctx, `
			INSERT INTO patient_payments (patient_id, date, procedure, amount, payment_method, payment_method_2,
				amount_method_1, amount_method_2, discount, observation, receipt_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+paymentColumns,
			p.PatientID, p.Date, p.Procedure, p.Amount, string(p.Method), p.Method2,
			p.AmountMethod1, p.AmountMethod2, p.Discount, nullable(p.Observation), nullable(p.ReceiptURL), now), false)
		return err
	}})
	if err != nil {
		if apperrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("create payment: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

func decrementStock(ctx context.Context, tx *sql.Tx, sale core.StockDecrement) error {
	if sale.Quantity <= 0 {
		return apperrors.ValidationField("quantity", "Quantidade inválida.")
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2`,
		sale.ProductID, sale.Quantity)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ValidationField("quantity", "Estoque insuficiente para esta venda.")
	}
	return nil
}

// ListByPatient returns a patient's payments, newest first.
func (r *PaymentRepo) ListByPatient(ctx context.Context, patientID string) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+paymentColumns+` FROM patient_payments
		WHERE patient_id = $1 ORDER BY date DESC, created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient payments: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, func(row rowScanner) (model.Payment, error) { return scanPayment(row, false) })
}

// ListWithPatients returns payments whose date is within the inclusive range, with patient names.
func (r *PaymentRepo) ListWithPatients(ctx context.Context, dr model.DateRange) ([]model.Payment, error) {
	var w whereBuilder
	if !dr.Start.IsZero() {
		w.add("pp.date >= ?::date", dr.Start)
	}
	if !dr.End.IsZero() {
		w.add("pp.date <= ?::date", dr.End)
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.name, pp.id, pp.patient_id, pp.date, pp.procedure, pp.amount, pp.payment_method, pp.payment_method_2,
			pp.amount_method_1, pp.amount_method_2, pp.discount, pp.observation, pp.receipt_url, pp.created_at
		FROM patient_payments pp LEFT JOIN patients p ON p.id = pp.patient_id`+w.clause()+`
		ORDER BY pp.date DESC, pp.created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, func(row rowScanner) (model.Payment, error) { return scanPayment(row, true) })
}

// SumForDate totals the payments received on day's calendar date.
func (r *PaymentRepo) SumForDate(ctx context.Context, day time.Time) (model.Cents, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM patient_payments WHERE date = $1::date`, day).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum payments: %w", apperrors.MapDBError(err))
	}
	return model.Cents(total), nil
}

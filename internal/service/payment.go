package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Payments core.PaymentRepository
	Patients core.PatientRepository
	Products core.ProductRepository
	Logger   *slog.Logger
	Now      func() time.Time
}

// PaymentService records patient payments, including product sales.
type PaymentService struct {
	payments core.PaymentRepository
	patients core.PatientRepository
	products core.ProductRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PaymentService{
		payments: opts.Payments,
		patients: opts.Patients,
		products: opts.Products,
		logger:   logger.With("component", "payment_service"),
		now:      now,
	}
}

// ListByPatient returns the payment history of a patient, newest first.
func (s *PaymentService) ListByPatient(ctx context.Context, patientID string) ([]model.Payment, error) {
	return s.payments.ListByPatient(ctx, patientID)
}

// Record validates in and stores the payment. Product sales decrement stock in the
// same transaction; the repository rejects the sale if stock ran out meanwhile.
func (s *PaymentService) Record(ctx context.Context, patientID string, in model.PaymentInput) (*model.Payment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.now()
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	var (
		product *model.Product
		sale    *core.StockDecrement
	)
	if in.Kind == model.PaymentProduct {
		p, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		product = p
		sale = &core.StockDecrement{ProductID: p.ID, Quantity: in.Quantity}
	}

	payment, err := in.BuildPayment(patientID, product)
	if err != nil {
		return nil, err
	}
	out, err := s.payments.Create(ctx, payment, sale)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "payment recorded",
		"payment_id", out.ID, "patient_id", patientID, "kind", in.Kind, "amount", int64(out.Amount), "split", out.Split())
	return out, nil
}

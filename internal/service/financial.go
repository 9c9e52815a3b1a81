package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// FinancialServiceOptions groups dependencies for FinancialService.
type FinancialServiceOptions struct {
	Records  core.FinancialRepository
	Payments core.PaymentRepository
	Logger   *slog.Logger
}

// FinancialService builds the merged ledger of payments and manual records.
type FinancialService struct {
	records  core.FinancialRepository
	payments core.PaymentRepository
	logger   *slog.Logger
}

// Ledger is the financial screen: entries newest first plus totals.
type Ledger struct {
	Range   model.DateRange
	Entries []model.LedgerEntry
	Totals  model.Totals
}

// NewFinancialService constructs a FinancialService.
func NewFinancialService(opts FinancialServiceOptions) *FinancialService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FinancialService{
		records:  opts.Records,
		payments: opts.Payments,
		logger:   logger.With("component", "financial_service"),
	}
}

// Ledger loads payments and records inside r (inclusive, open when zero) and merges them.
func (s *FinancialService) Ledger(ctx context.Context, r model.DateRange) (*Ledger, error) {
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return nil, apperrors.ValidationField("end", "A data final deve ser posterior à inicial.")
	}
	var (
		payments []model.Payment
		records  []model.FinancialRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.payments.ListWithPatients(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		records, err = s.records.ListRecords(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	entries := model.BuildLedger(payments, records, r)
	return &Ledger{Range: r, Entries: entries, Totals: model.Summarize(entries)}, nil
}

// AddRecord validates and stores a manual income or expense.
func (s *FinancialService) AddRecord(ctx context.Context, in model.RecordInput) (*model.FinancialRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rec, err := s.records.CreateRecord(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "financial record added", "record_id", rec.ID, "type", rec.Type, "amount", int64(rec.Amount))
	return rec, nil
}

// DeleteRecord removes a manual record. Payment-derived entries live in another table
// and are never reachable through this path.
func (s *FinancialService) DeleteRecord(ctx context.Context, id string) error {
	return s.records.DeleteRecord(ctx, id)
}

package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

// Default stock alert thresholds.
const (
	DefaultLowStockThreshold = 5
	DefaultExpiryWindow      = 30 * 24 * time.Hour
)

// StockServiceOptions groups dependencies for StockService.
type StockServiceOptions struct {
	Products core.ProductRepository
	Policy   model.StockAlertPolicy
	Logger   *slog.Logger
	Now      func() time.Time
}

// StockService manages the product inventory.
type StockService struct {
	products core.ProductRepository
	policy   model.StockAlertPolicy
	logger   *slog.Logger
	now      func() time.Time
}

// StockAlerts lists the products needing attention.
type StockAlerts struct {
	Expiring []model.Product
	LowStock []model.Product
}

// NewStockService constructs a StockService. Zero policy values fall back to the defaults.
func NewStockService(opts StockServiceOptions) *StockService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &StockService{
		products: opts.Products,
		policy:   withPolicyDefaults(opts.Policy),
		logger:   logger.With("component", "stock_service"),
		now:      now,
	}
}

func withPolicyDefaults(p model.StockAlertPolicy) model.StockAlertPolicy {
	if p.LowStockThreshold <= 0 {
		p.LowStockThreshold = DefaultLowStockThreshold
	}
	if p.ExpiryWindow <= 0 {
		p.ExpiryWindow = DefaultExpiryWindow
	}
	return p
}

// Policy returns the alert thresholds in effect.
func (s *StockService) Policy() model.StockAlertPolicy { return s.policy }

// List returns every product ordered by name.
func (s *StockService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

// InStock returns the products that can be sold.
func (s *StockService) InStock(ctx context.Context) ([]model.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if p.Quantity > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns one product.
func (s *StockService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Create validates and inserts a product.
func (s *StockService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.products.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "product created", "product_id", p.ID, "quantity", p.Quantity)
	return p, nil
}

// Update validates and replaces a product.
func (s *StockService) Update(ctx context.Context, id string, in model.ProductInput) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, in)
}

// Delete removes a product.
func (s *StockService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

// Alerts returns products expiring within the window and products below the threshold.
func (s *StockService) Alerts(ctx context.Context) (StockAlerts, error) {
	now := s.now()
	var out StockAlerts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Expiring, err = s.products.ListExpiring(gctx, now, now.Add(s.policy.ExpiryWindow))
		return err
	})
	g.Go(func() (err error) {
		out.LowStock, err = s.products.ListLowStock(gctx, s.policy.LowStockThreshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return StockAlerts{}, err
	}
	return out, nil
}

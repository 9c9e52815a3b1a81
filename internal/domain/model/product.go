package model

import (
	"strings"
	"time"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// Product is an inventory item.
type Product struct {
	ID         string     `json:"id"                    db:"id"`
	Name       string     `json:"name"                  db:"name"`
	Brand      string     `json:"brand,omitempty"       db:"brand"`
	LotNumber  string     `json:"lot_number,omitempty"  db:"lot_number"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	CostPrice  Cents      `json:"cost_price"            db:"cost_price"`
	SalePrice  Cents      `json:"sale_price"            db:"sale_price"`
	Supplier   string     `json:"supplier,omitempty"    db:"supplier"`
	Quantity   int        `json:"quantity"              db:"quantity"`
	CreatedAt  time.Time  `json:"created_at"            db:"created_at"`
}

// ExpiringWithin reports whether the product is in stock and expires in (now, now+window].
func (p Product) ExpiringWithin(now time.Time, window time.Duration) bool {
	if p.Quantity <= 0 || p.ExpiryDate == nil {
		return false
	}
	return p.ExpiryDate.After(now) && !p.ExpiryDate.After(now.Add(window))
}

// Expired reports whether the expiry date has passed.
func (p Product) Expired(now time.Time) bool {
	return p.ExpiryDate != nil && !p.ExpiryDate.After(now)
}

// LowStock reports whether quantity is below threshold.
func (p Product) LowStock(threshold int) bool { return p.Quantity < threshold }

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name       string     `json:"name"`
	Brand      string     `json:"brand"`
	LotNumber  string     `json:"lot_number"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CostPrice  Cents      `json:"cost_price"`
	SalePrice  Cents      `json:"sale_price"`
	Supplier   string     `json:"supplier"`
	Quantity   int        `json:"quantity"`
}

// Validate validates the product input.
func (in *ProductInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.LotNumber = strings.TrimSpace(in.LotNumber)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if in.Name == "" {
		return apperrors.ValidationField("name", "Informe o nome do produto.")
	}
	if in.Quantity < 0 {
		return apperrors.ValidationField("quantity", "A quantidade não pode ser negativa.")
	}
	if in.CostPrice < 0 || in.SalePrice < 0 {
		return apperrors.Validation("Os preços não podem ser negativos.")
	}
	return nil
}

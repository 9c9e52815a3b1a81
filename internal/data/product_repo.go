package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

const (
	productColumns     = `id, name, brand, lot_number, expiry_date, cost_price, sale_price, supplier, quantity, created_at`
	msgProductNotFound = "Produto não encontrado."
)

// ProductRepo provides database operations for the inventory.
type ProductRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProductRepo creates a new ProductRepo with the real clock.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewProductRepoWithTimeProvider creates a ProductRepo with a custom clock.
func NewProductRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProductRepo {
	return &ProductRepo{DB: db, timeProvider: tp}
}

var _ core.ProductRepository = (*ProductRepo)(nil)

func scanProduct(row rowScanner) (model.Product, error) {
	var (
		p                    model.Product
		brand, lot, supplier sql.NullString
		expiry               sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &brand, &lot, &expiry, &p.CostPrice, &p.SalePrice, &supplier, &p.Quantity, &p.CreatedAt); err != nil {
		return model.Product{}, err
	}
	p.Brand, p.LotNumber, p.Supplier = brand.String, lot.String, supplier.String
	if expiry.Valid {
		t := expiry.Time
		p.ExpiryDate = &t
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := scanProduct(r.DB.QueryRowContext(ctx, `
		INSERT INTO products (name, brand, lot_number, expiry_date, cost_price, sale_price, supplier, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+productColumns,
		in.Name, nullable(in.Brand), nullable(in.LotNumber), in.ExpiryDate,
		in.CostPrice, in.SalePrice, nullable(in.Supplier), in.Quantity, r.timeProvider.Now()))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", apperrors.MapDBError(err))
	}
	return &p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, mapNotFound(err, msgProductNotFound)
	}
	return &p, nil
}

// List returns the inventory ordered by name.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanProduct)
}

func (r *ProductRepo) Update(ctx context.Context, id string, in model.ProductInput) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := scanProduct(r.DB.QueryRowContext(ctx, `
		UPDATE products SET name = $2, brand = $3, lot_number = $4, expiry_date = $5,
			cost_price = $6, sale_price = $7, supplier = $8, quantity = $9
		WHERE id = $1
		RETURNING `+productColumns,
		id, in.Name, nullable(in.Brand), nullable(in.LotNumber), in.ExpiryDate,
		in.CostPrice, in.SalePrice, nullable(in.Supplier), in.Quantity))
	if err != nil {
		return nil, mapNotFound(err, msgProductNotFound)
	}
	return &p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return requireAffected(res, msgProductNotFound)
}

func (r *ProductRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE quantity > 0 AND expiry_date > $1 AND expiry_date <= $2
		ORDER BY expiry_date ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring products: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanProduct)
}

// ListLowStock returns products with fewer than threshold units.
func (r *ProductRepo) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE quantity < $1
		ORDER BY quantity ASC, name ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", apperrors.MapDBError(err))
	}
	return collectRows(rows, scanProduct)
}

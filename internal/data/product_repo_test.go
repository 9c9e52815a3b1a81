package data

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

var productCols = []string{"id", "name", "brand", "lot_number", "expiry_date", "cost_price", "sale_price", "supplier", "quantity", "created_at"}

func TestProductRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepoWithTimeProvider(db, fixedClock())
	expiry := testNow.AddDate(0, 6, 0)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("Botox 100U", "Allergan", nil, expiry, int64(90000), int64(150000), nil, int64(3), testNow).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("pr-1", "Botox 100U", "Allergan", nil, expiry, 90000, 150000, nil, 3, testNow))

	p, err := repo.Create(context.Background(), model.ProductInput{
		Name: "Botox 100U", Brand: "Allergan", ExpiryDate: &expiry,
		CostPrice: 90000, SalePrice: 150000, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Cents(150000), p.SalePrice)
	require.NotNil(t, p.ExpiryDate)
	assert.Empty(t, p.LotNumber)
}

func TestProductRepo_ListExpiring(t *testing.T) {
	db, mock := newMockDB(t)
	to := testNow.Add(30 * 24 * time.Hour)
	soon := testNow.AddDate(0, 0, 10)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE quantity > 0 AND expiry_date > $1 AND expiry_date <= $2")).
		WithArgs(testNow, to).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("pr-1", "Ácido", nil, nil, soon, 1000, 2000, nil, 2, testNow))

	list, err := NewProductRepo(db).ListExpiring(context.Background(), testNow, to)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].ExpiringWithin(testNow, 30*24*time.Hour))
}

func TestProductRepo_UpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE products SET")).
		WillReturnRows(sqlmock.NewRows(productCols))

	_, err := NewProductRepo(db).Update(context.Background(), "missing", model.ProductInput{Name: "X"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductRepo_ListLowStock(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE quantity < $1")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("pr-2", "Luvas", nil, nil, nil, 100, 0, nil, 1, testNow))

	list, err := NewProductRepo(db).ListLowStock(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].ExpiryDate)
}

package data

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

var paymentCols = []string{"id", "patient_id", "date", "procedure", "amount", "payment_method", "payment_method_2",
	"amount_method_1", "amount_method_2", "discount", "observation", "receipt_url", "created_at"}

func splitPayment() model.Payment {
	m2 := model.MethodCash
	a2 := model.Cents(5000)
	return model.Payment{
		PatientID: "p-1", Date: testNow, Procedure: "Venda: Sérum (2un)",
		Amount: 15000, Method: model.MethodPix, Method2: &m2,
		AmountMethod1: 10000, AmountMethod2: &a2, Discount: 1000,
	}
}

func TestPaymentRepo_CreateSaleDecrementsStockInTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepoWithTimeProvider(db, fixedClock())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2")).
		WithArgs("pr-1", 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patient_payments")).
		WithArgs("p-1", testNow, "Venda: Sérum (2un)", int64(15000), "pix", "cash",
			int64(10000), int64(5000), int64(1000), nil, nil, testNow).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-1", "p-1", testNow, "Venda: Sérum (2un)", 15000, "pix", "cash", 10000, 5000, 1000, nil, nil, testNow))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), splitPayment(), &core.StockDecrement{ProductID: "pr-1", Quantity: 2})
	require.NoError(t, err)
	assert.True(t, got.Split())
	require.NotNil(t, got.AmountMethod2)
	assert.Equal(t, model.Cents(5000), *got.AmountMethod2)
}

func TestPaymentRepo_CreateSaleInsufficientStockRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepoWithTimeProvider(db, fixedClock())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET quantity")).
		WithArgs("pr-1", 5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), splitPayment(), &core.StockDecrement{ProductID: "pr-1", Quantity: 5})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "quantity", apperrors.GetField(err))
}

func TestPaymentRepo_CreateServicePayment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepoWithTimeProvider(db, fixedClock())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patient_payments")).
		WithArgs("p-1", testNow, "Botox", int64(80000), "credit", nil, int64(80000), nil, int64(0), "3x", nil, testNow).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-2", "p-1", testNow, "Botox", 80000, "credit", nil, 80000, nil, 0, "3x", nil, testNow))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), model.Payment{
		PatientID: "p-1", Procedure: "Botox", Amount: 80000, Method: model.MethodCredit,
		AmountMethod1: 80000, Observation: "3x",
	}, nil)
	require.NoError(t, err)
	assert.False(t, got.Split())
	assert.Equal(t, "3x", got.Observation)
}

func TestPaymentRepo_ListWithPatients(t *testing.T) {
	db, mock := newMockDB(t)
	cols := append([]string{"name"}, paymentCols...)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN patients p ON p.id = pp.patient_id WHERE pp.date >= $1::date")).
		WithArgs(testNow).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("Maria", "pay-1", "p-1", testNow, "Botox", 80000, "pix", nil, 80000, nil, 0, nil, nil, testNow).
			AddRow(nil, "pay-2", "p-9", testNow, "Peeling", 30000, "cash", nil, 30000, nil, 0, nil, nil, testNow))

	list, err := NewPaymentRepo(db).ListWithPatients(context.Background(), model.DateRange{Start: testNow})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Maria", list[0].PatientName)
	assert.Equal(t, "Peeling - Cliente", model.PaymentEntry(list[1]).Description)
}

func TestPaymentRepo_SumForDate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(amount), 0)")).WithArgs(testNow).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(123456)))

	total, err := NewPaymentRepo(db).SumForDate(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, model.Cents(123456), total)
}

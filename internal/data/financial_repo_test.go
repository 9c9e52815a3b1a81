package data

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
)

var financialCols = []string{"id", "description", "amount", "type", "date", "category", "created_at"}

func TestFinancialRepo_CreateRecordNormalizes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFinancialRepoWithTimeProvider(db, fixedClock())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO financial_records")).
		WithArgs("Aluguel", int64(250000), "expense", testNow, "Outros", testNow).
		WillReturnRows(sqlmock.NewRows(financialCols).
			AddRow("f-1", "Aluguel", 250000, "expense", testNow, "Outros", testNow))

	rec, err := repo.CreateRecord(context.Background(), model.RecordInput{Description: "Aluguel", Amount: -250000})
	require.NoError(t, err)
	assert.Equal(t, model.EntryExpense, rec.Type)
	assert.Equal(t, model.Cents(250000), rec.Amount)
}

func TestFinancialRepo_ListRecordsRange(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFinancialRepo(db)
	start, end := testNow.AddDate(0, 0, -7), testNow

	mock.ExpectQuery(regexp.QuoteMeta("FROM financial_records WHERE date >= $1::date AND date <= $2::date ORDER BY")).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(financialCols))
	_, err := repo.ListRecords(context.Background(), model.DateRange{Start: start, End: end})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM financial_records ORDER BY date DESC")).
		WillReturnRows(sqlmock.NewRows(financialCols))
	_, err = repo.ListRecords(context.Background(), model.DateRange{})
	require.NoError(t, err)
}

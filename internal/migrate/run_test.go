package migrate

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionsSorted(t *testing.T) {
	vs, err := versions()
	require.NoError(t, err)
	require.Equal(t, []string{"0001_profiles_and_auth", "0002_clinic"}, vs)
}

func TestEmbeddedSchemaDefinesTables(t *testing.T) {
	var all string
	for _, v := range []string{"0001_profiles_and_auth", "0002_clinic"} {
		b, err := migrationsFS.ReadFile("migrations/" + v + ".sql")
		require.NoError(t, err)
		all += string(b)
	}
	for _, table := range []string{
		"profiles", "auth_users", "clinic_settings", "patients", "patient_photos", "body_markers",
		"anamnesis_records", "clinical_notes", "products", "appointments", "financial_records", "patient_payments",
	} {
		assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestRun_SkipsAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0001_profiles_and_auth").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0002_clinic").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS patients").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("0002_clinic").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Run(context.Background(), db, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

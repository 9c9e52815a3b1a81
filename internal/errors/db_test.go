package errors

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_Sentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{name: "sql no rows", err: sql.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "pgx no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := MapDBError(tt.err); !IsAppError(err, tt.wantCode) {
				t.Errorf("MapDBError() code = %v, want %v", GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "column metadata",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "email"},
			wantField: "email",
		},
		{
			name:      "detail message",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: "Key (email)=(a@b.c) already exists."},
			wantField: "email",
		},
		{
			name:      "constraint name",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "auth_users_email_key"},
			wantField: "email",
		},
		{
			name:      "unknown",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "weird"},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsConflict(err) {
				t.Fatalf("expected conflict, got %v", GetCode(err))
			}
			if got := GetField(err); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestMapDBError_ForeignKey(t *testing.T) {
	err := MapDBError(&pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (id)=(1) is still referenced from table "patient_payments".`,
	})
	if !IsForeignKey(err) {
		t.Fatalf("expected foreign key, got %v", GetCode(err))
	}
	want := "Não é possível excluir: existe pagamento vinculado a este registro."
	if got := UserMessage(err); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}

	err = MapDBError(&pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (patient_id)=(x) is not present in table "patients".`,
	})
	if got := UserMessage(err); got != "O paciente informado não existe." {
		t.Errorf("message = %q", got)
	}
}

func TestMapDBError_CheckAndNotNull(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "quantity"})
	if !IsValidation(err) || GetField(err) != "quantity" {
		t.Errorf("check violation mapped to %v/%q", GetCode(err), GetField(err))
	}
	err = MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "name"})
	if !IsValidation(err) || GetField(err) != "name" {
		t.Errorf("not null mapped to %v/%q", GetCode(err), GetField(err))
	}
}

func TestMapDBError_Passthrough(t *testing.T) {
	plain := errors.New("network down")
	if err := MapDBError(plain); !errors.Is(err, plain) || GetCode(err) != "" {
		t.Errorf("unrecognised errors must pass through, got %v", err)
	}
	if err := MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}); GetCode(err) != ErrCodeInternal {
		t.Errorf("unhandled pg errors map to internal, got %v", GetCode(err))
	}
}

package model

import (
	"sort"
	"strings"
	"time"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

const (
	// CategoryProcedure labels income derived from patient payments.
	CategoryProcedure = "Procedimento"
	// CategoryOther is the default category for manual records.
	CategoryOther = "Outros"
	// DefaultClientName replaces a missing patient name in ledger descriptions.
	DefaultClientName = "Cliente"
)

// FinancialRecord is a manually entered income or expense.
type FinancialRecord struct {
	ID          string    `json:"id"          db:"id"`
	Description string    `json:"description" db:"description"`
	Amount      Cents     `json:"amount"      db:"amount"`
	Type        EntryType `json:"type"        db:"type"`
	Date        time.Time `json:"date"        db:"date"`
	Category    string    `json:"category"    db:"category"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}

// RecordInput creates a financial record.
type RecordInput struct {
	Description string
	Amount      Cents
	Type        EntryType
	Date        time.Time
	Category    string
}

// Validate validates the input and applies defaults (expense, "Outros").
// Negative amounts are stored as their absolute value; the type carries the sign.
func (in *RecordInput) Validate() error {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Description == "" {
		return apperrors.ValidationField("description", "Informe a descrição.")
	}
	if in.Amount == 0 {
		return apperrors.ValidationField("amount", "Informe um valor diferente de zero.")
	}
	if in.Amount < 0 {
		in.Amount = -in.Amount
	}
	if in.Type == "" {
		in.Type = EntryExpense
	}
	if in.Type != EntryIncome && in.Type != EntryExpense {
		return apperrors.ValidationField("type", "Tipo inválido.")
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	return nil
}

// LedgerEntry is one row of the merged financial view.
type LedgerEntry struct {
	ID          string
	Description string
	Amount      Cents
	Type        EntryType
	Date        time.Time
	Category    string
	// FromPayment marks entries derived from patient payments; they are read-only here.
	FromPayment bool
}

// Totals summarises a ledger.
type Totals struct {
	Income  Cents
	Expense Cents
	Balance Cents
}

// DateRange is an inclusive range of calendar dates. Zero bounds are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d's calendar date lies within the range.
func (r DateRange) Contains(d time.Time) bool {
	day := dateOnly(d)
	if !r.Start.IsZero() && day.Before(dateOnly(r.Start)) {
		return false
	}
	if !r.End.IsZero() && day.After(dateOnly(r.End)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PaymentEntry converts a patient payment into an income ledger entry.
func PaymentEntry(p Payment) LedgerEntry {
	name := strings.TrimSpace(p.PatientName)
	if name == "" {
		name = DefaultClientName
	}
	return LedgerEntry{
		ID:          p.ID,
		Description: p.Procedure + " - " + name,
		Amount:      p.Amount,
		Type:        EntryIncome,
		Date:        p.Date,
		Category:    CategoryProcedure,
		FromPayment: true,
	}
}

// BuildLedger merges payments and records, keeps entries inside r, and sorts by date, newest first.
// Entries with the same date keep payments before records.
func BuildLedger(payments []Payment, records []FinancialRecord, r DateRange) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(payments)+len(records))
	for _, p := range payments {
		if r.Contains(p.Date) {
			out = append(out, PaymentEntry(p))
		}
	}
	for _, rec := range records {
		if !r.Contains(rec.Date) {
			continue
		}
		out = append(out, LedgerEntry{
			ID:          rec.ID,
			Description: rec.Description,
			Amount:      rec.Amount,
			Type:        rec.Type,
			Date:        rec.Date,
			Category:    rec.Category,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Summarize computes income, expense and balance.
func Summarize(entries []LedgerEntry) Totals {
	var t Totals
	for _, e := range entries {
		if e.Type == EntryIncome {
			t.Income += e.Amount
		} else {
			t.Expense += e.Amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

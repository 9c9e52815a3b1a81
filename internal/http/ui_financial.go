package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
	"github.com/Killzin1000/quality-estetica2/internal/service"
)

// Financial renders the ledger for an optional inclusive date range.
// GET /financial?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *UIHandlers) Financial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, rangeErrs := h.parseRange(q)

	builder := NewTemplateData(r, financialMeta()).
		With("Start", strings.TrimSpace(q.Get("start"))).
		With("End", strings.TrimSpace(q.Get("end"))).
		With("Values", map[string]string{"date": h.now().In(h.loc()).Format(validation.DateLayout)})
	h.addLedger(r, builder, rng, rangeErrs)
	h.renderPage(w, r, builder.Build())
}

// FinancialAddRecord stores a manual income or expense.
// POST /financial/records.
func (h *UIHandlers) FinancialAddRecord(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.RecordInput]{
		W: w, R: r,
		Parser: h.parseRecordForm,
		Submit: func(ctx context.Context, in model.RecordInput) (string, error) {
			if _, err := h.FinancialSvc.AddRecord(ctx, in); err != nil {
				return "", err
			}
			return "/financial", nil
		},
		Renderer: func(w http.ResponseWriter, r *http.Request, data any) {
			if m, ok := data.(map[string]any); ok {
				b := &TemplateDataBuilder{data: m, r: r}
				h.addLedger(r, b, model.DateRange{}, nil)
			}
			h.renderForm(w, r, data)
		},
		PageMeta: financialMeta(),
		Data: func(model.RecordInput) map[string]any {
			return map[string]any{
				"Values": submitted(r, "description", "amount", "type", "date", "category"),
				"OpenForm": true,
			}
		},
		OnError: h.logMutationError,
	})
}

// FinancialDeleteRecord removes a manual record.
// POST /financial/records/{id}/delete.
func (h *UIHandlers) FinancialDeleteRecord(w http.ResponseWriter, r *http.Request) {
	back := "/financial"
	if ref := safeRedirectFromURL(r.Header.Get("Referer")); strings.HasPrefix(ref, "/financial") {
		back = ref
	}
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       func(ctx context.Context) error { return h.FinancialSvc.DeleteRecord(ctx, r.PathValue("id")) },
		RedirectPath: back,
	})
}

func financialMeta() PageMeta {
	return PageMeta{Title: "Financeiro", PageTitle: "Financeiro", CurrentPage: PageFinancial}
}

// addLedger loads the ledger into b. Range errors are shown without querying.
func (h *UIHandlers) addLedger(r *http.Request, b *TemplateDataBuilder, rng model.DateRange, rangeErrs map[string]string) {
	if len(rangeErrs) > 0 {
		b.WithFieldErrors(rangeErrs).With("Ledger", &service.Ledger{})
		return
	}
	ledger, err := h.FinancialSvc.Ledger(r.Context(), rng)
	if err != nil {
		if DetermineErrorStatus(err) >= http.StatusInternalServerError {
			h.logger().ErrorContext(r.Context(), "load ledger failed", "error", err)
		}
		b.WithError(processError(err, map[string]string{})).With("Ledger", &service.Ledger{Range: rng})
		return
	}
	b.With("Ledger", ledger)
}

func (h *UIHandlers) parseRange(q url.Values) (model.DateRange, map[string]string) {
	fv := validation.New()
	start := strings.TrimSpace(q.Get("start"))
	end := strings.TrimSpace(q.Get("end"))
	fv.Validate("start", start, validation.Date("Data inicial"))
	fv.Validate("end", end, validation.Date("Data final"))
	if !fv.Valid() {
		return model.DateRange{}, fv.Errors()
	}
	var rng model.DateRange
	if start != "" {
		rng.Start, _ = time.ParseInLocation(validation.DateLayout, start, h.loc())
	}
	if end != "" {
		rng.End, _ = time.ParseInLocation(validation.DateLayout, end, h.loc())
	}
	return rng, nil
}

func (h *UIHandlers) parseRecordForm(r *http.Request) (model.RecordInput, map[string]string) {
	f := newFormValues(r, h.loc())
	in := model.RecordInput{
		Description: f.check("description", validation.Required("Descrição", 300)),
		Amount:      f.money("amount", "Valor"),
		Type: model.EntryType(f.check("type",
			validation.OneOf("Tipo", []string{string(model.EntryIncome), string(model.EntryExpense)}))),
		Date:     f.date("date", "Data"),
		Category: f.check("category", validation.Optional("Categoria", 100)),
	}
	if in.Date.IsZero() {
		now := h.now().In(h.loc())
		in.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc())
	}
	return in, f.errors()
}

package httpx

import (
	"context"
	"net/http"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/http/validation"
)

// productRow decorates a product with its alert badges.
type productRow struct {
	model.Product
	IsExpiring bool
	IsExpired  bool
	IsLow      bool
}

// productForm keeps the raw submitted text next to the parsed input.
type productForm struct {
	ID     string
	Input  model.ProductInput
	Values map[string]string
}

// Stock lists every product with expiry and low-stock badges.
// GET /stock.
func (h *UIHandlers) Stock(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Estoque", PageTitle: "Estoque Inteligente", CurrentPage: PageStock},
		Fetch: func(ctx context.Context, data map[string]any) error {
			products, err := h.StockSvc.List(ctx)
			if err != nil {
				return err
			}
			policy := h.StockSvc.Policy()
			now := h.now()
			rows := make([]productRow, 0, len(products))
			var expiring, low int
			for _, p := range products {
				row := productRow{
					Product:    p,
					IsExpiring: p.ExpiringWithin(now, policy.ExpiryWindow),
					IsExpired:  p.Expired(now),
					IsLow:      p.LowStock(policy.LowStockThreshold),
				}
				if row.IsExpiring {
					expiring++
				}
				if row.IsLow {
					low++
				}
				rows = append(rows, row)
			}
			data["Products"] = rows
			data["ExpiringCount"] = expiring
			data["LowCount"] = low
			data["Policy"] = policy
			return nil
		},
	})
}

// ProductNew renders an empty product form.
// GET /stock/new.
func (h *UIHandlers) ProductNew(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: productFormMeta(FormModeCreate),
		Fetch: func(_ context.Context, data map[string]any) error {
			withData(data, productFormData(FormModeCreate, productForm{Values: map[string]string{}}))
			return nil
		},
	})
}

// ProductCreate handles the new product form.
// POST /stock/new.
func (h *UIHandlers) ProductCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[productForm]{
		W: w, R: r,
		Parser: h.parseProductForm,
		Submit: func(ctx context.Context, f productForm) (string, error) {
			if _, err := h.StockSvc.Create(ctx, f.Input); err != nil {
				return "", err
			}
			return "/stock", nil
		},
		Renderer: h.renderForm,
		PageMeta: productFormMeta(FormModeCreate),
		Data:     func(f productForm) map[string]any { return productFormData(FormModeCreate, f) },
		OnError:  h.logMutationError,
	})
}

// ProductEdit renders the product form with stored values.
// GET /stock/{id}/edit.
func (h *UIHandlers) ProductEdit(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: productFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			p, err := h.StockSvc.Get(ctx, r.PathValue("id"))
			if err != nil {
				return err
			}
			values := map[string]string{
				"name":       p.Name,
				"brand":      p.Brand,
				"lot_number": p.LotNumber,
				"cost_price": p.CostPrice.Input(),
				"sale_price": p.SalePrice.Input(),
				"supplier":   p.Supplier,
				"quantity":   itoa(p.Quantity),
			}
			if p.ExpiryDate != nil {
				values["expiry_date"] = p.ExpiryDate.In(h.loc()).Format(validation.DateLayout)
			}
			withData(data, productFormData(FormModeEdit, productForm{ID: p.ID, Values: values}))
			return nil
		},
	})
}

// ProductUpdate handles the edit form.
// POST /stock/{id}/edit.
func (h *UIHandlers) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[productForm]{
		W: w, R: r,
		Parser: func(r *http.Request) (productForm, map[string]string) {
			f, errs := h.parseProductForm(r)
			f.ID = id
			return f, errs
		},
		Submit: func(ctx context.Context, f productForm) (string, error) {
			if _, err := h.StockSvc.Update(ctx, id, f.Input); err != nil {
				return "", err
			}
			return "/stock", nil
		},
		Renderer: h.renderForm,
		PageMeta: productFormMeta(FormModeEdit),
		Data:     func(f productForm) map[string]any { return productFormData(FormModeEdit, f) },
		OnError:  h.logMutationError,
	})
}

// ProductDelete removes a product.
// POST /stock/{id}/delete.
func (h *UIHandlers) ProductDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       func(ctx context.Context) error { return h.StockSvc.Delete(ctx, r.PathValue("id")) },
		RedirectPath: "/stock",
	})
}

func (h *UIHandlers) parseProductForm(r *http.Request) (productForm, map[string]string) {
	f := newFormValues(r, h.loc())
	in := model.ProductInput{
		Name:      f.check("name", validation.Required("Nome", 200)),
		Brand:     f.check("brand", validation.Optional("Marca", 200)),
		LotNumber: f.check("lot_number", validation.Optional("Lote", 100)),
		CostPrice: f.money("cost_price", "Preço de custo"),
		SalePrice: f.money("sale_price", "Preço de venda"),
		Supplier:  f.check("supplier", validation.Optional("Fornecedor", 200)),
	}
	if q := f.intOpt("quantity", "Quantidade", 0, 1_000_000); q != nil {
		in.Quantity = *q
	}
	if d := f.date("expiry_date", "Validade"); !d.IsZero() {
		in.ExpiryDate = &d
	}
	values := submitted(r, "name", "brand", "lot_number", "expiry_date", "cost_price", "sale_price", "supplier", "quantity")
	return productForm{Input: in, Values: values}, f.errors()
}

func productFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Editar produto", PageTitle: "Editar produto", CurrentPage: PageProductForm}
	}
	return PageMeta{Title: "Novo produto", PageTitle: "Novo produto", CurrentPage: PageProductForm}
}

func productFormData(mode FormMode, f productForm) map[string]any {
	action := "/stock/new"
	if mode == FormModeEdit {
		action = "/stock/" + f.ID + "/edit"
	}
	return map[string]any{
		"Mode":      string(mode),
		"Form":      f,
		"Values":    f.Values,
		"Action":    action,
		"CancelURL": "/stock",
	}
}

package httpx

import (
	"context"
	"net/http"
)

// SkinAnalysis renders the before/after gallery. Patients without photos on both sides
// are listed separately.
// GET /skin-analysis.
func (h *UIHandlers) SkinAnalysis(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Skin Analysis", PageTitle: "Skin Analysis (Antes e Depois)", CurrentPage: PageSkinAnalysis},
		Fetch: func(ctx context.Context, data map[string]any) error {
			sets, err := h.SkinSvc.Gallery(ctx)
			if err != nil {
				return err
			}
			complete := sets[:0:0]
			partial := sets[:0:0]
			for _, s := range sets {
				if s.Complete() {
					complete = append(complete, s)
				} else {
					partial = append(partial, s)
				}
			}
			data["Comparisons"] = complete
			data["Partial"] = partial
			return nil
		},
	})
}

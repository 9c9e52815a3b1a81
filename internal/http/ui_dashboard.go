package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

// Index serves the home page with today's figures and stock alerts.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			v, _ := ViewerFromContext(ctx)
			data["CanSeeFinancial"] = v.HasPermission(domainauth.PermissionFinancial)
			data["CanSeeStock"] = v.HasPermission(domainauth.PermissionStock)
			data["CanSeeCalendar"] = v.HasPermission(domainauth.PermissionCalendar)
			data["CanSeePatients"] = v.HasPermission(domainauth.PermissionPatients)
			if h.DashboardSvc == nil {
				return nil
			}
			stats, err := h.DashboardSvc.Stats(ctx)
			if err != nil {
				return err
			}
			data["Stats"] = stats
			return nil
		},
	})
}

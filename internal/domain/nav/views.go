// Package nav holds the navigation model of the dashboard: the closed set of views,
// the permission each one requires, and the top-level gate decision.
package nav

import "github.com/Killzin1000/quality-estetica2/internal/domain/auth"

// View identifies one screen of the dashboard.
type View string

const (
	ViewDashboard    View = "dashboard"
	ViewPatients     View = "patients"
	ViewStock        View = "stock"
	ViewFinancial    View = "financial"
	ViewCalendar     View = "calendar"
	ViewSkinAnalysis View = "skin-analysis"
	ViewAdminUsers   View = "admin-users"
)

// PermissionChecker answers authorization questions about the current profile.
// session.Store and auth.Access both satisfy it.
type PermissionChecker interface {
	HasPermission(p auth.Permission) bool
	IsAdmin() bool
}

type viewSpec struct {
	view     View
	label    string
	path     string
	perm     auth.Permission
	needPerm bool
}

//nolint:gochecknoglobals // closed, read-only view table in menu order
var views = []viewSpec{
	{view: ViewDashboard, label: "Dashboard", path: "/"},
	{view: ViewPatients, label: "Pacientes & Prontuário", path: "/patients", perm: auth.PermissionPatients, needPerm: true},
	{view: ViewStock, label: "Estoque Inteligente", path: "/stock", perm: auth.PermissionStock, needPerm: true},
	{view: ViewFinancial, label: "Financeiro", path: "/financial", perm: auth.PermissionFinancial, needPerm: true},
	{view: ViewCalendar, label: "Agenda", path: "/calendar", perm: auth.PermissionCalendar, needPerm: true},
	{view: ViewSkinAnalysis, label: "Skin Analysis AI", path: "/skin-analysis", perm: auth.PermissionSkinAnalysis, needPerm: true},
	{view: ViewAdminUsers, label: "Gestão de Usuários", path: "/admin/users", perm: auth.PermissionAdmin, needPerm: true},
}

func lookup(v View) (viewSpec, bool) {
	for _, s := range views {
		if s.view == v {
			return s, true
		}
	}
	return viewSpec{}, false
}

// All returns every view in menu order.
func All() []View {
	out := make([]View, len(views))
	for i, s := range views {
		out[i] = s.view
	}
	return out
}

// Valid reports whether v belongs to the closed set.
func (v View) Valid() bool {
	_, ok := lookup(v)
	return ok
}

// Label returns the menu label.
func (v View) Label() string {
	s, _ := lookup(v)
	return s.label
}

// Path returns the URL path that renders the view.
func (v View) Path() string {
	s, _ := lookup(v)
	return s.path
}

// RequiredPermission returns the permission a view needs. ok is false for views open to every
// active profile. admin-users requires the admin pseudo-permission.
func RequiredPermission(v View) (perm auth.Permission, ok bool) {
	s, found := lookup(v)
	if !found {
		return auth.PermissionAdmin, true
	}
	return s.perm, s.needPerm
}

// Allowed reports whether c may open v. Unknown views are admin-only.
func Allowed(v View, c PermissionChecker) bool {
	perm, ok := RequiredPermission(v)
	if !ok {
		return true
	}
	if perm == auth.PermissionAdmin {
		return c.IsAdmin()
	}
	return c.HasPermission(perm)
}

// VisibleViews returns, in menu order, the views c may open.
func VisibleViews(c PermissionChecker) []View {
	out := make([]View, 0, len(views))
	for _, s := range views {
		if Allowed(s.view, c) {
			out = append(out, s.view)
		}
	}
	return out
}

// ViewForPath maps a request path to the view that owns it.
// Sub-paths belong to their parent view ("/patients/42" → patients).
func ViewForPath(path string) (View, bool) {
	best := viewSpec{}
	for _, s := range views {
		if s.path == "/" {
			continue
		}
		if path == s.path || (len(path) > len(s.path) && path[:len(s.path)] == s.path && path[len(s.path)] == '/') {
			if len(s.path) > len(best.path) {
				best = s
			}
		}
	}
	if best.view != "" {
		return best.view, true
	}
	if path == "/" {
		return ViewDashboard, true
	}
	return "", false
}

// AccessChecker adapts an auth.Access to PermissionChecker.
type AccessChecker struct{ Access auth.Access }

func (a AccessChecker) HasPermission(p auth.Permission) bool { return a.Access.Allows(p) }
func (a AccessChecker) IsAdmin() bool                        { return a.Access.IsAdmin() }

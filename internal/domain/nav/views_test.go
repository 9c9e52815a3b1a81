package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

func checker(role auth.Role, perms ...auth.Permission) PermissionChecker {
	p := auth.Profile{Role: role, Permissions: auth.NewPermissionSet(perms...), Status: auth.StatusActive}
	return AccessChecker{Access: p.Access()}
}

func TestVisibleViews_CollaboratorWithStockAndPatients(t *testing.T) {
	got := VisibleViews(checker(auth.RoleCollaborator, auth.PermissionStock, auth.PermissionPatients))
	assert.Equal(t, []View{ViewDashboard, ViewPatients, ViewStock}, got)
}

func TestVisibleViews_AdminSeesEverything(t *testing.T) {
	got := VisibleViews(checker(auth.RoleAdmin))
	assert.Equal(t, All(), got)
	assert.Contains(t, got, ViewAdminUsers)
}

func TestVisibleViews_Properties(t *testing.T) {
	cases := []PermissionChecker{
		checker(auth.RoleCollaborator),
		checker(auth.RoleCollaborator, auth.PermissionFinancial, auth.PermissionSettings),
		checker(auth.RoleCollaborator, auth.AllPermissions()...),
		checker(auth.RoleAdmin),
		AccessChecker{},
	}
	for _, c := range cases {
		got := VisibleViews(c)
		assert.Contains(t, got, ViewDashboard)
		assert.Equal(t, c.IsAdmin(), contains(got, ViewAdminUsers))
		for _, v := range All() {
			perm, ok := RequiredPermission(v)
			if !ok || v == ViewAdminUsers {
				continue
			}
			assert.Equal(t, c.HasPermission(perm), contains(got, v), v)
		}
	}
}

func TestCollaboratorWithEveryTagStillCannotAdmin(t *testing.T) {
	c := checker(auth.RoleCollaborator, auth.AllPermissions()...)
	assert.False(t, Allowed(ViewAdminUsers, c))
	assert.True(t, Allowed(ViewSkinAnalysis, c))
}

func TestRequiredPermission(t *testing.T) {
	_, ok := RequiredPermission(ViewDashboard)
	assert.False(t, ok)

	perm, ok := RequiredPermission(ViewFinancial)
	assert.True(t, ok)
	assert.Equal(t, auth.PermissionFinancial, perm)

	perm, ok = RequiredPermission(ViewAdminUsers)
	assert.True(t, ok)
	assert.Equal(t, auth.PermissionAdmin, perm)

	perm, ok = RequiredPermission(View("reports"))
	assert.True(t, ok, "unknown views fail closed")
	assert.Equal(t, auth.PermissionAdmin, perm)
}

func TestViewForPath(t *testing.T) {
	tests := map[string]View{
		"/":                     ViewDashboard,
		"/patients":             ViewPatients,
		"/patients/abc/notes":   ViewPatients,
		"/stock/1/edit":         ViewStock,
		"/admin/users/xyz":      ViewAdminUsers,
		"/skin-analysis":        ViewSkinAnalysis,
		"/calendar/settings":    ViewCalendar,
		"/financial/records/99": ViewFinancial,
	}
	for path, want := range tests {
		got, ok := ViewForPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := ViewForPath("/patientsx")
	assert.False(t, ok)
	_, ok = ViewForPath("/static/app.css")
	assert.False(t, ok)
}

func TestLabelsAndPaths(t *testing.T) {
	assert.Equal(t, "Pacientes & Prontuário", ViewPatients.Label())
	assert.Equal(t, "Gestão de Usuários", ViewAdminUsers.Label())
	assert.Equal(t, "/admin/users", ViewAdminUsers.Path())
	assert.True(t, ViewCalendar.Valid())
	assert.False(t, View("settings").Valid())
}

func contains(vs []View, v View) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

package httpx

import "github.com/Killzin1000/quality-estetica2/internal/domain/nav"

// TemplatePathFromRoot is where templates live on disk, relative to the repository root.
const TemplatePathFromRoot = "frontend/templates"

// Page identifiers used as CurrentPage in template data.
const (
	PageDashboard      = "dashboard"
	PagePatients       = "patients"
	PagePatientForm    = "patient-form"
	PagePatientProfile = "patient-profile"
	PageStock          = "stock"
	PageProductForm    = "product-form"
	PageFinancial      = "financial"
	PageCalendar       = "calendar"
	PageSkinAnalysis   = "skin-analysis"
	PageAdminUsers     = "admin-users"
	PageAdminUserForm  = "admin-user-form"
	PageDenied         = "denied"
	PageNotFound       = "not-found"
	PageError          = "error"

	// Standalone screens rendered without the sidebar.
	PageSignIn  = "signin"
	PageSignUp  = "signup"
	PagePending = "pending"
	PageBlocked = "blocked"
	PageLoading = "loading"
)

// DeniedMessage is the placeholder shown in place of a view the profile may not open.
const DeniedMessage = "Você não tem permissão para acessar este módulo."

//nolint:gochecknoglobals // read-only lookup table
var contentTemplates = map[string]string{
	PageDashboard:      "dashboard-content",
	PagePatients:       "patients-content",
	PagePatientForm:    "patient-form-content",
	PagePatientProfile: "patient-profile-content",
	PageStock:          "stock-content",
	PageProductForm:    "product-form-content",
	PageFinancial:      "financial-content",
	PageCalendar:       "calendar-content",
	PageSkinAnalysis:   "skin-analysis-content",
	PageAdminUsers:     "admin-users-content",
	PageAdminUserForm:  "admin-user-form-content",
	PageDenied:         "denied-content",
	PageNotFound:       "not-found-content",
	PageError:          "error-content",
	PageSignIn:         "signin-content",
	PageSignUp:         "signup-content",
	PagePending:        "pending-content",
	PageBlocked:        "blocked-content",
	PageLoading:        "loading-content",
}

//nolint:gochecknoglobals // view a page belongs to, for sidebar highlighting
var pageViews = map[string]nav.View{
	PageDashboard:      nav.ViewDashboard,
	PagePatients:       nav.ViewPatients,
	PagePatientForm:    nav.ViewPatients,
	PagePatientProfile: nav.ViewPatients,
	PageStock:          nav.ViewStock,
	PageProductForm:    nav.ViewStock,
	PageFinancial:      nav.ViewFinancial,
	PageCalendar:       nav.ViewCalendar,
	PageSkinAnalysis:   nav.ViewSkinAnalysis,
	PageAdminUsers:     nav.ViewAdminUsers,
	PageAdminUserForm:  nav.ViewAdminUsers,
}

// ContentTemplateMap exposes the page → template mapping for tests.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template name for a page, defaulting to the error content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "error-content"
}

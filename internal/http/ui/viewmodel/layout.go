package viewmodel

// User is the signed-in user as shown in the header.
type User struct {
	Name    string
	Email   string
	Role    string
	IsAdmin bool
}

// NavItem is one sidebar entry.
type NavItem struct {
	View   string
	Label  string
	Path   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation, CSRF token, user).
type Layout struct {
	Title       string
	PageTitle   string
	CurrentPage string
	CSRFToken   string
	RequestID   string
	User        *User
	Nav         []NavItem
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

package auth

import (
	"fmt"
	"slices"
	"strings"
)

// Permission is a capability a collaborator profile may hold.
type Permission string

const (
	PermissionFinancial    Permission = "financial"
	PermissionStock        Permission = "stock"
	PermissionPatients     Permission = "patients"
	PermissionCalendar     Permission = "calendar"
	PermissionSkinAnalysis Permission = "skin-analysis"
	PermissionSettings     Permission = "settings"

	// PermissionAdmin is implied by the admin role and is never stored.
	PermissionAdmin Permission = "admin"
)

// AllPermissions lists every storable permission in display order.
func AllPermissions() []Permission {
	return []Permission{
		PermissionFinancial,
		PermissionStock,
		PermissionPatients,
		PermissionCalendar,
		PermissionSkinAnalysis,
		PermissionSettings,
	}
}

// Storable reports whether p can be granted to a collaborator.
func (p Permission) Storable() bool { return slices.Contains(AllPermissions(), p) }

// Label returns the Portuguese label used in the admin screen.
func (p Permission) Label() string {
	switch p {
	case PermissionFinancial:
		return "Financeiro"
	case PermissionStock:
		return "Estoque"
	case PermissionPatients:
		return "Pacientes"
	case PermissionCalendar:
		return "Agenda"
	case PermissionSkinAnalysis:
		return "Skin Analysis"
	case PermissionSettings:
		return "Configurações"
	case PermissionAdmin:
		return "Administrador"
	default:
		return string(p)
	}
}

// PermissionSet is a finite set of storable permissions kept sorted and deduplicated.
// The zero value is the empty set.
type PermissionSet struct {
	items []Permission
}

// NewPermissionSet builds a set from ps, dropping duplicates and the admin pseudo-permission.
func NewPermissionSet(ps ...Permission) PermissionSet {
	out := make([]Permission, 0, len(ps))
	for _, p := range ps {
		if !p.Storable() || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	slices.Sort(out)
	return PermissionSet{items: out}
}

// ParsePermissionSet parses raw tags (as stored or submitted) and rejects unknown ones.
func ParsePermissionSet(raw []string) (PermissionSet, error) {
	ps := make([]Permission, 0, len(raw))
	for _, r := range raw {
		p := Permission(strings.TrimSpace(r))
		if p == "" {
			continue
		}
		if !p.Storable() {
			return PermissionSet{}, fmt.Errorf("unknown permission %q", r)
		}
		ps = append(ps, p)
	}
	return NewPermissionSet(ps...), nil
}

// Has reports membership.
func (s PermissionSet) Has(p Permission) bool { return slices.Contains(s.items, p) }

// Len returns the number of permissions.
func (s PermissionSet) Len() int { return len(s.items) }

// Slice returns a copy of the members in sorted order.
func (s PermissionSet) Slice() []Permission { return slices.Clone(s.items) }

// Strings returns the members as raw strings, suitable for a text[] column.
func (s PermissionSet) Strings() []string {
	out := make([]string, len(s.items))
	for i, p := range s.items {
		out[i] = string(p)
	}
	return out
}

// Access is the authorization variant of a profile: either Admin, or Collaborator with a set.
// The zero value is a collaborator without permissions.
type Access struct {
	admin bool
	perms PermissionSet
}

// AdminAccess grants every permission.
func AdminAccess() Access { return Access{admin: true} }

// CollaboratorAccess grants exactly perms.
func CollaboratorAccess(perms PermissionSet) Access { return Access{perms: perms} }

// IsAdmin reports whether this is the Admin variant.
func (a Access) IsAdmin() bool { return a.admin }

// Permissions returns the collaborator permission set. It is empty for Admin.
func (a Access) Permissions() PermissionSet { return a.perms }

// Allows reports whether the access grants p.
// Admin allows everything including the admin pseudo-permission.
func (a Access) Allows(p Permission) bool {
	if a.admin {
		return true
	}
	return p != PermissionAdmin && a.perms.Has(p)
}

func (a Access) String() string {
	if a.admin {
		return "admin"
	}
	return "collaborator" + fmt.Sprint(a.perms.Strings())
}

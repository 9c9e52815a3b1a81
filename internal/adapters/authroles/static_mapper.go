package authroles

import (
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

// StaticRoleMapper decides the initial role and status of an SSO-provisioned profile
// from the identity provider's groups.
//
// Members of AdminGroup become active admins. Members of StaffGroup become
// collaborators with status AutoApprove (pending when empty). Everyone else is
// a pending collaborator awaiting an administrator.
type StaticRoleMapper struct {
	AdminGroup  string
	StaffGroup  string
	AutoApprove bool
}

func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, domainauth.Status) {
	if m.member(groups, m.AdminGroup) {
		return domainauth.RoleAdmin, domainauth.StatusActive
	}
	if m.AutoApprove && m.member(groups, m.StaffGroup) {
		return domainauth.RoleCollaborator, domainauth.StatusActive
	}
	return domainauth.RoleCollaborator, domainauth.StatusPending
}

func (StaticRoleMapper) member(groups []string, want string) bool {
	if want == "" {
		return false
	}
	for _, g := range groups {
		if g == want {
			return true
		}
	}
	return false
}

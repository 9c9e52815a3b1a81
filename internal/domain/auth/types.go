// Package auth contains domain-level types for identities, sessions and authorization profiles.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"errors"
	"time"
)

// Role is the application role stored on a profile.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCollaborator Role = "collaborator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCollaborator }

// Status is the approval status of a profile.
type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
	StatusBlocked Status = "blocked"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusBlocked:
		return true
	default:
		return false
	}
}

// Identity is the authenticated subject issued by an identity provider.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // profile id (uuid)
	Email     string
	FullName  string
	Groups    []string
	ExpiresAt time.Time
}

// Session is the server-side record persisted for a signed-in identity.
// ID is an opaque identifier; the browser only ever sees a signed token wrapping it.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity returns the identity carried by the session.
func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Email: s.Email, FullName: s.FullName, ExpiresAt: s.ExpiresAt}
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) }

// Profile is the authorization record of an identity: role, permissions and approval status.
type Profile struct {
	ID          string
	Email       string
	FullName    string
	Role        Role
	Permissions PermissionSet
	Status      Status
	CreatedAt   time.Time
}

// Access returns the explicit access variant for the profile.
// Unknown roles degrade to a collaborator with the stored permissions.
func (p Profile) Access() Access {
	if p.Role == RoleAdmin {
		return AdminAccess()
	}
	return CollaboratorAccess(p.Permissions)
}

// DisplayName returns the full name, falling back to the e-mail.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// NewPendingProfile builds the profile provisioned for a fresh sign-up:
// collaborator, pending, no permissions.
func NewPendingProfile(id Identity, now time.Time) Profile {
	return Profile{
		ID:          id.UserID,
		Email:       id.Email,
		FullName:    id.FullName,
		Role:        RoleCollaborator,
		Permissions: PermissionSet{},
		Status:      StatusPending,
		CreatedAt:   now,
	}
}

// AccessUpdate is the admin-editable part of a profile.
type AccessUpdate struct {
	Role        Role
	Status      Status
	Permissions PermissionSet
}

// Sentinel errors shared by the identity, session and profile layers.
var (
	ErrNoSession          = errors.New("no session")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
)

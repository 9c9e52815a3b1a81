// Package ports defines interfaces (hexagonal ports) for identity, session and profile behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes a redirect-based (SSO) authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SignUpInput is a credential registration request.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// CredentialAuthenticator verifies e-mail/password credentials and registers new identities.
// Register provisions the pending profile together with the credentials.
type CredentialAuthenticator interface {
	Register(ctx context.Context, in SignUpInput) (domainauth.Identity, error)
	Authenticate(ctx context.Context, email, password string) (domainauth.Identity, error)
}

// SessionStore persists and retrieves sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to the access a newly provisioned SSO profile receives.
type RoleMapper interface {
	Map(groups []string) (domainauth.Role, domainauth.Status)
}

// SessionEventBus fans out session-change notifications to every server instance.
type SessionEventBus interface {
	Publish(ctx context.Context, ev domainauth.SessionEvent) error
	// Subscribe delivers events in publication order until ctx is done.
	Subscribe(ctx context.Context, handle func(domainauth.SessionEvent)) error
}

// ProfileCache caches authorization profiles by user id.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (domainauth.Profile, bool, error)
	Set(ctx context.Context, p domainauth.Profile) error
	Invalidate(ctx context.Context, userID string) error
}

// TokenCodec wraps session ids into signed, expiring browser tokens.
type TokenCodec interface {
	Issue(sess domainauth.Session) (string, error)
	Parse(token string) (TokenClaims, error)
}

// TokenClaims are the verified contents of a session token.
type TokenClaims struct {
	SessionID string
	UserID    string
	IssuedAt  int64
	ExpiresAt int64
}

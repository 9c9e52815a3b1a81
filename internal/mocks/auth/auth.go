// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider            = (*MockAuthProvider)(nil)
	_ ports.CredentialAuthenticator = (*MemoryCredentials)(nil)
	_ ports.SessionStore            = (*MemorySessionStore)(nil)
	_ ports.RoleMapper              = StaticRoleMapper{}
	_ ports.SessionEventBus         = (*MemoryEventBus)(nil)
	_ ports.ProfileCache            = (*MemoryProfileCache)(nil)
)

// ErrNotFound is returned by the memory stores when an entity is not present.
var ErrNotFound = fmt.Errorf("mock: %w", domainauth.ErrNoSession)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:   "6f1c2a34-5b6d-4e7f-8a9b-0c1d2e3f4a5b",
			FullName: "Mock User",
			Email:    "mock.user@example.com",
			Groups:   []string{"staff"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	statePrefix, noncePrefix := m.StatePrefix, m.NoncePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}
	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), fmt.Sprintf("%s-%d", noncePrefix, n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	if user.UserID == "" {
		user = NewMockAuthProvider().DefaultUser
	}
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// MemoryCredentials is an in-memory CredentialAuthenticator. Passwords are stored in clear.
type MemoryCredentials struct {
	mu    sync.Mutex
	users map[string]memoryUser
	seq   int
}

type memoryUser struct {
	identity domainauth.Identity
	password string
}

// NewMemoryCredentials creates an empty credential store.
func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{users: make(map[string]memoryUser)}
}

func (m *MemoryCredentials) Register(_ context.Context, in ports.SignUpInput) (domainauth.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 6 {
		return domainauth.Identity{}, errors.New("invalid sign-up input")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return domainauth.Identity{}, errors.New("email already registered")
	}
	m.seq++
	id := domainauth.Identity{
		UserID:   fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq),
		Email:    email,
		FullName: strings.TrimSpace(in.FullName),
	}
	m.users[email] = memoryUser{identity: id, password: in.Password}
	return id, nil
}

func (m *MemoryCredentials) Authenticate(_ context.Context, email, password string) (domainauth.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || u.password != password {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}
	return u.identity, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	AdminGroup string
	StaffGroup string
}

func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, domainauth.Status) {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin, domainauth.StatusActive
		}
	}
	return domainauth.RoleCollaborator, domainauth.StatusPending
}

// MemoryEventBus records published events and delivers them synchronously to subscribers.
type MemoryEventBus struct {
	mu         sync.Mutex
	published  []domainauth.SessionEvent
	handlers   []func(domainauth.SessionEvent)
	PublishErr error
}

// NewMemoryEventBus creates an empty bus.
func NewMemoryEventBus() *MemoryEventBus { return &MemoryEventBus{} }

func (b *MemoryEventBus) Publish(_ context.Context, ev domainauth.SessionEvent) error {
	b.mu.Lock()
	if b.PublishErr != nil {
		b.mu.Unlock()
		return b.PublishErr
	}
	b.published = append(b.published, ev)
	handlers := append([]func(domainauth.SessionEvent){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// Subscribe registers handle and blocks until ctx is done.
func (b *MemoryEventBus) Subscribe(ctx context.Context, handle func(domainauth.SessionEvent)) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, handle)
	b.mu.Unlock()
	<-ctx.Done()
	return nil
}

// Published returns a copy of every event published so far.
func (b *MemoryEventBus) Published() []domainauth.SessionEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domainauth.SessionEvent(nil), b.published...)
}

// MemoryProfileCache is a map-backed ProfileCache.
type MemoryProfileCache struct {
	mu       sync.Mutex
	profiles map[string]domainauth.Profile
	GetErr   error
}

// NewMemoryProfileCache creates an empty cache.
func NewMemoryProfileCache() *MemoryProfileCache {
	return &MemoryProfileCache{profiles: make(map[string]domainauth.Profile)}
}

func (c *MemoryProfileCache) Get(_ context.Context, userID string) (domainauth.Profile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return domainauth.Profile{}, false, c.GetErr
	}
	p, ok := c.profiles[userID]
	return p, ok, nil
}

func (c *MemoryProfileCache) Set(_ context.Context, p domainauth.Profile) error {
	c.mu.Lock()
	c.profiles[p.ID] = p
	c.mu.Unlock()
	return nil
}

func (c *MemoryProfileCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	delete(c.profiles, userID)
	c.mu.Unlock()
	return nil
}

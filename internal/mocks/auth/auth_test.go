package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/sso/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Exchange_DefaultUser(t *testing.T) {
	id, err := NewMockAuthProvider().Exchange(context.Background(), ports.ExchangeInput{Code: "c"})
	require.NoError(t, err)
	assert.Equal(t, "mock.user@example.com", id.Email)
	assert.False(t, id.ExpiresAt.IsZero())
}

func TestMemoryCredentials(t *testing.T) {
	ctx := context.Background()
	creds := NewMemoryCredentials()

	id, err := creds.Register(ctx, ports.SignUpInput{Email: "Ana@Clinica.com", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@clinica.com", id.Email)

	_, err = creds.Register(ctx, ports.SignUpInput{Email: "ana@clinica.com", Password: "secret1"})
	require.Error(t, err)

	got, err := creds.Authenticate(ctx, "ana@clinica.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.UserID, got.UserID)

	_, err = creds.Authenticate(ctx, "ana@clinica.com", "wrong")
	assert.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", UserID: "u1"}))

	sess, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)
}

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "admins", StaffGroup: "staff"}
	role, status := m.Map([]string{"staff", "admins"})
	assert.Equal(t, domainauth.RoleAdmin, role)
	assert.Equal(t, domainauth.StatusActive, status)

	role, status = m.Map([]string{"staff"})
	assert.Equal(t, domainauth.RoleCollaborator, role)
	assert.Equal(t, domainauth.StatusPending, status)
}

func TestMemoryEventBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewMemoryEventBus()

	received := make(chan domainauth.SessionEvent, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Subscribe(ctx, func(ev domainauth.SessionEvent) { received <- ev })
	}()
	require.Eventually(t, func() bool {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		return len(bus.handlers) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Publish(ctx, domainauth.SessionEvent{Kind: domainauth.EventUserUpdated, UserID: "u1"}))
	assert.Equal(t, "u1", (<-received).UserID)
	assert.Len(t, bus.Published(), 1)

	cancel()
	<-done

	bus.PublishErr = errors.New("down")
	assert.Error(t, bus.Publish(context.Background(), domainauth.SessionEvent{}))
}

func TestMemoryProfileCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryProfileCache()

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, domainauth.Profile{ID: "u1", Role: domainauth.RoleAdmin}))
	p, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domainauth.RoleAdmin, p.Role)

	require.NoError(t, cache.Invalidate(ctx, "u1"))
	_, ok, _ = cache.Get(ctx, "u1")
	assert.False(t, ok)
}

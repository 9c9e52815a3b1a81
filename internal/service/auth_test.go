package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Killzin1000/quality-estetica2/internal/adapters/tokens"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/mocks"
	authmocks "github.com/Killzin1000/quality-estetica2/internal/mocks/auth"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

const testTokenSecret = "0123456789abcdef0123456789abcdef"

type recordingObserver struct{ events []string }

func (r *recordingObserver) ObserveAuth(event string, err error) {
	if err != nil {
		event += ":error"
	}
	r.events = append(r.events, event)
}

type authFixture struct {
	svc      *AuthService
	creds    *authmocks.MemoryCredentials
	sessions *authmocks.MemorySessionStore
	bus      *authmocks.MemoryEventBus
	observer *recordingObserver
	now      *time.Time
}

func newAuthFixture(t *testing.T, mutate func(*AuthServiceOptions)) *authFixture {
	t.Helper()
	now := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	f := &authFixture{
		creds:    authmocks.NewMemoryCredentials(),
		sessions: authmocks.NewMemorySessionStore(),
		bus:      authmocks.NewMemoryEventBus(),
		observer: &recordingObserver{},
		now:      &now,
	}
	clock := func() time.Time { return *f.now }
	codec, err := tokens.NewCodec(testTokenSecret, tokens.WithClock(clock))
	require.NoError(t, err)

	opts := AuthServiceOptions{
		Credentials:   f.creds,
		Sessions:      f.sessions,
		Tokens:        codec,
		Events:        f.bus,
		Observer:      f.observer,
		SessionTTL:    8 * time.Hour,
		RefreshWindow: time.Hour,
		Now:           clock,
	}
	if mutate != nil {
		mutate(&opts)
	}
	f.svc = NewAuthService(opts)
	return f
}

func TestNewAuthService_RequiresSessionsAndTokens(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
}

func TestAuthService_SignUpStartsSession(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.SignUp(ctx, ports.SignUpInput{Email: "ana@clinica.com", Password: "secret1", FullName: "Ana"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "ana@clinica.com", res.Session.Email)
	assert.Equal(t, f.now.Add(8*time.Hour), res.Session.ExpiresAt)

	sid, err := f.svc.ResolveToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, sid)

	events := f.bus.Published()
	require.Len(t, events, 1)
	assert.Equal(t, domainauth.EventSignedIn, events[0].Kind)
	require.NotNil(t, events[0].Identity)
	assert.Equal(t, res.Session.UserID, events[0].Identity.UserID)
	assert.Equal(t, []string{AuthEventSignUp}, f.observer.events)
}

func TestAuthService_SignIn(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	_, err := f.creds.Register(ctx, ports.SignUpInput{Email: "ana@clinica.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		res, err := f.svc.SignIn(ctx, "ana@clinica.com", "secret1")
		require.NoError(t, err)
		sess, err := f.svc.GetSession(ctx, res.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, res.Session.UserID, sess.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.SignIn(ctx, "ana@clinica.com", "nope")
		assert.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := f.svc.SignIn(ctx, " ", "")
		assert.ErrorIs(t, err, domainauth.ErrInvalidCredentials)
	})

	assert.Contains(t, f.observer.events, AuthEventSignIn+":error")
}

func TestAuthService_PasswordDisabled(t *testing.T) {
	f := newAuthFixture(t, func(o *AuthServiceOptions) { o.Credentials = nil })
	assert.False(t, f.svc.PasswordEnabled())
	_, err := f.svc.SignIn(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
}

func TestAuthService_GetSession(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.GetSession(ctx, "")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	_, err = f.svc.GetSession(ctx, "unknown")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	expired := domainauth.Session{ID: "old", UserID: "u1", ExpiresAt: f.now.Add(-time.Minute)}
	require.NoError(t, f.sessions.Save(ctx, expired))
	_, err = f.svc.GetSession(ctx, "old")
	assert.ErrorIs(t, err, domainauth.ErrSessionExpired)
	assert.Equal(t, 0, f.sessions.Len(), "expired sessions are removed")
}

func TestAuthService_GetSession_StoreFailure(t *testing.T) {
	store := &failingSessionStore{err: errors.New("redis down")}
	f := newAuthFixture(t, func(o *AuthServiceOptions) { o.Sessions = store })
	_, err := f.svc.GetSession(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	assert.NotErrorIs(t, err, domainauth.ErrNoSession)
}

type failingSessionStore struct{ err error }

func (f *failingSessionStore) Save(context.Context, domainauth.Session) error { return f.err }
func (f *failingSessionStore) Get(context.Context, string) (domainauth.Session, error) {
	return domainauth.Session{}, f.err
}
func (f *failingSessionStore) Delete(context.Context, string) error { return f.err }

func TestAuthService_SignOut(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	res, err := f.svc.SignUp(ctx, ports.SignUpInput{Email: "ana@clinica.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOut(ctx, res.Session.ID))
	require.NoError(t, f.svc.SignOut(ctx, res.Session.ID), "signing out twice is harmless")
	require.NoError(t, f.svc.SignOut(ctx, ""))

	_, err = f.svc.GetSession(ctx, res.Session.ID)
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	events := f.bus.Published()
	last := events[len(events)-1]
	assert.Equal(t, domainauth.EventSignedOut, last.Kind)
	assert.Equal(t, res.Session.ID, last.SessionID)
	assert.Nil(t, last.Identity)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	res, err := f.svc.SignUp(ctx, ports.SignUpInput{Email: "ana@clinica.com", Password: "secret1"})
	require.NoError(t, err)

	_, refreshed, err := f.svc.Refresh(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.False(t, refreshed, "fresh sessions are left alone")

	*f.now = f.now.Add(7*time.Hour + 30*time.Minute)
	out, refreshed, err := f.svc.Refresh(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, f.now.Add(8*time.Hour), out.Session.ExpiresAt)
	assert.NotEmpty(t, out.Token)

	events := f.bus.Published()
	assert.Equal(t, domainauth.EventTokenRefreshed, events[len(events)-1].Kind)
}

func TestAuthService_PublishFailureDoesNotFailSignIn(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.bus.PublishErr = errors.New("bus down")
	_, err := f.svc.SignUp(context.Background(), ports.SignUpInput{Email: "ana@clinica.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestAuthService_SSO(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockProfileRepository(ctrl)
	provider := authmocks.NewMockAuthProvider()
	provider.DefaultUser.Groups = []string{"clinic-admins"}

	f := newAuthFixture(t, func(o *AuthServiceOptions) {
		o.Credentials = nil
		o.Provider = provider
		o.Roles = authmocks.StaticRoleMapper{AdminGroup: "clinic-admins"}
		o.Profiles = profiles
	})
	ctx := context.Background()

	begin, err := f.svc.BeginLogin(ctx, "http://localhost:8080/auth/sso/callback")
	require.NoError(t, err)
	assert.Equal(t, "state-1", begin.State)

	profiles.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domainauth.Profile) (*domainauth.Profile, error) {
			assert.Equal(t, provider.DefaultUser.UserID, p.ID)
			assert.Equal(t, domainauth.RoleAdmin, p.Role)
			assert.Equal(t, domainauth.StatusActive, p.Status)
			return &p, nil
		})

	res, err := f.svc.CompleteLogin(ctx, CompleteLoginInput{Code: "code", State: begin.State, Nonce: begin.Nonce})
	require.NoError(t, err)
	assert.Equal(t, provider.DefaultUser.UserID, res.Session.UserID)
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	f := newAuthFixture(t, func(o *AuthServiceOptions) { o.Provider = authmocks.NewMockAuthProvider() })
	ctx := context.Background()

	tests := []struct {
		in   CompleteLoginInput
		want string
	}{
		{CompleteLoginInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{CompleteLoginInput{Code: "c", Nonce: "n"}, "state parameter is required"},
		{CompleteLoginInput{Code: "c", State: "s"}, "nonce parameter is required"},
	}
	for _, tt := range tests {
		_, err := f.svc.CompleteLogin(ctx, tt.in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.want)
	}

	_, err := f.svc.BeginLogin(ctx, "")
	assert.Error(t, err)
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := &authmocks.MockAuthProvider{
		ExchangeFunc: func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("nonce mismatch")
		},
	}
	f := newAuthFixture(t, func(o *AuthServiceOptions) { o.Provider = provider })
	_, err := f.svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange authorization code")
	assert.Equal(t, 0, f.sessions.Len())
}

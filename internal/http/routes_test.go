package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Killzin1000/quality-estetica2/internal/adapters/tokens"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	mockauth "github.com/Killzin1000/quality-estetica2/internal/mocks/auth"
	"github.com/Killzin1000/quality-estetica2/internal/service"
	"github.com/Killzin1000/quality-estetica2/internal/session"
)

const testCSRFToken = "test-csrf-token"

type fakeProfiles map[string]*domainauth.Profile

func (f fakeProfiles) FetchProfile(_ context.Context, userID string) (*domainauth.Profile, error) {
	p, ok := f[userID]
	if !ok {
		return nil, domainauth.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

// heldProfiles wraps fakeProfiles so a test can keep profile fetches in flight.
type heldProfiles struct {
	inner   fakeProfiles
	mu      sync.Mutex
	hold    chan struct{}
	started chan string
}

func (g *heldProfiles) holdFetches() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hold = make(chan struct{})
	return g.hold
}

func (g *heldProfiles) FetchProfile(ctx context.Context, userID string) (*domainauth.Profile, error) {
	g.mu.Lock()
	hold := g.hold
	g.mu.Unlock()
	if hold != nil {
		g.started <- userID
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.inner.FetchProfile(ctx, userID)
}

// recordingStock accepts product creation and nothing else.
type recordingStock struct {
	StockUIService
	mu      sync.Mutex
	created []model.ProductInput
}

func (s *recordingStock) Create(_ context.Context, in model.ProductInput) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, in)
	return &model.Product{ID: "p-1", Name: in.Name}, nil
}

type fakeAdminUsers struct {
	profiles []domainauth.Profile
}

func (f *fakeAdminUsers) List(context.Context) ([]domainauth.Profile, error) { return f.profiles, nil }

func (f *fakeAdminUsers) Get(_ context.Context, id string) (*domainauth.Profile, error) {
	for i := range f.profiles {
		if f.profiles[i].ID == id {
			p := f.profiles[i]
			return &p, nil
		}
	}
	return nil, domainauth.ErrProfileNotFound
}

func (f *fakeAdminUsers) UpdateAccess(
	_ context.Context, _ domainauth.Profile, targetID string, upd domainauth.AccessUpdate,
) (*domainauth.Profile, error) {
	return &domainauth.Profile{ID: targetID, Role: upd.Role, Status: upd.Status, Permissions: upd.Permissions}, nil
}

type routerHarness struct {
	handler     http.Handler
	sessions    *mockauth.MemorySessionStore
	credentials *mockauth.MemoryCredentials
	codec       *tokens.Codec
	profiles    fakeProfiles
	fetches     *heldProfiles
	registry    *session.Registry
}

func newRouterHarness(t *testing.T, mutate func(*RouterServices)) *routerHarness {
	t.Helper()
	logger := discardLogger()

	codec, err := tokens.NewCodec(strings.Repeat("k", 32))
	require.NoError(t, err)
	h := &routerHarness{
		sessions:    mockauth.NewMemorySessionStore(),
		credentials: mockauth.NewMemoryCredentials(),
		codec:       codec,
		profiles:    fakeProfiles{},
	}
	h.fetches = &heldProfiles{inner: h.profiles, started: make(chan string, 8)}
	auth := service.NewAuthService(service.AuthServiceOptions{
		Credentials: h.credentials,
		Sessions:    h.sessions,
		Tokens:      codec,
		Logger:      logger,
	})
	registry := session.NewRegistry(session.RegistryOptions{
		Source:   auth,
		Profiles: h.fetches,
		Logger:   logger,
	})
	h.registry = registry

	services := RouterServices{
		Auth:       auth,
		Registry:   registry,
		AdminUsers: &fakeAdminUsers{},
		TemplateFS: os.DirFS("../../frontend/templates"),
		Location:   time.UTC,
		Logger:     logger,
	}
	if mutate != nil {
		mutate(&services)
	}
	handler, err := NewRouter(services)
	require.NoError(t, err)
	h.handler = handler
	return h
}

// signIn stores a live session for userID and returns its cookie. A nil profile leaves
// the user without a profile row.
func (h *routerHarness) signIn(t *testing.T, userID string, p *domainauth.Profile) *http.Cookie {
	t.Helper()
	now := time.Now().UTC()
	sess := domainauth.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		Email:     userID + "@clinica.com",
		IssuedAt:  now,
		ExpiresAt: now.Add(12 * time.Hour),
	}
	require.NoError(t, h.sessions.Save(context.Background(), sess))
	if p != nil {
		p.ID = userID
		h.profiles[userID] = p
	}
	token, err := h.codec.Issue(sess)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func (h *routerHarness) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func formPost(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func activeCollaborator(perms ...domainauth.Permission) *domainauth.Profile {
	return &domainauth.Profile{
		Role:        domainauth.RoleCollaborator,
		Status:      domainauth.StatusActive,
		Permissions: domainauth.NewPermissionSet(perms...),
	}
}

func TestRouter_AnonymousIsSentToSignIn(t *testing.T) {
	h := newRouterHarness(t, nil)

	w := h.serve(httptest.NewRequest(http.MethodGet, "/patients?q=ana", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/signin?redirect_uri="+url.QueryEscape("/patients?q=ana"), w.Header().Get("Location"))
}

func TestRouter_AnonymousHTMXGetsClientRedirect(t *testing.T) {
	h := newRouterHarness(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/stock", nil)
	req.Header.Set("Hx-Request", "true")

	w := h.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/auth/signin?redirect_uri=%2Fstock", w.Header().Get("Hx-Redirect"))
}

func TestRouter_InvalidTokenIsClearedAndRedirected(t *testing.T) {
	h := newRouterHarness(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	w := h.serve(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie should be cleared")
}

func TestRouter_GateScreens(t *testing.T) {
	tests := []struct {
		name     string
		profile  *domainauth.Profile
		wantCode int
		wantBody string
	}{
		{
			name:     "missing profile waits for approval",
			profile:  nil,
			wantCode: http.StatusForbidden,
			wantBody: "Aguardando Aprovação",
		},
		{
			name:     "pending profile waits for approval",
			profile:  &domainauth.Profile{Role: domainauth.RoleCollaborator, Status: domainauth.StatusPending},
			wantCode: http.StatusForbidden,
			wantBody: "Aguardando Aprovação",
		},
		{
			name:     "blocked profile",
			profile:  &domainauth.Profile{Role: domainauth.RoleAdmin, Status: domainauth.StatusBlocked},
			wantCode: http.StatusForbidden,
			wantBody: "Acesso Bloqueado",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRouterHarness(t, nil)
			req := httptest.NewRequest(http.MethodGet, "/patients", nil)
			req.AddCookie(h.signIn(t, "u-1", tt.profile))

			w := h.serve(req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_ViewWithoutPermissionShowsPlaceholder(t *testing.T) {
	h := newRouterHarness(t, nil)
	cookie := h.signIn(t, "u-2", activeCollaborator(domainauth.PermissionPatients))

	for _, path := range []string{"/stock", "/financial", "/calendar", "/admin/users"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.AddCookie(cookie)

			w := h.serve(req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), DeniedMessage)
		})
	}
}

func TestRouter_AdminSeesUserList(t *testing.T) {
	admin := &fakeAdminUsers{profiles: []domainauth.Profile{
		{ID: "u-9", Email: "bia@clinica.com", Role: domainauth.RoleCollaborator, Status: domainauth.StatusPending},
	}}
	h := newRouterHarness(t, func(s *RouterServices) { s.AdminUsers = admin })
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(h.signIn(t, "u-admin", &domainauth.Profile{Role: domainauth.RoleAdmin, Status: domainauth.StatusActive}))

	w := h.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bia@clinica.com")
	assert.NotContains(t, w.Body.String(), DeniedMessage)
}

func TestRouter_CalendarSettingsRequiresSettingsPermission(t *testing.T) {
	h := newRouterHarness(t, nil)
	cookie := h.signIn(t, "u-3", activeCollaborator(domainauth.PermissionCalendar))

	w := h.serve(formPost("/calendar/settings", url.Values{"calendar_id": {"x@group.calendar.google.com"}}, cookie))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), DeniedMessage)
}

func TestRouter_PostWithoutCSRFTokenIsRejected(t *testing.T) {
	h := newRouterHarness(t, nil)
	cookie := h.signIn(t, "u-4", activeCollaborator(domainauth.PermissionStock))
	req := httptest.NewRequest(http.MethodPost, "/stock/new", strings.NewReader("name=Botox"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	w := h.serve(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_InvalidProductFormIsUnprocessable(t *testing.T) {
	h := newRouterHarness(t, nil)
	cookie := h.signIn(t, "u-5", activeCollaborator(domainauth.PermissionStock))

	w := h.serve(formPost("/stock/new", url.Values{"name": {""}, "quantity": {"-3"}}, cookie))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_PostDuringProfileRefreshIsServed(t *testing.T) {
	stock := &recordingStock{}
	h := newRouterHarness(t, func(s *RouterServices) { s.Stock = stock })
	cookie := h.signIn(t, "u-9", activeCollaborator(domainauth.PermissionStock))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	require.Equal(t, http.StatusOK, h.serve(req).Code)

	release := h.fetches.holdFetches()
	refreshed := make(chan struct{})
	go func() {
		h.registry.Dispatch(context.Background(), domainauth.SessionEvent{
			Kind:      domainauth.EventTokenRefreshed,
			SessionID: "sess-u-9",
			Identity:  &domainauth.Identity{UserID: "u-9", Email: "u-9@clinica.com"},
		})
		close(refreshed)
	}()
	require.Equal(t, "u-9", <-h.fetches.started)

	w := h.serve(formPost("/stock/new", url.Values{"name": {"Botox"}, "quantity": {"3"}}, cookie))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/stock", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "Carregando")
	stock.mu.Lock()
	require.Len(t, stock.created, 1)
	assert.Equal(t, "Botox", stock.created[0].Name)
	stock.mu.Unlock()

	close(release)
	<-refreshed
}

func TestRouter_SessionAPI(t *testing.T) {
	h := newRouterHarness(t, nil)

	t.Run("anonymous", func(t *testing.T) {
		w := h.serve(httptest.NewRequest(http.MethodGet, "/api/session", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body sessionJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Authenticated)
		assert.Equal(t, "signin", body.Gate)
		assert.Empty(t, body.Views)
	})

	t.Run("active collaborator", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(h.signIn(t, "u-6", activeCollaborator(domainauth.PermissionStock, domainauth.PermissionPatients)))

		w := h.serve(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		var body sessionJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Authenticated)
		assert.Equal(t, "route", body.Gate)
		require.NotNil(t, body.Profile)
		assert.False(t, body.Profile.IsAdmin)
		assert.ElementsMatch(t, []string{"patients", "stock"}, body.Profile.Permissions)

		views := make([]string, 0, len(body.Views))
		for _, v := range body.Views {
			views = append(views, v.View)
		}
		assert.Contains(t, views, "stock")
		assert.Contains(t, views, "patients")
		assert.NotContains(t, views, "financial")
		assert.NotContains(t, views, "admin-users")
	})

	t.Run("pending user has no views", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(h.signIn(t, "u-7", nil))

		w := h.serve(req)

		var body sessionJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Authenticated)
		assert.Equal(t, "pending", body.Gate)
		assert.Empty(t, body.Views)
	})
}

func TestRouter_SignUpThenGateShowsPending(t *testing.T) {
	h := newRouterHarness(t, nil)

	w := h.serve(formPost("/auth/signup", url.Values{
		"full_name": {"Ana Souza"},
		"email":     {"ana@clinica.com"},
		"password":  {"segredo123"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "sign-up should set the session cookie")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie)
	w = h.serve(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Aguardando Aprovação")
}

func TestRouter_SignInWrongPassword(t *testing.T) {
	h := newRouterHarness(t, nil)

	w := h.serve(formPost("/auth/signin", url.Values{"email": {"ninguem@clinica.com"}, "password": {"errada"}}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), msgInvalidCredentials)
}

func TestRouter_SignInIsRateLimited(t *testing.T) {
	h := newRouterHarness(t, func(s *RouterServices) { s.AuthLimiter = NewIPRateLimiter(1, 1) })
	form := url.Values{"email": {"ana@clinica.com"}, "password": {"errada"}}

	first := h.serve(formPost("/auth/signin", form))
	second := h.serve(formPost("/auth/signin", form))

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestRouter_UnknownPathRendersNotFound(t *testing.T) {
	h := newRouterHarness(t, nil)

	w := h.serve(httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	h := newRouterHarness(t, nil)

	w := h.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

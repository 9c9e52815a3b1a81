package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

const devUserID = "00000000-0000-4000-8000-000000000001"

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{UserID: devUserID, Email: "dev@clinic.test", FullName: "Dev", Groups: []string{"admins"}})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	authURL, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(authURL, CallbackPath+"?") {
		t.Fatalf("unexpected authURL: %s", authURL)
	}
	u, _ := url.Parse(authURL)
	if u.Query().Get("state") != state {
		t.Fatalf("state not in callback URL: %s", authURL)
	}
	if state == "" || nonce == "" || state == nonce {
		t.Fatal("state and nonce should be distinct random values")
	}

	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	prov.now = func() time.Time { return fixed }
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.UserID != devUserID || id.Email != "dev@clinic.test" || id.FullName != "Dev" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if !id.ExpiresAt.Equal(fixed.Add(8 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", id.ExpiresAt)
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{UserID: "dev-user", Email: "dev@clinic.test"}); err == nil {
		t.Fatal("expected error for non-uuid user id")
	}
	if _, err := NewProvider(Config{UserID: devUserID}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

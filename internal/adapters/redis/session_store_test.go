package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests are skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "ana@clinic.test",
		FullName:  "Ana",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.FullName, got.FullName)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl, err := client.TTL(ctx, "session:test-session-1").Result()
	require.NoError(t, err)
	assert.InDelta(t, (30 * time.Minute).Seconds(), ttl.Seconds(), 5)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	_, err := NewSessionStore(client).Get(context.Background(), "non-existent")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)
}

func TestSessionStore_SaveExpiredRejected(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	err := NewSessionStore(client).Save(context.Background(), domainauth.Session{
		ID:        "expired",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.ErrorIs(t, err, domainauth.ErrSessionExpired)
}

func TestSessionStore_DeleteIsIdempotent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "del", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, store.Delete(ctx, "del"))
	require.NoError(t, store.Delete(ctx, "del"))
	require.NoError(t, store.Delete(ctx, ""))

	_, err := store.Get(ctx, "del")
	assert.ErrorIs(t, err, ErrNotFound)
}

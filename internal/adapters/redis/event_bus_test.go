package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	bus := NewEventBus(client, "test:session-events:"+t.Name(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan domainauth.SessionEvent, 2)
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, func(ev domainauth.SessionEvent) { got <- ev })
	}()

	// Wait until the subscription is registered before publishing.
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, bus.channel).Result()
		return err == nil && n[bus.channel] > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(ctx, domainauth.SessionEvent{
		Kind:      domainauth.EventSignedIn,
		SessionID: "s1",
		Identity:  &domainauth.Identity{UserID: "u1", Email: "a@b.c"},
	}))
	require.NoError(t, bus.Publish(ctx, domainauth.SessionEvent{Kind: domainauth.EventSignedOut, SessionID: "s1"}))

	first, second := <-got, <-got
	assert.Equal(t, domainauth.EventSignedIn, first.Kind)
	require.NotNil(t, first.Identity)
	assert.Equal(t, "u1", first.Identity.UserID)
	assert.Equal(t, domainauth.EventSignedOut, second.Kind)
	assert.Nil(t, second.Identity)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

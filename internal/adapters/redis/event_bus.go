package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

// DefaultEventChannel is the pub/sub channel carrying session events.
const DefaultEventChannel = "clinic:session-events"

// EventBus publishes session events over Redis pub/sub so every server instance sees them.
type EventBus struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewEventBus creates an event bus on channel (DefaultEventChannel when empty).
func NewEventBus(client redis.UniversalClient, channel string, logger *slog.Logger) *EventBus {
	if channel == "" {
		channel = DefaultEventChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{client: client, channel: channel, logger: logger}
}

// Publish sends ev to all subscribers.
func (b *EventBus) Publish(ctx context.Context, ev domainauth.SessionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

// Subscribe calls handle for each event, in order, until ctx is done.
// Malformed payloads are logged and skipped.
func (b *EventBus) Subscribe(ctx context.Context, handle func(domainauth.SessionEvent)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() {
		if err := sub.Close(); err != nil {
			b.logger.Debug("close session event subscription", "error", err)
		}
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domainauth.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("dropping malformed session event", "error", err)
				continue
			}
			handle(ev)
		}
	}
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

const defaultProfileTTL = 5 * time.Minute

// cachedProfile is the JSON shape of a cached profile.
type cachedProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProfileCache caches authorization profiles under "<prefix><user id>".
type ProfileCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewProfileCache creates a profile cache. A non-positive ttl uses five minutes.
func NewProfileCache(client redis.UniversalClient, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, prefix: "profile:", ttl: ttl}
}

// Get returns the cached profile; ok is false on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (domainauth.Profile, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domainauth.Profile{}, false, nil
	}
	if err != nil {
		return domainauth.Profile{}, false, fmt.Errorf("redis get profile: %w", err)
	}

	var cp cachedProfile
	if err := json.Unmarshal(data, &cp); err != nil {
		return domainauth.Profile{}, false, fmt.Errorf("unmarshal profile: %w", err)
	}
	perms, err := domainauth.ParsePermissionSet(cp.Permissions)
	if err != nil {
		// Stale entry from an older permission vocabulary; treat as a miss.
		return domainauth.Profile{}, false, nil
	}
	return domainauth.Profile{
		ID:          cp.ID,
		Email:       cp.Email,
		FullName:    cp.FullName,
		Role:        domainauth.Role(cp.Role),
		Permissions: perms,
		Status:      domainauth.Status(cp.Status),
		CreatedAt:   cp.CreatedAt,
	}, true, nil
}

// Set stores p for the cache TTL.
func (c *ProfileCache) Set(ctx context.Context, p domainauth.Profile) error {
	data, err := json.Marshal(cachedProfile{
		ID:          p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		Role:        string(p.Role),
		Permissions: p.Permissions.Strings(),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.client.Set(ctx, c.prefix+p.ID, data, c.ttl).Err()
}

// Invalidate drops the cached profile of userID.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.prefix+userID).Err()
}

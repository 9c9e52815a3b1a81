package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
)

func TestProfileCache_RoundTripAndInvalidate(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewProfileCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	p := domainauth.Profile{
		ID:          "u1",
		Email:       "ana@clinic.test",
		Role:        domainauth.RoleCollaborator,
		Permissions: domainauth.NewPermissionSet(domainauth.PermissionStock, domainauth.PermissionPatients),
		Status:      domainauth.StatusActive,
	}
	require.NoError(t, cache.Set(ctx, p))

	got, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p.Permissions.Strings(), got.Permissions.Strings())
	assert.Equal(t, domainauth.StatusActive, got.Status)

	require.NoError(t, cache.Invalidate(ctx, "u1"))
	_, ok, err = cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileCache_UnknownPermissionIsAMiss(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "profile:legacy", `{"id":"legacy","permissions":["reports"]}`, time.Minute).Err())

	_, ok, err := NewProfileCache(client, 0).Get(ctx, "legacy")
	require.NoError(t, err)
	assert.False(t, ok)
}

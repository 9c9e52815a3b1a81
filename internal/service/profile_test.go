package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/mocks"
	authmocks "github.com/Killzin1000/quality-estetica2/internal/mocks/auth"
)

func activeCollaborator(id string, perms ...domainauth.Permission) *domainauth.Profile {
	return &domainauth.Profile{
		ID:          id,
		Email:       id + "@clinica.com",
		Role:        domainauth.RoleCollaborator,
		Status:      domainauth.StatusActive,
		Permissions: domainauth.NewPermissionSet(perms...),
	}
}

func TestProfileService_FetchProfile_ReadThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepository(ctrl)
	cache := authmocks.NewMemoryProfileCache()
	svc := NewProfileService(ProfileServiceOptions{Repo: repo, Cache: cache})
	ctx := context.Background()

	want := activeCollaborator("u1", domainauth.PermissionStock)
	repo.EXPECT().GetByID(ctx, "u1").Return(want, nil).Times(1)

	got, err := svc.FetchProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want.Permissions.Strings(), got.Permissions.Strings())

	// Second call is served by the cache.
	again, err := svc.FetchProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", again.ID)

	require.NoError(t, svc.Invalidate(ctx, "u1"))
	repo.EXPECT().GetByID(ctx, "u1").Return(want, nil).Times(1)
	_, err = svc.FetchProfile(ctx, "u1")
	require.NoError(t, err)
}

func TestProfileService_FetchProfile_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(ProfileServiceOptions{Repo: repo})

	repo.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, apperrors.NotFound("Usuário não encontrado."))

	_, err := svc.FetchProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, domainauth.ErrProfileNotFound)
}

func TestProfileService_FetchProfile_CacheErrorFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepository(ctrl)
	cache := authmocks.NewMemoryProfileCache()
	cache.GetErr = errors.New("redis down")
	svc := NewProfileService(ProfileServiceOptions{Repo: repo, Cache: cache})

	repo.EXPECT().GetByID(gomock.Any(), "u1").Return(activeCollaborator("u1"), nil)

	p, err := svc.FetchProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
}

func TestProfileService_FetchProfile_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(ProfileServiceOptions{Repo: repo})

	repo.EXPECT().GetByID(gomock.Any(), "u1").Return(nil, errors.New("connection reset"))

	_, err := svc.FetchProfile(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainauth.ErrProfileNotFound)
}

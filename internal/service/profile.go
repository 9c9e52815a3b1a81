package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Repo core.ProfileRepository
	// Cache is optional.
	Cache  ports.ProfileCache
	Logger *slog.Logger
}

// ProfileService loads authorization profiles, read-through cached.
type ProfileService struct {
	repo   core.ProfileRepository
	cache  ports.ProfileCache
	logger *slog.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	if opts.Repo == nil {
		panic("profile service requires a repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{repo: opts.Repo, cache: opts.Cache, logger: logger.With("component", "profile_service")}
}

// FetchProfile returns the profile of userID, or domainauth.ErrProfileNotFound when none exists.
// Cache failures fall through to the repository.
func (s *ProfileService) FetchProfile(ctx context.Context, userID string) (*domainauth.Profile, error) {
	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "profile cache read failed", "user_id", userID, "error", err)
		case ok:
			return &p, nil
		}
	}

	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domainauth.ErrProfileNotFound, userID)
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *p); err != nil {
			s.logger.WarnContext(ctx, "profile cache write failed", "user_id", userID, "error", err)
		}
	}
	return p, nil
}

// Invalidate drops the cached profile of userID.
func (s *ProfileService) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, userID)
}

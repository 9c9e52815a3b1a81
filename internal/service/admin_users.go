package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/core"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

// AdminUserServiceOptions groups dependencies for AdminUserService.
type AdminUserServiceOptions struct {
	Repo   core.ProfileRepository
	Cache  ports.ProfileCache
	Events ports.SessionEventBus
	Logger *slog.Logger
	Now    func() time.Time
}

// AdminUserService manages the access of every profile: role, status and permissions.
type AdminUserService struct {
	repo   core.ProfileRepository
	cache  ports.ProfileCache
	events ports.SessionEventBus
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminUserService constructs an AdminUserService.
func NewAdminUserService(opts AdminUserServiceOptions) *AdminUserService {
	if opts.Repo == nil {
		panic("admin user service requires a repository")
	}
	s := &AdminUserService{repo: opts.Repo, cache: opts.Cache, events: opts.Events, logger: opts.Logger, now: opts.Now}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "admin_users")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// List returns every profile, newest first.
func (s *AdminUserService) List(ctx context.Context) ([]domainauth.Profile, error) {
	return s.repo.List(ctx)
}

// Get returns one profile.
func (s *AdminUserService) Get(ctx context.Context, id string) (*domainauth.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAccess applies upd to the target profile on behalf of actor.
// Only admins may edit access, and an admin cannot demote or block themself.
func (s *AdminUserService) UpdateAccess(
	ctx context.Context,
	actor domainauth.Profile,
	targetID string,
	upd domainauth.AccessUpdate,
) (*domainauth.Profile, error) {
	if !actor.Access().IsAdmin() || actor.Status != domainauth.StatusActive {
		return nil, apperrors.Forbidden("Apenas administradores podem alterar acessos.")
	}
	if actor.ID == targetID && (upd.Role != domainauth.RoleAdmin || upd.Status != domainauth.StatusActive) {
		return nil, apperrors.Validation("Você não pode remover o seu próprio acesso de administrador.")
	}
	p, err := s.apply(ctx, targetID, upd)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "profile access updated",
		"actor_id", actor.ID, "target_id", targetID, "access", p.Access().String(), "status", p.Status)
	return p, nil
}

// SetAccessByEmail applies upd to the profile registered with email. It is meant for
// operator tooling and skips the actor checks of UpdateAccess.
func (s *AdminUserService) SetAccessByEmail(ctx context.Context, email string, upd domainauth.AccessUpdate) (*domainauth.Profile, error) {
	target, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, target.ID, upd)
}

func (s *AdminUserService) apply(ctx context.Context, targetID string, upd domainauth.AccessUpdate) (*domainauth.Profile, error) {
	if !upd.Role.Valid() {
		return nil, apperrors.ValidationField("role", "Papel inválido.")
	}
	if !upd.Status.Valid() {
		return nil, apperrors.ValidationField("status", "Status inválido.")
	}
	p, err := s.repo.UpdateAccess(ctx, targetID, upd)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, targetID); err != nil {
			s.logger.WarnContext(ctx, "profile cache invalidation failed", "user_id", targetID, "error", err)
		}
	}
	if s.events != nil {
		ev := domainauth.SessionEvent{Kind: domainauth.EventUserUpdated, UserID: targetID, At: s.now().UTC()}
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.WarnContext(ctx, "publish user_updated", "user_id", targetID, "error", err)
		}
	}
	return p, nil
}

// CountByStatus tallies profiles per status, for the admin screen header.
func CountByStatus(profiles []domainauth.Profile) map[domainauth.Status]int {
	out := make(map[domainauth.Status]int, 3)
	for _, p := range profiles {
		out[p.Status]++
	}
	return out
}

// ParseAccessUpdate builds an AccessUpdate from submitted form values.
func ParseAccessUpdate(role, status string, permissions []string) (domainauth.AccessUpdate, error) {
	perms, err := domainauth.ParsePermissionSet(permissions)
	if err != nil {
		return domainauth.AccessUpdate{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Permissão inválida.")
	}
	upd := domainauth.AccessUpdate{
		Role:        domainauth.Role(role),
		Status:      domainauth.Status(status),
		Permissions: perms,
	}
	if !upd.Role.Valid() {
		return upd, apperrors.ValidationField("role", "Papel inválido.")
	}
	if !upd.Status.Valid() {
		return upd, apperrors.ValidationField("status", "Status inválido.")
	}
	return upd, nil
}

// Package session holds the per-browser Session/Profile Store and the registry that owns the live stores.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/domain/nav"
)

const defaultFetchTimeout = 10 * time.Second

// Source is the remote side of a browser session.
type Source interface {
	// GetSession returns domainauth.ErrNoSession or ErrSessionExpired when there is no live session.
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	// SignOut ends the session; ending an unknown session is not an error.
	SignOut(ctx context.Context, sessionID string) error
}

// ProfileFetcher loads authorization profiles.
type ProfileFetcher interface {
	// FetchProfile returns domainauth.ErrProfileNotFound when no profile row exists yet.
	FetchProfile(ctx context.Context, userID string) (*domainauth.Profile, error)
}

// Options configures a Store.
type Options struct {
	SessionID string
	Source    Source
	Profiles  ProfileFetcher
	Logger    *slog.Logger
	// FetchTimeout bounds each session/profile fetch. Defaults to 10s.
	FetchTimeout time.Duration
}

// Snapshot is an immutable copy of a store's state.
type Snapshot struct {
	Loading  bool
	Identity *domainauth.Identity
	Profile  *domainauth.Profile
}

// GateState converts the snapshot into the gate's input.
func (s Snapshot) GateState() nav.GateState {
	return nav.GateState{Loading: s.Loading, HasIdentity: s.Identity != nil, Profile: s.Profile}
}

// HasPermission reports whether the snapshot's profile grants p. False without a profile.
func (s Snapshot) HasPermission(p domainauth.Permission) bool {
	return s.Profile != nil && s.Profile.Access().Allows(p)
}

// IsAdmin reports whether the snapshot's profile is an admin.
func (s Snapshot) IsAdmin() bool {
	return s.Profile != nil && s.Profile.Access().IsAdmin()
}

// Store tracks the identity and authorization profile of one browser session.
//
// Every mutation bumps a generation counter. A fetch started under generation g only
// writes its result if the store is still at g, so the most recent event always wins
// even when fetch latencies invert.
type Store struct {
	sessionID    string
	source       Source
	profiles     ProfileFetcher
	logger       *slog.Logger
	fetchTimeout time.Duration

	mu          sync.RWMutex
	gen         uint64
	initStarted bool
	ready       chan struct{}
	loading     bool
	identity    *domainauth.Identity
	profile     *domainauth.Profile

	lastUsed atomic.Int64
}

// New creates an uninitialized store. It reports Loading until Initialize completes.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	s := &Store{
		sessionID:    opts.SessionID,
		source:       opts.Source,
		profiles:     opts.Profiles,
		logger:       logger.With("component", "session_store"),
		fetchTimeout: timeout,
		ready:        make(chan struct{}),
		loading:      true,
	}
	s.touch(time.Now())
	return s
}

// Anonymous returns an initialized store without an identity, for requests carrying no session.
func Anonymous() *Store {
	s := New(Options{})
	s.initStarted = true
	s.loading = false
	close(s.ready)
	return s
}

// SessionID returns the session this store tracks.
func (s *Store) SessionID() string { return s.sessionID }

// Initialize asks the source for the session and, when present, loads its profile.
// Only the first call does work; concurrent callers wait for it (or for their ctx).
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initStarted {
		ready := s.ready
		s.mu.Unlock()
		select {
		case <-ready:
		case <-ctx.Done():
		}
		return
	}
	s.initStarted = true
	gen := s.bumpLocked()
	s.loading = true
	s.mu.Unlock()
	defer close(s.ready)

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()

	sess, err := s.source.GetSession(fetchCtx, s.sessionID)
	if err != nil || sess == nil {
		if err != nil && !errors.Is(err, domainauth.ErrNoSession) && !errors.Is(err, domainauth.ErrSessionExpired) {
			s.logger.WarnContext(ctx, "session lookup failed", "error", err)
		}
		s.clearIfCurrent(gen)
		return
	}

	id := sess.Identity()
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.identity = &id
	s.mu.Unlock()

	s.loadProfile(fetchCtx, gen, id.UserID)
}

// OnSessionChange applies an authentication-state notification.
// Events carrying an identity refetch the profile; sign-out (or a nil identity) clears state.
// user_updated without an identity refetches for the current identity, if any.
// A refetch for the same user keeps serving the current profile until the new one lands;
// only a change of user drops the profile and reports Loading.
func (s *Store) OnSessionChange(ctx context.Context, ev domainauth.SessionEvent) {
	s.mu.Lock()
	id := ev.Identity
	if id == nil && ev.Kind == domainauth.EventUserUpdated && s.identity != nil {
		cur := *s.identity
		id = &cur
	}
	if ev.Kind == domainauth.EventSignedOut || id == nil {
		if ev.Kind == domainauth.EventUserUpdated {
			// Nobody signed in here; nothing to refresh.
			s.mu.Unlock()
			return
		}
		s.bumpLocked()
		s.identity, s.profile, s.loading = nil, nil, false
		s.mu.Unlock()
		return
	}
	gen := s.bumpLocked()
	idCopy := *id
	if s.identity == nil || s.identity.UserID != idCopy.UserID {
		// A different user: the old profile must not answer for the new identity.
		s.profile = nil
		s.loading = true
	}
	s.identity = &idCopy
	s.mu.Unlock()

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()
	s.loadProfile(fetchCtx, gen, idCopy.UserID)
}

// RefreshProfile refetches the profile for the current identity. No-op without identity.
// The current profile stays visible while the fetch runs.
func (s *Store) RefreshProfile(ctx context.Context) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return
	}
	gen := s.bumpLocked()
	userID := s.identity.UserID
	s.mu.Unlock()

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()
	s.loadProfile(fetchCtx, gen, userID)
}

// SignOut ends the remote session and clears local state. Safe to call repeatedly.
// Local state is cleared even when the remote call fails.
func (s *Store) SignOut(ctx context.Context) error {
	var err error
	if s.sessionID != "" && s.source != nil {
		if sErr := s.source.SignOut(ctx, s.sessionID); sErr != nil {
			err = fmt.Errorf("sign out: %w", sErr)
		}
	}
	s.mu.Lock()
	s.bumpLocked()
	s.identity, s.profile, s.loading = nil, nil, false
	s.mu.Unlock()
	return err
}

// HasPermission reports whether the current profile grants p.
func (s *Store) HasPermission(p domainauth.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil && s.profile.Access().Allows(p)
}

// IsAdmin reports whether the current profile is an admin.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil && s.profile.Access().IsAdmin()
}

// Loading reports whether the store is resolving a session or a new identity's profile.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

func (s *Store) loadProfile(ctx context.Context, gen uint64, userID string) {
	p, err := s.profiles.FetchProfile(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.DebugContext(ctx, "discarding stale profile fetch", "user_id", userID)
		return
	}
	switch {
	case err == nil:
		s.profile = p
	case errors.Is(err, domainauth.ErrProfileNotFound):
		s.logger.InfoContext(ctx, "no profile yet for identity", "user_id", userID)
		s.profile = nil
	default:
		s.logger.WarnContext(ctx, "profile fetch failed", "user_id", userID, "error", err)
		s.profile = nil
	}
	s.loading = false
}

func (s *Store) clearIfCurrent(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.identity, s.profile, s.loading = nil, nil, false
}

func (s *Store) bumpLocked() uint64 {
	s.gen++
	return s.gen
}

// fetchContext detaches from the caller's cancellation and bounds the fetch by fetchTimeout.
func (s *Store) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
}

func (s *Store) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

func (s *Store) idleSince() time.Time { return time.Unix(0, s.lastUsed.Load()) }

func (s *Store) userID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.UserID
}

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Source   Source
	Profiles ProfileFetcher
	// Events is optional; without it only local Dispatch calls reach the stores.
	Events ports.SessionEventBus
	// Observer counts dispatched events. Optional.
	Observer     EventObserver
	IdleTTL      time.Duration
	FetchTimeout time.Duration
	Logger       *slog.Logger
	Now          func() time.Time
}

// EventObserver is notified of every session event dispatched to this process.
type EventObserver interface {
	ObserveSessionEvent(kind string)
}

// Registry owns the live stores of this process, keyed by session id.
type Registry struct {
	source       Source
	profiles     ProfileFetcher
	events       ports.SessionEventBus
	observer     EventObserver
	idleTTL      time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry constructs a Registry.
func NewRegistry(opts RegistryOptions) *Registry {
	r := &Registry{
		source:       opts.Source,
		profiles:     opts.Profiles,
		events:       opts.Events,
		observer:     opts.Observer,
		idleTTL:      opts.IdleTTL,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger,
		now:          opts.Now,
		stores:       make(map[string]*Store),
	}
	if r.idleTTL <= 0 {
		r.idleTTL = defaultIdleTTL
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Get returns the initialized store for sessionID, creating it on first use.
// An empty id yields an anonymous store that is not registered.
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	if sessionID == "" {
		return Anonymous()
	}

	r.mu.Lock()
	st, ok := r.stores[sessionID]
	if !ok {
		st = New(Options{
			SessionID:    sessionID,
			Source:       r.source,
			Profiles:     r.profiles,
			Logger:       r.logger,
			FetchTimeout: r.fetchTimeout,
		})
		r.stores[sessionID] = st
	}
	r.mu.Unlock()

	st.touch(r.now())
	st.Initialize(ctx)
	return st
}

// Lookup returns the live store for sessionID without creating one.
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stores[sessionID]
	return st, ok
}

// Forget drops the store for sessionID.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.stores, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Dispatch routes ev to the stores it targets: the store of ev.SessionID, or every store
// signed in as ev.UserID when no session id is given. Signed-out stores are forgotten.
func (r *Registry) Dispatch(ctx context.Context, ev domainauth.SessionEvent) {
	if r.observer != nil {
		r.observer.ObserveSessionEvent(string(ev.Kind))
	}
	for _, st := range r.targets(ev) {
		st.OnSessionChange(ctx, ev)
		if ev.Kind == domainauth.EventSignedOut {
			r.Forget(st.SessionID())
		}
	}
}

func (r *Registry) targets(ev domainauth.SessionEvent) []*Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.SessionID != "" {
		if st, ok := r.stores[ev.SessionID]; ok {
			return []*Store{st}
		}
		return nil
	}
	if ev.UserID == "" {
		return nil
	}
	var out []*Store
	for _, st := range r.stores {
		if st.userID() == ev.UserID {
			out = append(out, st)
		}
	}
	return out
}

// Sweep forgets stores idle for longer than the idle TTL and returns how many were dropped.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, st := range r.stores {
		if st.idleSince().Before(cutoff) {
			delete(r.stores, id)
			n++
		}
	}
	return n
}

// Run subscribes to the event bus and sweeps idle stores until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()

	subErr := make(chan error, 1)
	if r.events != nil {
		go func() {
			subErr <- r.events.Subscribe(ctx, func(ev domainauth.SessionEvent) {
				r.Dispatch(ctx, ev)
			})
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-subErr:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.DebugContext(ctx, "swept idle session stores", "count", n)
			}
		}
	}
}

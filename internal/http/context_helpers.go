package httpx

import (
	"context"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/session"
)

// Viewer is the browser session behind a request together with the state the gate decided on.
type Viewer struct {
	SessionID string
	Store     *session.Store
	Snapshot  session.Snapshot
}

// Profile returns the viewer's profile, or nil.
func (v *Viewer) Profile() *domainauth.Profile {
	if v == nil {
		return nil
	}
	return v.Snapshot.Profile
}

// HasPermission reports whether the viewer's profile grants p.
func (v *Viewer) HasPermission(p domainauth.Permission) bool {
	return v != nil && v.Snapshot.HasPermission(p)
}

// IsAdmin reports whether the viewer is an admin.
func (v *Viewer) IsAdmin() bool { return v != nil && v.Snapshot.IsAdmin() }

type (
	viewerKey    struct{}
	requestIDKey struct{}
)

// SetViewerInContext returns a child context carrying v. A nil viewer leaves ctx unchanged.
func SetViewerInContext(ctx context.Context, v *Viewer) context.Context {
	if v == nil {
		return ctx
	}
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFromContext returns the viewer stored by the session middleware.
func ViewerFromContext(ctx context.Context) (*Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(*Viewer)
	return v, ok && v != nil
}

// SetRequestIDInContext stores the request id.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

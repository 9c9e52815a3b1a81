package httpx

import (
	"net/http"
	"time"

	"github.com/Killzin1000/quality-estetica2/internal/domain/nav"
)

type sessionIdentityJSON struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

type sessionProfileJSON struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name,omitempty"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
}

type viewJSON struct {
	View  string `json:"view"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

type sessionJSON struct {
	Authenticated bool                 `json:"authenticated"`
	Loading       bool                 `json:"loading"`
	Gate          string               `json:"gate"`
	Identity      *sessionIdentityJSON `json:"identity,omitempty"`
	Profile       *sessionProfileJSON  `json:"profile,omitempty"`
	Views         []viewJSON           `json:"views"`
}

// sessionHandler reports the viewer's identity, profile, gate decision and visible views.
// GET /api/session.
func sessionHandler(w http.ResponseWriter, r *http.Request) {
	v, ok := ViewerFromContext(r.Context())
	if !ok {
		v = anonymousViewer()
	}
	snap := v.Snapshot
	out := sessionJSON{
		Authenticated: snap.Identity != nil,
		Loading:       snap.Loading,
		Gate:          nav.Decide(snap.GateState()).String(),
		Views:         []viewJSON{},
	}
	if id := snap.Identity; id != nil {
		out.Identity = &sessionIdentityJSON{
			UserID: id.UserID, Email: id.Email, FullName: id.FullName, ExpiresAt: id.ExpiresAt,
		}
	}
	if p := snap.Profile; p != nil {
		out.Profile = &sessionProfileJSON{
			ID:          p.ID,
			Email:       p.Email,
			FullName:    p.FullName,
			Role:        string(p.Role),
			Status:      string(p.Status),
			Permissions: p.Permissions.Strings(),
			IsAdmin:     snap.IsAdmin(),
		}
	}
	if out.Gate == nav.GateRoute.String() {
		for _, view := range nav.VisibleViews(v) {
			out.Views = append(out.Views, viewJSON{View: string(view), Label: view.Label(), Path: view.Path()})
		}
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, out)
}

package nav

import "github.com/Killzin1000/quality-estetica2/internal/domain/auth"

// Gate is the top-level screen chosen before any view is reachable.
type Gate int

const (
	GateLoading Gate = iota
	GateSignIn
	GatePending
	GateBlocked
	GateRoute
)

func (g Gate) String() string {
	switch g {
	case GateLoading:
		return "loading"
	case GateSignIn:
		return "signin"
	case GatePending:
		return "pending"
	case GateBlocked:
		return "blocked"
	case GateRoute:
		return "route"
	default:
		return "unknown"
	}
}

// GateState is the authorization state the gate decides on.
type GateState struct {
	Loading     bool
	HasIdentity bool
	Profile     *auth.Profile
}

// Decide selects exactly one gate, checked in fixed precedence:
// loading, no identity, pending (or no profile yet), blocked, route.
func Decide(s GateState) Gate {
	switch {
	case s.Loading:
		return GateLoading
	case !s.HasIdentity:
		return GateSignIn
	case s.Profile == nil || s.Profile.Status == auth.StatusPending:
		return GatePending
	case s.Profile.Status == auth.StatusBlocked:
		return GateBlocked
	case s.Profile.Status == auth.StatusActive:
		return GateRoute
	default:
		// Unknown statuses are held at the approval screen.
		return GatePending
	}
}

package auth

import "time"

// EventKind names a change in authentication state.
type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
	// EventUserUpdated is emitted when an admin changes a user's access.
	EventUserUpdated EventKind = "user_updated"
)

// SessionEvent is a notification that authentication state changed.
// SessionID targets one browser session; UserID targets every session of a user.
// Identity is nil when the event leaves the session without an identity.
type SessionEvent struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Identity  *Identity `json:"identity,omitempty"`
	At        time.Time `json:"at"`
}

package models

import "time"

// GateState is the outcome of an admin gate check.
type GateState string

const (
	GateChecking              GateState = "checking"
	GateAuthenticatedAdmin    GateState = "authenticated_admin"
	GateAuthenticatedNonAdmin GateState = "authenticated_non_admin"
	GateUnauthenticated       GateState = "unauthenticated"
	GateError                 GateState = "error"
)

// GateResult describes where the admin gate settled and what the client should do.
type GateResult struct {
	State    GateState  `json:"state"`
	Redirect string     `json:"redirect,omitempty"`
	Message  string     `json:"message,omitempty"`
	Retry    bool       `json:"retry,omitempty"`
	Claims   *JWTClaims `json:"-"`
	User     *UserInfo  `json:"user,omitempty"`
}

// SessionEventKind enumerates pushed session notifications.
type SessionEventKind string

const (
	SessionSignedOut SessionEventKind = "signed_out"
	SessionRevoked   SessionEventKind = "revoked"
)

// SessionEvent is pushed to subscribers when a session ends.
type SessionEvent struct {
	Kind      SessionEventKind `json:"kind"`
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id,omitempty"`
	Redirect  string           `json:"redirect,omitempty"`
	At        time.Time        `json:"at"`
}

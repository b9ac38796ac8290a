package domain

import "time"

// AuthEventKind identifies what happened in an audit record.
type AuthEventKind string

const (
	EventLoginSucceeded AuthEventKind = "login_succeeded"
	EventLoginFailed    AuthEventKind = "login_failed"
	EventLoginThrottled AuthEventKind = "login_throttled"
	EventRegistered     AuthEventKind = "registered"
	EventAvatarChanged  AuthEventKind = "avatar_changed"
)

// AuthEvent is an audit record of an authentication-related action.
// It never carries passwords, hashes or tokens.
type AuthEvent struct {
	Kind        AuthEventKind
	Username    string
	PrincipalID string // empty when the username did not resolve
	ActorID     string // who acted, when not the principal itself
	RemoteIP    string
	Timestamp   time.Time
}

package ports

import (
	"context"
	"time"
)

// AuditEventInput is the DTO passed from the auth flow to the audit pipeline.
type AuditEventInput struct {
	Kind        string
	Username    string
	PrincipalID string
	ActorID     string
	RemoteIP    string
	Timestamp   time.Time
}

// AuditService records a single audit event.
type AuditService interface {
	Record(ctx context.Context, event AuditEventInput) error
}

// AuditSink accepts audit events for asynchronous recording.
type AuditSink interface {
	Enqueue(event AuditEventInput)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/ports"
)

var errEmptyEventKind = errors.New("audit event kind is required")

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events through repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit event.
func (s *auditService) Record(ctx context.Context, in ports.AuditEventInput) error {
	if in.Kind == "" {
		return errEmptyEventKind
	}

	event := &domain.AuthEvent{
		Kind:        domain.AuthEventKind(in.Kind),
		Username:    in.Username,
		PrincipalID: in.PrincipalID,
		ActorID:     in.ActorID,
		RemoteIP:    in.RemoteIP,
		Timestamp:   in.Timestamp.UTC(),
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("kind", in.Kind).
		Str("username", in.Username).
		Msg("audit event recorded")
	return nil
}

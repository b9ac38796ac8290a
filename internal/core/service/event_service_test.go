package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/ports"
)

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.AuthEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	err := svc.Record(context.Background(), ports.AuditEventInput{
		Kind:        string(domain.EventLoginSucceeded),
		Username:    "alice",
		PrincipalID: "u1",
		RemoteIP:    "10.0.0.1",
		Timestamp:   ts,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.Kind != domain.EventLoginSucceeded || got.Username != "alice" || got.PrincipalID != "u1" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Timestamp.Location() != time.UTC || !got.Timestamp.Equal(ts) {
		t.Fatalf("expected UTC timestamp equal to input, got %v", got.Timestamp)
	}
}

func TestAuditService_Record_EmptyKind(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Record(context.Background(), ports.AuditEventInput{Username: "alice"}); err == nil {
		t.Fatalf("expected error for empty kind")
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func TestAuditService_Record_RepositoryError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("write concern")}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Record(context.Background(), ports.AuditEventInput{Kind: string(domain.EventRegistered)})
	if err == nil || !errors.Is(err, repo.insertErr) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

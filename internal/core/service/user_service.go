package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/ports"
)

type userService struct {
	repo  ports.UserRepository
	audit ports.AuditSink
}

// NewUserService returns a UserService backed by repo. audit may be nil.
func NewUserService(repo ports.UserRepository, audit ports.AuditSink) ports.UserService {
	return &userService{repo: repo, audit: audit}
}

func (s *userService) Profile(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("find user", err)
	}
	return user, nil
}

// ListOthers returns every user except excludeID.
func (s *userService) ListOthers(ctx context.Context, excludeID string) ([]*domain.User, error) {
	users, err := s.repo.ListExcept(ctx, excludeID)
	if err != nil {
		return nil, wrapRepoErr("list users", err)
	}
	return users, nil
}

func (s *userService) SetAvatar(ctx context.Context, actor domain.Claims, id, image string) (*domain.User, error) {
	if actor.PrincipalID != id && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(image) == "" {
		return nil, domain.ErrMissingField
	}
	user, err := s.repo.SetAvatar(ctx, id, image)
	if err != nil {
		return nil, wrapRepoErr("set avatar", err)
	}

	if s.audit != nil {
		s.audit.Enqueue(ports.AuditEventInput{
			Kind:        string(domain.EventAvatarChanged),
			Username:    user.Username,
			PrincipalID: user.ID,
			ActorID:     actor.PrincipalID,
			Timestamp:   user.UpdatedAt,
		})
	}
	return user, nil
}

// wrapRepoErr keeps domain errors as they are and marks anything else as an
// infrastructure failure.
func wrapRepoErr(op string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, op, err)
}

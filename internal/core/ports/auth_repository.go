package ports

import (
	"context"

	"github.com/melodia/admin-api/internal/core/domain"
)

// AuthRepository defines the persistence operations on administrative users.
// Lookups return domain.ErrUserNotFound when nothing matches.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameOrEmail returns any user whose username or email matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// Create stores a new user and returns it with its generated ID. An empty
	// Role is replaced with domain.DefaultRole. A uniqueness violation yields
	// domain.ErrDuplicateIdentity.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// UserRepository extends AuthRepository with the user administration queries.
type UserRepository interface {
	AuthRepository
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListExcept(ctx context.Context, id string) ([]*domain.User, error)
	SetAvatar(ctx context.Context, id, image string) (*domain.User, error)
}

package ports

import (
	"context"

	"github.com/melodia/admin-api/internal/core/domain"
)

// LoginRequest carries a credential pair plus request metadata for auditing.
type LoginRequest struct {
	Username string
	Password string
	RemoteIP string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	User  *domain.User
	Token domain.IssuedToken
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Verify(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

// UserService exposes the user administration operations of the back office.
type UserService interface {
	Profile(ctx context.Context, id string) (*domain.User, error)
	ListOthers(ctx context.Context, excludeID string) ([]*domain.User, error)
	// SetAvatar changes the avatar of user id on behalf of actor. Actors may
	// change their own avatar; admins may change anyone's.
	SetAvatar(ctx context.Context, actor domain.Claims, id, image string) (*domain.User, error)
}

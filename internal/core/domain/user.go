package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// DefaultRole is assigned by the persistence layer when a user is created
// without an explicit role.
const DefaultRole = RoleViewer

// User models an administrative principal of the back office.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	AvatarImage      string    `json:"avatar_image,omitempty"`
	IsAvatarImageSet bool      `json:"is_avatar_image_set"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

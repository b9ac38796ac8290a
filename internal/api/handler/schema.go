package handler

import (
	"time"

	"github.com/melodia/admin-api/internal/core/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type avatarRequest struct {
	Image string `json:"image" validate:"required"`
}

// userResponse is the public view of a user: never the password hash.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type userSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AvatarImage string `json:"avatar_image,omitempty"`
}

type loginResponse struct {
	Status    bool         `json:"status"`
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type registerResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type profileResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Profile *profileModel `json:"profile"`
}

type profileModel struct {
	userResponse
	AvatarImage      string    `json:"avatar_image,omitempty"`
	IsAvatarImageSet bool      `json:"is_avatar_image_set"`
	CreatedAt        time.Time `json:"created_at"`
}

type avatarResponse struct {
	IsSet bool   `json:"isSet"`
	Image string `json:"image"`
}

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func toUserSummary(u *domain.User) userSummary {
	return userSummary{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AvatarImage: u.AvatarImage,
	}
}

func toProfile(u *domain.User) *profileModel {
	return &profileModel{
		userResponse:     toUserResponse(u),
		AvatarImage:      u.AvatarImage,
		IsAvatarImageSet: u.IsAvatarImageSet,
		CreatedAt:        u.CreatedAt,
	}
}

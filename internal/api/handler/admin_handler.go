package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/admin-api/internal/core/ports"
)

// AdminHandler serves the authenticated back-office routes.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// Dashboard handles GET /admin/dashboard.
//
// @Summary      Admin dashboard greeting
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorResponse
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to Admin Dashboard!"})
}

// Profile handles GET /admin/profile and returns the caller's own record.
//
// @Summary      Current administrator profile
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/profile [get]
func (h *AdminHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.users.Profile(c.Request().Context(), claims.PrincipalID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Status:  true,
		Message: "Admin profile retrieved successfully",
		Profile: toProfile(user),
	})
}

// ListOthers handles GET /admin/users/:id/others.
//
// @Summary      List every user except one
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID to exclude"
// @Success      200  {array}   userSummary
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/users/{id}/others [get]
func (h *AdminHandler) ListOthers(c echo.Context) error {
	users, err := h.users.ListOthers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, toUserSummary(u))
	}
	return c.JSON(http.StatusOK, out)
}

// SetAvatar handles POST /admin/users/:id/avatar. Users may change their own
// avatar; admins may change anyone's.
//
// @Summary      Set a user's avatar image
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "User ID"
// @Param        body  body      avatarRequest  true  "Avatar image"
// @Success      200   {object}  avatarResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id}/avatar [post]
func (h *AdminHandler) SetAvatar(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req avatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.SetAvatar(c.Request().Context(), claims, c.Param("id"), req.Image)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, avatarResponse{IsSet: user.IsAvatarImageSet, Image: user.AvatarImage})
}

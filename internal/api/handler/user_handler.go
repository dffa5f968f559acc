package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-system/internal/core/domain"
	"github.com/taskforge/task-system/internal/core/ports"
)

// UserHandler handles the current-user surface and superuser-only
// administration routes.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type updateProfileRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=40"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=40"`
}

type listUsersResponse struct {
	Data  []userResponse `json:"data"`
	Count int64          `json:"count"`
}

// Me handles GET /api/v1/users/me.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe handles PATCH /api/v1/users/me. Only supplied fields change.
//
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), who.UserID, ports.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "user already exists"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword handles PATCH /api/v1/users/me/password.
//
// @Summary      Change the current user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/users/me/password [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.authService.ChangePassword(c.Request().Context(), who.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

// List handles GET /api/v1/users (superuser only).
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset into the result set"  default(0)
// @Param        limit  query     int  false  "Page size"                   default(100)
// @Success      200    {object}  listUsersResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "skip must be a non-negative integer"})
	}
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
	}

	result, err := h.authService.ListUsers(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}

	resp := listUsersResponse{Data: make([]userResponse, 0, len(result.Data)), Count: result.Count}
	for _, u := range result.Data {
		resp.Data = append(resp.Data, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/users/:id (superuser only). Deleting a
// user also removes every task it owns.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	msg, err := h.authService.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

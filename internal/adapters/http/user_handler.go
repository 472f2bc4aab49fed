package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// UserHandler handles user-related requests
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser godoc
// @Summary Create a user
// @Description Provision an account with an explicit role. Leaders only.
// @Tags users
// @Accept json
// @Produce json
// @Param request body ports.CreateUserRequest true "User data"
// @Success 201 {object} entities.User
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	actor := actorFromContext(c)

	var req ports.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.CreateUser(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.Error("Create user failed", "error", err, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// ListUsers godoc
// @Summary List workers
// @Description List all worker accounts for task assignment. Leaders only.
// @Tags users
// @Produce json
// @Success 200 {array} entities.User
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	actor := actorFromContext(c)

	users, err := h.userService.ListUsers(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("List users failed", "error", err, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, users)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Update the caller's name, email and optionally password
// @Tags users
// @Accept json
// @Produce json
// @Param request body ports.UpdateProfileRequest true "Profile data"
// @Success 200 {object} entities.User
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor := actorFromContext(c)

	var req ports.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.Error("Update profile failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

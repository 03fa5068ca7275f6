package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /api/v1/users.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Team handles GET /api/v1/team.
//
// @Summary      List the caller's direct reports
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/team [get]
func (h *UserHandler) Team(c echo.Context) error {
	team, err := h.userService.MyTeam(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, team)
}

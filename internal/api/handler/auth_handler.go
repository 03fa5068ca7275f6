package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/validation"
)

// AuthHandler serves the session and account endpoints of the JSON API.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sessionResponse struct {
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// Login signs the caller in and binds the token to their session cookie.
//
// @Summary      Sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      validation.LoginForm  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/v1/session [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.LoginForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{TokenType: token.TokenType, User: user})
}

// Logout clears the caller's session. It succeeds on an empty session.
//
// @Summary      Sign out
// @Tags         session
// @Success      204
// @Router       /api/v1/session [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the profile cached in the session.
//
// @Summary      Current user
// @Tags         session
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.CurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}
	return c.JSON(http.StatusOK, user)
}

// Register creates a new account. It does not sign the caller in.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      validation.RegisterForm  true  "User registration details"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req validation.RegisterForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Registration())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

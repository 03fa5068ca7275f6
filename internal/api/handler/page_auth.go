package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/guard"
	"github.com/feedbackhub/portal/internal/core/validation"
)

const titleLogin = "Sign in"

// LoginPage handles GET /login.
func (h *PageHandler) LoginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, views.PageLogin, titleLogin, views.LoginView{Demo: h.demo}, nil)
}

// Login handles POST /login. Invalid forms never reach the backend and a
// rejected login leaves the session untouched.
func (h *PageHandler) Login(c echo.Context) error {
	var form validation.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Email = strings.TrimSpace(form.Email)
	view := views.LoginView{Email: form.Email, Demo: h.demo}

	if err := c.Validate(&form); err != nil {
		fields, ok := formErrors(err, "login")
		if !ok {
			return err
		}
		view.Errors = fields
		return h.render(c, http.StatusUnprocessableEntity, views.PageLogin, titleLogin, view, nil)
	}

	if _, _, err := h.auth.Login(c.Request().Context(), form.Email, form.Password); err != nil {
		status, _, _ := StatusFor(err)
		switch {
		case errors.Is(err, domain.ErrAuthenticationFailed):
			view.FormError = "Invalid email or password"
		case errors.Is(err, domain.ErrTransport):
			view.FormError = "Unable to reach the feedback service. Please try again."
		default:
			return err
		}
		return h.render(c, status, views.PageLogin, titleLogin, view, nil)
	}

	return c.Redirect(http.StatusSeeOther, guard.LandingPath)
}

// Logout handles POST /logout.
func (h *PageHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, guard.LoginPath)
}

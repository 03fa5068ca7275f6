package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusFor maps a domain error to an HTTP status and a message safe to show
// the caller. ok is false for errors with no known mapping.
func StatusFor(err error) (status int, msg string, ok bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, "validation failed", true
	}

	detail := domain.DetailOf(err)
	pick := func(fallback string) string {
		if detail != "" {
			return detail
		}
		return fallback
	}

	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "Invalid email or password", true
	case errors.Is(err, domain.ErrAuthorizationExpired):
		return http.StatusUnauthorized, "Your session has expired", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, pick("access forbidden"), true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, pick("resource not found"), true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, pick("resource already exists"), true
	case errors.Is(err, domain.ErrUnprocessable),
		errors.Is(err, domain.ErrInvalidFeedback),
		errors.Is(err, domain.ErrInvalidUser):
		return http.StatusUnprocessableEntity, pick("validation failed"), true
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway, "feedback service unavailable", true
	}
	return http.StatusInternalServerError, "internal server error", false
}

// writeError renders err as the JSON error envelope. Unmapped errors are
// returned to Echo so the central handler logs them.
func writeError(c echo.Context, err error) error {
	status, msg, ok := StatusFor(err)
	if !ok {
		return err
	}
	resp := errorResponse{Error: msg}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	return c.JSON(status, resp)
}

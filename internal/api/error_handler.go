package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/handler"
	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/guard"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Answers API requests with {"error": "<message>"} and pages with the
//     error template. An expired session on a page goes back to /login.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if !wantsJSON(c) && errors.Is(err, domain.ErrAuthorizationExpired) {
			if store, ok := middleware.SessionStore(c); ok {
				_ = store.SetFlash(c.Request().Context(), views.ToastError+":Your session has expired")
			}
			_ = c.Redirect(http.StatusSeeOther, guard.LoginPath)
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		page := views.Page{
			Title: http.StatusText(code),
			User:  middleware.CurrentUser(c),
			Body:  views.ErrorView{Status: code, Message: msg},
		}
		if rerr := c.Render(code, views.PageError, page); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, guard denials, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, msg, ok := handler.StatusFor(err); ok {
		return code, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

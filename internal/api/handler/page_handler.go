package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/metrics"
	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/guard"
	"github.com/feedbackhub/portal/internal/core/ports"
)

const (
	// CSRFContextKey is where the CSRF middleware leaves the token.
	CSRFContextKey = "csrf"
	// CSRFFormField is the hidden form field carrying the token.
	CSRFFormField = "_csrf"

	msgSessionExpired = "Your session has expired"
)

// PageHandler serves the server-rendered pages.
type PageHandler struct {
	auth       ports.AuthService
	users      ports.UserService
	feedback   ports.FeedbackService
	dashboards ports.DashboardService
	demo       bool
	log        zerolog.Logger
}

type PageDeps struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Feedback   ports.FeedbackService
	Dashboards ports.DashboardService
	// Demo shows the fixture credentials on the login page.
	Demo bool
	Log  zerolog.Logger
}

func NewPageHandler(d PageDeps) *PageHandler {
	return &PageHandler{
		auth:       d.Auth,
		users:      d.Users,
		feedback:   d.Feedback,
		dashboards: d.Dashboards,
		demo:       d.Demo,
		log:        d.Log,
	}
}

// Root handles GET /.
func (h *PageHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, guard.LandingPath)
}

// render executes a page inside the layout. A nil toast shows the pending
// flash message, if any.
func (h *PageHandler) render(c echo.Context, status int, name, title string, body any, toast *views.Toast) error {
	if toast == nil {
		toast = h.popToast(c)
	}
	csrf, _ := c.Get(CSRFContextKey).(string)
	return c.Render(status, name, views.Page{
		Title: title,
		User:  middleware.CurrentUser(c),
		Toast: toast,
		CSRF:  csrf,
		Body:  body,
	})
}

// redirect stores a toast for the next page and sends the browser there.
func (h *PageHandler) redirect(c echo.Context, to, kind, msg string) error {
	if msg != "" {
		h.flash(c, kind, msg)
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// sessionExpired is the page-side reaction to ErrAuthorizationExpired. The
// session has already been cleared by the time the error arrives here.
func (h *PageHandler) sessionExpired(c echo.Context) error {
	return h.redirect(c, guard.LoginPath, views.ToastError, msgSessionExpired)
}

func (h *PageHandler) flash(c echo.Context, kind, msg string) {
	store, ok := middleware.SessionStore(c)
	if !ok {
		return
	}
	if err := store.SetFlash(c.Request().Context(), kind+":"+msg); err != nil {
		h.log.Warn().Err(err).Msg("failed to store flash message")
	}
}

func (h *PageHandler) popToast(c echo.Context) *views.Toast {
	store, ok := middleware.SessionStore(c)
	if !ok {
		return nil
	}
	raw, err := store.PopFlash(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to read flash message")
		return nil
	}
	if raw == "" {
		return nil
	}
	kind, msg, ok := strings.Cut(raw, ":")
	if !ok {
		return &views.Toast{Kind: views.ToastSuccess, Message: raw}
	}
	return &views.Toast{Kind: kind, Message: msg}
}

// formErrors extracts per-field messages and counts the rejection.
func formErrors(err error, form string) (map[string]string, bool) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	metrics.FormRejectionsTotal.WithLabelValues(form).Inc()
	return ve.Fields, true
}

// failureMessage prefers the backend's own explanation over fallback.
func failureMessage(err error, fallback string) string {
	if d := domain.DetailOf(err); d != "" {
		return d
	}
	return fallback
}

func errorToast(msg string) *views.Toast {
	return &views.Toast{Kind: views.ToastError, Message: msg}
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/metrics"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/guard"
)

// GuardMode selects how a denied request is answered.
type GuardMode int

const (
	// GuardRedirect answers page requests with a See Other redirect.
	GuardRedirect GuardMode = iota
	// GuardJSON answers API requests with 401 or 403.
	GuardJSON
)

// RequireRole runs the route guard on every request. An empty role admits
// any signed-in user. Allowed requests carry the cached user under
// ContextKeyUser.
func RequireRole(required domain.Role, mode GuardMode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var (
				authenticated bool
				user          *domain.User
			)
			if store, ok := SessionStore(c); ok {
				var err error
				if authenticated, err = store.IsAuthenticated(ctx); err != nil {
					return err
				}
				if user, err = store.CurrentUser(ctx); err != nil {
					return err
				}
			}

			var role domain.Role
			if user != nil {
				role = user.Role
			}

			d := guard.Evaluate(authenticated, role, required)
			metrics.GuardDecisionsTotal.WithLabelValues(d.State.String()).Inc()

			switch d.State {
			case guard.Unauthenticated:
				if mode == GuardJSON {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
				}
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			case guard.Unauthorized:
				if mode == GuardJSON {
					return echo.NewHTTPError(http.StatusForbidden, "forbidden")
				}
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// RedirectIfAuthenticated keeps signed-in users off the login page.
func RedirectIfAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authenticated := false
			if store, ok := SessionStore(c); ok {
				var err error
				if authenticated, err = store.IsAuthenticated(c.Request().Context()); err != nil {
					return err
				}
			}
			if d := guard.ForLogin(authenticated); !d.Allowed() {
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user placed in the context by RequireRole.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(ContextKeyUser).(*domain.User)
	return u
}

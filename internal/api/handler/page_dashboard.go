package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
)

// Dashboard handles GET /dashboard.
func (h *PageHandler) Dashboard(c echo.Context) error {
	d, err := h.dashboards.Summary(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuthorizationExpired) {
			return h.sessionExpired(c)
		}
		h.log.Error().Err(err).Msg("failed to fetch dashboard data")
		status, _, _ := StatusFor(err)
		return h.render(c, status, views.PageDashboard, "Dashboard", views.DashboardView{},
			errorToast("Failed to fetch dashboard data"))
	}

	var view views.DashboardView
	switch v := d.(type) {
	case *domain.ManagerDashboard:
		view.Manager = v
	case *domain.EmployeeDashboard:
		view.Employee = v
	}
	return h.render(c, http.StatusOK, views.PageDashboard, "Dashboard", view, nil)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type dashboardResponse struct {
	Role      domain.Role      `json:"role"`
	Dashboard domain.Dashboard `json:"dashboard"`
}

// Get handles GET /api/v1/dashboard and returns the variant for the caller's role.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	d, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dashboardResponse{Role: user.Role, Dashboard: d})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/core/domain"
)

// ctxUser returns the user placed in the context by the guard middleware and
// fails fast when the route was mounted without it.
func ctxUser(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return u, nil
}

// paramID parses the :id path parameter.
func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid feedback id")
	}
	return id, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/validation"
)

// FeedbackHandler handles the feedback endpoints of the JSON API.
type FeedbackHandler struct {
	service ports.FeedbackService
}

func NewFeedbackHandler(service ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type messageResponse struct {
	Message string `json:"message"`
}

// List handles GET /api/v1/feedback. Managers see what they gave, employees
// what they received, newest first.
//
// @Summary      List feedback visible to the caller
// @Tags         feedback
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   domain.Feedback
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/v1/feedback.
//
// @Summary      Give feedback to a team member
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      validation.FeedbackForm  true  "Feedback"
// @Success      201   {object}  domain.Feedback
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	var req validation.FeedbackForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	fb, err := h.service.Create(c.Request().Context(), req.Draft())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, fb)
}

// Update handles PUT /api/v1/feedback/:id. Omitted fields are left unchanged.
//
// @Summary      Edit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      int                   true  "Feedback id"
// @Param        body  body      validation.PatchForm  true  "Fields to change"
// @Success      200   {object}  domain.Feedback
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/feedback/{id} [put]
func (h *FeedbackHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req validation.PatchForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	fb, err := h.service.Update(c.Request().Context(), id, req.Patch())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fb)
}

// Acknowledge handles POST /api/v1/feedback/:id/acknowledge.
//
// @Summary      Acknowledge received feedback
// @Tags         feedback
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Feedback id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/feedback/{id}/acknowledge [post]
func (h *FeedbackHandler) Acknowledge(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Acknowledge(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Feedback acknowledged successfully"})
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/validation"
)

const (
	pathFeedback = "/feedback"

	titleGiveFeedback = "Give Feedback"
	titleEditFeedback = "Edit Feedback"
)

// FeedbackList handles GET /feedback.
func (h *PageHandler) FeedbackList(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	view := views.FeedbackListView{
		Heading:        "My Feedback",
		Subheading:     "Feedback you have received from your manager",
		EmptyMessage:   "You haven't received any feedback yet.",
		CanAcknowledge: true,
	}
	if user.IsManager() {
		view = views.FeedbackListView{
			Heading:      "Feedback Given",
			Subheading:   "Feedback you have provided to your team members",
			EmptyMessage: "Start by giving feedback to your team members.",
			CanGive:      true,
		}
	}

	items, err := h.feedback.List(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuthorizationExpired) {
			return h.sessionExpired(c)
		}
		h.log.Error().Err(err).Msg("failed to fetch feedback")
		status, _, _ := StatusFor(err)
		return h.render(c, status, views.PageFeedbackList, view.Heading, view, errorToast("Failed to fetch feedback"))
	}

	view.Items = items
	return h.render(c, http.StatusOK, views.PageFeedbackList, view.Heading, view, nil)
}

// Acknowledge handles POST /feedback/:id/acknowledge.
func (h *PageHandler) Acknowledge(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.feedback.Acknowledge(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrAuthorizationExpired) {
			return h.sessionExpired(c)
		}
		h.log.Warn().Err(err).Int("feedback_id", id).Msg("acknowledge failed")
		return h.redirect(c, pathFeedback, views.ToastError, "Failed to acknowledge feedback")
	}
	return h.redirect(c, pathFeedback, views.ToastSuccess, "Feedback acknowledged successfully")
}

// NewFeedbackPage handles GET /feedback/new.
func (h *PageHandler) NewFeedbackPage(c echo.Context) error {
	view := views.FeedbackFormView{}
	team, toast, err := h.team(c.Request().Context())
	if err != nil {
		return h.sessionExpired(c)
	}
	view.Team = team
	return h.render(c, http.StatusOK, views.PageFeedbackNew, titleGiveFeedback, view, toast)
}

// CreateFeedback handles POST /feedback/new.
func (h *PageHandler) CreateFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	var form validation.FeedbackForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Normalize()
	view := views.FeedbackFormView{Form: form}

	var status int
	if err := c.Validate(&form); err != nil {
		fields, ok := formErrors(err, "feedback")
		if !ok {
			return err
		}
		view.Errors = fields
		status = http.StatusUnprocessableEntity
	} else if _, err := h.feedback.Create(ctx, form.Draft()); err != nil {
		if errors.Is(err, domain.ErrAuthorizationExpired) {
			return h.sessionExpired(c)
		}
		if fields, ok := formErrors(err, "feedback"); ok {
			view.Errors = fields
		} else {
			h.log.Warn().Err(err).Int("employee_id", form.EmployeeID).Msg("create feedback failed")
			view.FormError = failureMessage(err, "Failed to submit feedback")
		}
		status, _, _ = StatusFor(err)
	} else {
		return h.redirect(c, pathFeedback, views.ToastSuccess, "Feedback submitted successfully!")
	}

	team, toast, err := h.team(ctx)
	if err != nil {
		return h.sessionExpired(c)
	}
	view.Team = team
	return h.render(c, status, views.PageFeedbackNew, titleGiveFeedback, view, toast)
}

// EditFeedbackPage handles GET /feedback/:id/edit.
func (h *PageHandler) EditFeedbackPage(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	fb, err := h.findFeedback(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorizationExpired) {
			return h.sessionExpired(c)
		}
		return err
	}

	view := views.FeedbackEditView{
		Feedback: *fb,
		Form: validation.PatchForm{
			Strengths:      fb.Strengths,
			AreasToImprove: fb.AreasToImprove,
			Sentiment:      string(fb.Sentiment),
		},
	}
	return h.render(c, http.StatusOK, views.PageFeedbackEdit, titleEditFeedback, view, nil)
}

// UpdateFeedback handles POST /feedback/:id/edit.
func (h *PageHandler) UpdateFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var form validation.PatchForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Normalize()
	view := views.FeedbackEditView{Feedback: domain.Feedback{ID: id}, Form: form}

	var status int
	if err := c.Validate(&form); err != nil {
		fields, ok := formErrors(err, "feedback_edit")
		if !ok {
			return err
		}
		view.Errors = fields
		status = http.StatusUnprocessableEntity
	} else if _, err := h.feedback.Update(ctx, id, form.Patch()); err != nil {
		if errors.Is(err, domain.ErrAuthorizationExpired) {
			return h.sessionExpired(c)
		}
		if fields, ok := formErrors(err, "feedback_edit"); ok {
			view.Errors = fields
		} else {
			h.log.Warn().Err(err).Int("feedback_id", id).Msg("update feedback failed")
			view.FormError = failureMessage(err, "Failed to update feedback")
		}
		status, _, _ = StatusFor(err)
	} else {
		return h.redirect(c, pathFeedback, views.ToastSuccess, "Feedback updated successfully")
	}

	if fb, err := h.findFeedback(ctx, id); err == nil {
		view.Feedback = *fb
	}
	return h.render(c, status, views.PageFeedbackEdit, titleEditFeedback, view, nil)
}

// team loads the picker options. Failures other than an expired session are
// reported as a toast with an empty picker; only expiry is returned.
func (h *PageHandler) team(ctx context.Context) ([]domain.User, *views.Toast, error) {
	team, err := h.users.MyTeam(ctx)
	if err == nil {
		return team, nil, nil
	}
	if errors.Is(err, domain.ErrAuthorizationExpired) {
		return nil, nil, err
	}
	h.log.Error().Err(err).Msg("failed to fetch team members")
	return nil, errorToast("Failed to fetch team members"), nil
}

// findFeedback looks an item up in the caller's list; the API has no
// single-item read.
func (h *PageHandler) findFeedback(ctx context.Context, id int) (*domain.Feedback, error) {
	items, err := h.feedback.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, domain.Reject(domain.ErrNotFound, "Feedback not found")
}

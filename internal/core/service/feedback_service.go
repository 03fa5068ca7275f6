package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/validation"
)

type feedbackService struct {
	backend  ports.Backend
	validate *validation.Validator
	log      zerolog.Logger
}

// NewFeedbackService returns a FeedbackService implementation.
func NewFeedbackService(backend ports.Backend, log zerolog.Logger) ports.FeedbackService {
	return &feedbackService{backend: backend, validate: validation.New(), log: log}
}

// Create validates the draft before sending it; an invalid draft never
// reaches the backend.
func (s *feedbackService) Create(ctx context.Context, draft domain.FeedbackDraft) (*domain.Feedback, error) {
	form := validation.FeedbackFormFromDraft(draft)
	form.Normalize()
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}

	f, err := s.backend.CreateFeedback(ctx, form.Draft())
	if err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	s.log.Info().Int("feedback_id", f.ID).Int("employee_id", f.EmployeeID).Msg("feedback submitted")
	return f, nil
}

// List returns the caller's visible feedback, newest first.
func (s *feedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	items, err := s.backend.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			s.log.Warn().Err(err).Int("feedback_id", items[i].ID).Msg("backend returned inconsistent feedback")
		}
	}
	domain.SortNewestFirst(items)
	return items, nil
}

func nothingToUpdate() error {
	return &domain.ValidationError{Fields: map[string]string{"feedback": "Nothing to update"}}
}

// Update sends the fields of patch that are still set after trimming. A
// patch with nothing left is rejected before the backend is called.
func (s *feedbackService) Update(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	if patch.Empty() {
		return nil, nothingToUpdate()
	}

	form := validation.PatchForm{}
	if patch.Strengths != nil {
		form.Strengths = *patch.Strengths
	}
	if patch.AreasToImprove != nil {
		form.AreasToImprove = *patch.AreasToImprove
	}
	if patch.Sentiment != nil {
		form.Sentiment = string(*patch.Sentiment)
	}
	form.Normalize()
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}

	trimmed := form.Patch()
	if trimmed.Empty() {
		return nil, nothingToUpdate()
	}

	f, err := s.backend.UpdateFeedback(ctx, id, trimmed)
	if err != nil {
		return nil, fmt.Errorf("update feedback %d: %w", id, err)
	}
	return f, nil
}

// Acknowledge marks feedback as read. Repeating it is harmless.
func (s *feedbackService) Acknowledge(ctx context.Context, id int) error {
	if err := s.backend.AcknowledgeFeedback(ctx, id); err != nil {
		return fmt.Errorf("acknowledge feedback %d: %w", id, err)
	}
	return nil
}

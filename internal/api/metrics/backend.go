package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

// instrumentedBackend records count, outcome and latency of every call.
type instrumentedBackend struct {
	next ports.Backend
}

// InstrumentBackend wraps next with Prometheus instrumentation.
func InstrumentBackend(next ports.Backend) ports.Backend {
	return &instrumentedBackend{next: next}
}

func observe(op string, start time.Time, err error) {
	BackendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	BackendRequestsTotal.WithLabelValues(op, Outcome(err)).Inc()
}

// Outcome maps an error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "auth_failed"
	case errors.Is(err, domain.ErrAuthorizationExpired):
		return "expired"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUnprocessable),
		errors.Is(err, domain.ErrInvalidFeedback),
		errors.Is(err, domain.ErrInvalidUser):
		return "invalid"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	}
	return "error"
}

func (b *instrumentedBackend) Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
	start := time.Now()
	tok, u, err := b.next.Login(ctx, email, password)
	observe("login", start, err)

	switch {
	case err == nil:
		LoginAttemptsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, domain.ErrAuthenticationFailed):
		LoginAttemptsTotal.WithLabelValues("rejected").Inc()
	default:
		LoginAttemptsTotal.WithLabelValues("error").Inc()
	}
	return tok, u, err
}

func (b *instrumentedBackend) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	start := time.Now()
	u, err := b.next.Register(ctx, in)
	observe("register", start, err)
	return u, err
}

func (b *instrumentedBackend) Me(ctx context.Context) (*domain.User, error) {
	start := time.Now()
	u, err := b.next.Me(ctx)
	observe("me", start, err)
	return u, err
}

func (b *instrumentedBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	users, err := b.next.ListUsers(ctx)
	observe("list_users", start, err)
	return users, err
}

func (b *instrumentedBackend) MyTeam(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	users, err := b.next.MyTeam(ctx)
	observe("my_team", start, err)
	return users, err
}

func (b *instrumentedBackend) CreateFeedback(ctx context.Context, in domain.FeedbackDraft) (*domain.Feedback, error) {
	start := time.Now()
	f, err := b.next.CreateFeedback(ctx, in)
	observe("create_feedback", start, err)
	return f, err
}

func (b *instrumentedBackend) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	start := time.Now()
	items, err := b.next.ListFeedback(ctx)
	observe("list_feedback", start, err)
	return items, err
}

func (b *instrumentedBackend) UpdateFeedback(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	start := time.Now()
	f, err := b.next.UpdateFeedback(ctx, id, patch)
	observe("update_feedback", start, err)
	return f, err
}

func (b *instrumentedBackend) AcknowledgeFeedback(ctx context.Context, id int) error {
	start := time.Now()
	err := b.next.AcknowledgeFeedback(ctx, id)
	observe("acknowledge_feedback", start, err)
	return err
}

func (b *instrumentedBackend) ManagerDashboard(ctx context.Context) (*domain.ManagerDashboard, error) {
	start := time.Now()
	d, err := b.next.ManagerDashboard(ctx)
	observe("manager_dashboard", start, err)
	return d, err
}

func (b *instrumentedBackend) EmployeeDashboard(ctx context.Context) (*domain.EmployeeDashboard, error) {
	start := time.Now()
	d, err := b.next.EmployeeDashboard(ctx)
	observe("employee_dashboard", start, err)
	return d, err
}

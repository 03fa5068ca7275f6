package ports

import (
	"context"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// Backend is the data-access strategy behind every domain service. The live
// HTTP client and the in-memory demo provider both implement it with the same
// error behavior. The caller's token is taken from ctx.
type Backend interface {
	// Login exchanges credentials for a token and resolves the account it
	// belongs to. It never touches the caller's session.
	Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error)
	Register(ctx context.Context, in domain.Registration) (*domain.User, error)
	Me(ctx context.Context) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	MyTeam(ctx context.Context) ([]domain.User, error)

	CreateFeedback(ctx context.Context, in domain.FeedbackDraft) (*domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	UpdateFeedback(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error)
	AcknowledgeFeedback(ctx context.Context, id int) error

	ManagerDashboard(ctx context.Context) (*domain.ManagerDashboard, error)
	EmployeeDashboard(ctx context.Context) (*domain.EmployeeDashboard, error)
}

// UnauthorizedHook is the "session invalidated" event. Backends fire it once
// per rejected authenticated call, before returning ErrAuthorizationExpired.
type UnauthorizedHook func(ctx context.Context)

package ports

import (
	"context"

	"github.com/feedbackhub/portal/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error)
	Register(ctx context.Context, in domain.Registration) (*domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	IsAuthenticated(ctx context.Context) (bool, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	MyTeam(ctx context.Context) ([]domain.User, error)
}

type FeedbackService interface {
	Create(ctx context.Context, draft domain.FeedbackDraft) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
	Update(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error)
	Acknowledge(ctx context.Context, id int) error
}

type DashboardService interface {
	ManagerSummary(ctx context.Context) (*domain.ManagerDashboard, error)
	EmployeeSummary(ctx context.Context) (*domain.EmployeeDashboard, error)
	// Summary picks the variant matching the signed-in user's role.
	Summary(ctx context.Context) (domain.Dashboard, error)
}

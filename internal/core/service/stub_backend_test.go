package service

import (
	"context"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
)

// stubBackend implements ports.Backend; unset functions panic when called.
type stubBackend struct {
	loginFn        func(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error)
	registerFn     func(ctx context.Context, in domain.Registration) (*domain.User, error)
	meFn           func(ctx context.Context) (*domain.User, error)
	listUsersFn    func(ctx context.Context) ([]domain.User, error)
	myTeamFn       func(ctx context.Context) ([]domain.User, error)
	createFn       func(ctx context.Context, in domain.FeedbackDraft) (*domain.Feedback, error)
	listFn         func(ctx context.Context) ([]domain.Feedback, error)
	updateFn       func(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error)
	ackFn          func(ctx context.Context, id int) error
	managerDashFn  func(ctx context.Context) (*domain.ManagerDashboard, error)
	employeeDashFn func(ctx context.Context) (*domain.EmployeeDashboard, error)
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubBackend) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubBackend) Me(ctx context.Context) (*domain.User, error) {
	return s.meFn(ctx)
}

func (s *stubBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubBackend) MyTeam(ctx context.Context) ([]domain.User, error) {
	return s.myTeamFn(ctx)
}

func (s *stubBackend) CreateFeedback(ctx context.Context, in domain.FeedbackDraft) (*domain.Feedback, error) {
	return s.createFn(ctx, in)
}

func (s *stubBackend) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return s.listFn(ctx)
}

func (s *stubBackend) UpdateFeedback(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubBackend) AcknowledgeFeedback(ctx context.Context, id int) error {
	return s.ackFn(ctx, id)
}

func (s *stubBackend) ManagerDashboard(ctx context.Context) (*domain.ManagerDashboard, error) {
	return s.managerDashFn(ctx)
}

func (s *stubBackend) EmployeeDashboard(ctx context.Context) (*domain.EmployeeDashboard, error) {
	return s.employeeDashFn(ctx)
}

func sessionContext() (context.Context, *session.Store) {
	store := session.NewStore("test", storage.NewMemoryRepository(0))
	return session.NewContext(context.Background(), store), store
}

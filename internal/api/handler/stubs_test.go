package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/middleware"
	"github.com/feedbackhub/portal/internal/api/views"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error)
	registerFn func(ctx context.Context, in domain.Registration) (*domain.User, error)
	logoutFn   func(ctx context.Context) error
	currentFn  func(ctx context.Context) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubAuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.currentFn(ctx)
}

func (s *stubAuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	u, err := s.currentFn(ctx)
	return u != nil, err
}

type stubUserService struct {
	listFn func(ctx context.Context) ([]domain.User, error)
	teamFn func(ctx context.Context) ([]domain.User, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.User, error) { return s.listFn(ctx) }
func (s *stubUserService) MyTeam(ctx context.Context) ([]domain.User, error)    { return s.teamFn(ctx) }

type stubFeedbackService struct {
	createFn func(ctx context.Context, draft domain.FeedbackDraft) (*domain.Feedback, error)
	listFn   func(ctx context.Context) ([]domain.Feedback, error)
	updateFn func(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error)
	ackFn    func(ctx context.Context, id int) error
}

func (s *stubFeedbackService) Create(ctx context.Context, draft domain.FeedbackDraft) (*domain.Feedback, error) {
	return s.createFn(ctx, draft)
}

func (s *stubFeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.listFn(ctx)
}

func (s *stubFeedbackService) Update(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubFeedbackService) Acknowledge(ctx context.Context, id int) error {
	return s.ackFn(ctx, id)
}

type stubDashboardService struct {
	summaryFn func(ctx context.Context) (domain.Dashboard, error)
}

func (s *stubDashboardService) ManagerSummary(ctx context.Context) (*domain.ManagerDashboard, error) {
	d, err := s.summaryFn(ctx)
	if err != nil {
		return nil, err
	}
	return d.(*domain.ManagerDashboard), nil
}

func (s *stubDashboardService) EmployeeSummary(ctx context.Context) (*domain.EmployeeDashboard, error) {
	d, err := s.summaryFn(ctx)
	if err != nil {
		return nil, err
	}
	return d.(*domain.EmployeeDashboard), nil
}

func (s *stubDashboardService) Summary(ctx context.Context) (domain.Dashboard, error) {
	return s.summaryFn(ctx)
}

var (
	testManager  = &domain.User{ID: 1, Email: "manager@company.com", Name: "John Manager", Role: domain.RoleManager}
	testEmployee = &domain.User{ID: 2, Email: "employee@company.com", Name: "Jane Employee", Role: domain.RoleEmployee}
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := views.New()
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

// newContext builds a request bound to a fresh in-memory session. A non-nil
// user is signed in and placed where the guard middleware would put it.
func newContext(t *testing.T, method, target string, form url.Values, user *domain.User) (echo.Context, *httptest.ResponseRecorder, *session.Store) {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return bindSession(t, newEcho(t), req, user)
}

func newJSONContext(t *testing.T, method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder, *session.Store) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return bindSession(t, newEcho(t), req, user)
}

func bindSession(t *testing.T, e *echo.Echo, req *http.Request, user *domain.User) (echo.Context, *httptest.ResponseRecorder, *session.Store) {
	t.Helper()
	store := session.NewStore("test-sid", storage.NewMemoryRepository(0))
	ctx := session.NewContext(req.Context(), store)
	if user != nil {
		if err := store.Save(ctx, "tok", user); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req.WithContext(ctx), rec)
	c.Set(middleware.ContextKeySession, store)
	if user != nil {
		c.Set(middleware.ContextKeyUser, user)
	}
	return c, rec, store
}

func newPages(auth *stubAuthService, users *stubUserService, fb *stubFeedbackService, dash *stubDashboardService) *PageHandler {
	return NewPageHandler(PageDeps{
		Auth:       auth,
		Users:      users,
		Feedback:   fb,
		Dashboards: dash,
		Log:        zerolog.Nop(),
	})
}

func popFlash(t *testing.T, c echo.Context, store *session.Store) string {
	t.Helper()
	msg, err := store.PopFlash(c.Request().Context())
	if err != nil {
		t.Fatalf("pop flash: %v", err)
	}
	return msg
}

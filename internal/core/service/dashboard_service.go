package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/session"
)

type dashboardService struct {
	backend ports.Backend
	log     zerolog.Logger
}

// NewDashboardService returns a DashboardService implementation.
func NewDashboardService(backend ports.Backend, log zerolog.Logger) ports.DashboardService {
	return &dashboardService{backend: backend, log: log}
}

func (s *dashboardService) ManagerSummary(ctx context.Context) (*domain.ManagerDashboard, error) {
	d, err := s.backend.ManagerDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("manager dashboard: %w", err)
	}
	s.check(d, "manager")
	return d, nil
}

func (s *dashboardService) EmployeeSummary(ctx context.Context) (*domain.EmployeeDashboard, error) {
	d, err := s.backend.EmployeeDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee dashboard: %w", err)
	}
	s.check(d, "employee")
	return d, nil
}

func (s *dashboardService) Summary(ctx context.Context) (domain.Dashboard, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("dashboard: %w", domain.ErrAuthorizationExpired)
	}
	user, err := store.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("dashboard: %w", domain.ErrAuthorizationExpired)
	}

	p, err := user.Principal()
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if _, ok := p.(domain.Manager); ok {
		d, err := s.ManagerSummary(ctx)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	d, err := s.EmployeeSummary(ctx)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// check logs summaries whose sentiment counts do not add up.
func (s *dashboardService) check(d domain.Dashboard, kind string) {
	if d.Consistent() {
		return
	}
	sum := d.Sentiment()
	s.log.Warn().
		Str("dashboard", kind).
		Int("total", d.TotalFeedback()).
		Int("sentiment_total", sum.Total()).
		Int("recent", len(d.Recent())).
		Msg("inconsistent dashboard summary")
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func dashboardStub() *stubBackend {
	return &stubBackend{
		managerDashFn: func(ctx context.Context) (*domain.ManagerDashboard, error) {
			return &domain.ManagerDashboard{TeamSize: 1, Total: 2, SentimentSummary: domain.SentimentSummary{Positive: 2}}, nil
		},
		employeeDashFn: func(ctx context.Context) (*domain.EmployeeDashboard, error) {
			return &domain.EmployeeDashboard{TotalReceived: 2, Unacknowledged: 1, SentimentSummary: domain.SentimentSummary{Positive: 2}}, nil
		},
	}
}

func TestDashboardService_Summary_ByRole(t *testing.T) {
	svc := NewDashboardService(dashboardStub(), zerolog.Nop())

	ctx, store := sessionContext()
	_ = store.Save(ctx, "tok", managerUser())
	d, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if _, ok := d.(*domain.ManagerDashboard); !ok {
		t.Fatalf("expected manager dashboard, got %T", d)
	}

	managerID := 1
	_ = store.Save(ctx, "tok", &domain.User{ID: 2, Role: domain.RoleEmployee, ManagerID: &managerID})
	d, err = svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	ed, ok := d.(*domain.EmployeeDashboard)
	if !ok {
		t.Fatalf("expected employee dashboard, got %T", d)
	}
	if ed.Unacknowledged != 1 || !ed.Consistent() {
		t.Fatalf("unexpected employee dashboard: %+v", ed)
	}
}

func TestDashboardService_Summary_SignedOut(t *testing.T) {
	svc := NewDashboardService(dashboardStub(), zerolog.Nop())
	ctx, _ := sessionContext()

	if _, err := svc.Summary(ctx); !errors.Is(err, domain.ErrAuthorizationExpired) {
		t.Fatalf("expected ErrAuthorizationExpired, got %v", err)
	}
}

func TestDashboardService_Summary_ErrorIsNilInterface(t *testing.T) {
	stub := dashboardStub()
	stub.managerDashFn = func(ctx context.Context) (*domain.ManagerDashboard, error) {
		return nil, domain.ErrForbidden
	}
	svc := NewDashboardService(stub, zerolog.Nop())

	ctx, store := sessionContext()
	_ = store.Save(ctx, "tok", managerUser())
	d, err := svc.Summary(ctx)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if d != nil {
		t.Fatalf("expected nil dashboard on error, got %#v", d)
	}
}

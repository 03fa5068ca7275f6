package guard

import (
	"testing"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func TestEvaluate_TransitionTable(t *testing.T) {
	roles := []domain.Role{"", domain.RoleManager, domain.RoleEmployee}

	for _, role := range roles {
		for _, required := range roles {
			got := Evaluate(false, role, required)
			if got != (Decision{State: Unauthenticated, Redirect: LoginPath}) {
				t.Fatalf("(false, %q, %q): got %+v", role, required, got)
			}
		}
	}

	cases := []struct {
		role     domain.Role
		required domain.Role
		want     Decision
	}{
		{domain.RoleEmployee, domain.RoleManager, Decision{State: Unauthorized, Redirect: LandingPath}},
		{domain.RoleManager, domain.RoleManager, Decision{State: Authorized}},
		{domain.RoleEmployee, "", Decision{State: Authorized}},
		{domain.RoleManager, "", Decision{State: Authorized}},
		{domain.RoleManager, domain.RoleEmployee, Decision{State: Unauthorized, Redirect: LandingPath}},
		{"", domain.RoleManager, Decision{State: Unauthorized, Redirect: LandingPath}},
	}
	for _, tc := range cases {
		if got := Evaluate(true, tc.role, tc.required); got != tc.want {
			t.Fatalf("(true, %q, %q): expected %+v, got %+v", tc.role, tc.required, tc.want, got)
		}
	}
}

func TestForLogin(t *testing.T) {
	if d := ForLogin(true); d.Redirect != LandingPath {
		t.Fatalf("expected redirect to dashboard, got %+v", d)
	}
	if d := ForLogin(false); !d.Allowed() {
		t.Fatalf("expected login page to render, got %+v", d)
	}
}

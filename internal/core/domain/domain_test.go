package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestUser_Validate(t *testing.T) {
	cases := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"manager without manager", User{ID: 1, Role: RoleManager}, false},
		{"employee with manager", User{ID: 2, Role: RoleEmployee, ManagerID: intPtr(1)}, false},
		{"employee without manager", User{ID: 3, Role: RoleEmployee}, false},
		{"manager with manager", User{ID: 4, Role: RoleManager, ManagerID: intPtr(1)}, true},
		{"unknown role", User{ID: 5, Role: "admin"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidUser) {
				t.Fatalf("expected ErrInvalidUser, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUser_Principal(t *testing.T) {
	m := User{ID: 1, Role: RoleManager}
	p, err := m.Principal()
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if _, ok := p.(Manager); !ok {
		t.Fatalf("expected Manager variant, got %T", p)
	}

	e := User{ID: 2, Role: RoleEmployee, ManagerID: intPtr(1)}
	p, err = e.Principal()
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	emp, ok := p.(Employee)
	if !ok {
		t.Fatalf("expected Employee variant, got %T", p)
	}
	if emp.ManagerID == nil || *emp.ManagerID != 1 {
		t.Fatalf("expected manager id 1, got %v", emp.ManagerID)
	}
	if emp.Account().ID != 2 {
		t.Fatalf("unexpected account id %d", emp.Account().ID)
	}
}

func TestFeedback_Acknowledge_KeepsFirstTimestamp(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	f := Feedback{ID: 1, Sentiment: SentimentPositive, CreatedAt: At(created), UpdatedAt: At(created)}

	first := created.Add(time.Hour)
	f.Acknowledge(first)
	f.Acknowledge(first.Add(time.Hour))

	if !f.Acknowledged || f.AcknowledgedAt == nil {
		t.Fatalf("expected acknowledged feedback")
	}
	if !f.AcknowledgedAt.Equal(first) {
		t.Fatalf("expected first ack time %v, got %v", first, f.AcknowledgedAt.Time)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFeedback_Validate(t *testing.T) {
	created := At(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))

	f := Feedback{ID: 1, Sentiment: SentimentNeutral, CreatedAt: created, UpdatedAt: created, Acknowledged: true}
	if err := f.Validate(); !errors.Is(err, ErrInvalidFeedback) {
		t.Fatalf("expected ErrInvalidFeedback for missing acknowledged_at, got %v", err)
	}

	f = Feedback{ID: 2, Sentiment: SentimentNeutral, CreatedAt: created, UpdatedAt: At(created.Add(-time.Minute))}
	if err := f.Validate(); !errors.Is(err, ErrInvalidFeedback) {
		t.Fatalf("expected ErrInvalidFeedback for updated_at < created_at, got %v", err)
	}
}

func TestFeedback_Apply(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	f := Feedback{Strengths: "old", AreasToImprove: "keep", Sentiment: SentimentPositive, CreatedAt: At(created), UpdatedAt: At(created)}

	strengths := "new strengths"
	neg := SentimentNegative
	f.Apply(FeedbackPatch{Strengths: &strengths, Sentiment: &neg}, created.Add(time.Minute))

	if f.Strengths != "new strengths" || f.AreasToImprove != "keep" || f.Sentiment != SentimentNegative {
		t.Fatalf("unexpected feedback after patch: %+v", f)
	}
	if !f.UpdatedAt.Equal(created.Add(time.Minute)) {
		t.Fatalf("expected updated_at bump, got %v", f.UpdatedAt.Time)
	}
}

func TestTimestamp_UnmarshalNaive(t *testing.T) {
	var v struct {
		At Timestamp `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":"2024-01-15T10:00:00.123456"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 1, 15, 10, 0, 0, 123456000, time.UTC)
	if !v.At.Equal(want) {
		t.Fatalf("expected %v, got %v", want, v.At.Time)
	}

	if err := json.Unmarshal([]byte(`{"at":"2024-01-15T10:00:00Z"}`), &v); err != nil {
		t.Fatalf("unmarshal rfc3339: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"at":"yesterday"}`), &v); err == nil {
		t.Fatalf("expected error for bad timestamp")
	}
}

func TestDashboard_Consistent(t *testing.T) {
	m := &ManagerDashboard{TeamSize: 1, Total: 2, SentimentSummary: SentimentSummary{Positive: 2}}
	if !m.Consistent() {
		t.Fatalf("expected consistent manager dashboard")
	}
	m.SentimentSummary.Neutral = 1
	if m.Consistent() {
		t.Fatalf("expected inconsistent manager dashboard")
	}

	e := &EmployeeDashboard{TotalReceived: 2, Unacknowledged: 3, SentimentSummary: SentimentSummary{Positive: 2}}
	if e.Consistent() {
		t.Fatalf("unacknowledged cannot exceed total")
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []Feedback{
		{ID: 1, CreatedAt: At(base)},
		{ID: 2, CreatedAt: At(base.Add(48 * time.Hour))},
		{ID: 3, CreatedAt: At(base.Add(24 * time.Hour))},
	}
	SortNewestFirst(items)
	if items[0].ID != 2 || items[1].ID != 3 || items[2].ID != 1 {
		t.Fatalf("unexpected order: %d %d %d", items[0].ID, items[1].ID, items[2].ID)
	}
}

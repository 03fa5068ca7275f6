package demo

import (
	"time"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// Password is the shared password of the fixture accounts.
const Password = "password123"

const (
	ManagerEmail  = "manager@example.com"
	EmployeeEmail = "employee@example.com"
)

type account struct {
	user         domain.User
	passwordHash string
	// fixture accounts are the only ones allowed to sign in.
	fixture bool
}

func ts(s string) domain.Timestamp {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return domain.At(t)
}

func intPtr(v int) *int { return &v }

// fixtureAccounts returns a fresh copy of the demo users sharing hash.
func fixtureAccounts(hash string) []account {
	created := ts("2024-01-01T00:00:00Z")
	return []account{
		{
			user: domain.User{
				ID:        1,
				Email:     ManagerEmail,
				Name:      "Demo Manager",
				Role:      domain.RoleManager,
				CreatedAt: created,
			},
			passwordHash: hash,
			fixture:      true,
		},
		{
			user: domain.User{
				ID:        2,
				Email:     EmployeeEmail,
				Name:      "Demo Employee",
				Role:      domain.RoleEmployee,
				ManagerID: intPtr(1),
				CreatedAt: created,
			},
			passwordHash: hash,
			fixture:      true,
		},
	}
}

// fixtureFeedback returns a fresh copy of the demo feedback records. Manager
// and employee snapshots are attached on read.
func fixtureFeedback() []domain.Feedback {
	ackAt := ts("2024-01-11T09:00:00Z")
	return []domain.Feedback{
		{
			ID:             1,
			ManagerID:      1,
			EmployeeID:     2,
			Strengths:      "Great communication skills and always meets deadlines. Shows initiative in problem-solving.",
			AreasToImprove: "Could benefit from taking on more leadership opportunities and sharing knowledge with team members.",
			Sentiment:      domain.SentimentPositive,
			CreatedAt:      ts("2024-01-15T10:00:00Z"),
			UpdatedAt:      ts("2024-01-15T10:00:00Z"),
		},
		{
			ID:             2,
			ManagerID:      1,
			EmployeeID:     2,
			Strengths:      "Excellent technical skills and attention to detail.",
			AreasToImprove: "Time management during busy periods.",
			Sentiment:      domain.SentimentPositive,
			CreatedAt:      ts("2024-01-10T14:30:00Z"),
			UpdatedAt:      ts("2024-01-10T14:30:00Z"),
			Acknowledged:   true,
			AcknowledgedAt: &ackAt,
		},
	}
}

package domain

import (
	"fmt"
	"sort"
	"time"
)

// Sentiment is the overall tone of a feedback record.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists every sentiment in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Description is the helper text shown next to a sentiment choice.
func (s Sentiment) Description() string {
	switch s {
	case SentimentPositive:
		return "Overall positive performance and attitude"
	case SentimentNeutral:
		return "Balanced performance with room for growth"
	case SentimentNegative:
		return "Areas needing immediate attention and improvement"
	}
	return ""
}

// Feedback is a manager's written review of one employee.
type Feedback struct {
	ID             int        `json:"id"`
	ManagerID      int        `json:"manager_id"`
	EmployeeID     int        `json:"employee_id"`
	Strengths      string     `json:"strengths"`
	AreasToImprove string     `json:"areas_to_improve"`
	Sentiment      Sentiment  `json:"sentiment"`
	CreatedAt      Timestamp  `json:"created_at"`
	UpdatedAt      Timestamp  `json:"updated_at"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *Timestamp `json:"acknowledged_at,omitempty"`
	Manager        *User      `json:"manager,omitempty"`
	Employee       *User      `json:"employee,omitempty"`
}

// Validate checks the acknowledgement and timestamp invariants.
func (f *Feedback) Validate() error {
	if f.Acknowledged != (f.AcknowledgedAt != nil) {
		return fmt.Errorf("%w: feedback %d acknowledged=%t with acknowledged_at=%v",
			ErrInvalidFeedback, f.ID, f.Acknowledged, f.AcknowledgedAt)
	}
	if f.UpdatedAt.Before(f.CreatedAt.Time) {
		return fmt.Errorf("%w: feedback %d updated before it was created", ErrInvalidFeedback, f.ID)
	}
	if !f.Sentiment.Valid() {
		return fmt.Errorf("%w: unknown sentiment %q", ErrInvalidFeedback, f.Sentiment)
	}
	return nil
}

// Acknowledge marks f as read. A second call keeps the first timestamp.
func (f *Feedback) Acknowledge(now time.Time) {
	if f.Acknowledged {
		return
	}
	ts := At(now)
	f.Acknowledged = true
	f.AcknowledgedAt = &ts
}

// Apply merges the set fields of p into f and bumps UpdatedAt.
func (f *Feedback) Apply(p FeedbackPatch, now time.Time) {
	if p.Strengths != nil {
		f.Strengths = *p.Strengths
	}
	if p.AreasToImprove != nil {
		f.AreasToImprove = *p.AreasToImprove
	}
	if p.Sentiment != nil {
		f.Sentiment = *p.Sentiment
	}
	ts := At(now)
	if ts.Before(f.CreatedAt.Time) {
		ts = f.CreatedAt
	}
	f.UpdatedAt = ts
}

// FeedbackDraft is the payload for new feedback.
type FeedbackDraft struct {
	EmployeeID     int       `json:"employee_id"`
	Strengths      string    `json:"strengths"`
	AreasToImprove string    `json:"areas_to_improve"`
	Sentiment      Sentiment `json:"sentiment"`
}

// FeedbackPatch is a partial update; nil fields are left unchanged.
type FeedbackPatch struct {
	Strengths      *string    `json:"strengths,omitempty"`
	AreasToImprove *string    `json:"areas_to_improve,omitempty"`
	Sentiment      *Sentiment `json:"sentiment,omitempty"`
}

// Empty reports whether p changes nothing.
func (p FeedbackPatch) Empty() bool {
	return p.Strengths == nil && p.AreasToImprove == nil && p.Sentiment == nil
}

// SortNewestFirst orders items by CreatedAt descending, keeping ties stable by id.
func SortNewestFirst(items []Feedback) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt.Time) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt.Time)
	})
}

package domain

// RecentFeedbackLimit caps the recent list on both dashboards.
const RecentFeedbackLimit = 5

// SentimentSummary counts feedback per sentiment.
type SentimentSummary struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (s SentimentSummary) Total() int {
	return s.Positive + s.Neutral + s.Negative
}

// Add counts one feedback of the given sentiment.
func (s *SentimentSummary) Add(v Sentiment) {
	switch v {
	case SentimentPositive:
		s.Positive++
	case SentimentNeutral:
		s.Neutral++
	case SentimentNegative:
		s.Negative++
	}
}

// Count returns the tally for v.
func (s SentimentSummary) Count(v Sentiment) int {
	switch v {
	case SentimentPositive:
		return s.Positive
	case SentimentNeutral:
		return s.Neutral
	case SentimentNegative:
		return s.Negative
	}
	return 0
}

// Dashboard is the role-specific summary. The concrete type is either
// *ManagerDashboard or *EmployeeDashboard.
type Dashboard interface {
	TotalFeedback() int
	Sentiment() SentimentSummary
	Recent() []Feedback
	// Consistent reports whether the sentiment tally matches the total.
	Consistent() bool
}

type ManagerDashboard struct {
	TeamSize         int              `json:"team_size"`
	Total            int              `json:"total_feedback"`
	RecentFeedback   []Feedback       `json:"recent_feedback"`
	SentimentSummary SentimentSummary `json:"sentiment_summary"`
}

func (d *ManagerDashboard) TotalFeedback() int          { return d.Total }
func (d *ManagerDashboard) Sentiment() SentimentSummary { return d.SentimentSummary }
func (d *ManagerDashboard) Recent() []Feedback          { return d.RecentFeedback }
func (d *ManagerDashboard) Consistent() bool {
	return d.SentimentSummary.Total() == d.Total && len(d.RecentFeedback) <= RecentFeedbackLimit
}

type EmployeeDashboard struct {
	TotalReceived    int              `json:"total_feedback_received"`
	Unacknowledged   int              `json:"unacknowledged_feedback"`
	RecentFeedback   []Feedback       `json:"recent_feedback"`
	SentimentSummary SentimentSummary `json:"sentiment_summary"`
}

func (d *EmployeeDashboard) TotalFeedback() int          { return d.TotalReceived }
func (d *EmployeeDashboard) Sentiment() SentimentSummary { return d.SentimentSummary }
func (d *EmployeeDashboard) Recent() []Feedback          { return d.RecentFeedback }
func (d *EmployeeDashboard) Consistent() bool {
	return d.SentimentSummary.Total() == d.TotalReceived &&
		d.Unacknowledged <= d.TotalReceived &&
		len(d.RecentFeedback) <= RecentFeedbackLimit
}

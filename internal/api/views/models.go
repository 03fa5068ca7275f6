package views

import (
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/validation"
)

type LoginView struct {
	Email     string
	Errors    map[string]string
	FormError string
	Demo      bool
}

// DashboardView carries exactly one of the two summaries.
type DashboardView struct {
	Manager  *domain.ManagerDashboard
	Employee *domain.EmployeeDashboard
}

// Summary returns whichever variant is set.
func (v DashboardView) Summary() domain.Dashboard {
	if v.Manager != nil {
		return v.Manager
	}
	if v.Employee != nil {
		return v.Employee
	}
	return nil
}

type FeedbackListView struct {
	Heading        string
	Subheading     string
	EmptyMessage   string
	Items          []domain.Feedback
	CanGive        bool
	CanAcknowledge bool
}

type FeedbackFormView struct {
	Team      []domain.User
	Form      validation.FeedbackForm
	Errors    map[string]string
	FormError string
}

type FeedbackEditView struct {
	Feedback  domain.Feedback
	Form      validation.PatchForm
	Errors    map[string]string
	FormError string
}

type ErrorView struct {
	Status  int
	Message string
}

// Package validation checks user-submitted forms before any backend call and
// reports one message per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/feedbackhub/portal/internal/core/domain"
)

const detailedFeedback = "Please provide more detailed feedback (at least 10 characters)"

// messages overrides the generic text per field and tag.
var messages = map[string]map[string]string{
	"employee_id": {
		"required": "Please select a team member",
		"gt":       "Please select a team member",
	},
	"strengths": {
		"required": "Please provide strengths feedback",
		"min":      detailedFeedback,
	},
	"areas_to_improve": {
		"required": "Please provide improvement areas",
		"min":      detailedFeedback,
	},
	"sentiment": {
		"required": "Please select an overall sentiment",
		"oneof":    "Please select an overall sentiment",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please enter a valid email address",
	},
	"password": {
		"required": "Password is required",
	},
}

// FeedbackForm is the give-feedback submission.
type FeedbackForm struct {
	EmployeeID     int    `json:"employee_id" form:"employee_id" validate:"required,gt=0"`
	Strengths      string `json:"strengths" form:"strengths" validate:"required,min=10"`
	AreasToImprove string `json:"areas_to_improve" form:"areas_to_improve" validate:"required,min=10"`
	Sentiment      string `json:"sentiment" form:"sentiment" validate:"required,oneof=positive neutral negative"`
}

// Normalize trims surrounding whitespace from text fields.
func (f *FeedbackForm) Normalize() {
	f.Strengths = strings.TrimSpace(f.Strengths)
	f.AreasToImprove = strings.TrimSpace(f.AreasToImprove)
	f.Sentiment = strings.TrimSpace(f.Sentiment)
}

// Draft converts a validated form.
func (f FeedbackForm) Draft() domain.FeedbackDraft {
	return domain.FeedbackDraft{
		EmployeeID:     f.EmployeeID,
		Strengths:      f.Strengths,
		AreasToImprove: f.AreasToImprove,
		Sentiment:      domain.Sentiment(f.Sentiment),
	}
}

// FeedbackFormFromDraft lets services re-check drafts built elsewhere.
func FeedbackFormFromDraft(d domain.FeedbackDraft) FeedbackForm {
	return FeedbackForm{
		EmployeeID:     d.EmployeeID,
		Strengths:      d.Strengths,
		AreasToImprove: d.AreasToImprove,
		Sentiment:      string(d.Sentiment),
	}
}

// PatchForm is a partial feedback edit. Empty fields are left unchanged.
type PatchForm struct {
	Strengths      string `json:"strengths" form:"strengths" validate:"omitempty,min=10"`
	AreasToImprove string `json:"areas_to_improve" form:"areas_to_improve" validate:"omitempty,min=10"`
	Sentiment      string `json:"sentiment" form:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
}

func (f *PatchForm) Normalize() {
	f.Strengths = strings.TrimSpace(f.Strengths)
	f.AreasToImprove = strings.TrimSpace(f.AreasToImprove)
	f.Sentiment = strings.TrimSpace(f.Sentiment)
}

func (f PatchForm) Patch() domain.FeedbackPatch {
	var p domain.FeedbackPatch
	if f.Strengths != "" {
		p.Strengths = &f.Strengths
	}
	if f.AreasToImprove != "" {
		p.AreasToImprove = &f.AreasToImprove
	}
	if f.Sentiment != "" {
		s := domain.Sentiment(f.Sentiment)
		p.Sentiment = &s
	}
	return p
}

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegisterForm struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	Name      string `json:"name" form:"name" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required,min=6"`
	Role      string `json:"role" form:"role" validate:"omitempty,oneof=manager employee"`
	ManagerID *int   `json:"manager_id,omitempty" form:"manager_id" validate:"omitempty,gt=0"`
}

func (f RegisterForm) Registration() domain.Registration {
	role := domain.Role(f.Role)
	if role == "" {
		role = domain.RoleEmployee
	}
	return domain.Registration{
		Email:     strings.TrimSpace(f.Email),
		Name:      strings.TrimSpace(f.Name),
		Password:  f.Password,
		Role:      role,
		ManagerID: f.ManagerID,
	}
}

// Validator wraps go-playground/validator and reports failures as
// *domain.ValidationError keyed by the json field name.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. Only the first failure per field is reported.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fieldError(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	if msg, ok := messages[field][fe.Tag()]; ok {
		return msg
	}
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrAuthenticationFailed is returned when credentials are rejected at login.
	ErrAuthenticationFailed = errors.New("invalid email or password")
	// ErrAuthorizationExpired is returned when an authenticated call is rejected.
	// The session has already been invalidated when a caller sees it.
	ErrAuthorizationExpired = errors.New("session expired")
	ErrForbidden            = errors.New("access forbidden")
	ErrNotFound             = errors.New("resource not found")
	ErrConflict             = errors.New("resource already exists")
	ErrTransport            = errors.New("backend unreachable")
	// ErrUnprocessable is a request the backend refused as invalid after it
	// passed client-side validation.
	ErrUnprocessable        = errors.New("request failed validation")
	ErrInvalidUser          = errors.New("invalid user")
	ErrInvalidFeedback      = errors.New("invalid feedback")
)

// ValidationError carries per-field messages produced before any backend call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the message for a single field, or "" when it passed.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// RejectionError is a domain error carrying the message the backend gave for
// it, suitable for showing to the user.
type RejectionError struct {
	Kind   error
	Detail string
}

// Reject annotates kind with a user-facing detail.
func Reject(kind error, detail string) error {
	return &RejectionError{Kind: kind, Detail: detail}
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *RejectionError) Unwrap() error { return e.Kind }

func (e *RejectionError) UserDetail() string { return e.Detail }

// DetailOf returns the user-facing detail attached anywhere in err's chain,
// or "" when there is none.
func DetailOf(err error) string {
	var d interface{ UserDetail() string }
	if errors.As(err, &d) {
		return d.UserDetail()
	}
	return ""
}

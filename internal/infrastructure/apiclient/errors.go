package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// StatusError is a non-2xx response from the feedback API. It unwraps to the
// matching domain error when the status has one, so callers can use errors.Is
// and still read the original status and detail.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	kind       error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// kindFor maps a status to the domain error kind. Login rejections are
// credential failures, not expired sessions.
func kindFor(status int, detail string, login bool) error {
	switch status {
	case http.StatusUnauthorized:
		if login {
			return domain.ErrAuthenticationFailed
		}
		return domain.ErrAuthorizationExpired
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusUnprocessableEntity:
		return domain.ErrUnprocessable
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(detail), "already") {
			return domain.ErrConflict
		}
	}
	return nil
}

// parseDetail extracts the "detail" field of an error body. It is either a
// string or a list of validation entries carrying "msg".
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(env.Detail)
}

// UserDetail exposes the backend's message to the view layer.
func (e *StatusError) UserDetail() string {
	return e.Detail
}

// Package guard decides whether a session may open a route.
package guard

import "github.com/feedbackhub/portal/internal/core/domain"

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// State is the outcome of evaluating a route against the session.
type State int

const (
	Unauthenticated State = iota
	Unauthorized
	Authorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// Decision is the guard verdict. Redirect is empty when State is Authorized.
type Decision struct {
	State    State
	Redirect string
}

func (d Decision) Allowed() bool {
	return d.State == Authorized
}

// Evaluate maps (authenticated, role, required) to a decision. An empty
// required role admits any signed-in user.
func Evaluate(authenticated bool, role, required domain.Role) Decision {
	switch {
	case !authenticated:
		return Decision{State: Unauthenticated, Redirect: LoginPath}
	case required != "" && role != required:
		return Decision{State: Unauthorized, Redirect: LandingPath}
	default:
		return Decision{State: Authorized}
	}
}

// ForLogin sends signed-in visitors of the login page to the landing page.
func ForLogin(authenticated bool) Decision {
	if authenticated {
		return Decision{State: Unauthorized, Redirect: LandingPath}
	}
	return Decision{State: Authorized}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/guard"
)

var (
	errNotSignedIn = errors.New("not signed in, run feedbackctl login")
	errManagerOnly = errors.New("this command requires a manager account")
)

// userMessage turns err into the single line printed before exiting.
func userMessage(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrAuthorizationExpired):
		return "session expired, run feedbackctl login"
	case errors.Is(err, domain.ErrTransport):
		return "feedback service unavailable: " + err.Error()
	}
	if detail := domain.DetailOf(err); detail != "" {
		return detail
	}
	return err.Error()
}

// requireRole is a PreRunE that applies the route guard to a command. An
// empty role admits any signed-in user. Being signed in means holding a
// token; the cached user only supplies the role.
func (e *env) requireRole(role domain.Role) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		authenticated, err := e.auth.IsAuthenticated(ctx)
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}
		user, err := e.auth.CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}
		var current domain.Role
		if user != nil {
			current = user.Role
		}
		switch guard.Evaluate(authenticated, current, role).State {
		case guard.Unauthenticated:
			return errNotSignedIn
		case guard.Unauthorized:
			return errManagerOnly
		}
		return nil
	}
}

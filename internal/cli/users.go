package cli

import (
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func newUsersCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List every account (managers only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := e.users.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return e.printer(cmd.OutOrStdout()).print(users, func() *table.Table { return userTable(users) })
		},
	}
	cmd.PreRunE = e.requireRole(domain.RoleManager)
	return cmd
}

func newTeamCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "List the employees reporting to you (managers only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			team, err := e.users.MyTeam(cmd.Context())
			if err != nil {
				return err
			}
			return e.printer(cmd.OutOrStdout()).print(team, func() *table.Table { return userTable(team) })
		},
	}
	cmd.PreRunE = e.requireRole(domain.RoleManager)
	return cmd
}

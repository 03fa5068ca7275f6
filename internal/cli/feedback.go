package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/validation"
)

func newFeedbackCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feedback",
		Aliases: []string{"fb"},
		Short:   "List, give, edit and acknowledge feedback",
	}
	cmd.AddCommand(
		newFeedbackListCommand(e),
		newFeedbackGiveCommand(e),
		newFeedbackUpdateCommand(e),
		newFeedbackAckCommand(e),
	)
	return cmd
}

func newFeedbackListCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback you gave (managers) or received (employees), newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := e.feedback.List(cmd.Context())
			if err != nil {
				return err
			}
			p := e.printer(cmd.OutOrStdout())
			if len(items) == 0 && p.format == formatTable {
				_, err := fmt.Fprintln(p.w, "No feedback yet")
				return err
			}
			return p.print(items, func() *table.Table { return feedbackTable(items) })
		},
	}
	cmd.PreRunE = e.requireRole("")
	return cmd
}

func newFeedbackGiveCommand(e *env) *cobra.Command {
	form := validation.FeedbackForm{Sentiment: string(domain.SentimentNeutral)}

	cmd := &cobra.Command{
		Use:   "give",
		Short: "Give feedback to a member of your team (managers only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Normalize()
			if err := validation.New().Struct(form); err != nil {
				return err
			}
			f, err := e.feedback.Create(cmd.Context(), form.Draft())
			if err != nil {
				return err
			}
			return e.confirm(cmd, "Feedback submitted successfully!", f)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&form.EmployeeID, "employee", 0, "id of the team member")
	fl.StringVar(&form.Strengths, "strengths", "", "what the employee does well (at least 10 characters)")
	fl.StringVar(&form.AreasToImprove, "improve", "", "areas to improve (at least 10 characters)")
	fl.StringVar(&form.Sentiment, "sentiment", form.Sentiment, "positive, neutral or negative")
	cmd.PreRunE = e.requireRole(domain.RoleManager)
	return cmd
}

func newFeedbackUpdateCommand(e *env) *cobra.Command {
	var form validation.PatchForm

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit feedback you gave; omitted fields stay unchanged (managers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form.Normalize()
			if err := validation.New().Struct(form); err != nil {
				return err
			}
			f, err := e.feedback.Update(cmd.Context(), id, form.Patch())
			if err != nil {
				return err
			}
			return e.confirm(cmd, "Feedback updated successfully", f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&form.Strengths, "strengths", "", "new strengths text")
	fl.StringVar(&form.AreasToImprove, "improve", "", "new areas to improve")
	fl.StringVar(&form.Sentiment, "sentiment", "", "new sentiment")
	cmd.PreRunE = e.requireRole(domain.RoleManager)
	return cmd
}

func newFeedbackAckCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ack <id>",
		Aliases: []string{"acknowledge"},
		Short:   "Acknowledge feedback you received",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := e.feedback.Acknowledge(cmd.Context(), id); err != nil {
				return err
			}
			return e.printer(cmd.OutOrStdout()).notice("Feedback acknowledged successfully")
		},
	}
	cmd.PreRunE = e.requireRole("")
	return cmd
}

// confirm prints msg in table mode and the saved record otherwise.
func (e *env) confirm(cmd *cobra.Command, msg string, f *domain.Feedback) error {
	p := e.printer(cmd.OutOrStdout())
	if p.format == formatTable {
		return p.notice(msg)
	}
	return p.print(f, nil)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid feedback id %q", arg)
	}
	return id, nil
}

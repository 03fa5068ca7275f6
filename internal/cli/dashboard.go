package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func newDashboardCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the summary for your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := e.dashboards.Summary(cmd.Context())
			if err != nil {
				return err
			}
			p := e.printer(cmd.OutOrStdout())
			if err := p.print(d, func() *table.Table { return summaryTable(d) }); err != nil {
				return err
			}
			if p.format != formatTable {
				return nil
			}

			recent := d.Recent()
			if len(recent) == 0 {
				_, err := fmt.Fprintln(p.w, emptyRecent(d))
				return err
			}
			fmt.Fprintln(p.w, headerStyle.Render("Recent feedback"))
			_, err = fmt.Fprintln(p.w, feedbackTable(recent).Render())
			return err
		},
	}
	cmd.PreRunE = e.requireRole("")
	return cmd
}

func summaryTable(d domain.Dashboard) *table.Table {
	t := newTable("METRIC", "VALUE")
	switch v := d.(type) {
	case *domain.ManagerDashboard:
		t.Row("Team size", strconv.Itoa(v.TeamSize))
		t.Row("Feedback given", strconv.Itoa(v.Total))
	case *domain.EmployeeDashboard:
		t.Row("Feedback received", strconv.Itoa(v.TotalReceived))
		t.Row("Awaiting acknowledgement", strconv.Itoa(v.Unacknowledged))
	}
	sum := d.Sentiment()
	for _, s := range domain.Sentiments {
		t.Row(string(s), strconv.Itoa(sum.Count(s)))
	}
	return t
}

func emptyRecent(d domain.Dashboard) string {
	if _, ok := d.(*domain.ManagerDashboard); ok {
		return "No feedback given yet."
	}
	return "No feedback received yet."
}

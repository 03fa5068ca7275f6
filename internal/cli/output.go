package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"

	"github.com/feedbackhub/portal/internal/core/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00C853"))
)

// printer writes v in the selected format. table is only called for the
// table format.
type printer struct {
	w      io.Writer
	format string
}

func (e *env) printer(w io.Writer) printer {
	return printer{w: w, format: e.opts.output}
}

func (p printer) print(v any, tbl func() *table.Table) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		b, err := yaml.MarshalWithOptions(v, yaml.UseJSONMarshaler())
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = p.w.Write(b)
		return err
	}
	_, err := fmt.Fprintln(p.w, tbl().Render())
	return err
}

// notice prints a confirmation line. Structured formats get the message as
// a document so scripts can still parse stdout.
func (p printer) notice(msg string) error {
	if p.format != formatTable {
		return p.print(map[string]string{"message": msg}, nil)
	}
	_, err := fmt.Fprintln(p.w, noticeStyle.Render(msg))
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func userTable(users []domain.User) *table.Table {
	t := newTable("ID", "NAME", "EMAIL", "ROLE", "MANAGER")
	for _, u := range users {
		t.Row(strconv.Itoa(u.ID), u.Name, u.Email, string(u.Role), optionalID(u.ManagerID))
	}
	return t
}

func feedbackTable(items []domain.Feedback) *table.Table {
	t := newTable("ID", "MANAGER", "EMPLOYEE", "SENTIMENT", "ACKNOWLEDGED", "CREATED")
	for _, f := range items {
		t.Row(
			strconv.Itoa(f.ID),
			nameOr(f.Manager, f.ManagerID),
			nameOr(f.Employee, f.EmployeeID),
			string(f.Sentiment),
			acknowledgement(f),
			f.CreatedAt.Format("Jan 2, 2006"),
		)
	}
	return t
}

func optionalID(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}

// nameOr prefers the embedded snapshot and falls back to the raw id.
func nameOr(u *domain.User, id int) string {
	if u != nil && u.Name != "" {
		return u.Name
	}
	return "#" + strconv.Itoa(id)
}

func acknowledgement(f domain.Feedback) string {
	if !f.Acknowledged || f.AcknowledgedAt == nil {
		return "pending"
	}
	return f.AcknowledgedAt.Format("Jan 2, 2006")
}

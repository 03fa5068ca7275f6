package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/validation"
)

func newLoginCommand(e *env) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with an email and password. The password is read without echo
when stdin is a terminal, otherwise from the next line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())

			var err error
			if email == "" {
				if email, err = promptLine(cmd, in, "Email: "); err != nil {
					return err
				}
			}
			password, err := promptPassword(cmd, in, "Password: ")
			if err != nil {
				return err
			}

			form := validation.LoginForm{Email: strings.TrimSpace(email), Password: password}
			if err := validation.New().Struct(form); err != nil {
				return err
			}

			_, user, err := e.auth.Login(cmd.Context(), form.Email, form.Password)
			if err != nil {
				return err
			}

			p := e.printer(cmd.OutOrStdout())
			if p.format != formatTable {
				return p.print(user, nil)
			}
			return p.notice(fmt.Sprintf("Signed in as %s (%s)", user.Name, user.Role))
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return e.printer(cmd.OutOrStdout()).notice("Signed out")
		},
	}
}

func newWhoamiCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := e.auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				return errNotSignedIn
			}
			return e.printer(cmd.OutOrStdout()).print(user, func() *table.Table {
				return userTable([]domain.User{*user})
			})
		},
	}
	cmd.PreRunE = e.requireRole("")
	return cmd
}

func newRegisterCommand(e *env) *cobra.Command {
	var (
		form      validation.RegisterForm
		managerID int
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account. Registering does not sign you in or change the stored session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				pw, err := promptPassword(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
				if err != nil {
					return err
				}
				form.Password = pw
			}
			if managerID > 0 {
				form.ManagerID = &managerID
			}

			user, err := e.auth.Register(cmd.Context(), form.Registration())
			if err != nil {
				return err
			}
			return e.printer(cmd.OutOrStdout()).print(user, func() *table.Table {
				return userTable([]domain.User{*user})
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Email, "email", "", "account email")
	f.StringVar(&form.Name, "name", "", "display name")
	f.StringVar(&form.Password, "password", "", "password (prompted when empty)")
	f.StringVar(&form.Role, "role", string(domain.RoleEmployee), "manager or employee")
	f.IntVar(&managerID, "manager-id", 0, "id of the employee's manager")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func promptLine(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo from a terminal and falls back to a
// plain line otherwise.
func promptPassword(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return promptLine(cmd, in, label)
}

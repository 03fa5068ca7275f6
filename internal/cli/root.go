// Package cli implements feedbackctl, the terminal client for the feedback
// service. It shares the session store, the services and the backend
// strategy with the web portal; only the session repository differs.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/feedbackhub/portal/internal/app"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/service"
	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/infrastructure/config"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
	"github.com/feedbackhub/portal/pkg/logger"
)

const (
	appName = "feedbackctl"
	// sessionID keys the single CLI session inside the session file.
	sessionID = "cli"
)

var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	apiURL      string
	demo        bool
	sessionFile string
	output      string
	verbose     bool
}

// env is filled by the root PersistentPreRunE and shared by every command.
type env struct {
	opts options

	cfg        *config.Config
	log        zerolog.Logger
	backend    *app.Backend
	store      *session.Store
	auth       *service.AuthService
	users      ports.UserService
	feedback   ports.FeedbackService
	dashboards ports.DashboardService
}

// NewRootCommand builds the feedbackctl command tree.
func NewRootCommand() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Give, read and acknowledge employee feedback from the terminal",
		Long: `feedbackctl talks to the feedback API (or the built-in demo data with
--demo) using a session stored on disk, so a login survives between runs.`,
		Version:           fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&e.opts.apiURL, "api", "", "feedback API base URL (overrides API_BASE_URL)")
	flags.BoolVar(&e.opts.demo, "demo", false, "use the built-in demo data instead of the API")
	flags.StringVar(&e.opts.sessionFile, "session-file", "", "session file (default is <config dir>/feedbackctl/session.json)")
	flags.StringVarP(&e.opts.output, "output", "o", formatTable, "output format: table, json or yaml")
	flags.BoolVarP(&e.opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newLoginCommand(e),
		newLogoutCommand(e),
		newWhoamiCommand(e),
		newRegisterCommand(e),
		newUsersCommand(e),
		newTeamCommand(e),
		newFeedbackCommand(e),
		newDashboardCommand(e),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", userMessage(err))
		return 1
	}
	return 0
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(e.opts.output); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.Context(), e.opts)
	if err != nil {
		return err
	}
	e.cfg = cfg

	level := "warn"
	if e.opts.verbose {
		level = "debug"
	}
	e.log = logger.Init(logger.Options{
		Level:   level,
		Pretty:  true,
		Output:  cmd.ErrOrStderr(),
		Service: appName,
	})

	path := cfg.Session.File
	if path == "" {
		if path, err = storage.DefaultSessionPath(); err != nil {
			return fmt.Errorf("locate session file: %w", err)
		}
	}
	e.store = session.NewStore(sessionID, storage.NewFileRepository(path))
	ctx := session.NewContext(cmd.Context(), e.store)
	cmd.SetContext(ctx)

	backend, err := app.NewBackend(cfg, appName+"/"+version, e.log)
	if err != nil {
		return err
	}
	e.backend = backend
	e.resume(ctx)

	e.auth = service.NewAuthService(backend, e.log)
	e.users = service.NewUserService(backend)
	e.feedback = service.NewFeedbackService(backend, e.log)
	e.dashboards = service.NewDashboardService(backend, e.log)

	e.log.Debug().Str("mode", backend.Mode).Str("session_file", path).Msg("client ready")
	return nil
}

// loadConfig reads the environment, then applies the flag overrides.
func loadConfig(ctx context.Context, opts options) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.demo {
		cfg.Demo.Enabled = true
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.sessionFile != "" {
		cfg.Session.File = opts.sessionFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// resume hands a stored demo token back to a freshly started demo provider.
// Live tokens need nothing: the API is the authority on them.
func (e *env) resume(ctx context.Context) {
	if e.backend.Resume == nil {
		return
	}
	token, err := e.store.Token(ctx)
	if err != nil || token == "" {
		return
	}
	user, err := e.store.CurrentUser(ctx)
	if err != nil || user == nil {
		return
	}
	if !e.backend.Resume(token, user.ID) {
		e.log.Debug().Int("user_id", user.ID).Msg("stored demo session not resumable")
	}
}

var errFormat = errors.New("unknown output format")

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("%w %q, want table, json or yaml", errFormat, f)
}

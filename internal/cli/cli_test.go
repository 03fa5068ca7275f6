package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/infrastructure/demo"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
	"github.com/feedbackhub/portal/pkg/logger"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// client runs feedbackctl against the demo data with a private session file.
type client struct {
	t    *testing.T
	path string
}

func newClient(t *testing.T) *client {
	t.Helper()
	t.Setenv("DEMO_LATENCY", "0s")
	t.Setenv("ENV", "test")
	return &client{t: t, path: filepath.Join(t.TempDir(), "session.json")}
}

func (c *client) run(stdin string, args ...string) result {
	c.t.Helper()
	logger.Reset()
	var out, errOut bytes.Buffer
	argv := append([]string{"--demo", "--session-file", c.path}, args...)
	code := Execute(context.Background(), argv, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (c *client) login(email string) {
	c.t.Helper()
	res := c.run(demo.Password+"\n", "login", "--email", email)
	require.Equal(c.t, 0, res.code, res.stderr)
}

func TestLogin_PromptsAndStoresSession(t *testing.T) {
	c := newClient(t)

	res := c.run(demo.ManagerEmail+"\n"+demo.Password+"\n", "login")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Signed in as Demo Manager (manager)")
	require.Contains(t, res.stderr, "Email: ")

	res = c.run("", "whoami", "-o", "json")
	require.Equal(t, 0, res.code, res.stderr)
	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &u))
	require.Equal(t, demo.ManagerEmail, u.Email)
	require.Equal(t, domain.RoleManager, u.Role)
}

func TestLogin_RejectedCredentialsLeaveNoSession(t *testing.T) {
	c := newClient(t)

	res := c.run("wrong-password\n", "login", "--email", demo.ManagerEmail)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "Invalid email or password")

	res = c.run("", "whoami")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, errNotSignedIn.Error())
}

func TestLogin_ValidatesBeforeCallingBackend(t *testing.T) {
	c := newClient(t)

	res := c.run("\n", "login", "--email", "not-an-email")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "Please enter a valid email address")
	require.Contains(t, res.stderr, "Password is required")
}

func TestLogout_ClearsSession(t *testing.T) {
	c := newClient(t)
	c.login(demo.EmployeeEmail)

	res := c.run("", "logout")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Signed out")

	res = c.run("", "feedback", "list")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, errNotSignedIn.Error())
}

func TestManagerCommands_RejectEmployees(t *testing.T) {
	c := newClient(t)
	c.login(demo.EmployeeEmail)

	for _, args := range [][]string{
		{"team"},
		{"users"},
		{"feedback", "give", "--employee", "2"},
		{"feedback", "update", "1", "--sentiment", "positive"},
	} {
		res := c.run("", args...)
		require.Equal(t, 1, res.code, args)
		require.Contains(t, res.stderr, errManagerOnly.Error(), args)
	}
}

func TestTeam_ListsReports(t *testing.T) {
	c := newClient(t)
	c.login(demo.ManagerEmail)

	res := c.run("", "team")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Demo Employee")
	require.Contains(t, res.stdout, demo.EmployeeEmail)
}

func TestFeedbackGive(t *testing.T) {
	c := newClient(t)
	c.login(demo.ManagerEmail)

	res := c.run("", "feedback", "give",
		"--employee", "2",
		"--strengths", "Ships reliable code every sprint",
		"--improve", "Could share knowledge more often",
		"--sentiment", "positive",
		"-o", "json",
	)
	require.Equal(t, 0, res.code, res.stderr)

	var f domain.Feedback
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &f))
	require.Equal(t, 2, f.EmployeeID)
	require.Equal(t, domain.SentimentPositive, f.Sentiment)
	require.False(t, f.Acknowledged)
}

func TestFeedbackGive_ShortTextIsRejected(t *testing.T) {
	c := newClient(t)
	c.login(demo.ManagerEmail)

	res := c.run("", "feedback", "give", "--employee", "2", "--strengths", "ok", "--improve", "fine")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "at least 10 characters")
}

func TestFeedbackListAndAcknowledge(t *testing.T) {
	c := newClient(t)
	c.login(demo.EmployeeEmail)

	res := c.run("", "feedback", "list", "-o", "json")
	require.Equal(t, 0, res.code, res.stderr)
	var items []domain.Feedback
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &items))
	require.Len(t, items, 2)

	res = c.run("", "feedback", "ack", "1")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Feedback acknowledged successfully")

	res = c.run("", "feedback", "ack", "abc")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, `invalid feedback id "abc"`)
}

func TestDashboard_YAML(t *testing.T) {
	c := newClient(t)
	c.login(demo.EmployeeEmail)

	res := c.run("", "dashboard", "-o", "yaml")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "total_feedback_received: 2")
	require.Contains(t, res.stdout, "unacknowledged_feedback: 1")
}

func TestDashboard_TableForManager(t *testing.T) {
	c := newClient(t)
	c.login(demo.ManagerEmail)

	res := c.run("", "dashboard")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Team size")
	require.Contains(t, res.stdout, "Recent feedback")
	require.Contains(t, res.stdout, "Demo Employee")
}

func TestRejectedToken_ClearsStoredSession(t *testing.T) {
	c := newClient(t)

	store := session.NewStore(sessionID, storage.NewFileRepository(c.path))
	user := &domain.User{ID: 2, Email: demo.EmployeeEmail, Name: "Demo Employee", Role: domain.RoleEmployee}
	require.NoError(t, store.Save(context.Background(), "stale-token", user))

	res := c.run("", "feedback", "list")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "session expired, run feedbackctl login")

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUnknownOutputFormat(t *testing.T) {
	c := newClient(t)

	res := c.run("", "whoami", "-o", "xml")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, `unknown output format "xml"`)
}

func TestRegister_KeepsCurrentSession(t *testing.T) {
	c := newClient(t)
	c.login(demo.ManagerEmail)

	res := c.run("", "register",
		"--email", "new.hire@example.com",
		"--name", "New Hire",
		"--password", "secret123",
		"--manager-id", "1",
		"-o", "json",
	)
	require.Equal(t, 0, res.code, res.stderr)
	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &u))
	require.Equal(t, domain.RoleEmployee, u.Role)

	res = c.run("", "whoami")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, demo.ManagerEmail)
}

func TestGuard_CachedUserWithoutTokenIsSignedOut(t *testing.T) {
	c := newClient(t)

	raw, err := json.Marshal(domain.User{ID: 1, Email: demo.ManagerEmail, Name: "Demo Manager", Role: domain.RoleManager})
	require.NoError(t, err)
	repo := storage.NewFileRepository(c.path)
	require.NoError(t, repo.Set(context.Background(), sessionID, map[string]string{session.KeyUser: string(raw)}))

	for _, args := range [][]string{{"whoami"}, {"team"}, {"feedback", "list"}} {
		res := c.run("", args...)
		require.Equal(t, 1, res.code, args)
		require.Contains(t, res.stderr, errNotSignedIn.Error(), args)
	}
}

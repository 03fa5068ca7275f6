// Package demo is an in-memory stand-in for the feedback API, used for
// standalone demonstrations. It mirrors the API's permission rules and error
// kinds so the rest of the application cannot tell the two apart.
package demo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/session"
)

const DefaultLatency = 300 * time.Millisecond

// Provider implements ports.Backend over the fixture set. Every operation
// waits for the configured latency and then runs under one lock, so each
// read-then-write is atomic.
type Provider struct {
	mu       sync.Mutex
	accounts []account
	feedback []domain.Feedback
	issued   map[string]int

	nextUserID     int
	nextFeedbackID int

	latency        time.Duration
	tokens         func(ctx context.Context) string
	onUnauthorized ports.UnauthorizedHook
	now            func() time.Time
	log            zerolog.Logger
}

var _ ports.Backend = (*Provider)(nil)

type Option func(*Provider)

func WithLatency(d time.Duration) Option {
	return func(p *Provider) { p.latency = d }
}

func WithTokenSource(ts func(ctx context.Context) string) Option {
	return func(p *Provider) { p.tokens = ts }
}

// WithOnUnauthorized registers the hook fired when a call presents an unknown token.
func WithOnUnauthorized(h ports.UnauthorizedHook) Option {
	return func(p *Provider) { p.onUnauthorized = h }
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// NewProvider builds a provider loaded with a fresh copy of the fixture.
func NewProvider(opts ...Option) (*Provider, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("demo: hash fixture password: %w", err)
	}

	p := &Provider{
		accounts: fixtureAccounts(string(hash)),
		feedback: fixtureFeedback(),
		issued:   make(map[string]int),
		latency:  DefaultLatency,
		tokens:   session.TokenFromContext,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	p.nextUserID = len(p.accounts) + 1
	p.nextFeedbackID = len(p.feedback) + 1

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
	if err := p.wait(ctx); err != nil {
		return domain.AuthToken{}, nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	acc := p.accountByEmail(email)
	if acc == nil || !acc.fixture {
		return domain.AuthToken{}, nil, domain.Reject(domain.ErrAuthenticationFailed, "Incorrect email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) != nil {
		return domain.AuthToken{}, nil, domain.Reject(domain.ErrAuthenticationFailed, "Incorrect email or password")
	}

	token := fmt.Sprintf("demo-token-%s-%s-%d",
		acc.user.Role, strconv.FormatInt(p.now().UnixNano(), 10), len(p.issued)+1)
	p.issued[token] = acc.user.ID
	p.log.Debug().Int("user_id", acc.user.ID).Msg("demo login")

	u := acc.user
	return domain.AuthToken{AccessToken: token, TokenType: domain.TokenTypeBearer}, &u, nil
}

// Resume re-admits a token issued by an earlier provider for a fixture
// account, so a persisted demo session outlives the process that created
// it. Data created in that process is not restored.
func (p *Provider) Resume(token string, userID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc := p.accountByID(userID)
	if acc == nil || !acc.fixture {
		return false
	}
	if !strings.HasPrefix(token, "demo-token-"+string(acc.user.Role)+"-") {
		return false
	}
	p.issued[token] = userID
	return true
}

func (p *Provider) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accountByEmail(in.Email) != nil {
		return nil, domain.Reject(domain.ErrConflict, "Email already registered")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	u := domain.User{
		ID:        p.nextUserID,
		Email:     in.Email,
		Name:      in.Name,
		Role:      role,
		ManagerID: in.ManagerID,
		CreatedAt: domain.At(p.now()),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.ManagerID != nil {
		if m := p.accountByID(*u.ManagerID); m == nil || m.user.Role != domain.RoleManager {
			return nil, domain.Reject(domain.ErrNotFound, "Manager not found")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("demo register: %w", err)
	}
	p.accounts = append(p.accounts, account{user: u, passwordHash: string(hash)})
	p.nextUserID++
	return &u, nil
}

func (p *Provider) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	err := p.run(ctx, func(caller *account) error {
		out = caller.user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Provider) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := p.run(ctx, func(caller *account) error {
		if err := requireManager(caller); err != nil {
			return err
		}
		out = make([]domain.User, 0, len(p.accounts))
		for _, a := range p.accounts {
			out = append(out, a.user)
		}
		return nil
	})
	return out, err
}

func (p *Provider) MyTeam(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := p.run(ctx, func(caller *account) error {
		if err := requireManager(caller); err != nil {
			return err
		}
		out = p.teamOf(caller.user.ID)
		return nil
	})
	return out, err
}

func (p *Provider) CreateFeedback(ctx context.Context, in domain.FeedbackDraft) (*domain.Feedback, error) {
	var out domain.Feedback
	err := p.run(ctx, func(caller *account) error {
		if err := requireManager(caller); err != nil {
			return err
		}
		emp := p.accountByID(in.EmployeeID)
		if emp == nil || emp.user.ManagerID == nil || *emp.user.ManagerID != caller.user.ID {
			return domain.Reject(domain.ErrForbidden, "Employee not in your team")
		}
		if !in.Sentiment.Valid() {
			return domain.Reject(domain.ErrInvalidFeedback, "Invalid sentiment")
		}

		now := domain.At(p.now())
		f := domain.Feedback{
			ID:             p.nextFeedbackID,
			ManagerID:      caller.user.ID,
			EmployeeID:     in.EmployeeID,
			Strengths:      in.Strengths,
			AreasToImprove: in.AreasToImprove,
			Sentiment:      in.Sentiment,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		p.feedback = append(p.feedback, f)
		p.nextFeedbackID++
		out = p.withSnapshots(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Provider) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := p.run(ctx, func(caller *account) error {
		out = p.visibleTo(caller)
		return nil
	})
	return out, err
}

func (p *Provider) UpdateFeedback(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	var out domain.Feedback
	err := p.run(ctx, func(caller *account) error {
		f := p.feedbackByID(id)
		if f == nil {
			return domain.Reject(domain.ErrNotFound, "Feedback not found")
		}
		if f.ManagerID != caller.user.ID {
			return domain.Reject(domain.ErrForbidden, "Not authorized to update this feedback")
		}
		if patch.Sentiment != nil && !patch.Sentiment.Valid() {
			return domain.Reject(domain.ErrInvalidFeedback, "Invalid sentiment")
		}
		f.Apply(patch, p.now())
		out = p.withSnapshots(*f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AcknowledgeFeedback marks feedback as read by its recipient. Acknowledging
// twice succeeds and keeps the original acknowledgement time.
func (p *Provider) AcknowledgeFeedback(ctx context.Context, id int) error {
	return p.run(ctx, func(caller *account) error {
		f := p.feedbackByID(id)
		if f == nil {
			return domain.Reject(domain.ErrNotFound, "Feedback not found")
		}
		if f.EmployeeID != caller.user.ID {
			return domain.Reject(domain.ErrForbidden, "Not authorized to acknowledge this feedback")
		}
		f.Acknowledge(p.now())
		return nil
	})
}

func (p *Provider) ManagerDashboard(ctx context.Context) (*domain.ManagerDashboard, error) {
	var out domain.ManagerDashboard
	err := p.run(ctx, func(caller *account) error {
		if err := requireManager(caller); err != nil {
			return err
		}
		given := p.visibleTo(caller)
		out = domain.ManagerDashboard{
			TeamSize:         len(p.teamOf(caller.user.ID)),
			Total:            len(given),
			RecentFeedback:   recent(given),
			SentimentSummary: tally(given),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Provider) EmployeeDashboard(ctx context.Context) (*domain.EmployeeDashboard, error) {
	var out domain.EmployeeDashboard
	err := p.run(ctx, func(caller *account) error {
		received := p.receivedBy(caller.user.ID)
		unack := 0
		for _, f := range received {
			if !f.Acknowledged {
				unack++
			}
		}
		out = domain.EmployeeDashboard{
			TotalReceived:    len(received),
			Unacknowledged:   unack,
			RecentFeedback:   recent(received),
			SentimentSummary: tally(received),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// run waits, resolves the caller from its token and executes fn under the
// lock. An unknown token fires the unauthorized hook after the lock is released.
func (p *Provider) run(ctx context.Context, fn func(caller *account) error) error {
	if err := p.wait(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	caller := p.callerLocked(ctx)
	if caller == nil {
		p.mu.Unlock()
		if p.onUnauthorized != nil {
			p.onUnauthorized(ctx)
		}
		return domain.Reject(domain.ErrAuthorizationExpired, "Could not validate credentials")
	}
	err := fn(caller)
	p.mu.Unlock()
	return err
}

// wait simulates network latency, returning early if ctx is done.
func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		return nil
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
	case <-t.C:
		return nil
	}
}

func (p *Provider) callerLocked(ctx context.Context) *account {
	tok := p.tokens(ctx)
	if tok == "" {
		return nil
	}
	id, ok := p.issued[tok]
	if !ok {
		return nil
	}
	return p.accountByID(id)
}

func (p *Provider) accountByEmail(email string) *account {
	email = strings.ToLower(strings.TrimSpace(email))
	for i := range p.accounts {
		if strings.ToLower(p.accounts[i].user.Email) == email {
			return &p.accounts[i]
		}
	}
	return nil
}

func (p *Provider) accountByID(id int) *account {
	for i := range p.accounts {
		if p.accounts[i].user.ID == id {
			return &p.accounts[i]
		}
	}
	return nil
}

func (p *Provider) feedbackByID(id int) *domain.Feedback {
	for i := range p.feedback {
		if p.feedback[i].ID == id {
			return &p.feedback[i]
		}
	}
	return nil
}

func (p *Provider) teamOf(managerID int) []domain.User {
	team := make([]domain.User, 0)
	for _, a := range p.accounts {
		if a.user.ManagerID != nil && *a.user.ManagerID == managerID {
			team = append(team, a.user)
		}
	}
	return team
}

// visibleTo returns feedback given by a manager or received by an employee.
func (p *Provider) visibleTo(caller *account) []domain.Feedback {
	if caller.user.Role != domain.RoleManager {
		return p.receivedBy(caller.user.ID)
	}
	out := make([]domain.Feedback, 0)
	for _, f := range p.feedback {
		if f.ManagerID == caller.user.ID {
			out = append(out, p.withSnapshots(f))
		}
	}
	return out
}

func (p *Provider) receivedBy(employeeID int) []domain.Feedback {
	out := make([]domain.Feedback, 0)
	for _, f := range p.feedback {
		if f.EmployeeID == employeeID {
			out = append(out, p.withSnapshots(f))
		}
	}
	return out
}

func (p *Provider) withSnapshots(f domain.Feedback) domain.Feedback {
	if m := p.accountByID(f.ManagerID); m != nil {
		u := m.user
		f.Manager = &u
	}
	if e := p.accountByID(f.EmployeeID); e != nil {
		u := e.user
		f.Employee = &u
	}
	if f.AcknowledgedAt != nil {
		at := *f.AcknowledgedAt
		f.AcknowledgedAt = &at
	}
	return f
}

func requireManager(caller *account) error {
	if caller.user.Role != domain.RoleManager {
		return domain.Reject(domain.ErrForbidden, "Only managers can perform this action")
	}
	return nil
}

func recent(items []domain.Feedback) []domain.Feedback {
	sorted := append([]domain.Feedback(nil), items...)
	domain.SortNewestFirst(sorted)
	if len(sorted) > domain.RecentFeedbackLimit {
		sorted = sorted[:domain.RecentFeedbackLimit]
	}
	return sorted
}

func tally(items []domain.Feedback) domain.SentimentSummary {
	var s domain.SentimentSummary
	for _, f := range items {
		s.Add(f.Sentiment)
	}
	return s
}

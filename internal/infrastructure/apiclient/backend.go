package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

var _ ports.Backend = (*Client)(nil)

func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
	var tok domain.AuthToken
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/token",
		form:   url.Values{"username": {email}, "password": {password}},
		out:    &tok,
		login:  true,
	})
	if err != nil {
		return domain.AuthToken{}, nil, err
	}
	if tok.TokenType == "" {
		tok.TokenType = domain.TokenTypeBearer
	}

	// The new token is not in the session yet, so it is passed explicitly.
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/me", out: &u, token: tok.AccessToken, login: true}); err != nil {
		return domain.AuthToken{}, nil, err
	}
	return tok, &u, nil
}

func (c *Client) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/", json: in, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/me", out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/", out: &users}); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) MyTeam(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/teams/my-team", out: &users}); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateFeedback(ctx context.Context, in domain.FeedbackDraft) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := c.do(ctx, call{method: http.MethodPost, path: "/feedback/", json: in, out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var items []domain.Feedback
	if err := c.do(ctx, call{method: http.MethodGet, path: "/feedback/", out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) UpdateFeedback(ctx context.Context, id int, patch domain.FeedbackPatch) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := c.do(ctx, call{method: http.MethodPut, path: feedbackPath(id), json: patch, out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) AcknowledgeFeedback(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodPost, path: feedbackPath(id) + "/acknowledge"})
}

func (c *Client) ManagerDashboard(ctx context.Context) (*domain.ManagerDashboard, error) {
	var d domain.ManagerDashboard
	if err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard/manager", out: &d}); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) EmployeeDashboard(ctx context.Context) (*domain.EmployeeDashboard, error) {
	var d domain.EmployeeDashboard
	if err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard/employee", out: &d}); err != nil {
		return nil, err
	}
	return &d, nil
}

func feedbackPath(id int) string {
	return "/feedback/" + strconv.Itoa(id)
}

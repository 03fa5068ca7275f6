package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/core/validation"
)

var errNoSession = errors.New("no session bound to request")

var _ ports.AuthService = (*AuthService)(nil)

// AuthService signs users in and out of the session carried by ctx.
type AuthService struct {
	backend  ports.Backend
	validate *validation.Validator
	log      zerolog.Logger
}

func NewAuthService(backend ports.Backend, log zerolog.Logger) *AuthService {
	return &AuthService{backend: backend, validate: validation.New(), log: log}
}

// Login exchanges credentials and, only on success, stores the token and
// user in the session. A rejected login leaves any existing session as is.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return domain.AuthToken{}, nil, fmt.Errorf("login: %w", errNoSession)
	}

	tok, user, err := s.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return domain.AuthToken{}, nil, fmt.Errorf("login: %w", err)
	}
	if err := user.Validate(); err != nil {
		return domain.AuthToken{}, nil, fmt.Errorf("login: %w", err)
	}
	if err := store.Save(ctx, tok.AccessToken, user); err != nil {
		return domain.AuthToken{}, nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("user signed in")
	return tok, user, nil
}

// Register creates an account. It never changes the caller's session.
func (s *AuthService) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	form := validation.RegisterForm{
		Email:     in.Email,
		Name:      in.Name,
		Password:  in.Password,
		Role:      string(in.Role),
		ManagerID: in.ManagerID,
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}

	user, err := s.backend.Register(ctx, form.Registration())
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser returns the cached profile, or nil when signed out.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, nil
	}
	return store.CurrentUser(ctx)
}

func (s *AuthService) IsAuthenticated(ctx context.Context) (bool, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return false, nil
	}
	return store.IsAuthenticated(ctx)
}

package service

import (
	"context"
	"fmt"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

type userService struct {
	backend ports.Backend
}

// NewUserService returns a UserService implementation.
func NewUserService(backend ports.Backend) ports.UserService {
	return &userService{backend: backend}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// MyTeam returns the employees reporting to the caller.
func (s *userService) MyTeam(ctx context.Context) ([]domain.User, error) {
	team, err := s.backend.MyTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("my team: %w", err)
	}
	return team, nil
}

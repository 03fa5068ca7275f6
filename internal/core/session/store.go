// Package session holds the signed-in state of one client: the bearer token
// and the cached user profile, plus a one-shot flash message.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyFlash = "flash"
)

// Store is the session of a single client, identified by sid.
type Store struct {
	sid  string
	repo ports.SessionRepository
}

func NewStore(sid string, repo ports.SessionRepository) *Store {
	return &Store{sid: sid, repo: repo}
}

// ID returns the session id the store is bound to.
func (s *Store) ID() string {
	return s.sid
}

// Save persists the token and the serialized user together.
func (s *Store) Save(ctx context.Context, token string, user *domain.User) error {
	if token == "" || user == nil {
		return fmt.Errorf("session save: token and user are required")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session save: encode user: %w", err)
	}
	if err := s.repo.Set(ctx, s.sid, map[string]string{
		KeyToken: token,
		KeyUser:  string(raw),
	}); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Token returns the stored bearer token or "" when signed out.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.get(ctx, KeyToken)
}

// CurrentUser returns the cached user, or nil when none is stored. An entry
// that no longer decodes is treated as absent.
func (s *Store) CurrentUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.get(ctx, KeyUser)
	if err != nil || raw == "" {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// IsAuthenticated reports whether a token is present. The token is not
// checked against the backend.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return tok != "", nil
}

// Clear removes the token and the user. Safe to call on an empty session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.sid, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// SetFlash stores a message shown once on the next rendered page.
func (s *Store) SetFlash(ctx context.Context, msg string) error {
	return s.repo.Set(ctx, s.sid, map[string]string{KeyFlash: msg})
}

// PopFlash returns and removes the pending flash message.
func (s *Store) PopFlash(ctx context.Context) (string, error) {
	msg, err := s.get(ctx, KeyFlash)
	if err != nil || msg == "" {
		return "", err
	}
	if err := s.repo.Delete(ctx, s.sid, KeyFlash); err != nil {
		return "", err
	}
	return msg, nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, s.sid, key)
	if errors.Is(err, ports.ErrSessionEntryNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get %s: %w", key, err)
	}
	return v, nil
}

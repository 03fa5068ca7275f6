package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
)

func newTestStore() *Store {
	return NewStore("sid-1", storage.NewMemoryRepository(0))
}

func TestStore_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	ok, err := s.IsAuthenticated(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	u, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, u)

	user := &domain.User{ID: 1, Email: "manager@example.com", Name: "Demo Manager", Role: domain.RoleManager}
	require.NoError(t, s.Save(ctx, "tok", user))

	ok, err = s.IsAuthenticated(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)
	require.Equal(t, domain.RoleManager, got.Role)
}

func TestStore_SaveRequiresBoth(t *testing.T) {
	s := newTestStore()
	require.Error(t, s.Save(context.Background(), "", &domain.User{ID: 1}))
	require.Error(t, s.Save(context.Background(), "tok", nil))
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.Save(ctx, "tok", &domain.User{ID: 2, Role: domain.RoleEmployee}))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	ok, err := s.IsAuthenticated(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	u, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestStore_CorruptUserIsAbsent(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository(0)
	require.NoError(t, repo.Set(ctx, "sid-1", map[string]string{KeyUser: "{not json"}))

	u, err := NewStore("sid-1", repo).CurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestStore_Flash(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.SetFlash(ctx, "Feedback submitted successfully!"))
	msg, err := s.PopFlash(ctx)
	require.NoError(t, err)
	require.Equal(t, "Feedback submitted successfully!", msg)

	msg, err = s.PopFlash(ctx)
	require.NoError(t, err)
	require.Empty(t, msg)
}

func TestTokenFromContext(t *testing.T) {
	ctx := context.Background()
	require.Empty(t, TokenFromContext(ctx))

	s := newTestStore()
	require.NoError(t, s.Save(ctx, "tok", &domain.User{ID: 1, Role: domain.RoleManager}))
	require.Equal(t, "tok", TokenFromContext(NewContext(ctx, s)))
}

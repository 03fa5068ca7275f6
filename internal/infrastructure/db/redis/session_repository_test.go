package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/feedbackhub/portal/internal/core/ports"
)

func newTestRepository(t *testing.T, ttl time.Duration) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRepository(client, ttl), mr
}

func TestSessionRepository_SetWritesEntriesAndExpiry(t *testing.T) {
	repo, mr := newTestRepository(t, time.Hour)
	ctx := context.Background()

	if err := repo.Set(ctx, "sid-1", map[string]string{"token": "abc", "user": `{"id":1}`}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if got := mr.HGet("session:sid-1", "token"); got != "abc" {
		t.Fatalf("token = %q", got)
	}
	if got := mr.HGet("session:sid-1", "user"); got != `{"id":1}` {
		t.Fatalf("user = %q", got)
	}
	if ttl := mr.TTL("session:sid-1"); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}

	v, err := repo.Get(ctx, "sid-1", "token")
	if err != nil || v != "abc" {
		t.Fatalf("get token = %q, %v", v, err)
	}
}

func TestSessionRepository_EntriesExpire(t *testing.T) {
	repo, mr := newTestRepository(t, time.Minute)
	ctx := context.Background()

	if err := repo.Set(ctx, "sid-1", map[string]string{"token": "abc"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(time.Minute + time.Second)

	if _, err := repo.Get(ctx, "sid-1", "token"); !errors.Is(err, ports.ErrSessionEntryNotFound) {
		t.Fatalf("expected ErrSessionEntryNotFound after expiry, got %v", err)
	}
}

func TestSessionRepository_NoTTLKeepsSession(t *testing.T) {
	repo, mr := newTestRepository(t, 0)

	if err := repo.Set(context.Background(), "sid-1", map[string]string{"token": "abc"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("session:sid-1"); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestSessionRepository_DeleteRemovesOnlyNamedKeys(t *testing.T) {
	repo, _ := newTestRepository(t, time.Hour)
	ctx := context.Background()

	if err := repo.Set(ctx, "sid-1", map[string]string{"token": "abc", "user": "u", "flash": "success:hi"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Delete(ctx, "sid-1", "token", "user"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.Get(ctx, "sid-1", "token"); !errors.Is(err, ports.ErrSessionEntryNotFound) {
		t.Fatalf("token should be gone, got %v", err)
	}
	if v, err := repo.Get(ctx, "sid-1", "flash"); err != nil || v != "success:hi" {
		t.Fatalf("flash = %q, %v", v, err)
	}
}

func TestSessionRepository_Ping(t *testing.T) {
	repo, mr := newTestRepository(t, 0)

	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()
	if err := repo.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail once the server is gone")
	}
}

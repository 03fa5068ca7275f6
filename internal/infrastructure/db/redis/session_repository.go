package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feedbackhub/portal/internal/core/ports"
)

// SessionRepository stores each session as a Redis hash.
// Key format: session:<sid>
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository wraps client. Every write refreshes the hash TTL;
// ttl <= 0 keeps sessions until they are cleared.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, sid, key string) (string, error) {
	v, err := r.client.HGet(ctx, r.key(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrSessionEntryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis session get: %w", err)
	}
	return v, nil
}

// Set writes all entries and the expiry in one MULTI/EXEC block.
func (r *SessionRepository) Set(ctx context.Context, sid string, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		values = append(values, k, v)
	}

	key := r.key(sid)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values...)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis session set: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key(sid), keys...).Err(); err != nil {
		return fmt.Errorf("redis session delete: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *SessionRepository) key(sid string) string {
	return "session:" + sid
}

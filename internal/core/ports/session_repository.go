package ports

import (
	"context"
	"errors"
)

// ErrSessionEntryNotFound is returned by SessionRepository.Get for absent keys.
var ErrSessionEntryNotFound = errors.New("session entry not found")

// SessionRepository persists string entries grouped by session id.
type SessionRepository interface {
	Get(ctx context.Context, sid, key string) (string, error)
	// Set writes all entries for sid in one atomic step.
	Set(ctx context.Context, sid string, entries map[string]string) error
	// Delete removes keys from sid. Missing keys are not an error.
	Delete(ctx context.Context, sid string, keys ...string) error
}

// Pinger is implemented by repositories backed by a network store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Package storage provides process-local and file-backed session repositories.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/feedbackhub/portal/internal/core/ports"
)

type memorySession struct {
	entries   map[string]string
	expiresAt time.Time
}

// MemoryRepository keeps sessions in a map. A session expires ttl after its
// last write; ttl <= 0 disables expiry.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *MemoryRepository) Get(_ context.Context, sid, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.live(sid)
	if s == nil {
		return "", ports.ErrSessionEntryNotFound
	}
	v, ok := s.entries[key]
	if !ok {
		return "", ports.ErrSessionEntryNotFound
	}
	return v, nil
}

func (r *MemoryRepository) Set(_ context.Context, sid string, entries map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.live(sid)
	if s == nil {
		s = &memorySession{entries: make(map[string]string, len(entries))}
		r.sessions[sid] = s
	}
	for k, v := range entries {
		s.entries[k] = v
	}
	if r.ttl > 0 {
		s.expiresAt = r.now().Add(r.ttl)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sid string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.live(sid)
	if s == nil {
		return nil
	}
	for _, k := range keys {
		delete(s.entries, k)
	}
	if len(s.entries) == 0 {
		delete(r.sessions, sid)
	}
	return nil
}

// live returns the session for sid, dropping it first if it has expired.
// Callers hold r.mu.
func (r *MemoryRepository) live(sid string) *memorySession {
	s, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	if !s.expiresAt.IsZero() && r.now().After(s.expiresAt) {
		delete(r.sessions, sid)
		return nil
	}
	return s
}

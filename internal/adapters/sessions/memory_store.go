package sessions

import (
	"context"
	"depot-route-service/internal/domain"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memorySession struct {
	registry  *domain.StopRegistry
	expiresAt time.Time
}

// MemoryStore keeps session registries in process memory.
// Sessions idle for longer than the TTL are dropped on access, and Create
// sweeps the whole map at most once per TTL so abandoned sessions do not
// accumulate.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	sessions  map[string]*memorySession
}

// NewMemoryStore returns an empty store. A zero ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

func (s *MemoryStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.sessions[id] = &memorySession{
		registry:  domain.NewStopRegistry(),
		expiresAt: s.deadline(),
	}
	return id, nil
}

func (s *MemoryStore) Stops(ctx context.Context, sessionID string) ([]domain.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.registry.List(), nil
}

func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*domain.StopRegistry) error) ([]domain.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	// fn works on a copy so a failed update leaves the session untouched.
	working := domain.NewStopRegistry()
	working.Restore(sess.registry.List())
	if err := fn(working); err != nil {
		return nil, err
	}

	sess.registry = working
	sess.expiresAt = s.deadline()
	return working.List(), nil
}

// Drop expired sessions. caller holds s.mu
func (s *MemoryStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

// caller holds s.mu
func (s *MemoryStore) lookup(sessionID string) (*memorySession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
	}
	if !sess.expiresAt.IsZero() && !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, fmt.Errorf("session %q expired: %w", sessionID, domain.ErrSessionNotFound)
	}
	return sess, nil
}

func (s *MemoryStore) deadline() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

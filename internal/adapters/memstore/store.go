// Package memstore is the in-memory session store, with an explicit
// TTL/eviction policy and a per-session lock that serializes message
// handling within a session.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

type entry struct {
	mu       sync.Mutex
	sess     *domain.Session
	lastSeen time.Time
}

// Store implements ports.SessionStore.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// New builds a store with the given idle TTL.
func New(ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("component", "sessions").Logger(),
	}
}

// Acquire returns the session for id, creating it lazily, with its
// lock held. The caller must invoke the release func when done; this
// is the single-writer guarantee for the session.
func (s *Store) Acquire(id string) (*domain.Session, func()) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{sess: domain.NewSession(id)}
		s.entries[id] = e
	}
	e.lastSeen = s.now()
	s.mu.Unlock()

	e.mu.Lock()
	return e.sess, e.mu.Unlock
}

// Get returns the session without locking, for read-only inspection.
func (s *Store) Get(id string) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports the live session count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor sweeps idle sessions until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) && e.mu.TryLock() {
			e.mu.Unlock()
			delete(s.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Debug().Int("evicted", evicted).Int("remaining", len(s.entries)).Msg("session sweep")
	}
}

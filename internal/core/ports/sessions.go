package ports

import (
	"errors"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

var ErrSessionNotFound = errors.New("ports: session not found")

// SessionStore maps opaque session ids to conversation state. The core
// depends only on this interface; the backing store owns lifecycle
// policy (TTL, eviction).
type SessionStore interface {
	// Acquire returns the session for id, creating it lazily, with the
	// session's write lock held. The returned release func must be
	// called when message handling finishes; it provides the
	// per-session serialization guarantee.
	Acquire(id string) (*domain.Session, func())

	// Get returns the session without locking it, for read-only use.
	Get(id string) (*domain.Session, bool)

	Delete(id string)
	Len() int
}

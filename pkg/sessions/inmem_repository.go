package sessions

import (
	"context"
	"sync"
)

// InMemorySessionRepository implements Repository using in-memory storage
type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]SessionState
}

// NewInMemorySessionRepository creates a new in-memory session repository
func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions: make(map[string]SessionState),
	}
}

// Upsert inserts or overwrites the session row for state.UserID
func (r *InMemorySessionRepository) Upsert(ctx context.Context, state SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[state.UserID] = state
	return nil
}

// Get returns the session row for a user
func (r *InMemorySessionRepository) Get(ctx context.Context, userID string) (SessionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.sessions[userID]
	if !ok {
		return SessionState{}, ErrSessionNotFound
	}
	return state, nil
}

// Delete removes the session row for a user
func (r *InMemorySessionRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
	return nil
}

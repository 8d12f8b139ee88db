package sessions

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when no session row exists for a user
var ErrSessionNotFound = errors.New("session not found")

// Repository defines the interface for session ledger data access.
// Upsert must be atomic per user id.
type Repository interface {
	// Upsert inserts or overwrites the session row for state.UserID
	Upsert(ctx context.Context, state SessionState) error

	// Get returns the session row for a user
	Get(ctx context.Context, userID string) (SessionState, error)

	// Delete removes the session row for a user
	Delete(ctx context.Context, userID string) error
}

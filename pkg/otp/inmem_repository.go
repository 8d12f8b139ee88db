package otp

import (
	"context"
	"sync"
	"time"
)

// InMemoryOtpRepository implements OtpRepository using in-memory storage
type InMemoryOtpRepository struct {
	mu   sync.RWMutex
	rows map[string]OtpState // userID -> state
}

// NewInMemoryOtpRepository creates a new in-memory OTP repository
func NewInMemoryOtpRepository() *InMemoryOtpRepository {
	return &InMemoryOtpRepository{
		rows: make(map[string]OtpState),
	}
}

// Get returns the OTP row for a user
func (r *InMemoryOtpRepository) Get(ctx context.Context, userID string) (OtpState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rows[userID]
	if !ok {
		return OtpState{}, ErrOtpNotFound
	}
	return state, nil
}

// Upsert writes the OTP row for a user, replacing any existing row
func (r *InMemoryOtpRepository) Upsert(ctx context.Context, state OtpState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[state.UserID] = state
	return nil
}

// UpdateCodeAndExpiry rewrites only the code and expiry of an existing row
func (r *InMemoryOtpRepository) UpdateCodeAndExpiry(ctx context.Context, userID, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rows[userID]
	if !ok {
		return ErrOtpNotFound
	}
	state.Code = code
	state.ExpiresAt = expiresAt
	r.rows[userID] = state
	return nil
}

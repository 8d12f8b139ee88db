package login

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// InMemoryCredentialRepository implements CredentialRepository using
// in-memory storage
type InMemoryCredentialRepository struct {
	mu              sync.RWMutex
	identities      map[string]Identity // userID -> identity
	byMobile        map[string]string   // mobileNumber -> userID
	passwordHistory map[string][]PasswordRecord
}

// NewInMemoryCredentialRepository creates a new in-memory credential repository
func NewInMemoryCredentialRepository() *InMemoryCredentialRepository {
	return &InMemoryCredentialRepository{
		identities:      make(map[string]Identity),
		byMobile:        make(map[string]string),
		passwordHistory: make(map[string][]PasswordRecord),
	}
}

// CreateIdentity creates a user identity record
func (r *InMemoryCredentialRepository) CreateIdentity(ctx context.Context, identity Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.identities[identity.UserID]; exists {
		return fmt.Errorf("identity already exists: %s", identity.UserID)
	}
	r.identities[identity.UserID] = identity
	if identity.MobileNumber != "" {
		r.byMobile[strings.TrimSpace(identity.MobileNumber)] = identity.UserID
	}
	return nil
}

// FindUserIDByUserID resolves a user id to itself if the identity exists
func (r *InMemoryCredentialRepository) FindUserIDByUserID(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return identity.UserID, nil
}

// FindUserIDByMobile resolves a registered mobile number to a user id
func (r *InMemoryCredentialRepository) FindUserIDByMobile(ctx context.Context, mobileNumber string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byMobile[strings.TrimSpace(mobileNumber)]
	if !ok {
		return "", ErrUserNotFound
	}
	return userID, nil
}

// GetMobileNumber returns the registered mobile number for a user
func (r *InMemoryCredentialRepository) GetMobileNumber(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return strings.TrimSpace(identity.MobileNumber), nil
}

// LatestPasswordRecord returns the most recent password record for a user
func (r *InMemoryCredentialRepository) LatestPasswordRecord(ctx context.Context, userID string) (PasswordRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history, ok := r.passwordHistory[userID]
	if !ok || len(history) == 0 {
		return PasswordRecord{}, ErrPasswordNotFound
	}

	latest := history[0]
	for _, record := range history[1:] {
		if record.CreatedAt.After(latest.CreatedAt) {
			latest = record
		}
	}
	return latest, nil
}

// AppendPasswordRecord appends a new password record
func (r *InMemoryCredentialRepository) AppendPasswordRecord(ctx context.Context, userID string, passwordHash []byte, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.passwordHistory[userID] = append(r.passwordHistory[userID], PasswordRecord{
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	})
	return nil
}

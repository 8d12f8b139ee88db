package login

import (
	"context"
	"errors"
	"time"
)

// Domain models for the credential store

// Identity represents the durable user record a login resolves to
type Identity struct {
	UserID       string
	MobileNumber string
}

// PasswordRecord is one entry in the append-only password history. The
// current password for a user is the record with the latest CreatedAt.
type PasswordRecord struct {
	UserID       string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Common errors for credential repositories
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordNotFound = errors.New("no password record found")
)

// CredentialRepository defines the interface for credential store access
type CredentialRepository interface {
	// FindUserIDByUserID resolves a user id to itself if the identity exists
	FindUserIDByUserID(ctx context.Context, userID string) (string, error)

	// FindUserIDByMobile resolves a registered mobile number to a user id
	FindUserIDByMobile(ctx context.Context, mobileNumber string) (string, error)

	// GetMobileNumber returns the registered mobile number for a user
	GetMobileNumber(ctx context.Context, userID string) (string, error)

	// LatestPasswordRecord returns the most recent password record for a user
	LatestPasswordRecord(ctx context.Context, userID string) (PasswordRecord, error)

	// AppendPasswordRecord appends a new password record; history is retained
	AppendPasswordRecord(ctx context.Context, userID string, passwordHash []byte, createdAt time.Time) error

	// CreateIdentity creates a user identity record (registration is
	// out-of-band; this exists for seeding and tests)
	CreateIdentity(ctx context.Context, identity Identity) error
}

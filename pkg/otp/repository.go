package otp

import (
	"context"
	"errors"
	"time"
)

// OtpState is the single OTP row a user can hold. It is created on first
// issuance and overwritten on every subsequent issuance.
type OtpState struct {
	UserID       string
	Code         string
	RefreshToken string
	ExpiresAt    time.Time
}

// ErrOtpNotFound is returned when no OTP row exists for a user
var ErrOtpNotFound = errors.New("otp not found")

// OtpRepository defines the interface for OTP ledger access
type OtpRepository interface {
	// Get returns the OTP row for a user
	Get(ctx context.Context, userID string) (OtpState, error)

	// Upsert writes the OTP row for a user, replacing any existing row.
	// The write must be atomic per user id.
	Upsert(ctx context.Context, state OtpState) error

	// UpdateCodeAndExpiry rewrites only the code and expiry of an existing
	// row, leaving the refresh token untouched
	UpdateCodeAndExpiry(ctx context.Context, userID, code string, expiresAt time.Time) error
}

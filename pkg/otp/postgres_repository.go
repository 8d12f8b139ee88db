package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOtpRepository implements OtpRepository using PostgreSQL
type PostgresOtpRepository struct {
	db *pgxpool.Pool
}

// NewPostgresOtpRepository creates a new PostgreSQL-based OTP repository
func NewPostgresOtpRepository(db *pgxpool.Pool) *PostgresOtpRepository {
	return &PostgresOtpRepository{db: db}
}

// Get returns the OTP row for a user
func (r *PostgresOtpRepository) Get(ctx context.Context, userID string) (OtpState, error) {
	query := `
		SELECT user_id, otp, refresh_token, expiry_date
		FROM user_otp_details
		WHERE user_id = $1
	`
	var state OtpState
	err := r.db.QueryRow(ctx, query, userID).Scan(&state.UserID, &state.Code, &state.RefreshToken, &state.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OtpState{}, ErrOtpNotFound
		}
		return OtpState{}, err
	}
	return state, nil
}

// Upsert writes the OTP row for a user. A single ON CONFLICT statement keeps
// the write atomic per user id.
func (r *PostgresOtpRepository) Upsert(ctx context.Context, state OtpState) error {
	query := `
		INSERT INTO user_otp_details (user_id, otp, refresh_token, expiry_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			otp = EXCLUDED.otp,
			refresh_token = EXCLUDED.refresh_token,
			expiry_date = EXCLUDED.expiry_date
	`
	_, err := r.db.Exec(ctx, query, state.UserID, state.Code, state.RefreshToken, state.ExpiresAt)
	return err
}

// UpdateCodeAndExpiry rewrites only the code and expiry of an existing row
func (r *PostgresOtpRepository) UpdateCodeAndExpiry(ctx context.Context, userID, code string, expiresAt time.Time) error {
	query := `
		UPDATE user_otp_details
		SET otp = $2, expiry_date = $3
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, code, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update otp for %s: %w", userID, ErrOtpNotFound)
	}
	return nil
}

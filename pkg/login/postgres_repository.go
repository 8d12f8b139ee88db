package login

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCredentialRepository implements CredentialRepository using PostgreSQL
type PostgresCredentialRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCredentialRepository creates a new PostgreSQL-based credential repository
func NewPostgresCredentialRepository(db *pgxpool.Pool) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{db: db}
}

// CreateIdentity creates a user identity record
func (r *PostgresCredentialRepository) CreateIdentity(ctx context.Context, identity Identity) error {
	query := `
		INSERT INTO user_master (user_id, mobile_number)
		VALUES ($1, $2)
	`
	_, err := r.db.Exec(ctx, query, identity.UserID, identity.MobileNumber)
	return err
}

// FindUserIDByUserID resolves a user id to itself if the identity exists
func (r *PostgresCredentialRepository) FindUserIDByUserID(ctx context.Context, userID string) (string, error) {
	query := `SELECT user_id FROM user_master WHERE user_id = $1`

	var resolved string
	err := r.db.QueryRow(ctx, query, userID).Scan(&resolved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return resolved, nil
}

// FindUserIDByMobile resolves a registered mobile number to a user id
func (r *PostgresCredentialRepository) FindUserIDByMobile(ctx context.Context, mobileNumber string) (string, error) {
	query := `SELECT user_id FROM user_master WHERE mobile_number = $1`

	var resolved string
	err := r.db.QueryRow(ctx, query, mobileNumber).Scan(&resolved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return resolved, nil
}

// GetMobileNumber returns the registered mobile number for a user
func (r *PostgresCredentialRepository) GetMobileNumber(ctx context.Context, userID string) (string, error) {
	query := `SELECT mobile_number FROM user_master WHERE user_id = $1`

	var mobile string
	err := r.db.QueryRow(ctx, query, userID).Scan(&mobile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return strings.TrimSpace(mobile), nil
}

// LatestPasswordRecord returns the most recent password record for a user
func (r *PostgresCredentialRepository) LatestPasswordRecord(ctx context.Context, userID string) (PasswordRecord, error) {
	query := `
		SELECT user_id, password, entry_date
		FROM password_history
		WHERE user_id = $1
		ORDER BY entry_date DESC
		LIMIT 1
	`
	var record PasswordRecord
	err := r.db.QueryRow(ctx, query, userID).Scan(&record.UserID, &record.PasswordHash, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PasswordRecord{}, ErrPasswordNotFound
		}
		return PasswordRecord{}, err
	}
	return record, nil
}

// AppendPasswordRecord appends a new password record; history is retained
func (r *PostgresCredentialRepository) AppendPasswordRecord(ctx context.Context, userID string, passwordHash []byte, createdAt time.Time) error {
	query := `
		INSERT INTO password_history (user_id, password, entry_date)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, userID, passwordHash, createdAt)
	return err
}

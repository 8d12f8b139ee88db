package sessions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSessionRepository implements Repository using PostgreSQL
type PostgresSessionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgreSQL-based session repository
func NewPostgresSessionRepository(db *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Upsert inserts or overwrites the session row for state.UserID in a single
// atomic statement.
func (r *PostgresSessionRepository) Upsert(ctx context.Context, state SessionState) error {
	query := `
		INSERT INTO login_details (user_id, login_time, refresh_token, token_expiry_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			login_time = EXCLUDED.login_time,
			refresh_token = EXCLUDED.refresh_token,
			token_expiry_date = EXCLUDED.token_expiry_date
	`
	_, err := r.db.Exec(ctx, query, state.UserID, state.LoginAt, state.RefreshToken, state.ExpiresAt)
	return err
}

// Get returns the session row for a user
func (r *PostgresSessionRepository) Get(ctx context.Context, userID string) (SessionState, error) {
	query := `
		SELECT user_id, login_time, refresh_token, token_expiry_date
		FROM login_details
		WHERE user_id = $1
	`
	var state SessionState
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&state.UserID, &state.LoginAt, &state.RefreshToken, &state.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionState{}, ErrSessionNotFound
		}
		return SessionState{}, err
	}
	return state, nil
}

// Delete removes the session row for a user
func (r *PostgresSessionRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM login_details WHERE user_id = $1`, userID)
	return err
}

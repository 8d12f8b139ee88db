package sessions

import (
	"context"
	"fmt"
	"time"
)

// Service provides session ledger business logic
type Service struct {
	repo Repository
}

// NewService creates a new session service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// UpsertSession records the active refresh token for a user, overwriting any
// previous session row. LoginAt is stamped on every write.
func (s *Service) UpsertSession(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if refreshToken == "" {
		return fmt.Errorf("refresh token is required")
	}
	if expiresAt.Before(time.Now()) {
		return fmt.Errorf("expires_at must be in the future")
	}

	return s.repo.Upsert(ctx, SessionState{
		UserID:       userID,
		RefreshToken: refreshToken,
		LoginAt:      time.Now().UTC(),
		ExpiresAt:    expiresAt,
	})
}

// GetSession retrieves the session row for a user
func (s *Service) GetSession(ctx context.Context, userID string) (SessionState, error) {
	return s.repo.Get(ctx, userID)
}

// DeleteSession removes the session row for a user
func (s *Service) DeleteSession(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

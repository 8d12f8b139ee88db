package sessions

import "time"

// SessionState is the single active session row for a user. Every
// successful login that rotates the refresh token overwrites it
// (last-login-wins).
type SessionState struct {
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	LoginAt      time.Time `json:"login_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

package config

import "time"

// SessionConfig holds session ledger settings
type SessionConfig struct {
	// Expiry is how long a session row stays valid after login
	Expiry string `env:"SESSION_EXPIRY" env-default:"24h"`
}

// ParseExpiry parses the session row expiry duration
func (s SessionConfig) ParseExpiry() (time.Duration, error) {
	return parseISO8601OrGoDuration(s.Expiry)
}

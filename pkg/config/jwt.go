package config

import (
	"net/http"
	"time"

	"github.com/sosodev/duration"
)

// JwtConfig holds token signing and cookie settings.
//
// The default lifetimes are deliberately short (access 1m, refresh 3m);
// deployments may widen them but must keep access < refresh.
type JwtConfig struct {
	Secret             string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer             string `env:"JWT_ISSUER" env-default:"iics-idm"`
	Audience           string `env:"JWT_AUDIENCE" env-default:"iics-idm"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" env-default:"1m"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" env-default:"3m"`
	OtpTokenExpiry     string `env:"OTP_TOKEN_EXPIRY" env-default:"720h"`
	CookieHttpOnly     bool   `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure       bool   `env:"COOKIE_SECURE" env-default:"true"`
}

// ParseAccessTokenExpiry parses the access token expiry duration
func (j JwtConfig) ParseAccessTokenExpiry() (time.Duration, error) {
	return parseISO8601OrGoDuration(j.AccessTokenExpiry)
}

// ParseRefreshTokenExpiry parses the refresh token expiry duration
func (j JwtConfig) ParseRefreshTokenExpiry() (time.Duration, error) {
	return parseISO8601OrGoDuration(j.RefreshTokenExpiry)
}

// ParseOtpTokenExpiry parses the OTP bookkeeping token expiry duration
func (j JwtConfig) ParseOtpTokenExpiry() (time.Duration, error) {
	return parseISO8601OrGoDuration(j.OtpTokenExpiry)
}

// CookieSameSite returns the SameSite mode for auth cookies
func (j JwtConfig) CookieSameSite() http.SameSite {
	if j.CookieSecure {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// parseISO8601OrGoDuration tries to parse as ISO 8601 first, then as Go duration
func parseISO8601OrGoDuration(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}

	// Fall back to Go duration format
	return time.ParseDuration(s)
}

package tokengenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token name constants
const (
	ACCESS_TOKEN_NAME  = "access_token"
	REFRESH_TOKEN_NAME = "refresh_token"
	OTP_TOKEN_NAME     = "otp_token"
)

// Default token expiry durations. Access must stay shorter than refresh.
const (
	DefaultAccessTokenExpiry  = 1 * time.Minute
	DefaultRefreshTokenExpiry = 3 * time.Minute
	DefaultOtpTokenExpiry     = 720 * time.Hour
)

// TokenService defines the token operations the auth engine needs
type TokenService interface {
	GenerateToken(tokenName, subject string) (string, time.Time, error)
	ParseToken(tokenName, tokenStr string) (*jwt.Token, error)
}

// JwtService provides JWT token generation keyed by token name
type JwtService struct {
	TokenGenerator TokenGenerator

	// Configurable token expiry durations
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	OtpTokenExpiry     time.Duration
}

// JwtServiceOption is a function that configures a JwtService
type JwtServiceOption func(*JwtService)

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.AccessTokenExpiry = expiry
	}
}

// WithRefreshTokenExpiry sets the refresh token expiry duration
func WithRefreshTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.RefreshTokenExpiry = expiry
	}
}

// WithOtpTokenExpiry sets the OTP bookkeeping token expiry duration
func WithOtpTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.OtpTokenExpiry = expiry
	}
}

// NewJwtService creates a new JwtService
func NewJwtService(tokenGenerator TokenGenerator, options ...JwtServiceOption) *JwtService {
	js := &JwtService{
		TokenGenerator:     tokenGenerator,
		AccessTokenExpiry:  DefaultAccessTokenExpiry,
		RefreshTokenExpiry: DefaultRefreshTokenExpiry,
		OtpTokenExpiry:     DefaultOtpTokenExpiry,
	}

	for _, option := range options {
		option(js)
	}

	return js
}

// GenerateToken generates a token for the given token name and subject
func (js *JwtService) GenerateToken(tokenName, subject string) (string, time.Time, error) {
	var expiry time.Duration

	switch tokenName {
	case ACCESS_TOKEN_NAME:
		expiry = js.AccessTokenExpiry
	case REFRESH_TOKEN_NAME:
		expiry = js.RefreshTokenExpiry
	case OTP_TOKEN_NAME:
		expiry = js.OtpTokenExpiry
	default:
		return "", time.Time{}, fmt.Errorf("unknown token name: %s", tokenName)
	}

	return js.TokenGenerator.GenerateToken(subject, expiry)
}

// ParseToken parses and validates a token
func (js *JwtService) ParseToken(tokenName, tokenStr string) (*jwt.Token, error) {
	return js.TokenGenerator.ParseToken(tokenStr)
}

package tokengenerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwtTokenGenerator_GenerateAndParse(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm")

	tokenStr, expiry, err := generator.GenerateToken("U1", 5*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().UTC().Add(5*time.Minute), expiry, 5*time.Second)

	token, err := generator.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.True(t, token.Valid)

	subject, err := Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "U1", subject)
}

func TestJwtTokenGenerator_ExpiredToken(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm")

	tokenStr, _, err := generator.GenerateToken("U1", -1*time.Minute)
	require.NoError(t, err)

	_, err = generator.ParseToken(tokenStr)
	assert.Error(t, err, "expired token should fail verification")
}

func TestJwtTokenGenerator_WrongSecret(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm")
	other := NewJwtTokenGenerator("other-secret", "iics-idm", "iics-idm")

	tokenStr, _, err := generator.GenerateToken("U1", 5*time.Minute)
	require.NoError(t, err)

	_, err = other.ParseToken(tokenStr)
	assert.Error(t, err, "token signed with a different secret should fail verification")
}

func TestJwtService_TokenNames(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm")
	jwtService := NewJwtService(generator,
		WithAccessTokenExpiry(1*time.Minute),
		WithRefreshTokenExpiry(3*time.Minute),
	)

	accessToken, accessExpiry, err := jwtService.GenerateToken(ACCESS_TOKEN_NAME, "U1")
	require.NoError(t, err)
	refreshToken, refreshExpiry, err := jwtService.GenerateToken(REFRESH_TOKEN_NAME, "U1")
	require.NoError(t, err)

	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.True(t, accessExpiry.Before(refreshExpiry), "access token must expire before refresh token")

	_, _, err = jwtService.GenerateToken("bogus_token", "U1")
	assert.Error(t, err)
}

func TestJwtService_ParseRoundTrip(t *testing.T) {
	generator := NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm")
	jwtService := NewJwtService(generator)

	tokenStr, _, err := jwtService.GenerateToken(REFRESH_TOKEN_NAME, "U42")
	require.NoError(t, err)

	token, err := jwtService.ParseToken(REFRESH_TOKEN_NAME, tokenStr)
	require.NoError(t, err)

	subject, err := Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "U42", subject)
}

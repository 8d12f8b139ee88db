package login

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjaykumar-22/iics-idm/pkg/errs"
	"github.com/sanjaykumar-22/iics-idm/pkg/sessions"
	"github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

func setupLoginService(t *testing.T) (*LoginService, *InMemoryCredentialRepository, *sessions.Service) {
	t.Helper()

	repo := NewInMemoryCredentialRepository()
	sessionService := sessions.NewService(sessions.NewInMemorySessionRepository())
	tokenService := tokengenerator.NewJwtService(
		tokengenerator.NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm"),
	)
	service := NewLoginService(repo, sessionService, tokenService)

	ctx := context.Background()
	require.NoError(t, repo.CreateIdentity(ctx, Identity{UserID: "EMP1001", MobileNumber: "9876543210"}))

	hashed, err := HashPassword("Secret@123")
	require.NoError(t, err)
	require.NoError(t, repo.AppendPasswordRecord(ctx, "EMP1001", []byte(hashed), time.Now().UTC()))

	return service, repo, sessionService
}

func TestVerifyPassword_ByUserID(t *testing.T) {
	service, _, _ := setupLoginService(t)

	userID, err := service.VerifyPassword(context.Background(), "EMP1001", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", userID)
}

func TestVerifyPassword_ByMobileNumber(t *testing.T) {
	service, _, _ := setupLoginService(t)

	userID, err := service.VerifyPassword(context.Background(), "9876543210", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", userID)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	service, _, _ := setupLoginService(t)

	_, err := service.VerifyPassword(context.Background(), "EMP1001", "wrong")
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidCredentials))
}

func TestVerifyPassword_UnknownUser(t *testing.T) {
	service, _, _ := setupLoginService(t)

	_, err := service.VerifyPassword(context.Background(), "NOBODY", "Secret@123")
	assert.True(t, errs.IsCode(err, errs.ErrCodeUserNotFound))
}

func TestVerifyPassword_NoPasswordSet(t *testing.T) {
	service, repo, _ := setupLoginService(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateIdentity(ctx, Identity{UserID: "EMP2002"}))

	_, err := service.VerifyPassword(ctx, "EMP2002", "anything")
	assert.True(t, errs.IsCode(err, errs.ErrCodeNoPasswordSet))
}

func TestVerifyPassword_LatestRecordWins(t *testing.T) {
	service, repo, _ := setupLoginService(t)
	ctx := context.Background()

	hashed, err := HashPassword("Rotated@456")
	require.NoError(t, err)
	require.NoError(t, repo.AppendPasswordRecord(ctx, "EMP1001", []byte(hashed), time.Now().UTC().Add(time.Second)))

	_, err = service.VerifyPassword(ctx, "EMP1001", "Secret@123")
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidCredentials))

	userID, err := service.VerifyPassword(ctx, "EMP1001", "Rotated@456")
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", userID)
}

func TestIssueTokens_FirstLogin(t *testing.T) {
	service, _, sessionService := setupLoginService(t)
	ctx := context.Background()

	pair, err := service.IssueTokens(ctx, "EMP1001", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessExpiresAt.Before(pair.RefreshExpiresAt))

	// Both tokens carry the same subject
	parser := tokengenerator.NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm")

	accessToken, err := parser.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	accessSubject, err := tokengenerator.Subject(accessToken)
	require.NoError(t, err)

	refreshToken, err := parser.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	refreshSubject, err := tokengenerator.Subject(refreshToken)
	require.NoError(t, err)

	assert.Equal(t, "EMP1001", accessSubject)
	assert.Equal(t, accessSubject, refreshSubject)

	session, err := sessionService.GetSession(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, session.RefreshToken)
}

func TestIssueTokens_ValidRefreshReused(t *testing.T) {
	service, _, sessionService := setupLoginService(t)
	ctx := context.Background()

	first, err := service.IssueTokens(ctx, "EMP1001", "", "")
	require.NoError(t, err)

	sessionBefore, err := sessionService.GetSession(ctx, "EMP1001")
	require.NoError(t, err)

	second, err := service.IssueTokens(ctx, "EMP1001", first.AccessToken, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.AccessToken, second.AccessToken)

	sessionAfter, err := sessionService.GetSession(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, sessionBefore.LoginAt, sessionAfter.LoginAt)
}

func TestIssueTokens_ValidRefreshMissingAccess(t *testing.T) {
	service, _, _ := setupLoginService(t)
	ctx := context.Background()

	first, err := service.IssueTokens(ctx, "EMP1001", "", "")
	require.NoError(t, err)

	second, err := service.IssueTokens(ctx, "EMP1001", "", first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, first.RefreshToken, second.RefreshToken)
	assert.NotEmpty(t, second.AccessToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}

func TestIssueTokens_InvalidRefreshRotates(t *testing.T) {
	service, _, sessionService := setupLoginService(t)
	ctx := context.Background()

	first, err := service.IssueTokens(ctx, "EMP1001", "", "")
	require.NoError(t, err)

	pair, err := service.IssueTokens(ctx, "EMP1001", first.AccessToken, "not-a-jwt")
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-jwt", pair.RefreshToken)
	assert.NotEqual(t, first.RefreshToken, pair.RefreshToken)

	session, err := sessionService.GetSession(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, session.RefreshToken)
}

func TestIssueTokens_ExpiredRefreshRotates(t *testing.T) {
	service, _, sessionService := setupLoginService(t)
	ctx := context.Background()

	expiredService := tokengenerator.NewJwtService(
		tokengenerator.NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm"),
		tokengenerator.WithRefreshTokenExpiry(-time.Minute),
	)
	expiredRefresh, _, err := expiredService.GenerateToken(tokengenerator.REFRESH_TOKEN_NAME, "EMP1001")
	require.NoError(t, err)

	pair, err := service.IssueTokens(ctx, "EMP1001", "", expiredRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, expiredRefresh, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)

	session, err := sessionService.GetSession(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, session.RefreshToken)
}

func TestLogin_FailureWritesNoSession(t *testing.T) {
	service, _, sessionService := setupLoginService(t)
	ctx := context.Background()

	_, _, err := service.Login(ctx, "EMP1001", "wrong", "", "")
	require.Error(t, err)

	_, err = sessionService.GetSession(ctx, "EMP1001")
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)

	_, _, err = service.Login(ctx, "NOBODY", "Secret@123", "", "")
	require.Error(t, err)

	_, err = sessionService.GetSession(ctx, "NOBODY")
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestLogin_EndToEnd(t *testing.T) {
	service, _, _ := setupLoginService(t)

	userID, pair, err := service.Login(context.Background(), "9876543210", "Secret@123", "", "")
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", userID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestChangePassword(t *testing.T) {
	service, _, _ := setupLoginService(t)
	ctx := context.Background()

	require.NoError(t, service.ChangePassword(ctx, "EMP1001", "Fresh@789"))

	userID, err := service.VerifyPassword(ctx, "EMP1001", "Fresh@789")
	require.NoError(t, err)
	assert.Equal(t, "EMP1001", userID)
}

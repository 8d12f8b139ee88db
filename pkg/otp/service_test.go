package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjaykumar-22/iics-idm/pkg/errs"
	"github.com/sanjaykumar-22/iics-idm/pkg/login"
	"github.com/sanjaykumar-22/iics-idm/pkg/notification"
	"github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

type otpFixture struct {
	service     *Service
	repo        *InMemoryOtpRepository
	credentials *login.InMemoryCredentialRepository
	sms         *notification.MockNotifier
}

func setupOtpService(t *testing.T) otpFixture {
	t.Helper()

	repo := NewInMemoryOtpRepository()
	credentials := login.NewInMemoryCredentialRepository()
	tokenService := tokengenerator.NewJwtService(
		tokengenerator.NewJwtTokenGenerator("test-secret", "iics-idm", "iics-idm"),
	)
	sms := notification.NewMockNotifier()
	manager := notification.NewManager()
	manager.RegisterNotifier(notification.ChannelSMS, sms)

	require.NoError(t, credentials.CreateIdentity(context.Background(), login.Identity{
		UserID:       "EMP1001",
		MobileNumber: "9876543210",
	}))

	return otpFixture{
		service:     NewService(repo, credentials, tokenService, manager),
		repo:        repo,
		credentials: credentials,
		sms:         sms,
	}
}

func TestIssue_CreatesRowAndNotifies(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	state, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Len(t, state.Code, 6)
	assert.NotEmpty(t, state.RefreshToken)
	assert.True(t, state.ExpiresAt.After(time.Now()))

	stored, err := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, state.Code, stored.Code)

	sent := f.sms.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "9876543210", sent[0].To)
	assert.Contains(t, sent[0].Body, state.Code)
}

func TestIssue_SecondIssueOverwrites(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	first, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)

	second, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)

	stored, err := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, second.Code, stored.Code)
	assert.NotEqual(t, first.RefreshToken, stored.RefreshToken)
}

func TestIssue_GatewayFailureKeepsRow(t *testing.T) {
	f := setupOtpService(t)
	f.sms.FailWith = errors.New("gateway down")
	ctx := context.Background()

	state, err := f.service.Issue(ctx, "EMP1001")
	assert.True(t, errs.IsCode(err, errs.ErrCodeUpstreamUnavailable))
	assert.NotEmpty(t, state.Code)

	stored, getErr := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, getErr)
	assert.Equal(t, state.Code, stored.Code)
}

func TestCheckStatus_UnknownUser(t *testing.T) {
	f := setupOtpService(t)

	_, err := f.service.CheckStatus(context.Background(), "NOBODY")
	assert.True(t, errs.IsCode(err, errs.ErrCodeUserNotFound))
}

func TestCheckStatus_NoRowIssuesAndReportsNoData(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	status, err := f.service.CheckStatus(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, status)
	assert.Equal(t, "NODATAFOUND", status.Wire())

	_, err = f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Len(t, f.sms.Sent(), 1)
}

func TestCheckStatus_ExpiredRowReissues(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Upsert(ctx, OtpState{
		UserID:    "EMP1001",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	status, err := f.service.CheckStatus(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, status)
	assert.Equal(t, "EXPIREDOTP", status.Wire())

	stored, err := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", stored.Code)
	assert.True(t, stored.ExpiresAt.After(time.Now()))
}

func TestCheckStatus_UsableRow(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	state, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)

	status, err := f.service.CheckStatus(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, StatusUsable, status)
	assert.Equal(t, "VERIFIED", status.Wire())

	stored, err := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, state.Code, stored.Code)
}

func TestCheckStatus_GatewayFailureDoesNotChangeStatus(t *testing.T) {
	f := setupOtpService(t)
	f.sms.FailWith = errors.New("gateway down")
	ctx := context.Background()

	status, err := f.service.CheckStatus(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, status)

	_, err = f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
}

func TestVerify_NoRow(t *testing.T) {
	f := setupOtpService(t)

	_, err := f.service.Verify(context.Background(), "EMP1001", "123456", "")
	assert.True(t, errs.IsCode(err, errs.ErrCodeOtpNotFound))

	_, getErr := f.repo.Get(context.Background(), "EMP1001")
	assert.ErrorIs(t, getErr, ErrOtpNotFound)
}

func TestVerify_Match(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	state, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)

	status, err := f.service.Verify(ctx, "EMP1001", "  "+state.Code+" ", "")
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, status)
	assert.Equal(t, "VERIFIED", status.Wire())

	// Non-consuming: the same code verifies again within the window
	status, err = f.service.Verify(ctx, "EMP1001", state.Code, "")
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, status)
}

func TestVerify_MismatchDoesNotMutate(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	state, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)

	_, err = f.service.Verify(ctx, "EMP1001", "000000", "")
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidOtp))

	stored, err := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.Equal(t, state.Code, stored.Code)
	assert.Equal(t, state.ExpiresAt.Unix(), stored.ExpiresAt.Unix())
}

func TestVerify_ExpiredRegeneratesShortWindow(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Upsert(ctx, OtpState{
		UserID:       "EMP1001",
		Code:         "123456",
		RefreshToken: "bookkeeping",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	// Even the matching code reports expired without comparison
	status, err := f.service.Verify(ctx, "EMP1001", "123456", "")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, status)

	stored, err := f.repo.Get(ctx, "EMP1001")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", stored.Code)
	assert.Equal(t, "bookkeeping", stored.RefreshToken)
	assert.True(t, stored.ExpiresAt.After(time.Now()))
	assert.True(t, stored.ExpiresAt.Before(time.Now().Add(DefaultRegenWindow+time.Minute)))
}

func TestVerify_MatchWithNewPasswordAppendsRecord(t *testing.T) {
	f := setupOtpService(t)
	ctx := context.Background()

	state, err := f.service.Issue(ctx, "EMP1001")
	require.NoError(t, err)

	status, err := f.service.Verify(ctx, "EMP1001", state.Code, "Reset@123")
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, status)

	record, err := f.credentials.LatestPasswordRecord(ctx, "EMP1001")
	require.NoError(t, err)

	match, err := login.CheckPasswordHash("Reset@123", string(record.PasswordHash))
	require.NoError(t, err)
	assert.True(t, match)
}

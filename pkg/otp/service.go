package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/sanjaykumar-22/iics-idm/pkg/errs"
	"github.com/sanjaykumar-22/iics-idm/pkg/login"
	"github.com/sanjaykumar-22/iics-idm/pkg/notification"
	"github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

// Status reports the outcome of an OTP ledger operation. StatusUsable and
// StatusMatched are distinct states that share one wire rendering: the first
// means an unexpired code exists, the second means a submitted code matched.
type Status string

const (
	StatusNoData  Status = "no_data"
	StatusExpired Status = "expired"
	StatusUsable  Status = "usable"
	StatusMatched Status = "matched"
)

// Wire renders the status in the vocabulary callers consume
func (s Status) Wire() string {
	switch s {
	case StatusNoData:
		return "NODATAFOUND"
	case StatusExpired:
		return "EXPIREDOTP"
	case StatusUsable, StatusMatched:
		return "VERIFIED"
	default:
		return string(s)
	}
}

// Issuance windows. The initial window is a calendar month; after a code is
// found expired during verification the replacement only lives five minutes.
const (
	DefaultIssueMonths = 1
	DefaultRegenWindow = 5 * time.Minute
)

// Service owns OTP issuance, status reporting, and verification
type Service struct {
	repo         OtpRepository
	credentials  login.CredentialRepository
	tokenService tokengenerator.TokenService
	notifier     *notification.Manager

	issueMonths int
	regenWindow time.Duration
}

// ServiceOption is a function that configures a Service
type ServiceOption func(*Service)

// WithIssueMonths sets the initial issuance window in calendar months
func WithIssueMonths(months int) ServiceOption {
	return func(s *Service) {
		s.issueMonths = months
	}
}

// WithRegenWindow sets the post-expiry regeneration window
func WithRegenWindow(window time.Duration) ServiceOption {
	return func(s *Service) {
		s.regenWindow = window
	}
}

// NewService creates a new OTP service
func NewService(repo OtpRepository, credentials login.CredentialRepository, tokenService tokengenerator.TokenService, notifier *notification.Manager, options ...ServiceOption) *Service {
	s := &Service{
		repo:         repo,
		credentials:  credentials,
		tokenService: tokenService,
		notifier:     notifier,
		issueMonths:  DefaultIssueMonths,
		regenWindow:  DefaultRegenWindow,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// generateCode draws a uniform 6-digit code from crypto/rand
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue creates a fresh OTP row for the user and delivers the code to the
// registered mobile number. The row is committed before the gateway call, so
// a delivery failure leaves the code usable; the caller gets
// UpstreamUnavailable to signal the send did not happen.
func (s *Service) Issue(ctx context.Context, userID string) (OtpState, error) {
	code, err := generateCode()
	if err != nil {
		return OtpState{}, errs.InternalWrap(err, "failed to generate otp")
	}

	bookkeepingToken, _, err := s.tokenService.GenerateToken(tokengenerator.OTP_TOKEN_NAME, userID)
	if err != nil {
		return OtpState{}, errs.InternalWrap(err, "failed to generate otp token")
	}

	state := OtpState{
		UserID:       userID,
		Code:         code,
		RefreshToken: bookkeepingToken,
		ExpiresAt:    time.Now().UTC().AddDate(0, s.issueMonths, 0),
	}
	if err := s.repo.Upsert(ctx, state); err != nil {
		return OtpState{}, errs.InternalWrap(err, "failed to store otp")
	}

	mobile, err := s.credentials.GetMobileNumber(ctx, userID)
	if err != nil {
		return state, errs.UpstreamUnavailable(err, "no reachable mobile number")
	}

	if err := s.notifier.SendOtp(ctx, notification.ChannelSMS, mobile, code); err != nil {
		slog.Error("otp delivery failed", "userID", userID, "error", err)
		return state, errs.UpstreamUnavailable(err, "otp delivery failed")
	}

	slog.Info("otp issued", "userID", userID, "expiresAt", state.ExpiresAt)
	return state, nil
}

// CheckStatus reports whether the user holds a usable OTP. A missing or
// expired row triggers a full reissue as a side effect; delivery failures
// during that reissue are logged and do not change the reported status.
func (s *Service) CheckStatus(ctx context.Context, userID string) (Status, error) {
	if _, err := s.credentials.FindUserIDByUserID(ctx, userID); err != nil {
		if errors.Is(err, login.ErrUserNotFound) {
			return "", errs.New(errs.ErrCodeUserNotFound, "user not found")
		}
		return "", errs.InternalWrap(err, "failed to resolve user")
	}

	state, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			s.reissue(ctx, userID)
			return StatusNoData, nil
		}
		return "", errs.InternalWrap(err, "failed to load otp")
	}

	if time.Now().After(state.ExpiresAt) {
		s.reissue(ctx, userID)
		return StatusExpired, nil
	}

	return StatusUsable, nil
}

// reissue runs Issue for CheckStatus side effects, keeping gateway failures
// out of the reported status
func (s *Service) reissue(ctx context.Context, userID string) {
	if _, err := s.Issue(ctx, userID); err != nil {
		if errs.IsCode(err, errs.ErrCodeUpstreamUnavailable) {
			slog.Warn("otp reissued but not delivered", "userID", userID, "error", err)
			return
		}
		slog.Error("otp reissue failed", "userID", userID, "error", err)
	}
}

// Verify compares a submitted code against the stored one. An expired row is
// rewritten with a fresh code on a short window and reported as expired
// without comparison. A match optionally completes a password reset by
// appending a new password record. The row is not consumed on match, so a
// code stays replayable until it expires.
func (s *Service) Verify(ctx context.Context, userID, submittedCode, newPassword string) (Status, error) {
	state, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			return "", errs.New(errs.ErrCodeOtpNotFound, "no otp found for user")
		}
		return "", errs.InternalWrap(err, "failed to load otp")
	}

	if time.Now().After(state.ExpiresAt) {
		code, genErr := generateCode()
		if genErr != nil {
			return "", errs.InternalWrap(genErr, "failed to generate otp")
		}
		if updErr := s.repo.UpdateCodeAndExpiry(ctx, userID, code, time.Now().UTC().Add(s.regenWindow)); updErr != nil {
			return "", errs.InternalWrap(updErr, "failed to regenerate otp")
		}
		slog.Info("expired otp regenerated", "userID", userID, "window", s.regenWindow)
		return StatusExpired, nil
	}

	if strings.TrimSpace(submittedCode) != strings.TrimSpace(state.Code) {
		return "", errs.New(errs.ErrCodeInvalidOtp, "invalid otp")
	}

	if newPassword != "" {
		hashed, hashErr := login.HashPassword(newPassword)
		if hashErr != nil {
			return "", errs.InternalWrap(hashErr, "failed to hash password")
		}
		if appendErr := s.credentials.AppendPasswordRecord(ctx, userID, []byte(hashed), time.Now().UTC()); appendErr != nil {
			return "", errs.InternalWrap(appendErr, "failed to store password record")
		}
		slog.Info("password reset completed via otp", "userID", userID)
	}

	return StatusMatched, nil
}

package login

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sanjaykumar-22/iics-idm/pkg/errs"
	"github.com/sanjaykumar-22/iics-idm/pkg/sessions"
	"github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

// A login identifier that is exactly ten digits is treated as a mobile
// number, anything else as a user id.
var mobileNumberPattern = regexp.MustCompile(`^\d{10}$`)

// DefaultSessionExpiry bounds how long a session row stays valid after login
const DefaultSessionExpiry = 24 * time.Hour

// TokenPair carries the tokens a successful login resolves to. Either token
// may be freshly minted or carried over from the caller's previous session.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// LoginService orchestrates password verification and token issuance
type LoginService struct {
	repo           CredentialRepository
	sessionService *sessions.Service
	tokenService   tokengenerator.TokenService
	sessionExpiry  time.Duration
}

// LoginServiceOption is a function that configures a LoginService
type LoginServiceOption func(*LoginService)

// WithSessionExpiry sets how far in the future session rows expire
func WithSessionExpiry(expiry time.Duration) LoginServiceOption {
	return func(ls *LoginService) {
		ls.sessionExpiry = expiry
	}
}

// NewLoginService creates a new LoginService
func NewLoginService(repo CredentialRepository, sessionService *sessions.Service, tokenService tokengenerator.TokenService, options ...LoginServiceOption) *LoginService {
	ls := &LoginService{
		repo:           repo,
		sessionService: sessionService,
		tokenService:   tokenService,
		sessionExpiry:  DefaultSessionExpiry,
	}

	for _, option := range options {
		option(ls)
	}

	return ls
}

// ResolveIdentifier maps a login identifier to a user id. Ten-digit numeric
// identifiers are looked up as mobile numbers, everything else as user ids.
func (ls *LoginService) ResolveIdentifier(ctx context.Context, identifier string) (string, error) {
	var userID string
	var err error

	if mobileNumberPattern.MatchString(identifier) {
		userID, err = ls.repo.FindUserIDByMobile(ctx, identifier)
	} else {
		userID, err = ls.repo.FindUserIDByUserID(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", errs.New(errs.ErrCodeUserNotFound, "user not found")
		}
		return "", errs.InternalWrap(err, "failed to resolve identifier")
	}
	return userID, nil
}

// VerifyPassword checks the supplied password against the latest password
// record for the identified user. It has no side effects on failure.
func (ls *LoginService) VerifyPassword(ctx context.Context, identifier, password string) (string, error) {
	userID, err := ls.ResolveIdentifier(ctx, identifier)
	if err != nil {
		return "", err
	}

	record, err := ls.repo.LatestPasswordRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPasswordNotFound) {
			return "", errs.New(errs.ErrCodeNoPasswordSet, "no password set for user")
		}
		return "", errs.InternalWrap(err, "failed to load password record")
	}

	match, err := CheckPasswordHash(password, string(record.PasswordHash))
	if err != nil || !match {
		slog.Info("password mismatch", "userID", userID)
		return "", errs.InvalidCredentials("invalid credentials")
	}

	return userID, nil
}

// IssueTokens reconciles the caller's presented tokens with a fresh login.
//
// With no refresh token presented, both tokens are minted and the session
// row is rewritten. A valid presented refresh token is reused as-is and the
// session row is left untouched; the access token is reused too when it is
// still valid, otherwise a new one is minted. An invalid refresh token is
// replaced wholesale, same as a first login.
func (ls *LoginService) IssueTokens(ctx context.Context, userID, existingAccess, existingRefresh string) (TokenPair, error) {
	if existingRefresh == "" {
		return ls.mintPair(ctx, userID)
	}

	refreshToken, err := ls.tokenService.ParseToken(tokengenerator.REFRESH_TOKEN_NAME, existingRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			err = errs.Wrap(err, errs.ErrCodeExpired, "refresh token expired")
		}
		slog.Info("presented refresh token unusable, rotating", "userID", userID, "error", err)
		return ls.mintPair(ctx, userID)
	}

	refreshExpiry, err := refreshToken.Claims.GetExpirationTime()
	if err != nil || refreshExpiry == nil {
		return ls.mintPair(ctx, userID)
	}

	pair := TokenPair{
		RefreshToken:     existingRefresh,
		RefreshExpiresAt: refreshExpiry.Time,
	}

	if existingAccess != "" {
		if accessToken, parseErr := ls.tokenService.ParseToken(tokengenerator.ACCESS_TOKEN_NAME, existingAccess); parseErr == nil {
			if accessExpiry, expErr := accessToken.Claims.GetExpirationTime(); expErr == nil && accessExpiry != nil {
				pair.AccessToken = existingAccess
				pair.AccessExpiresAt = accessExpiry.Time
				return pair, nil
			}
		}
	}

	accessStr, accessExpiresAt, err := ls.tokenService.GenerateToken(tokengenerator.ACCESS_TOKEN_NAME, userID)
	if err != nil {
		return TokenPair{}, errs.InternalWrap(err, "failed to generate access token")
	}
	pair.AccessToken = accessStr
	pair.AccessExpiresAt = accessExpiresAt
	return pair, nil
}

// mintPair generates a fresh access and refresh token and records the new
// refresh token in the session ledger.
func (ls *LoginService) mintPair(ctx context.Context, userID string) (TokenPair, error) {
	accessStr, accessExpiresAt, err := ls.tokenService.GenerateToken(tokengenerator.ACCESS_TOKEN_NAME, userID)
	if err != nil {
		return TokenPair{}, errs.InternalWrap(err, "failed to generate access token")
	}

	refreshStr, refreshExpiresAt, err := ls.tokenService.GenerateToken(tokengenerator.REFRESH_TOKEN_NAME, userID)
	if err != nil {
		return TokenPair{}, errs.InternalWrap(err, "failed to generate refresh token")
	}

	err = ls.sessionService.UpsertSession(ctx, userID, refreshStr, time.Now().Add(ls.sessionExpiry))
	if err != nil {
		return TokenPair{}, errs.InternalWrap(err, "failed to record session")
	}

	return TokenPair{
		AccessToken:      accessStr,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshStr,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Login verifies the password and reconciles tokens in one step
func (ls *LoginService) Login(ctx context.Context, identifier, password, existingAccess, existingRefresh string) (string, TokenPair, error) {
	userID, err := ls.VerifyPassword(ctx, identifier, password)
	if err != nil {
		return "", TokenPair{}, err
	}

	pair, err := ls.IssueTokens(ctx, userID, existingAccess, existingRefresh)
	if err != nil {
		return "", TokenPair{}, err
	}

	slog.Info("login succeeded", "userID", userID)
	return userID, pair, nil
}

// ChangePassword hashes and appends a new password record for the user.
// Previous records are retained; the new record becomes the latest.
func (ls *LoginService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return errs.InternalWrap(err, "failed to hash password")
	}

	err = ls.repo.AppendPasswordRecord(ctx, userID, []byte(hashed), time.Now().UTC())
	if err != nil {
		return errs.InternalWrap(err, "failed to store password record")
	}
	return nil
}

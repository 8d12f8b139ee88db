package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/sanjaykumar-22/iics-idm/pkg/errs"
	"github.com/sanjaykumar-22/iics-idm/pkg/login"
	"github.com/sanjaykumar-22/iics-idm/pkg/otp"
	tg "github.com/sanjaykumar-22/iics-idm/pkg/tokengenerator"
)

// Handle serves the login and OTP endpoints
type Handle struct {
	loginService *login.LoginService
	otpService   *otp.Service
	cookieSetter tg.CookieSetter
}

// NewHandle creates a new Handle
func NewHandle(loginService *login.LoginService, otpService *otp.Service, cookieSetter tg.CookieSetter) *Handle {
	return &Handle{
		loginService: loginService,
		otpService:   otpService,
		cookieSetter: cookieSetter,
	}
}

// Handler returns a http.Handler for the auth API. OTP routes require a
// valid access token; login is public.
func Handler(h *Handle, auth *jwtauth.JWTAuth) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(auth, jwtauth.TokenFromHeader, tokenFromAccessCookie))
		r.Use(jwtauth.Authenticator(auth))
		r.Get("/users/{id}/otp", h.CheckOtpStatus)
		r.Post("/users/{id}/otp/verify", h.VerifyOtp)
	})

	return r
}

// tokenFromAccessCookie reads the access token cookie for the jwtauth verifier
func tokenFromAccessCookie(r *http.Request) string {
	cookie, err := r.Cookie(tg.ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// cookieValue returns the named cookie's value or empty when absent
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Login authenticates a user and returns a reconciled token pair. Unknown
// identities and wrong passwords collapse to the same response; the
// distinction is only logged.
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	data := LoginRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Unable to parse request body")
		return
	}

	loginParams := LoginParams{}
	if err := copier.Copy(&loginParams, &data); err != nil {
		renderErrorResponse(w, r, http.StatusInternalServerError, "Internal error")
		return
	}

	existingAccess := cookieValue(r, tg.ACCESS_TOKEN_NAME)
	existingRefresh := cookieValue(r, tg.REFRESH_TOKEN_NAME)

	userID, pair, err := h.loginService.Login(r.Context(), loginParams.UserID, loginParams.Password, existingAccess, existingRefresh)
	if err != nil {
		switch errs.GetCode(err) {
		case errs.ErrCodeUserNotFound, errs.ErrCodeNoPasswordSet, errs.ErrCodeInvalidCredentials:
			slog.Info("login rejected", "identifier", loginParams.UserID, "error", err)
			renderErrorResponse(w, r, http.StatusUnauthorized, "Username/Password is wrong")
		default:
			slog.Error("login failed", "identifier", loginParams.UserID, "error", err)
			renderErrorResponse(w, r, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	if err := h.cookieSetter.SetCookie(w, tg.ACCESS_TOKEN_NAME, pair.AccessToken, pair.AccessExpiresAt); err != nil {
		slog.Error("failed to set access token cookie", "userID", userID, "error", err)
		renderErrorResponse(w, r, http.StatusInternalServerError, "Internal error")
		return
	}
	if err := h.cookieSetter.SetCookie(w, tg.REFRESH_TOKEN_NAME, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		slog.Error("failed to set refresh token cookie", "userID", userID, "error", err)
		renderErrorResponse(w, r, http.StatusInternalServerError, "Internal error")
		return
	}

	w.Header().Set("accessToken", pair.AccessToken)
	w.Header().Set("refreshToken", pair.RefreshToken)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{
		Status:       "success",
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// CheckOtpStatus reports whether the user holds a usable OTP, issuing a
// fresh one as a side effect when none is usable
func (h *Handle) CheckOtpStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	status, err := h.otpService.CheckStatus(r.Context(), userID)
	if err != nil {
		renderOtpError(w, r, err)
		return
	}

	renderOtpStatus(w, r, status)
}

// VerifyOtp compares a submitted code and optionally completes a password
// reset on match
func (h *Handle) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	data := VerifyOtpRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		renderErrorResponse(w, r, http.StatusBadRequest, "Unable to parse request body")
		return
	}

	status, err := h.otpService.Verify(r.Context(), userID, data.Otp, data.NewPassword)
	if err != nil {
		renderOtpError(w, r, err)
		return
	}

	renderOtpStatus(w, r, status)
}

// renderOtpStatus maps an OTP status to its HTTP code and wire body
func renderOtpStatus(w http.ResponseWriter, r *http.Request, status otp.Status) {
	var code int
	var message string

	switch status {
	case otp.StatusNoData:
		code = http.StatusNotFound
		message = "No OTP found, a new one has been sent"
	case otp.StatusExpired:
		code = http.StatusUnauthorized
		message = "OTP expired, a new one has been generated"
	case otp.StatusUsable:
		code = http.StatusOK
		message = "A valid OTP exists"
	case otp.StatusMatched:
		code = http.StatusOK
		message = "OTP verified successfully"
	default:
		code = http.StatusInternalServerError
		message = "Unknown OTP status"
	}

	render.Status(r, code)
	render.JSON(w, r, OtpStatusResponse{
		Status:    statusText(code),
		OtpStatus: status.Wire(),
		Message:   message,
	})
}

// renderOtpError maps service errors to HTTP responses. A missing OTP row
// keeps the status vocabulary: the body carries otpStatus NODATAFOUND so
// callers can branch on it the same way they do for the status endpoint.
func renderOtpError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.MapErrorCodeToHTTPStatus(errs.GetCode(err))

	switch errs.GetCode(err) {
	case errs.ErrCodeOtpNotFound:
		render.Status(r, code)
		render.JSON(w, r, OtpStatusResponse{
			Status:    "error",
			OtpStatus: otp.StatusNoData.Wire(),
			Message:   "No OTP found for user",
		})
	case errs.ErrCodeUserNotFound:
		renderErrorResponse(w, r, code, "User not found")
	case errs.ErrCodeInvalidOtp:
		renderErrorResponse(w, r, code, "Invalid OTP")
	default:
		slog.Error("otp request failed", "error", err)
		renderErrorResponse(w, r, code, "Internal error")
	}
}

func statusText(code int) string {
	if code >= 200 && code < 300 {
		return "success"
	}
	return "error"
}

// renderErrorResponse renders an error response with the given status code and message
func renderErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Status:  "error",
		Message: message,
	})
}

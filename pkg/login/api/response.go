package api

// LoginRequest is the login endpoint request body
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// LoginParams carries the identifier and password into the login service
type LoginParams struct {
	UserID   string
	Password string
}

// LoginResponse is returned on successful login. Tokens also travel as
// cookies and response headers.
type LoginResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// VerifyOtpRequest is the OTP verification request body. NewPassword, when
// present, completes a password reset on a successful match.
type VerifyOtpRequest struct {
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword,omitempty"`
}

// OtpStatusResponse reports OTP state in the NODATAFOUND / EXPIREDOTP /
// VERIFIED vocabulary
type OtpStatusResponse struct {
	Status    string `json:"status"`
	OtpStatus string `json:"otpStatus"`
	Message   string `json:"message"`
}

// ErrorResponse is the generic error body
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

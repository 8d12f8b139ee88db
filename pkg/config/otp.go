package config

import "time"

// OtpConfig holds OTP issuance and regeneration settings.
//
// Initial issuance uses a calendar-month window; regeneration after an
// expired verification attempt uses the short RegenWindow. The asymmetry
// is intentional.
type OtpConfig struct {
	// IssueMonths is the initial issuance window in calendar months
	IssueMonths int `env:"OTP_ISSUE_MONTHS" env-default:"1"`

	// RegenWindow is the validity window for codes regenerated after expiry
	RegenWindow string `env:"OTP_REGEN_WINDOW" env-default:"5m"`
}

// ParseRegenWindow parses the post-expiry regeneration window
func (o OtpConfig) ParseRegenWindow() (time.Duration, error) {
	return parseISO8601OrGoDuration(o.RegenWindow)
}

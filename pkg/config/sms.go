package config

import "time"

// SmsConfig holds the outbound SMS gateway settings
type SmsConfig struct {
	GatewayURL  string `env:"SMS_GATEWAY_URL" env-default:"http://cloudsms.example.com/ApiSmsHttp"`
	UserID      string `env:"SMS_USER_ID"`
	Password    string `env:"SMS_PASSWORD"`
	SenderID    string `env:"SMS_SENDER_ID" env-default:"PSGAPP"`
	ServiceName string `env:"SMS_SERVICE_NAME" env-default:"SMSTRANS"`
	Timeout     string `env:"SMS_TIMEOUT" env-default:"5s"`
}

// ParseTimeout parses the gateway call timeout
func (s SmsConfig) ParseTimeout() (time.Duration, error) {
	return parseISO8601OrGoDuration(s.Timeout)
}

package notification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// SmsGatewayConfig holds the settings for the HTTP SMS gateway.
type SmsGatewayConfig struct {
	GatewayURL  string
	UserID      string
	Password    string
	SenderID    string
	ServiceName string
	Timeout     time.Duration
}

// SMSNotifier sends messages through an HTTP SMS gateway that accepts the
// destination number and message text as query parameters.
type SMSNotifier struct {
	client *http.Client
	config SmsGatewayConfig
}

// NewSMSNotifier creates a new SMSNotifier
func NewSMSNotifier(config SmsGatewayConfig) *SMSNotifier {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &SMSNotifier{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

func (s *SMSNotifier) Send(ctx context.Context, notification NotificationData) error {
	if notification.To == "" || notification.Body == "" {
		return fmt.Errorf("SMS notification requires 'To' and 'Body'")
	}

	query := url.Values{}
	query.Set("UserId", s.config.UserID)
	query.Set("pwd", s.config.Password)
	query.Set("Message", notification.Body)
	query.Set("Contacts", notification.To)
	query.Set("SenderId", s.config.SenderID)
	query.Set("ServiceName", s.config.ServiceName)
	query.Set("MessageType", "1")

	requestURL := s.config.GatewayURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build SMS gateway request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS gateway call failed: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	slog.Info("Successfully sent sms", "to", notification.To)
	return nil
}

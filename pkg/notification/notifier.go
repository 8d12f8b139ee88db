package notification

import "context"

// Channel represents a delivery channel (e.g., sms, email).
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// NotificationData carries a single outbound message.
type NotificationData struct {
	To      string // Recipient identifier (mobile number or email address)
	Subject string // Optional: subject for channels like email
	Body    string // The content or message to send
}

// Notifier delivers a message over one channel. Implementations must be
// time-bounded; the gateway call sits on the critical path of OTP issuance.
type Notifier interface {
	Send(ctx context.Context, notification NotificationData) error
}

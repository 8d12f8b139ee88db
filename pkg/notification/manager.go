package notification

import (
	"context"
	"fmt"
)

const otpMessageTemplate = "Your One Time Password is %s. Do not share OTP with anyone."

// Manager dispatches notifications to the notifier registered for a channel.
type Manager struct {
	notifiers map[Channel]Notifier
}

// NewManager creates and returns a new Manager.
func NewManager() *Manager {
	return &Manager{
		notifiers: make(map[Channel]Notifier),
	}
}

// RegisterNotifier registers a notifier for a specific channel.
func (m *Manager) RegisterNotifier(channel Channel, notifier Notifier) {
	m.notifiers[channel] = notifier
}

// Send sends a notification on the given channel.
func (m *Manager) Send(ctx context.Context, channel Channel, notification NotificationData) error {
	notifier, exists := m.notifiers[channel]
	if !exists {
		return fmt.Errorf("no notifier registered for channel: %s", channel)
	}
	return notifier.Send(ctx, notification)
}

// SendOtp delivers a one-time passcode to the given destination over the
// given channel.
func (m *Manager) SendOtp(ctx context.Context, channel Channel, to, code string) error {
	return m.Send(ctx, channel, NotificationData{
		To:      to,
		Subject: "One Time Password",
		Body:    fmt.Sprintf(otpMessageTemplate, code),
	})
}

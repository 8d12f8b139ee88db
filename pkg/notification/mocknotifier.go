package notification

import (
	"context"
	"sync"
)

// MockNotifier records sent notifications for tests and demos.
type MockNotifier struct {
	mu   sync.Mutex
	sent []NotificationData

	// FailWith, when set, is returned by every Send call.
	FailWith error
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(ctx context.Context, notification NotificationData) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, notification)
	return nil
}

// Sent returns a copy of the recorded notifications
func (m *MockNotifier) Sent() []NotificationData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotificationData, len(m.sent))
	copy(out, m.sent)
	return out
}

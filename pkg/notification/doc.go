// Package notification provides the outbound gateway clients used to
// deliver one-time passcodes: an HTTP SMS gateway, an SMTP email channel,
// and a mock for tests. Delivery is best-effort; callers persist state
// before dispatching and treat gateway failures as non-rollback errors.
package notification

// Package errs provides the shared error taxonomy for the auth engine.
//
// Services attach an ErrorCode to every failure they surface; the HTTP
// layer maps codes to status codes with MapErrorCodeToHTTPStatus. Expiry
// conditions carry ErrCodeExpired but are state transitions rather than
// hard failures: callers are expected to branch on the code, not treat
// the error as fatal.
package errs

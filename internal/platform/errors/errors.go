package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrUnauthenticated is returned before any network activity when a
	// protected call is attempted without a stored token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned when the backend rejects the bearer token;
	// by the time a caller sees it the local session has already been cleared.
	ErrSessionExpired = errors.New("session expired")
)

// AuthError carries the server-supplied reason for a rejected login or
// registration attempt.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// ServerError is a decoded non-2xx HTTP response. Message holds the body's
// {message} field when present, otherwise a generic "HTTP <status>" string.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ConnectivityError is a network-level failure (DNS, refused connection,
// timeout), distinct from an HTTP error response so that screens can show
// "check your connection" instead of the server's rejection message.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "cannot reach server: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ValidationError is a locally detected bad input, reported without touching
// the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsConnectivity reports whether err is a network-level failure.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

package errors

import (
	"errors"
	"fmt"
)

// Common error types for the usage agent
var (
	// Credential errors
	ErrMalformedToken      = errors.New("malformed session token")
	ErrMalformedCredential = errors.New("malformed credential string")
	ErrCredentialNotFound  = errors.New("credential not found")

	// Capture errors
	ErrBrowserNotFound = errors.New("browser executable not found")
	ErrDebuggerTimeout = errors.New("debugging endpoint not reachable")
	ErrProtocolFailure = errors.New("devtools protocol failure")
	ErrCookieNotFound  = errors.New("session cookie not found")

	// Dashboard API errors
	ErrUpstreamRequest = errors.New("upstream request failed")
	ErrInvalidTeamID   = errors.New("invalid team id")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

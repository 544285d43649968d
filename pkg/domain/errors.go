package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a record does not exist
var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before any network call or side effect
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConfigurationError reports missing credentials; shown as a setup prompt, not retried
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// TransportError is a network-level failure talking to the remote service
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to connect to API (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-200 status, malformed body or explicit error from the remote service
type RemoteError struct {
	StatusCode int
	Msg        string
}

func (e *RemoteError) Error() string { return e.Msg }

// IsTransient reports whether err is a transport failure, tolerated while polling
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

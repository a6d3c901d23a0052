package common

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrNotFound indicates a lookup matched nothing
	ErrNotFound = errors.New("resource not found")

	// ErrAmbiguousResult indicates a lookup matched more than one distinct value
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrMalformedProviderID indicates a provider ID could not be parsed
	ErrMalformedProviderID = errors.New("malformed provider id")

	// ErrBackendUnavailable indicates a backend query failed after retries
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInstanceNotFound indicates the cloud provider has no record of an instance
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input parameter")
)

// IsNotFound checks if err is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguousResult checks if err is or wraps ErrAmbiguousResult
func IsAmbiguousResult(err error) bool {
	return errors.Is(err, ErrAmbiguousResult)
}

// IsMalformedProviderID checks if err is or wraps ErrMalformedProviderID
func IsMalformedProviderID(err error) bool {
	return errors.Is(err, ErrMalformedProviderID)
}

// IsBackendUnavailable checks if err is or wraps ErrBackendUnavailable
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsInstanceNotFound checks if err is or wraps ErrInstanceNotFound
func IsInstanceNotFound(err error) bool {
	return errors.Is(err, ErrInstanceNotFound)
}

// IsInvalidInput checks if err is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// NotFoundError returns a wrapped not found error with context
func NotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// AmbiguousResultError returns a wrapped ambiguous result error with context
func AmbiguousResultError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAmbiguousResult)
}

// MalformedProviderIDError returns a wrapped malformed provider id error with context
func MalformedProviderIDError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrMalformedProviderID)
}

// BackendUnavailableError returns a wrapped backend unavailable error with context
func BackendUnavailableError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBackendUnavailable)
}

// InstanceNotFoundError returns a wrapped instance not found error with context
func InstanceNotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInstanceNotFound)
}

// InvalidInputError returns a wrapped invalid input error with context
func InvalidInputError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// Kind returns the short name of the error kind wrapped by err,
// or "Unknown" when err carries none of the common kinds.
func Kind(err error) string {
	switch {
	case IsNotFound(err):
		return "NotFound"
	case IsAmbiguousResult(err):
		return "AmbiguousResult"
	case IsMalformedProviderID(err):
		return "MalformedProviderId"
	case IsBackendUnavailable(err):
		return "BackendUnavailable"
	case IsInstanceNotFound(err):
		return "InstanceNotFound"
	case IsInvalidInput(err):
		return "InvalidArguments"
	default:
		return "Unknown"
	}
}

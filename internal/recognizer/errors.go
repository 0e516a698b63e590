package recognizer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the provider cannot accept the
	// clip's PCM format. Adapters never silently truncate or resample.
	ErrUnsupportedFormat = errors.New("recognizer: unsupported audio format")
	// ErrTransport wraps network and backend failures.
	ErrTransport = errors.New("recognizer: transport failure")
	// ErrEmptyResult is returned when the provider recognized nothing.
	ErrEmptyResult = errors.New("recognizer: empty result")
	// ErrAlreadyInProgress is returned by the task runner when a recognition
	// is already outstanding for the annotation attempt.
	ErrAlreadyInProgress = errors.New("recognizer: recognition already in progress")
	// ErrUnknownProvider is returned by the factory for an unknown selector.
	ErrUnknownProvider = errors.New("recognizer: unknown provider type")
)

// ConfigError reports invalid adapter configuration, detected at construction
// time before any network or disk I/O.
type ConfigError struct {
	Provider string
	Field    string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("recognizer: %s configuration: %s %s", e.Provider, e.Field, e.Reason)
}

func missingCredential(provider, field string) *ConfigError {
	return &ConfigError{Provider: provider, Field: field, Reason: "is required"}
}

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceRequired means neither an input file nor a webcam was selected.
	ErrSourceRequired = errors.New("one of --input or --webcam is required")

	// ErrSourceConflict means both an input file and a webcam were selected.
	ErrSourceConflict = errors.New("--input and --webcam are mutually exclusive")

	// ErrInvalidValue is wrapped by ConfigError for out-of-range settings.
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigError reports a problem with a single config key.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func invalid(key, format string, args ...any) error {
	return &ConfigError{Key: key, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...)}
}

package config

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind ...
type ErrorKind int

const (
	// MissingRoot - the required root file does not exist
	MissingRoot ErrorKind = iota + 1
	// Invalid - a source could not be parsed or decoded, or a required key is absent
	Invalid
)

var (
	// ErrMissingRoot matches any *Error of kind MissingRoot with errors.Is.
	ErrMissingRoot = errors.New("root config not found")
	// ErrInvalid matches any *Error of kind Invalid with errors.Is.
	ErrInvalid = errors.New("invalid config")
)

// Error - config resolution failure
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case MissingRoot:
		return fmt.Sprintf("root config not found at '%s'. Create it (e.g. copy config.example.toml) or pass --config <path>", e.Path)
	default:
		if e.Path != "" {
			return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
}

// Unwrap ...
func (e *Error) Unwrap() error {
	return e.Err
}

// Is ...
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingRoot:
		return e.Kind == MissingRoot
	case ErrInvalid:
		return e.Kind == Invalid
	}
	return false
}

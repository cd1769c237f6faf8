// Package errors provides the extraction pipeline's error taxonomy.
//
// Only two conditions are fatal for a run: an unsupported document format and
// total acquisition failure. Per-technique failures are recorded on their
// attempts and never abort the cascade; zero recognized verses is an empty
// result, not an error.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the fatal conditions.
var (
	// ErrUnsupportedFormat indicates the document format has no adapter.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrAcquisitionFailed indicates every extraction technique produced
	// sub-floor text.
	ErrAcquisitionFailed = errors.New("acquisition failed")
)

// UnsupportedFormatError is returned before any cascade runs: format is taken
// as given and never retried.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// AttemptFailure describes why one extraction technique did not qualify.
type AttemptFailure struct {
	Method string `json:"method"`
	Reason string `json:"reason"`
}

// AcquisitionFailedError is returned when no technique cleared the text
// floor. It carries every attempt's method and reason so callers can show the
// user why extraction failed.
type AcquisitionFailedError struct {
	Format   string
	Attempts []AttemptFailure
}

func (e *AcquisitionFailedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "could not acquire text from %s document", e.Format)
	if len(e.Attempts) > 0 {
		sb.WriteString(": ")
		for i, a := range e.Attempts {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s: %s", a.Method, a.Reason)
		}
	}
	return sb.String()
}

func (e *AcquisitionFailedError) Unwrap() error {
	return ErrAcquisitionFailed
}

// NewUnsupportedFormat creates an UnsupportedFormatError.
func NewUnsupportedFormat(format string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Format: format}
}

// NewAcquisitionFailed creates an AcquisitionFailedError.
func NewAcquisitionFailed(format string, attempts []AttemptFailure) *AcquisitionFailedError {
	return &AcquisitionFailedError{Format: format, Attempts: attempts}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}

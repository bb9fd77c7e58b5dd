package codecerr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrMalformedMetadata = errors.New("malformed metadata")
	ErrNonFiniteSample   = errors.New("non-finite sample")
)

// Error describes a rejected input.
type Error struct {
	Kind   error
	Field  string
	Value  any
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s=%v", e.Kind, e.Field, e.Value)
	}
	return fmt.Sprintf("%v: %s=%v: %s", e.Kind, e.Field, e.Value, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// InvalidConfig reports a configuration value outside its allowed range.
func InvalidConfig(field string, value any, reason string) error {
	return &Error{Kind: ErrInvalidConfig, Field: field, Value: value, Reason: reason}
}

// DimensionMismatch reports an image whose geometry cannot be decoded.
func DimensionMismatch(field string, value any, reason string) error {
	return &Error{Kind: ErrDimensionMismatch, Field: field, Value: value, Reason: reason}
}

// MalformedMetadata reports side-channel metadata that does not parse.
func MalformedMetadata(field string, value any, reason string) error {
	return &Error{Kind: ErrMalformedMetadata, Field: field, Value: value, Reason: reason}
}

// NonFiniteSample reports a NaN or infinite sample at the given index.
func NonFiniteSample(index int, value float64) error {
	return &Error{Kind: ErrNonFiniteSample, Field: fmt.Sprintf("samples[%d]", index), Value: value, Reason: "samples must be finite"}
}

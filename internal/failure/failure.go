// Package failure defines the error taxonomy shared by the gateways, the
// composer and the HTTP layer.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// Generation is an upstream text-generation error (transport, quota, auth).
	Generation Kind = "generation_failure"
	// Malformed means generation succeeded but its output could not be interpreted.
	Malformed Kind = "malformed_output"
	// Lookup is an upstream video or web search error.
	Lookup Kind = "lookup_failure"
	// Validation is missing or empty required input.
	Validation Kind = "validation_failure"
)

// Error is a classified failure. Raw carries the upstream text for Malformed.
type Error struct {
	Kind Kind
	Op   string
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validationf reports invalid input.
func Validationf(op, format string, args ...any) *Error {
	return &Error{Kind: Validation, Op: op, Err: fmt.Errorf(format, args...)}
}

// MalformedOutput reports uninterpretable upstream output, keeping the raw text.
func MalformedOutput(op, raw string, err error) *Error {
	return &Error{Kind: Malformed, Op: op, Raw: raw, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain, or "".
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// RawOf returns the raw upstream text attached to err, if any.
func RawOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Raw
	}
	return ""
}

package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this module matches exactly one of
// these through errors.Is.
var (
	// ErrFormat reports malformed input or backend output: zone id text,
	// bit-packed resolution digits, parsed output lines.
	ErrFormat = errors.New("format error")

	// ErrLimit reports a refinement level or relative depth outside the
	// bounds registered for a grid.
	ErrLimit = errors.New("limit exceeded")

	// ErrBackend reports a failure inside a backend: unknown grid, context
	// lock, numeric narrowing, file or process I/O.
	ErrBackend = errors.New("backend error")

	// ErrUnsupported reports a grid identifier whose tool has no adapter.
	ErrUnsupported = errors.New("unsupported combination")
)

var (
	ErrOverflow    = fmt.Errorf("%w: numeric overflow", ErrBackend)
	ErrUnknownGrid = fmt.Errorf("%w: unknown grid", ErrBackend)
	ErrLockFailure = fmt.Errorf("%w: failed to acquire global lock", ErrBackend)
)

// FormatError describes input that could not be decoded.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("format error: %s", e.Reason)
	}
	return fmt.Sprintf("format error: %s: %q", e.Reason, e.Input)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Formatf builds a FormatError for input with a formatted reason.
func Formatf(input, format string, args ...any) error {
	return &FormatError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// LimitError describes a request outside a grid's registered bounds.
type LimitError struct {
	Grid      string // empty when no grid is involved
	Quantity  string // "refinement level", "relative depth", ...
	Requested int64
	Minimum   int64
	Maximum   int64
}

func (e *LimitError) Error() string {
	var msg string
	if e.Requested < e.Minimum {
		msg = fmt.Sprintf("requested %s %d is below minimum allowed %d", e.Quantity, e.Requested, e.Minimum)
	} else {
		msg = fmt.Sprintf("requested %s %d exceeds maximum allowed %d", e.Quantity, e.Requested, e.Maximum)
	}
	if e.Grid == "" {
		return msg
	}
	return fmt.Sprintf("%s for grid %q", msg, e.Grid)
}

func (e *LimitError) Unwrap() error { return ErrLimit }

// BackendError wraps a failure raised while talking to a backend.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() []error { return []error{ErrBackend, e.Err} }

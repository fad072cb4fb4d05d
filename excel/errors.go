package excel

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported by the workbook wrapper.
// Every error returned by this package's host-facing operations is an
// *Error carrying one of these kinds, so callers can branch on the
// failure class without string matching.
type ErrorKind string

const (
	// KindOpen indicates the host application could not be started or
	// the workbook path could not be opened.
	KindOpen ErrorKind = "open"

	// KindReference indicates a malformed or out-of-range cell reference.
	KindReference ErrorKind = "reference"

	// KindWrite indicates the host rejected a cell or range write.
	KindWrite ErrorKind = "write"

	// KindSave indicates the workbook could not be persisted (locked file,
	// read-only target, host write failure).
	KindSave ErrorKind = "save"

	// KindClosed indicates an operation was attempted on a workbook whose
	// session has already been closed.
	KindClosed ErrorKind = "closed"

	// KindSheet indicates a worksheet operation failed (missing sheet,
	// duplicate name, activation failure).
	KindSheet ErrorKind = "sheet"

	// KindMacro indicates a macro could not be run.
	KindMacro ErrorKind = "macro"
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	return string(k)
}

// Error is the error type returned by all workbook operations. It pairs
// a classification kind with a human-readable message and, where the
// failure originated in the host application or a library, the underlying
// cause. Host-level failures are never passed through raw: they are
// wrapped into an *Error at the boundary.
type Error struct {
	// Kind is the failure classification.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// message, including the underlying cause when present.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an *Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an *Error that wraps an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err (or any error in its chain) is an *Error
// of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

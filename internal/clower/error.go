package clower

import (
	"errors"
	"fmt"

	"cxxfront/internal/diag"
	"cxxfront/internal/source"
)

// ErrorKind classifies lowering failures.
type ErrorKind uint8

const (
	// Unsupported is an input shape the lowering does not handle.
	Unsupported ErrorKind = iota + 1
	// Malformed is an input that violates the AST contract.
	Malformed
	// Unresolved is a reference to a declaration that cannot be found.
	Unresolved
	// Fatal is an internal invariant violation. It is never recovered.
	Fatal
)

func (k ErrorKind) String() string {
	switch k {
	case Unsupported:
		return "unsupported"
	case Malformed:
		return "malformed"
	case Unresolved:
		return "unresolved"
	case Fatal:
		return "fatal"
	}
	return "error"
}

// Error is a lowering failure located in the source.
type Error struct {
	Kind ErrorKind
	Code diag.Code
	Loc  source.Location
	Msg  string
}

func (e *Error) Error() string {
	if e.Loc.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Msg)
}

// Diagnostic converts the error for reporting.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Loc, e.Msg)
}

// IsFatal reports whether err carries a fatal lowering error.
func IsFatal(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == Fatal
}

// AsError extracts the lowering error from err.
func AsError(err error) (*Error, bool) {
	var le *Error
	ok := errors.As(err, &le)
	return le, ok
}

func Unsupportedf(loc source.Location, format string, args ...any) *Error {
	return &Error{Kind: Unsupported, Code: diag.LowUnsupported, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

func Malformedf(loc source.Location, format string, args ...any) *Error {
	return &Error{Kind: Malformed, Code: diag.LowMalformed, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

func Unresolvedf(loc source.Location, format string, args ...any) *Error {
	return &Error{Kind: Unresolved, Code: diag.LowUnresolvedRef, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// Failf builds a recoverable error with a specific code.
func Failf(code diag.Code, loc source.Location, format string, args ...any) *Error {
	return &Error{Kind: Unsupported, Code: code, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// Fatalf builds a fatal error.
func Fatalf(code diag.Code, loc source.Location, format string, args ...any) *Error {
	return &Error{Kind: Fatal, Code: code, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

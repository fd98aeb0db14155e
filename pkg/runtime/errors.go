package runtime

import (
	"errors"
	"fmt"
	"strings"

	"rumina/interpreter-go/pkg/ast"
)

// ErrorKind classifies runtime failures. Both execution strategies must
// report the same kind for the same program.
type ErrorKind string

const (
	ParseError          ErrorKind = "ParseError"
	TypeError           ErrorKind = "TypeError"
	ArithmeticError     ErrorKind = "ArithmeticError"
	NameError           ErrorKind = "NameError"
	ImmutableAssignment ErrorKind = "ImmutableAssignment"
	StackOverflow       ErrorKind = "StackOverflow"
	InvalidHandle       ErrorKind = "InvalidHandle"
)

// TraceFrame is one entry of the call stack attached to an error.
type TraceFrame struct {
	Name string
	Span ast.Span
}

type Error struct {
	Kind    ErrorKind
	Message string
	Trace   []TraceFrame
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HasTrace reports whether a call stack was already attached.
func (e *Error) HasTrace() bool { return e != nil && e.Trace != nil }

// Describe renders the message followed by the call stack, innermost first.
func (e *Error) Describe() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for idx := len(e.Trace) - 1; idx >= 0; idx-- {
		frame := e.Trace[idx]
		name := frame.Name
		if name == "" {
			name = "<module>"
		}
		if frame.Span != (ast.Span{}) {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", name, frame.Span.Start.Line, frame.Span.Start.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", name)
		}
	}
	return b.String()
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies err under kind unless it already carries a kind.
func WrapError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return err
	}
	return &Error{Kind: kind, Message: err.Error(), cause: err}
}

// KindOf extracts the error kind from err.
func KindOf(err error) (ErrorKind, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return "", false
}

// AsError returns the runtime error carried by err.
func AsError(err error) (*Error, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}

func newDivisionByZeroError() error {
	return Errorf(ArithmeticError, "division by zero")
}

func newOverflowError(operation string) error {
	message := operation
	if message == "" {
		message = "integer overflow"
	}
	return Errorf(ArithmeticError, "%s", message)
}

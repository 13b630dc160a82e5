package lisp

import (
	"errors"
	"fmt"
)

type ErrorKind uint8

const (
	ThrownError ErrorKind = iota
	UnboundSymbolError
	ArityError
	NotCallableError
	TypeError
	SyntaxError
	IndexError
	ArithmeticError
	IOError
)

var errorKindNames = [...]string{
	ThrownError:        "thrown",
	UnboundSymbolError: "unbound symbol",
	ArityError:         "arity",
	NotCallableError:   "not callable",
	TypeError:          "type",
	SyntaxError:        "syntax",
	IndexError:         "index",
	ArithmeticError:    "arithmetic",
	IOError:            "io",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown"
}

// Error is the one failure that unwinds evaluation. It carries an
// arbitrary value; try*/catch* binds that value.
type Error struct {
	Kind  ErrorKind
	Value Value
}

func (e *Error) Error() string {
	// internal messages are shown as text, thrown values as data
	if s, ok := e.Value.(String); ok && e.Kind != ThrownError {
		return string(s)
	}
	return Print(e.Value, true)
}

// Throw fails with v as payload.
func Throw(v Value) error {
	return &Error{Kind: ThrownError, Value: v}
}

func errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Value: String(fmt.Sprintf(format, args...))}
}

// IsKind reports whether err is an evaluator failure of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ParseError is a reader failure. It is reported to the caller of the
// reader and is never visible to try*.
type ParseError struct {
	Line, Col  int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ErrEmptyInput is returned by Read when the input holds no form.
var ErrEmptyInput = errors.New("empty input")

// IsIncomplete reports whether err came from input that ended inside a
// form or string, i.e. more input could complete it.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

func isReadError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) || errors.Is(err, ErrEmptyInput)
}

// caught converts a failure into the value bound by catch*.
func caught(err error) (Value, bool) {
	if isReadError(err) {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Value, true
	}
	return ErrorValue{Value: String(err.Error())}, true
}

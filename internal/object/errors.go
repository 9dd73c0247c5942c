package object

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrArityMismatch     = errors.New("arity mismatch")
	ErrNotCallable       = errors.New("not callable")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrNativeFailure     = errors.New("native function failed")
)

// RuntimeError aborts evaluation of the current program. Kind is one of the
// sentinels above and is what errors.Is matches against.
type RuntimeError struct {
	Kind       error
	Message    string
	Position   int           // byte offset of the failing node
	StackTrace []*StackFrame // innermost call first
}

type StackFrame struct {
	Function string
	Position int // byte offset of the call site
}

func NewRuntimeError(kind error, pos int, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, a...),
		Position: pos,
	}
}

func (re *RuntimeError) Error() string {
	return re.Message
}

func (re *RuntimeError) Unwrap() error {
	return re.Kind
}

// AddFrame records that the error unwound through a call to fn at pos.
func (re *RuntimeError) AddFrame(fn string, pos int) {
	re.StackTrace = append(re.StackTrace, &StackFrame{Function: fn, Position: pos})
}

package parser

import (
	"errors"
	"lox/internal/token"
)

var (
	ErrUnexpectedToken         = errors.New("unexpected token")
	ErrInvalidAssignmentTarget = errors.New("invalid assignment target")
	ErrTooManyParameters       = errors.New("too many parameters")
	ErrTooManyArguments        = errors.New("too many arguments")
)

// Error describes the single syntax error that stopped a parse.
type Error struct {
	Kind    error
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Position is the byte offset of the offending token.
func (e *Error) Position() int {
	return e.Token.Position
}

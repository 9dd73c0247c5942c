package lexer

import (
	"errors"
	"fmt"
	"lox/internal/token"
	"strings"
)

var (
	ErrIllegalCharacter   = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")
)

// Error is raised when the parser reaches an ILLEGAL token.
type Error struct {
	Kind     error
	Text     string
	Position int
}

func NewError(tok token.Token) *Error {
	kind := ErrIllegalCharacter
	if strings.HasPrefix(tok.Literal, `"`) {
		kind = ErrUnterminatedString
	}
	return &Error{Kind: kind, Text: tok.Literal, Position: tok.Position}
}

func (e *Error) Error() string {
	if errors.Is(e.Kind, ErrUnterminatedString) {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

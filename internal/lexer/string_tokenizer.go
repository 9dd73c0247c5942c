package lexer

import (
	"lox/internal/token"
)

// StringTokenizer reads a double-quoted literal. There are no escape
// sequences and the literal may span lines.
type StringTokenizer struct {
	lexer *Lexer
}

func NewStringTokenizer(lexer *Lexer) *StringTokenizer {
	return &StringTokenizer{lexer: lexer}
}

func (s *StringTokenizer) NextToken() token.Token {
	startPosition := s.lexer.position
	defer s.lexer.switchMode(NewGeneralTokenizer(s.lexer))

	s.lexer.readChar() // consume the opening `"`
	contentStart := s.lexer.position
	for !s.lexer.atEOF() && s.lexer.ch != '"' {
		s.lexer.readChar()
	}

	if s.lexer.atEOF() {
		// the ILLEGAL literal keeps the opening quote so it can be reported as unterminated
		return token.Token{
			Type:     token.ILLEGAL,
			Literal:  s.lexer.input[startPosition:],
			Position: startPosition,
		}
	}

	literal := s.lexer.input[contentStart:s.lexer.position]
	s.lexer.readChar() // consume the closing `"`

	return token.Token{
		Type:     token.STRING,
		Literal:  literal,
		Position: startPosition,
	}
}

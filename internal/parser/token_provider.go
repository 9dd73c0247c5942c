package parser

import "lox/internal/token"

// TokenSliceProvider feeds an already lexed token slice to the parser.
type TokenSliceProvider struct {
	tokens []token.Token
	pos    int
}

func NewTokenSliceProvider(tokens []token.Token) *TokenSliceProvider {
	return &TokenSliceProvider{
		tokens: tokens,
		pos:    0,
	}
}

func (tsp *TokenSliceProvider) NextToken() token.Token {
	if tsp.pos >= len(tsp.tokens) {
		end := 0
		if len(tsp.tokens) > 0 {
			end = tsp.tokens[len(tsp.tokens)-1].Position
		}
		return token.Token{Type: token.EOF, Position: end}
	}
	tok := tsp.tokens[tsp.pos]
	tsp.pos++
	return tok
}

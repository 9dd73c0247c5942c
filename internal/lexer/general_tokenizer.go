package lexer

import (
	"lox/internal/token"
)

type GeneralTokenizer struct {
	lexer *Lexer
}

func NewGeneralTokenizer(lexer *Lexer) *GeneralTokenizer {
	return &GeneralTokenizer{lexer: lexer}
}

func (g *GeneralTokenizer) NextToken() token.Token {
	var tok token.Token

	g.lexer.skipWhitespace()

	startPosition := g.lexer.position // Record the current position as the start of the token

	switch g.lexer.ch {
	case '=':
		tok = g.lexer.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '!':
		tok = g.lexer.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = g.lexer.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = g.lexer.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '+':
		tok = newToken(token.PLUS, g.lexer.ch, startPosition)
	case '-':
		tok = newToken(token.MINUS, g.lexer.ch, startPosition)
	case '*':
		tok = newToken(token.ASTERISK, g.lexer.ch, startPosition)
	case '/':
		tok = newToken(token.SLASH, g.lexer.ch, startPosition)
	case ';':
		tok = newToken(token.SEMICOLON, g.lexer.ch, startPosition)
	case ',':
		tok = newToken(token.COMMA, g.lexer.ch, startPosition)
	case '.':
		tok = newToken(token.PERIOD, g.lexer.ch, startPosition)
	case '(':
		tok = newToken(token.LPAREN, g.lexer.ch, startPosition)
	case ')':
		tok = newToken(token.RPAREN, g.lexer.ch, startPosition)
	case '{':
		tok = newToken(token.LBRACE, g.lexer.ch, startPosition)
	case '}':
		tok = newToken(token.RBRACE, g.lexer.ch, startPosition)
	case '"':
		g.lexer.switchMode(NewStringTokenizer(g.lexer))
		return g.lexer.currentMode.NextToken()
	case 0:
		if !g.lexer.atEOF() {
			tok = newToken(token.ILLEGAL, g.lexer.ch, startPosition)
			break
		}
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Position = startPosition
		return tok
	default:
		if isLetter(g.lexer.ch) {
			tok.Literal = g.lexer.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Position = startPosition
			return tok
		} else if isDigit(g.lexer.ch) {
			tok.Type = token.NUMBER
			tok.Literal = g.lexer.readNumber()
			tok.Position = startPosition
			return tok
		}
		tok = newToken(token.ILLEGAL, g.lexer.ch, startPosition)
	}

	g.lexer.readChar()
	return tok
}

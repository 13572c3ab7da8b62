package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextToken(t *testing.T) {
	input := `LV('sim_seconds') + 2.5 * (x - 1) / y, length=3 "quoted"`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "LV"},
		{LPAREN, "("},
		{STRING, "sim_seconds"},
		{RPAREN, ")"},
		{PLUS, "+"},
		{FLOAT, "2.5"},
		{ASTERISK, "*"},
		{LPAREN, "("},
		{IDENT, "x"},
		{MINUS, "-"},
		{INT, "1"},
		{RPAREN, ")"},
		{SLASH, "/"},
		{IDENT, "y"},
		{COMMA, ","},
		{IDENT, "length"},
		{ASSIGN, "="},
		{INT, "3"},
		{STRING, "quoted"},
		{EOF, ""},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equal(t, tt.expectedType, tok.Type, "test %d: type", i)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "test %d: literal", i)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := NewLexer(`'oops`)
	tok := l.NextToken()
	assert.Equal(t, ILLEGAL, tok.Type)
}

func TestIllegalCharacter(t *testing.T) {
	l := NewLexer(`;`)
	tok := l.NextToken()
	assert.Equal(t, ILLEGAL, tok.Type)
	assert.Equal(t, ";", tok.Literal)
}

func TestLineAndColumnTracking(t *testing.T) {
	l := NewLexer("a +\nb")

	a := l.NextToken()
	assert.Equal(t, 1, a.Line)

	plus := l.NextToken()
	assert.Equal(t, 1, plus.Line)

	b := l.NextToken()
	assert.Equal(t, 2, b.Line)
}

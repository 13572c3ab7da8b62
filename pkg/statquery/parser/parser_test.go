package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) Expression {
	t.Helper()
	p := New(NewLexer(input))
	exp := p.ParseQuery()
	require.Empty(t, p.Errors(), "input %q", input)
	return exp
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`a + b`, `(a + b)`},
		{`a + b * c`, `(a + (b * c))`},
		{`a * b + c`, `((a * b) + c)`},
		{`a / b / c`, `((a / b) / c)`},
		{`(a + b) * c`, `((a + b) * c)`},
		{`-2 + 3`, `((-2) + 3)`},
		{`a - -2`, `(a - (-2))`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			exp := parse(t, tt.input)
			assert.Equal(t, tt.want, exp.String())
		})
	}
}

func TestCallExpressions(t *testing.T) {
	exp := parse(t, `SlidingSum(LV('x'), length=2)`)

	call, ok := exp.(*CallExpression)
	require.True(t, ok)

	ident, ok := call.Function.(*Identifier)
	require.True(t, ok)
	assert.Equal(t, "SlidingSum", ident.Value)

	require.Len(t, call.Arguments, 2)

	inner, ok := call.Arguments[0].(*CallExpression)
	require.True(t, ok)
	assert.Equal(t, `LV("x")`, inner.String())

	kw, ok := call.Arguments[1].(*KeywordArgument)
	require.True(t, ok)
	assert.Equal(t, "length", kw.Name.Value)
	assert.Equal(t, "2", kw.Value.String())
}

func TestEmptyArgumentList(t *testing.T) {
	exp := parse(t, `Now()`)

	call, ok := exp.(*CallExpression)
	require.True(t, ok)
	assert.Empty(t, call.Arguments)
}

func TestLiterals(t *testing.T) {
	intExp := parse(t, `42`)
	il, ok := intExp.(*IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(42), il.Value)

	floatExp := parse(t, `2.5`)
	fl, ok := floatExp.(*FloatLiteral)
	require.True(t, ok)
	assert.Equal(t, 2.5, fl.Value)

	strExp := parse(t, `'abc.def'`)
	sl, ok := strExp.(*StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "abc.def", sl.Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ``},
		{"TrailingOperator", `1 +`},
		{"UnbalancedParen", `(1 + 2`},
		{"TrailingTokens", `1 2`},
		{"LoneOperator", `*`},
		{"CallOnLiteral", `1(2)`},
		{"UnterminatedString", `'x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(NewLexer(tt.input))
			p.ParseQuery()
			assert.NotEmpty(t, p.Errors())
		})
	}
}

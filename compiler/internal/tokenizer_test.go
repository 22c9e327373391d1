package internal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []*Token) []TokenType {
	var tps []TokenType
	for _, token := range tokens {
		tps = append(tps, token.tp)
	}
	return tps
}

func TestTokenizer_Tokenize(t *testing.T) {
	testData := []struct {
		Content  string
		Expected []TokenType
	}{
		{Content: "let x: Int = 10;", Expected: []TokenType{LetTP, IdentifierTP, ColonTP, IntTP, AssignTP, IntegerTP, SemiColonTP}},
		{Content: "a <= b == c != d >= e", Expected: []TokenType{
			IdentifierTP, LessEqualTP, IdentifierTP, EqualTP, IdentifierTP, NotEqualTP, IdentifierTP, GreaterEqualTP, IdentifierTP,
		}},
		{Content: "a && !b || c < d > e", Expected: []TokenType{
			IdentifierTP, AndTP, NotTP, IdentifierTP, OrTP, IdentifierTP, LessTP, IdentifierTP, GreaterTP, IdentifierTP,
		}},
		{Content: "meth f() -> Str {}", Expected: []TokenType{
			MethTP, IdentifierTP, LeftParenthesesTP, RightParenthesesTP, ArrowTP, StrTP, LeftBraceTP, RightBraceTP,
		}},
		{Content: "a / b * -c + d", Expected: []TokenType{
			IdentifierTP, DivideTP, IdentifierTP, MultiplyTP, MinusTP, IdentifierTP, AddTP, IdentifierTP,
		}},
		{Content: "class B extends A { init() { super(); } }", Expected: []TokenType{
			ClassTP, IdentifierTP, ExtendsTP, IdentifierTP, LeftBraceTP, InitTP, LeftParenthesesTP, RightParenthesesTP,
			LeftBraceTP, SuperTP, LeftParenthesesTP, RightParenthesesTP, SemiColonTP, RightBraceTP, RightBraceTP,
		}},
		{Content: "this.x, new_1 Boolean Void true false", Expected: []TokenType{
			ThisTP, DotTP, IdentifierTP, CommaTP, IdentifierTP, BooleanTP, VoidTP, TrueTP, FalseTP,
		}},
		{Content: "print(\"a\") println(1) while break return if else fun new", Expected: []TokenType{
			PrintTP, LeftParenthesesTP, StringTP, RightParenthesesTP, PrintlnTP, LeftParenthesesTP, IntegerTP,
			RightParenthesesTP, WhileTP, BreakTP, ReturnTP, IfTP, ElseTP, FunTP, NewTP,
		}},
		{Content: "// only a comment", Expected: nil},
		{Content: "a /* b */ c // d\n e", Expected: []TokenType{IdentifierTP, IdentifierTP, IdentifierTP}},
	}
	tokenizer := &Tokenizer{}
	for _, data := range testData {
		tokenizer.Reset()
		tokens, err := tokenizer.Tokenize(bytes.NewReader([]byte(data.Content)))
		assert.Nil(t, err, data.Content)
		assert.Equal(t, data.Expected, tokenTypes(tokens), data.Content)
	}
}

func TestTokenizer_Positions(t *testing.T) {
	tokenizer := &Tokenizer{}
	tokens, err := tokenizer.Tokenize(bytes.NewReader([]byte("// hi\nx /* multi \n line */ y\n  \"s\"")))
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, Position{Line: 2, Column: 1}, tokens[0].Pos())
	assert.Equal(t, Position{Line: 3, Column: 10}, tokens[1].Pos())
	assert.Equal(t, Position{Line: 4, Column: 3}, tokens[2].Pos())
}

func TestTokenizer_TokenString(t *testing.T) {
	testData := []struct {
		Content  string
		Expected string
	}{
		{Content: `"hello"`, Expected: "hello"},
		{Content: `""`, Expected: ""},
		{Content: `"say \"hi\""`, Expected: `say \"hi\"`},
		{Content: `"tab\tnewline\n"`, Expected: `tab\tnewline\n`},
		// Decomposed e + combining acute accent is normalized to a single code point.
		{Content: "\"cafe\u0301\"", Expected: "caf\u00e9"},
	}
	tokenizer := &Tokenizer{}
	for _, data := range testData {
		tokens, err := tokenizer.Tokenize(bytes.NewReader([]byte(data.Content)))
		require.Nil(t, err, data.Content)
		require.Len(t, tokens, 1, data.Content)
		assert.Equal(t, StringTP, tokens[0].tp)
		assert.Equal(t, data.Expected, tokens[0].content)
	}
}

func TestTokenizer_Errors(t *testing.T) {
	testData := []struct {
		Content string
		Pos     Position
	}{
		{Content: `let s: Str = "abc`, Pos: Position{Line: 1, Column: 14}},
		{Content: "\"ab\ncd\"", Pos: Position{Line: 1, Column: 1}},
		{Content: "\"ab\\\ncd\"", Pos: Position{Line: 1, Column: 1}},
		{Content: "x = \"a\\\n\";", Pos: Position{Line: 1, Column: 5}},
		{Content: "x /* never closed", Pos: Position{Line: 1, Column: 3}},
		{Content: "a # b", Pos: Position{Line: 1, Column: 3}},
		{Content: "\n 12abc", Pos: Position{Line: 2, Column: 2}},
		{Content: "a & b", Pos: Position{Line: 1, Column: 3}},
	}
	tokenizer := &Tokenizer{}
	for _, data := range testData {
		tokens, err := tokenizer.Tokenize(bytes.NewReader([]byte(data.Content)))
		assert.Nil(t, tokens, data.Content)
		var diag *Diagnostic
		require.True(t, errors.As(err, &diag), data.Content)
		assert.Equal(t, KindSyntax, diag.Kind, data.Content)
		assert.Equal(t, data.Pos, diag.Pos, data.Content)
	}
}

func TestTokenizer_Reset(t *testing.T) {
	tokenizer := &Tokenizer{}
	_, err := tokenizer.Tokenize(bytes.NewReader([]byte("a\nb\nc")))
	require.Nil(t, err)
	tokens, err := tokenizer.Tokenize(bytes.NewReader([]byte("d")))
	require.Nil(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Position{Line: 1, Column: 1}, tokens[0].Pos())
}

package internal

import (
	"io"

	"classc/util"

	"golang.org/x/text/unicode/norm"
)

// A simple Tokenizer for the class language.

// The language has those elements:
// * KeyWord: class, extends, init, super, meth, fun, let, while, break, return, if, else, new,
//			this, true, false, print, println, Int, Str, Boolean, Void.
// * Symbol: {, }, (, ), ., ,, ;, :, +, -, *, /, !, =, ==, !=, <, >, <=, >=, &&, ||, ->.
// * Constant: integer, string ("xxx")
// * Identifier: letters, digits, underscore, not starting with a digit.
// * Comment: /**/, //.

type TokenType int

const (
	ClassTP            TokenType = iota // class
	ExtendsTP                           // extends
	InitTP                              // init
	SuperTP                             // super
	MethTP                              // meth
	FunTP                               // fun
	LetTP                               // let
	WhileTP                             // while
	BreakTP                             // break
	ReturnTP                            // return
	IfTP                                // if
	ElseTP                              // else
	NewTP                               // new
	ThisTP                              // this
	TrueTP                              // true
	FalseTP                             // false
	PrintTP                             // print
	PrintlnTP                           // println
	IntTP                               // Int
	StrTP                               // Str
	BooleanTP                           // Boolean
	VoidTP                              // Void
	LeftBraceTP                         // {
	RightBraceTP                        // }
	LeftParenthesesTP                   // (
	RightParenthesesTP                  // )
	DotTP                               // .
	CommaTP                             // ,
	SemiColonTP                         // ;
	ColonTP                             // :
	AddTP                               // +
	MinusTP                             // -
	MultiplyTP                          // *
	DivideTP                            // /
	NotTP                               // !
	AssignTP                            // =
	EqualTP                             // ==
	NotEqualTP                          // !=
	LessTP                              // <
	GreaterTP                           // >
	LessEqualTP                         // <=
	GreaterEqualTP                      // >=
	AndTP                               // &&
	OrTP                                // ||
	ArrowTP                             // ->
	IntegerTP                           // 1010
	StringTP                            // "xxx"
	IdentifierTP                        // varA
)

// keyWordTokenTPMap is the mapping from identifier to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"class":   ClassTP,
	"extends": ExtendsTP,
	"init":    InitTP,
	"super":   SuperTP,
	"meth":    MethTP,
	"fun":     FunTP,
	"let":     LetTP,
	"while":   WhileTP,
	"break":   BreakTP,
	"return":  ReturnTP,
	"if":      IfTP,
	"else":    ElseTP,
	"new":     NewTP,
	"this":    ThisTP,
	"true":    TrueTP,
	"false":   FalseTP,
	"print":   PrintTP,
	"println": PrintlnTP,
	"Int":     IntTP,
	"Str":     StrTP,
	"Boolean": BooleanTP,
	"Void":    VoidTP,
}

// simpleSymbolTokenTPMap is the mapping from single byte symbols to the corresponding TokenTP.
// Symbols that may start a two byte operator are handled by twoByteSymbolTokenTPMap first.
var simpleSymbolTokenTPMap = map[string]TokenType{
	"{": LeftBraceTP,
	"}": RightBraceTP,
	"(": LeftParenthesesTP,
	")": RightParenthesesTP,
	".": DotTP,
	",": CommaTP,
	";": SemiColonTP,
	":": ColonTP,
	"+": AddTP,
	"-": MinusTP,
	"*": MultiplyTP,
	"!": NotTP,
	"=": AssignTP,
	"<": LessTP,
	">": GreaterTP,
}

var twoByteSymbolTokenTPMap = map[string]TokenType{
	"==": EqualTP,
	"!=": NotEqualTP,
	"<=": LessEqualTP,
	">=": GreaterEqualTP,
	"&&": AndTP,
	"||": OrTP,
	"->": ArrowTP,
}

var tokenTypeNames = map[TokenType]string{
	IntegerTP:    "integer",
	StringTP:     "string",
	IdentifierTP: "identifier",
}

func init() {
	for content, tp := range keyWordTokenTPMap {
		tokenTypeNames[tp] = content
	}
	for content, tp := range simpleSymbolTokenTPMap {
		tokenTypeNames[tp] = content
	}
	for content, tp := range twoByteSymbolTokenTPMap {
		tokenTypeNames[tp] = content
	}
	tokenTypeNames[DivideTP] = "/"
}

func (tp TokenType) String() string {
	name, ok := tokenTypeNames[tp]
	if !ok {
		return "unknown"
	}
	return name
}

type Token struct {
	content string
	line    int
	column  int
	tp      TokenType
}

func (t *Token) Pos() Position {
	return Position{Line: t.line, Column: t.column}
}

func (t *Token) Type() TokenType {
	return t.tp
}

func (t *Token) Content() string {
	return t.content
}

func (t *Token) String() string {
	switch t.tp {
	case IdentifierTP, IntegerTP:
		return "'" + t.content + "'"
	case StringTP:
		return "string \"" + t.content + "\""
	}
	return "'" + t.tp.String() + "'"
}

type Tokenizer struct {
	source      []byte
	currentPos  int
	currentLine int
	lineStart   int
	tokens      []*Token
}

// Tokenize accepts a source `rd` and tokenizes its content according to the language rules.
// This method is the main method of this tokenizer. The source is normalized to NFC first so
// string literals reach the generated program in canonical form.
func (tokenizer *Tokenizer) Tokenize(rd io.Reader) ([]*Token, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	tokenizer.Reset()
	tokenizer.source = norm.NFC.Bytes(content)
	for {
		token, err := tokenizer.getNextToken()
		if err != nil {
			return nil, err
		}
		if token == nil {
			return tokenizer.tokens, nil
		}
		tokenizer.tokens = append(tokenizer.tokens, token)
	}
}

// getNextToken returns the next token, or nil when the source is exhausted.
func (tokenizer *Tokenizer) getNextToken() (*Token, error) {
	err := tokenizer.skipSpaceAndComments()
	if err != nil {
		return nil, err
	}
	if !tokenizer.hasRemainCharacters() {
		return nil, nil
	}
	b := tokenizer.source[tokenizer.currentPos]
	switch {
	case b == '"':
		return tokenizer.tokenString()
	case util.IsNumber(b):
		return tokenizer.tokenNumber()
	case util.IsIdentifierStart(b):
		return tokenizer.toKeywordOrIdentifier(), nil
	case b == '/':
		return tokenizer.makeToken(DivideTP, tokenizer.currentPos, tokenizer.currentPos+1), nil
	default:
		return tokenizer.tokenSymbol()
	}
}

// skipSpaceAndComments steps forward over whitespace, // comments and /* */ comments.
func (tokenizer *Tokenizer) skipSpaceAndComments() error {
	for tokenizer.hasRemainCharacters() {
		b := tokenizer.source[tokenizer.currentPos]
		if util.IsSpace(b) {
			tokenizer.stepForward()
			continue
		}
		if b != '/' || tokenizer.currentPos+1 >= len(tokenizer.source) {
			return nil
		}
		switch tokenizer.source[tokenizer.currentPos+1] {
		case '/':
			tokenizer.skipSingleLineComment()
		case '*':
			err := tokenizer.skipMultipleLineComment()
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (tokenizer *Tokenizer) skipSingleLineComment() {
	for tokenizer.hasRemainCharacters() && !util.IsNewLine(tokenizer.source[tokenizer.currentPos]) {
		tokenizer.stepForward()
	}
}

func (tokenizer *Tokenizer) skipMultipleLineComment() error {
	start := tokenizer.position()
	tokenizer.stepForward()
	tokenizer.stepForward()
	for tokenizer.currentPos+1 < len(tokenizer.source) {
		if tokenizer.source[tokenizer.currentPos] == '*' && tokenizer.source[tokenizer.currentPos+1] == '/' {
			tokenizer.stepForward()
			tokenizer.stepForward()
			return nil
		}
		tokenizer.stepForward()
	}
	return tokenizer.makeError(start, "unterminated comment")
}

func (tokenizer *Tokenizer) tokenSymbol() (*Token, error) {
	start := tokenizer.currentPos
	if start+1 < len(tokenizer.source) {
		if tp, ok := twoByteSymbolTokenTPMap[string(tokenizer.source[start:start+2])]; ok {
			return tokenizer.makeToken(tp, start, start+2), nil
		}
	}
	symbol := string(tokenizer.source[start])
	tp, ok := simpleSymbolTokenTPMap[symbol]
	if !ok {
		return nil, tokenizer.makeError(tokenizer.position(), "unexpected character %q", symbol)
	}
	return tokenizer.makeToken(tp, start, start+1), nil
}

// tokenString scans a double quoted string. The content keeps escape sequences as written;
// a string cannot span lines.
func (tokenizer *Tokenizer) tokenString() (*Token, error) {
	start := tokenizer.position()
	startPos := tokenizer.currentPos
	tokenizer.stepForward()
	for tokenizer.hasRemainCharacters() {
		b := tokenizer.source[tokenizer.currentPos]
		switch {
		case b == '"':
			token := &Token{
				content: string(tokenizer.source[startPos+1 : tokenizer.currentPos]),
				line:    start.Line,
				column:  start.Column,
				tp:      StringTP,
			}
			tokenizer.stepForward()
			return token, nil
		case b == '\\' && tokenizer.currentPos+1 < len(tokenizer.source) &&
			!util.IsNewLine(tokenizer.source[tokenizer.currentPos+1]):
			tokenizer.stepForward()
		case util.IsNewLine(b):
			return nil, tokenizer.makeError(start, "incorrect string format: newline in string")
		}
		tokenizer.stepForward()
	}
	return nil, tokenizer.makeError(start, "incorrect string format: missing closing quote")
}

func (tokenizer *Tokenizer) tokenNumber() (*Token, error) {
	start := tokenizer.currentPos
	end := start
	for end < len(tokenizer.source) && util.IsNumber(tokenizer.source[end]) {
		end++
	}
	// 12abc is neither a number nor an identifier.
	if end < len(tokenizer.source) && util.IsIdentifierStart(tokenizer.source[end]) {
		return nil, tokenizer.makeError(tokenizer.position(), "incorrect identifier format")
	}
	return tokenizer.makeToken(IntegerTP, start, end), nil
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier() *Token {
	start := tokenizer.currentPos
	end := start
	for end < len(tokenizer.source) && util.IsIdentifierPart(tokenizer.source[end]) {
		end++
	}
	tp, isKeyWord := keyWordTokenTPMap[string(tokenizer.source[start:end])]
	if !isKeyWord {
		tp = IdentifierTP
	}
	return tokenizer.makeToken(tp, start, end)
}

// makeToken builds a token over source[start:end] and moves past it. Tokens never span lines.
func (tokenizer *Tokenizer) makeToken(tp TokenType, start, end int) *Token {
	token := &Token{
		content: string(tokenizer.source[start:end]),
		line:    tokenizer.currentLine,
		column:  start - tokenizer.lineStart + 1,
		tp:      tp,
	}
	tokenizer.currentPos = end
	return token
}

func (tokenizer *Tokenizer) stepForward() {
	if util.IsNewLine(tokenizer.source[tokenizer.currentPos]) {
		tokenizer.currentLine++
		tokenizer.lineStart = tokenizer.currentPos + 1
	}
	tokenizer.currentPos++
}

func (tokenizer *Tokenizer) hasRemainCharacters() bool {
	return tokenizer.currentPos < len(tokenizer.source)
}

func (tokenizer *Tokenizer) position() Position {
	return Position{Line: tokenizer.currentLine, Column: tokenizer.currentPos - tokenizer.lineStart + 1}
}

func (tokenizer *Tokenizer) makeError(pos Position, format string, args ...interface{}) error {
	return newDiagnostic(KindSyntax, pos, format, args...)
}

func (tokenizer *Tokenizer) Reset() {
	tokenizer.source, tokenizer.tokens = nil, nil
	tokenizer.currentPos, tokenizer.currentLine, tokenizer.lineStart = 0, 1, 0
}

package lex

import (
	"github.com/dekarrin/proto3c/internal/protoerr"
	"github.com/dekarrin/proto3c/symbol"
)

// punctuation maps each single-character punctuation token to its
// terminal, per §4.4's punctuation rule.
var punctuation = map[byte]symbol.Terminal{
	'{': symbol.LBRACE,
	'}': symbol.RBRACE,
	'[': symbol.LBRACKET,
	']': symbol.RBRACKET,
	'(': symbol.LPAREN,
	')': symbol.RPAREN,
	'<': symbol.LANGLE,
	'>': symbol.RANGLE,
	',': symbol.COMMA,
	'.': symbol.DOT,
	';': symbol.SEMI,
	'=': symbol.EQUALS,
	':': symbol.COLON,
}

// TokenStream is a cursor over a fully lexed token list, in the style of
// the teacher repo's tokenStream (internal/tunascript/lexer.go).
type TokenStream struct {
	tokens []Token
	cur    int
}

// NewTokenStream wraps a token slice (which must end in an EOF token) for
// sequential consumption.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Next returns the current token and advances the cursor, unless already
// at the trailing EOF token.
func (ts *TokenStream) Next() Token {
	t := ts.tokens[ts.cur]
	if ts.cur < len(ts.tokens)-1 {
		ts.cur++
	}
	return t
}

// Peek returns the current token without advancing.
func (ts *TokenStream) Peek() Token {
	return ts.tokens[ts.cur]
}

type tokenizer struct {
	src     string
	file    string
	pos     int
	line    int
	col     int
	lastErr error
}

// Tokenize lexes src (labeled file for diagnostics) into a token list
// terminated by exactly one EOF token whose span points one past the last
// byte, per §4.4. On a lexer error it returns a *protoerr.ParseError.
func Tokenize(src, file string) ([]Token, error) {
	t := &tokenizer{src: src, file: file, line: 1, col: 1}
	var tokens []Token

	for {
		t.skipWhitespaceAndComments()
		if err := t.lastErr; err != nil {
			return nil, err
		}
		if t.atEOF() {
			break
		}

		tok, err := t.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	tokens = append(tokens, Token{
		Kind: symbol.EOF,
		Text: "",
		Span: t.spanAt(t.pos, t.pos),
	})
	return tokens, nil
}

func (t *tokenizer) atEOF() bool {
	return t.pos >= len(t.src)
}

func (t *tokenizer) peekByte() byte {
	if t.atEOF() {
		return 0
	}
	return t.src[t.pos]
}

func (t *tokenizer) peekByteAt(offset int) byte {
	if t.pos+offset >= len(t.src) {
		return 0
	}
	return t.src[t.pos+offset]
}

func (t *tokenizer) advance() byte {
	ch := t.src[t.pos]
	t.pos++
	if ch == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return ch
}

func (t *tokenizer) spanAt(start, end int) Span {
	return Span{
		File:        t.file,
		StartOffset: start,
		EndOffset:   end,
		StartLine:   t.line,
		StartColumn: t.col,
	}
}

// skipWhitespaceAndComments consumes whitespace, line comments, and block
// comments. lastErr is set if a block comment is left unterminated.
func (t *tokenizer) skipWhitespaceAndComments() {
	for {
		switch {
		case t.atEOF():
			return
		case isSpace(t.peekByte()):
			t.advance()
		case t.peekByte() == '/' && t.peekByteAt(1) == '/':
			for !t.atEOF() && t.peekByte() != '\n' {
				t.advance()
			}
		case t.peekByte() == '/' && t.peekByteAt(1) == '*':
			startLine, startCol, startOff := t.line, t.col, t.pos
			t.advance()
			t.advance()
			closed := false
			for !t.atEOF() {
				if t.peekByte() == '*' && t.peekByteAt(1) == '/' {
					t.advance()
					t.advance()
					closed = true
					break
				}
				t.advance()
			}
			if !closed {
				t.lastErr = protoerr.AtSpan(
					Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol},
					"unterminated block comment",
				)
				return
			}
		default:
			return
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// next lexes exactly one token from the current position, which is
// guaranteed not to be whitespace, a comment, or EOF.
func (t *tokenizer) next() (Token, error) {
	startOff, startLine, startCol := t.pos, t.line, t.col
	ch := t.peekByte()

	switch {
	case isIdentStart(ch):
		return t.lexIdentOrKeyword(startOff, startLine, startCol), nil
	case isDigit(ch):
		return t.lexNumber(startOff, startLine, startCol), nil
	case ch == '-' && isDigit(t.peekByteAt(1)):
		t.advance() // consume '-'
		return t.lexNumber(startOff, startLine, startCol), nil
	case ch == '\'' || ch == '"':
		return t.lexString(startOff, startLine, startCol)
	default:
		if term, ok := punctuation[ch]; ok {
			t.advance()
			return Token{
				Kind: term,
				Text: string(ch),
				Span: Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol},
			}, nil
		}
		t.advance()
		return Token{}, protoerr.AtSpanf(
			Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol},
			"unknown character %q", ch,
		)
	}
}

func (t *tokenizer) lexIdentOrKeyword(startOff, startLine, startCol int) Token {
	for !t.atEOF() && isIdentCont(t.peekByte()) {
		t.advance()
	}
	text := t.src[startOff:t.pos]
	span := Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol}

	kind := symbol.Ident
	if kw, ok := symbol.Keywords[text]; ok {
		kind = kw
	}
	return Token{Kind: kind, Text: text, Span: span}
}

// lexNumber lexes an integer or float literal starting at the current
// position (a digit, per §4.4: decimal, hex 0[xX][0-9A-Fa-f]+, octal
// 0[0-7]*, or a decimal with '.' and/or exponent).
func (t *tokenizer) lexNumber(startOff, startLine, startCol int) Token {
	isFloat := false

	if t.peekByte() == '0' && (t.peekByteAt(1) == 'x' || t.peekByteAt(1) == 'X') {
		t.advance()
		t.advance()
		for !t.atEOF() && isHexDigit(t.peekByte()) {
			t.advance()
		}
	} else {
		for !t.atEOF() && isDigit(t.peekByte()) {
			t.advance()
		}
		if t.peekByte() == '.' && isDigit(t.peekByteAt(1)) {
			isFloat = true
			t.advance()
			for !t.atEOF() && isDigit(t.peekByte()) {
				t.advance()
			}
		}
		if t.peekByte() == 'e' || t.peekByte() == 'E' {
			la := 1
			if t.peekByteAt(1) == '+' || t.peekByteAt(1) == '-' {
				la = 2
			}
			if isDigit(t.peekByteAt(la)) {
				isFloat = true
				for i := 0; i < la; i++ {
					t.advance()
				}
				for !t.atEOF() && isDigit(t.peekByte()) {
					t.advance()
				}
			}
		}
	}

	kind := symbol.IntLit
	if isFloat {
		kind = symbol.FloatLit
	}
	return Token{
		Kind: kind,
		Text: t.src[startOff:t.pos],
		Span: Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol},
	}
}

// lexString lexes a single- or double-quoted string literal, per §4.4:
// escape sequences \n \r \t \\ \' \" \0 \xHH \uHHHH \UHHHHHHHH \ooo, no
// raw newlines inside the string.
func (t *tokenizer) lexString(startOff, startLine, startCol int) (Token, error) {
	quote := t.advance()
	for {
		if t.atEOF() || t.peekByte() == '\n' {
			return Token{}, protoerr.AtSpan(
				Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol},
				"unterminated string literal",
			)
		}
		ch := t.peekByte()
		if ch == quote {
			t.advance()
			break
		}
		if ch == '\\' {
			t.advance()
			t.lexEscape()
			continue
		}
		t.advance()
	}
	return Token{
		Kind: symbol.StringLit,
		Text: t.src[startOff:t.pos],
		Span: Span{File: t.file, StartOffset: startOff, EndOffset: t.pos, StartLine: startLine, StartColumn: startCol},
	}, nil
}

// lexEscape consumes the body of an escape sequence immediately following
// a backslash already consumed by the caller.
func (t *tokenizer) lexEscape() {
	if t.atEOF() {
		return
	}
	switch t.peekByte() {
	case 'n', 'r', 't', '\\', '\'', '"', '0':
		t.advance()
	case 'x':
		t.advance()
		for i := 0; i < 2 && isHexDigit(t.peekByte()); i++ {
			t.advance()
		}
	case 'u':
		t.advance()
		for i := 0; i < 4 && isHexDigit(t.peekByte()); i++ {
			t.advance()
		}
	case 'U':
		t.advance()
		for i := 0; i < 8 && isHexDigit(t.peekByte()); i++ {
			t.advance()
		}
	default:
		if isOctalDigit(t.peekByte()) {
			for i := 0; i < 3 && isOctalDigit(t.peekByte()); i++ {
				t.advance()
			}
		} else {
			t.advance()
		}
	}
}

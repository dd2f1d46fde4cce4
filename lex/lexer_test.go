package lex

import (
	"testing"

	"github.com/dekarrin/proto3c/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tokenize_Kinds(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		wantKinds []symbol.Terminal
		wantTexts []string
	}{
		{
			name:      "keyword vs identifier",
			src:       "message Foo",
			wantKinds: []symbol.Terminal{symbol.KwMessage, symbol.Ident, symbol.EOF},
			wantTexts: []string{"message", "Foo", ""},
		},
		{
			name:      "keyword matching is case sensitive",
			src:       "Message",
			wantKinds: []symbol.Terminal{symbol.Ident, symbol.EOF},
			wantTexts: []string{"Message", ""},
		},
		{
			name:      "max is a plain identifier, not a keyword",
			src:       "max",
			wantKinds: []symbol.Terminal{symbol.Ident, symbol.EOF},
			wantTexts: []string{"max", ""},
		},
		{
			name:      "punctuation",
			src:       "{}[]()<>,.;=:",
			wantKinds: []symbol.Terminal{symbol.LBRACE, symbol.RBRACE, symbol.LBRACKET, symbol.RBRACKET, symbol.LPAREN, symbol.RPAREN, symbol.LANGLE, symbol.RANGLE, symbol.COMMA, symbol.DOT, symbol.SEMI, symbol.EQUALS, symbol.COLON, symbol.EOF},
		},
		{
			name:      "decimal int literal",
			src:       "42",
			wantKinds: []symbol.Terminal{symbol.IntLit, symbol.EOF},
			wantTexts: []string{"42", ""},
		},
		{
			name:      "negative int literal",
			src:       "-42",
			wantKinds: []symbol.Terminal{symbol.IntLit, symbol.EOF},
			wantTexts: []string{"-42", ""},
		},
		{
			name:      "hex int literal",
			src:       "0x1A",
			wantKinds: []symbol.Terminal{symbol.IntLit, symbol.EOF},
			wantTexts: []string{"0x1A", ""},
		},
		{
			name:      "octal int literal",
			src:       "0755",
			wantKinds: []symbol.Terminal{symbol.IntLit, symbol.EOF},
			wantTexts: []string{"0755", ""},
		},
		{
			name:      "float literal with fraction and exponent",
			src:       "3.14e-2",
			wantKinds: []symbol.Terminal{symbol.FloatLit, symbol.EOF},
			wantTexts: []string{"3.14e-2", ""},
		},
		{
			name:      "double-quoted string literal",
			src:       `"hello\nworld"`,
			wantKinds: []symbol.Terminal{symbol.StringLit, symbol.EOF},
			wantTexts: []string{`"hello\nworld"`, ""},
		},
		{
			name:      "single-quoted string literal",
			src:       `'it\'s fine'`,
			wantKinds: []symbol.Terminal{symbol.StringLit, symbol.EOF},
		},
		{
			name:      "line comment skipped",
			src:       "// a comment\nmessage",
			wantKinds: []symbol.Terminal{symbol.KwMessage, symbol.EOF},
		},
		{
			name:      "block comment skipped",
			src:       "/* a\nmultiline\ncomment */ message",
			wantKinds: []symbol.Terminal{symbol.KwMessage, symbol.EOF},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			toks, err := Tokenize(tc.src, "test.proto")
			require.NoError(err)
			require.Len(toks, len(tc.wantKinds))

			for i, k := range tc.wantKinds {
				assert.Equal(k, toks[i].Kind, "token %d kind", i)
			}
			for i, text := range tc.wantTexts {
				assert.Equal(text, toks[i].Text, "token %d text", i)
			}
		})
	}
}

func Test_Tokenize_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "unterminated block comment", src: "/* never closed"},
		{name: "unterminated string literal", src: `"never closed`},
		{name: "raw newline in string literal", src: "\"has\nnewline\""},
		{name: "unknown character", src: "message $foo"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.src, "test.proto")
			assert.Error(t, err)
		})
	}
}

func Test_Tokenize_EOFSpanIsEmptyAtEnd(t *testing.T) {
	toks, err := Tokenize("message", "test.proto")
	require.NoError(t, err)

	eof := toks[len(toks)-1]
	assert.Equal(t, symbol.EOF, eof.Kind)
	assert.Equal(t, eof.Span.StartOffset, eof.Span.EndOffset)
	assert.Equal(t, len("message"), eof.Span.StartOffset)
}

func Test_TokenStream_NextAndPeek(t *testing.T) {
	toks, err := Tokenize("message Foo", "test.proto")
	require.NoError(t, err)

	ts := NewTokenStream(toks)
	assert.Equal(t, symbol.KwMessage, ts.Peek().Kind)
	assert.Equal(t, symbol.KwMessage, ts.Next().Kind)
	assert.Equal(t, symbol.Ident, ts.Next().Kind)

	// Next at EOF stays at EOF rather than running off the end.
	assert.Equal(t, symbol.EOF, ts.Next().Kind)
	assert.Equal(t, symbol.EOF, ts.Next().Kind)
}

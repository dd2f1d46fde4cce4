// Package lex turns proto3 source text into a stream of Tokens terminated
// by exactly one EOF token, per §4.4 of the tokenizer design.
package lex

import (
	"fmt"

	"github.com/dekarrin/proto3c/symbol"
)

// Span identifies a range of source text for diagnostics and for the
// formatter's span-carrying AST nodes.
type Span struct {
	File        string
	StartOffset int
	EndOffset   int
	StartLine   int
	StartColumn int
}

// String renders the span as "file:line:column".
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartColumn)
}

// Token is a single lexed unit: its terminal kind, the exact source text
// matched, and the span it occupies. Tokens are immutable once produced.
type Token struct {
	Kind symbol.Terminal
	Text string
	Span Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Span)
}

package parser

import (
	"testing"

	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/internal/protoerr"
	"github.com/dekarrin/proto3c/lex"
	"github.com/dekarrin/proto3c/symbol"
	"github.com/dekarrin/proto3c/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ntE  symbol.NonTerminal = "E"
	ntT  symbol.NonTerminal = "T"
	tID  symbol.Terminal    = "id"
	tAdd symbol.Terminal    = "+"
)

// sumExpr is the semantic value a reduction of E -> E + T builds: the
// running total plus the newly reduced term's value.
type sumExpr int

func buildTable(t *testing.T) *table.ParseTable {
	t.Helper()

	plus := func(vals []any) any {
		return sumExpr(vals[0].(sumExpr) + vals[2].(sumExpr))
	}
	passThroughE := func(vals []any) any { return vals[0] }
	idToTerm := func(vals []any) any {
		return sumExpr(len(vals[0].(lex.Token).Text))
	}

	g, err := grammar.NewBuilder(ntE).
		Terminal(tID).
		Terminal(tAdd).
		Rule(ntE, []symbol.Symbol{ntE, tAdd, ntT}, plus).
		Rule(ntE, []symbol.Symbol{ntT}, passThroughE).
		Rule(ntT, []symbol.Symbol{tID}, idToTerm).
		Build()
	require.NoError(t, err)

	tbl, err := table.Build(g)
	require.NoError(t, err)
	return tbl
}

func tok(kind symbol.Terminal, text string) lex.Token {
	return lex.Token{Kind: kind, Text: text}
}

func Test_Parse_AcceptsAndReducesSimpleSum(t *testing.T) {
	tbl := buildTable(t)

	// "id + id" where each "id" token's text length feeds idToTerm, so the
	// result is just the sum of the two tokens' text lengths.
	tokens := []lex.Token{
		tok(tID, "ab"),
		tok(tAdd, "+"),
		tok(tID, "abcd"),
		tok(symbol.EOF, ""),
	}

	v, err := Parse(tbl, tokens)
	require.NoError(t, err)
	assert.Equal(t, sumExpr(6), v)
}

func Test_Parse_SingleTermAccepts(t *testing.T) {
	tbl := buildTable(t)
	tokens := []lex.Token{
		tok(tID, "xyz"),
		tok(symbol.EOF, ""),
	}

	v, err := Parse(tbl, tokens)
	require.NoError(t, err)
	assert.Equal(t, sumExpr(3), v)
}

func Test_Parse_UnexpectedTokenReportsExpectedHint(t *testing.T) {
	tbl := buildTable(t)
	tokens := []lex.Token{
		tok(tAdd, "+"),
		tok(symbol.EOF, ""),
	}

	_, err := Parse(tbl, tokens)
	require.Error(t, err)

	var parseErr *protoerr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "unexpected")
	assert.Contains(t, parseErr.Hint, "expected one of")
	assert.Contains(t, parseErr.Hint, "id")
}

func Test_Parse_UnexpectedEOFDisplaysAsEndOfFile(t *testing.T) {
	tbl := buildTable(t)
	tokens := []lex.Token{
		tok(tID, "a"),
		tok(tAdd, "+"),
		tok(symbol.EOF, ""),
	}

	_, err := Parse(tbl, tokens)
	require.Error(t, err)
	var parseErr *protoerr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "end of file")
}

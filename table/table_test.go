package table

import (
	"testing"

	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ntE  symbol.NonTerminal = "E"
	ntT  symbol.NonTerminal = "T"
	tID  symbol.Terminal    = "id"
	tAdd symbol.Terminal    = "+"
)

func passThrough(vals []any) any { return vals }

func exprGrammar(t *testing.T) grammar.Grammar {
	t.Helper()
	g, err := grammar.NewBuilder(ntE).
		Terminal(tID).
		Terminal(tAdd).
		Rule(ntE, []symbol.Symbol{ntE, tAdd, ntT}, passThrough).
		Rule(ntE, []symbol.Symbol{ntT}, passThrough).
		Rule(ntT, []symbol.Symbol{tID}, passThrough).
		Build()
	require.NoError(t, err)
	return g
}

func Test_Build_ExprGrammar_AcceptsSimpleInput(t *testing.T) {
	g := exprGrammar(t)
	tbl, err := Build(g)
	require.NoError(t, err)

	assert.Greater(t, tbl.NumStates(), 0)
	assert.Equal(t, g, tbl.Grammar())

	// state 0 must have a shift action on "id", since every sentence in
	// this grammar starts with an identifier.
	act, ok := tbl.Action(0, tID)
	require.True(t, ok)
	assert.Equal(t, Shift, act.Kind)
}

func Test_Build_EmitsAcceptOnAugmentedStartOverEOF(t *testing.T) {
	g := exprGrammar(t)
	tbl, err := Build(g)
	require.NoError(t, err)

	// Drive id through to the state holding S' -> S . $ and confirm the
	// table says Accept there, not Shift: a stray Shift would send the
	// driver one token past the end of the stream on every successful
	// parse.
	state, ok := tbl.Goto(0, ntE)
	require.True(t, ok, "state 0 must have a goto on E after reducing T to E")
	act, ok := tbl.Action(state.State, symbol.EOF)
	require.True(t, ok, "expected an action on EOF from the post-E state")
	assert.Equal(t, Accept, act.Kind)
}

func Test_Build_AmbiguousGrammar_ReportsConflict(t *testing.T) {
	// The classic dangling-else-shaped ambiguity: S -> if S | if S else S | id,
	// which forces a shift/reduce conflict with no precedence table to
	// resolve it.
	const (
		ntS    symbol.NonTerminal = "S"
		kwIf   symbol.Terminal    = "if"
		kwElse symbol.Terminal    = "else"
	)
	g, err := grammar.NewBuilder(ntS).
		Terminal(kwIf).
		Terminal(kwElse).
		Terminal(tID).
		Rule(ntS, []symbol.Symbol{kwIf, ntS}, passThrough).
		Rule(ntS, []symbol.Symbol{kwIf, ntS, kwElse, ntS}, passThrough).
		Rule(ntS, []symbol.Symbol{tID}, passThrough).
		Build()
	require.NoError(t, err)

	_, err = Build(g)
	require.Error(t, err)
	var confErr *ConflictError
	assert.ErrorAs(t, err, &confErr)
}

func Test_ParseTable_Terminals_SortedBySymbolName(t *testing.T) {
	g := exprGrammar(t)
	tbl, err := Build(g)
	require.NoError(t, err)

	terms := tbl.Terminals(0)
	for i := 1; i < len(terms); i++ {
		assert.True(t, terms[i-1].SymbolName() <= terms[i].SymbolName())
	}
}

func Test_ActionKind_String(t *testing.T) {
	testCases := []struct {
		kind ActionKind
		want string
	}{
		{Shift, "shift"},
		{Reduce, "reduce"},
		{Accept, "accept"},
		{Goto, "goto"},
		{ErrorAction, "error"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.kind.String())
	}
}

func Test_ConflictError_Error_NamesConflictKind(t *testing.T) {
	g := exprGrammar(t)
	err := &ConflictError{
		State:     3,
		Lookahead: tAdd,
		Existing:  Action{Kind: Reduce, Prod: 1},
		New:       Action{Kind: Shift, State: 5},
		g:         g,
	}
	assert.Contains(t, err.Error(), "shift/reduce conflict")
	assert.Contains(t, err.Error(), "state 3")
}

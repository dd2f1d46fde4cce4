package automaton

import (
	"testing"

	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The classic E -> E + T | T ; T -> id textbook grammar, used purely to
// exercise FIRST-set computation and canonical/LALR collection building
// independently of the concrete proto3 grammar.
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

func Test_ComputeFirst(t *testing.T) {
	g := exprGrammar(t)
	first := ComputeFirst(g)

	assert.Equal(t, map[symbol.Terminal]bool{tID: true}, first[ntE])
	assert.Equal(t, map[symbol.Terminal]bool{tID: true}, first[ntT])
}

func Test_ComputeFirst_NullableProduction(t *testing.T) {
	const ntOpt symbol.NonTerminal = "OPT"
	g, err := grammar.NewBuilder(ntOpt).
		Terminal(tID).
		Rule(ntOpt, []symbol.Symbol{tID}, passThrough).
		Rule(ntOpt, []symbol.Symbol{}, passThrough).
		Build()
	require.NoError(t, err)

	first := ComputeFirst(g)
	assert.True(t, first[ntOpt][tID])
	assert.True(t, first[ntOpt][epsilon])
}

func Test_BuildCanonicalLR1_StartStateIsClosureOfAugmentedStart(t *testing.T) {
	g := exprGrammar(t)
	first := ComputeFirst(g)
	col := BuildCanonicalLR1(g, first)

	require.NotEmpty(t, col.States)
	assert.Equal(t, 0, col.Start)
	assert.Len(t, col.Trans, len(col.States))

	start := col.States[col.Start]
	_, ok := start[grammar.Item{Prod: 0, Dot: 0, Lookahead: symbol.EOF}]
	assert.True(t, ok, "start state must contain the initial augmented-start item")
}

func Test_BuildCanonicalLR1_TransitionsStayInBounds(t *testing.T) {
	g := exprGrammar(t)
	first := ComputeFirst(g)
	col := BuildCanonicalLR1(g, first)

	for i, trans := range col.Trans {
		for sym, j := range trans {
			assert.True(t, j >= 0 && j < len(col.States), "state %d transition on %q targets out-of-range state %d", i, sym, j)
		}
	}
}

func Test_MergeLALR_PreservesReachabilityAndStartState(t *testing.T) {
	g := exprGrammar(t)
	first := ComputeFirst(g)
	col := BuildCanonicalLR1(g, first)
	merged := MergeLALR(col)

	require.NotEmpty(t, merged.States)
	assert.LessOrEqual(t, len(merged.States), len(col.States))
	assert.Equal(t, 0, merged.Start)

	for i, trans := range merged.Trans {
		for sym, j := range trans {
			assert.True(t, j >= 0 && j < len(merged.States), "merged state %d transition on %q targets out-of-range state %d", i, sym, j)
		}
	}
}

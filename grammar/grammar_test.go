package grammar

import (
	"testing"

	"github.com/dekarrin/proto3c/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ntExpr symbol.NonTerminal = "EXPR"
	tNum   symbol.Terminal    = "NUM"
	tPlus  symbol.Terminal    = "+"
)

func sumAction(vals []any) any {
	return vals
}

func Test_Builder_Build_AddsAugmentedStart(t *testing.T) {
	g, err := NewBuilder(ntExpr).
		Terminal(tNum).
		Terminal(tPlus).
		Rule(ntExpr, []symbol.Symbol{ntExpr, tPlus, tNum}, sumAction).
		Rule(ntExpr, []symbol.Symbol{tNum}, sumAction).
		Build()
	require.NoError(t, err)

	assert.Equal(t, symbol.NTAugStart, g.Productions[0].Head)
	assert.Equal(t, []symbol.Symbol{ntExpr, symbol.EOF}, g.Productions[0].Body)
	assert.Equal(t, symbol.NTAugStart, g.NonTerminals[0])
	assert.Contains(t, g.Terminals, symbol.EOF)
	assert.True(t, g.IsTerminal(tNum))
	assert.False(t, g.IsTerminal(ntExpr))
}

func Test_Builder_Build_RejectsReservedAugStart(t *testing.T) {
	_, err := NewBuilder(symbol.NTAugStart).
		Rule(symbol.NTAugStart, []symbol.Symbol{tNum}, sumAction).
		Build()
	assert.Error(t, err)
}

func Test_Builder_Build_RejectsExplicitEOFTerminal(t *testing.T) {
	_, err := NewBuilder(ntExpr).
		Terminal(symbol.EOF).
		Rule(ntExpr, []symbol.Symbol{symbol.EOF}, sumAction).
		Build()
	assert.Error(t, err)
}

func Test_Grammar_Validate_RejectsUndeclaredSymbols(t *testing.T) {
	g := Grammar{
		Start:   ntExpr,
		termSet: map[symbol.Terminal]bool{},
		ntSet:   map[symbol.NonTerminal]bool{ntExpr: true, symbol.NTAugStart: true},
		Productions: []Production{
			{Head: symbol.NTAugStart, Body: []symbol.Symbol{ntExpr, symbol.EOF}},
			{Head: ntExpr, Body: []symbol.Symbol{tNum}},
		},
	}
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared terminal")
}

func Test_Grammar_ProductionsFor(t *testing.T) {
	g, err := NewBuilder(ntExpr).
		Terminal(tNum).
		Terminal(tPlus).
		Rule(ntExpr, []symbol.Symbol{ntExpr, tPlus, tNum}, sumAction).
		Rule(ntExpr, []symbol.Symbol{tNum}, sumAction).
		Build()
	require.NoError(t, err)

	indices := g.ProductionsFor(ntExpr)
	require.Len(t, indices, 2)
	for _, i := range indices {
		assert.Equal(t, ntExpr, g.Productions[i].Head)
	}
}

func Test_Production_String(t *testing.T) {
	withBody := Production{Head: ntExpr, Body: []symbol.Symbol{ntExpr, tPlus, tNum}}
	assert.Equal(t, "EXPR -> EXPR + NUM", withBody.String())

	empty := Production{Head: ntExpr}
	assert.Equal(t, "EXPR -> ε", empty.String())
}

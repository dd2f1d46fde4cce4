package grammar

import (
	"fmt"

	"github.com/dekarrin/proto3c/symbol"
)

// Item is an LR(1) item: a production annotated with how far parsing has
// progressed through its body (Dot) and a lookahead terminal. Dot ranges
// from 0 (nothing matched yet) to len(body) (production fully matched).
type Item struct {
	Prod      int
	Dot       int
	Lookahead symbol.Terminal
}

// Core is the LR(0) projection of an Item, used to find the "core" of an
// item set for LALR merging (per §3: sets sharing a core are merged).
type Core struct {
	Prod int
	Dot  int
}

// Core returns the LR(0) core of the item.
func (it Item) Core() Core {
	return Core{Prod: it.Prod, Dot: it.Dot}
}

// AtEnd reports whether the dot has reached the end of the production's
// body (i.e. this item represents a completed production).
func (it Item) AtEnd(g Grammar) bool {
	return it.Dot >= len(g.Productions[it.Prod].Body)
}

// NextSymbol returns the symbol immediately after the dot and true, or
// the zero value and false if the dot is at the end.
func (it Item) NextSymbol(g Grammar) (symbol.Symbol, bool) {
	body := g.Productions[it.Prod].Body
	if it.Dot >= len(body) {
		return nil, false
	}
	return body[it.Dot], true
}

// Advance returns the item with its dot moved one position to the right.
func (it Item) Advance() Item {
	return Item{Prod: it.Prod, Dot: it.Dot + 1, Lookahead: it.Lookahead}
}

// String renders the item as "HEAD -> α . β, lookahead".
func (it Item) String(g Grammar) string {
	p := g.Productions[it.Prod]
	left := ""
	for i := 0; i < it.Dot; i++ {
		left += p.Body[i].SymbolName() + " "
	}
	right := ""
	for i := it.Dot; i < len(p.Body); i++ {
		right += " " + p.Body[i].SymbolName()
	}
	return fmt.Sprintf("%s -> %s.%s, %s", p.Head, left, right, it.Lookahead)
}

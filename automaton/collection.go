package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/symbol"
)

// ItemSet is a set of LR(1) items.
type ItemSet map[grammar.Item]struct{}

func newItemSet(items ...grammar.Item) ItemSet {
	s := make(ItemSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s ItemSet) add(it grammar.Item) bool {
	if _, ok := s[it]; ok {
		return false
	}
	s[it] = struct{}{}
	return true
}

// sortedItems returns the set's items in a deterministic order, for use in
// signature computation and diagnostics.
func (s ItemSet) sortedItems() []grammar.Item {
	out := make([]grammar.Item, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Prod != b.Prod {
			return a.Prod < b.Prod
		}
		if a.Dot != b.Dot {
			return a.Dot < b.Dot
		}
		return a.Lookahead < b.Lookahead
	})
	return out
}

// signature is a canonical string uniquely identifying the exact contents
// of an LR(1) item set (core + lookaheads), used to dedupe states during
// canonical collection construction.
func (s ItemSet) signature() string {
	items := s.sortedItems()
	out := make([]byte, 0, len(items)*8)
	for _, it := range items {
		out = append(out, fmt.Sprintf("%d.%d,%s|", it.Prod, it.Dot, it.Lookahead)...)
	}
	return string(out)
}

// coreSignature is a canonical string identifying only the LR(0) core
// (production, dot) pairs of an item set, ignoring lookaheads. Two item
// sets with the same core signature are merge candidates for LALR(1).
func (s ItemSet) coreSignature() string {
	seen := map[grammar.Core]bool{}
	var cores []grammar.Core
	for it := range s {
		c := it.Core()
		if !seen[c] {
			seen[c] = true
			cores = append(cores, c)
		}
	}
	sort.Slice(cores, func(i, j int) bool {
		if cores[i].Prod != cores[j].Prod {
			return cores[i].Prod < cores[j].Prod
		}
		return cores[i].Dot < cores[j].Dot
	})
	out := make([]byte, 0, len(cores)*6)
	for _, c := range cores {
		out = append(out, fmt.Sprintf("%d.%d|", c.Prod, c.Dot)...)
	}
	return string(out)
}

// closure computes the closure of an item set: for every item
// (A -> α . B β, a) in the set and every production B -> γ, add
// (B -> . γ, b) for each b in FIRST(β a), repeating until no more items
// are added.
func closure(g grammar.Grammar, first FirstSets, items ItemSet) ItemSet {
	result := make(ItemSet, len(items))
	for it := range items {
		result[it] = struct{}{}
	}

	changed := true
	for changed {
		changed = false
		for it := range result {
			next, ok := it.NextSymbol(g)
			if !ok {
				continue
			}
			nt, ok := next.(symbol.NonTerminal)
			if !ok {
				continue
			}
			beta := g.Productions[it.Prod].Body[it.Dot+1:]
			lookaheads := firstOfSequenceWithLookahead(g, first, beta, it.Lookahead)

			for _, pi := range g.ProductionsFor(nt) {
				for la := range lookaheads {
					newItem := grammar.Item{Prod: pi, Dot: 0, Lookahead: la}
					if result.add(newItem) {
						changed = true
					}
				}
			}
		}
	}
	return result
}

// gotoSet computes GOTO(items, X): the closure of every item advanced past
// symbol X.
func gotoSet(g grammar.Grammar, first FirstSets, items ItemSet, x symbol.Symbol) ItemSet {
	moved := ItemSet{}
	for it := range items {
		next, ok := it.NextSymbol(g)
		if !ok {
			continue
		}
		if next.SymbolName() == x.SymbolName() && next.IsTerminal() == x.IsTerminal() {
			moved[it.Advance()] = struct{}{}
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closure(g, first, moved)
}

// allSymbols returns every terminal and non-terminal of g, in a stable
// order, for use in transition enumeration.
func allSymbols(g grammar.Grammar) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(g.Terminals)+len(g.NonTerminals))
	for _, t := range g.Terminals {
		out = append(out, t)
	}
	for _, nt := range g.NonTerminals {
		out = append(out, nt)
	}
	return out
}

// Collection is the canonical LR(1) collection of item sets for a grammar,
// together with its GOTO transitions, both indexed by integer state id.
type Collection struct {
	States []ItemSet
	Trans  []map[string]int // Trans[state][symbolName] = nextState
	Start  int
}

// BuildCanonicalLR1 constructs the canonical LR(1) collection of sets of
// items for g, per §4.3: state 0 is the closure of
// {(S' -> . S $, $)}; for every reachable state and every grammar symbol X,
// GOTO(state, X) is computed and added if new.
func BuildCanonicalLR1(g grammar.Grammar, first FirstSets) *Collection {
	startProd := 0 // S' -> S $ is always production 0 after grammar.Build
	startItem := grammar.Item{Prod: startProd, Dot: 0, Lookahead: symbol.EOF}
	start := closure(g, first, newItemSet(startItem))

	col := &Collection{Start: 0}
	indexBySig := map[string]int{}

	col.States = append(col.States, start)
	col.Trans = append(col.Trans, map[string]int{})
	indexBySig[start.signature()] = 0

	symbols := allSymbols(g)

	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		for _, x := range symbols {
			nextSet := gotoSet(g, first, col.States[i], x)
			if nextSet == nil {
				continue
			}
			sig := nextSet.signature()
			j, exists := indexBySig[sig]
			if !exists {
				j = len(col.States)
				col.States = append(col.States, nextSet)
				col.Trans = append(col.Trans, map[string]int{})
				indexBySig[sig] = j
				queue = append(queue, j)
			}
			col.Trans[i][x.SymbolName()] = j
		}
	}

	return col
}

// MergedState is an LALR(1) state: item cores each with the union of
// their lookaheads, per the merge rule in §4.3.
type MergedState map[grammar.Core]map[symbol.Terminal]bool

// LALRCollection is the result of merging canonical LR(1) states by core.
type LALRCollection struct {
	States []MergedState
	Trans  []map[string]int
	Start  int
}

// MergeLALR partitions the canonical LR(1) collection by core and merges
// each partition by unioning lookaheads, per §4.3: "partition LR(1) sets
// by core. Within each partition, merge by unioning lookaheads. Renumber
// merged sets 0..S-1; state 0 is the merged set containing the initial
// item."
func MergeLALR(col *Collection) *LALRCollection {
	groupOf := make([]int, len(col.States))
	var groupSigs []string
	sigToGroup := map[string]int{}

	for i, state := range col.States {
		sig := state.coreSignature()
		g, ok := sigToGroup[sig]
		if !ok {
			g = len(groupSigs)
			groupSigs = append(groupSigs, sig)
			sigToGroup[sig] = g
		}
		groupOf[i] = g
	}

	merged := make([]MergedState, len(groupSigs))
	for i, state := range col.States {
		g := groupOf[i]
		if merged[g] == nil {
			merged[g] = MergedState{}
		}
		for it := range state {
			core := it.Core()
			if merged[g][core] == nil {
				merged[g][core] = map[symbol.Terminal]bool{}
			}
			merged[g][core][it.Lookahead] = true
		}
	}

	trans := make([]map[string]int, len(groupSigs))
	for i := range trans {
		trans[i] = map[string]int{}
	}
	for i, m := range col.Trans {
		g := groupOf[i]
		for sym, j := range m {
			trans[g][sym] = groupOf[j]
		}
	}

	startGroup := groupOf[col.Start]
	if startGroup != 0 {
		// Renumber so the group containing the initial item is state 0,
		// per §4.3's "state 0 is the merged set containing the initial
		// item".
		swapGroups(merged, trans, 0, startGroup)
		startGroup = 0
	}

	return &LALRCollection{States: merged, Trans: trans, Start: startGroup}
}

func swapGroups(states []MergedState, trans []map[string]int, a, b int) {
	states[a], states[b] = states[b], states[a]
	trans[a], trans[b] = trans[b], trans[a]
	for _, m := range trans {
		for sym, j := range m {
			if j == a {
				m[sym] = b
			} else if j == b {
				m[sym] = a
			}
		}
	}
}

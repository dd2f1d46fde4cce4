// Package automaton constructs the canonical LR(1) collection of item sets
// for a grammar, merges sets sharing a core into LALR(1) states, and
// exposes the resulting transition table. This is the bulk of the table
// builder described in spec §4.3.
package automaton

import (
	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/symbol"
)

// FirstSets maps each non-terminal to its FIRST set. Epsilon membership is
// tracked with the zero-value Terminal "" used as the epsilon marker.
type FirstSets map[symbol.NonTerminal]map[symbol.Terminal]bool

const epsilon symbol.Terminal = ""

// ComputeFirst computes FIRST(X) for every non-terminal X in g by
// fixed-point iteration, per §4.3: FIRST(X) for terminal X is {X};
// FIRST(A) for a non-terminal A is the union, over every production
// A -> β, of FIRST(β).
func ComputeFirst(g grammar.Grammar) FirstSets {
	sets := make(FirstSets, len(g.NonTerminals))
	for _, nt := range g.NonTerminals {
		sets[nt] = map[symbol.Terminal]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			before := len(sets[p.Head])
			seq, nullable := firstOfSequence(g, sets, p.Body)
			for t := range seq {
				if !sets[p.Head][t] {
					sets[p.Head][t] = true
				}
			}
			if nullable && !sets[p.Head][epsilon] {
				sets[p.Head][epsilon] = true
			}
			if len(sets[p.Head]) != before {
				changed = true
			}
		}
	}
	return sets
}

// firstOf returns FIRST(X) for a single symbol X: {X} if X is a terminal
// (or the epsilon marker), else the previously computed set for a
// non-terminal.
func firstOf(g grammar.Grammar, first FirstSets, s symbol.Symbol) map[symbol.Terminal]bool {
	if t, ok := s.(symbol.Terminal); ok {
		return map[symbol.Terminal]bool{t: true}
	}
	nt := s.(symbol.NonTerminal)
	return first[nt]
}

// firstOfSequence computes FIRST(X1 X2 ... Xn) for a sequence of grammar
// symbols, per the recurrence in §4.3: FIRST(X1) \ {ε}, plus FIRST of the
// rest if X1 is nullable, and so on; FIRST(empty) = {ε}. The second
// return value reports whether the whole sequence is nullable (can derive
// ε).
func firstOfSequence(g grammar.Grammar, first FirstSets, seq []symbol.Symbol) (map[symbol.Terminal]bool, bool) {
	result := map[symbol.Terminal]bool{}
	if len(seq) == 0 {
		return result, true
	}

	for _, s := range seq {
		fs := firstOf(g, first, s)
		nullable := fs[epsilon]
		for t := range fs {
			if t != epsilon {
				result[t] = true
			}
		}
		if !nullable {
			return result, false
		}
	}
	return result, true
}

// firstOfSequenceWithLookahead computes FIRST(β a) for a production-body
// suffix β followed by a single lookahead terminal a, as used by the
// closure rule in §4.3.
func firstOfSequenceWithLookahead(g grammar.Grammar, first FirstSets, beta []symbol.Symbol, a symbol.Terminal) map[symbol.Terminal]bool {
	full := append(append([]symbol.Symbol{}, beta...), a)
	set, _ := firstOfSequence(g, first, full)
	return set
}

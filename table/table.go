// Package table builds the LALR(1) action/goto table from a grammar's
// merged LR(1) item collection, and reports grammar conflicts. This is
// the remainder of the table builder described in spec §4.3.
package table

import (
	"fmt"
	"sort"

	"github.com/dekarrin/proto3c/automaton"
	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/symbol"
)

// ActionKind is the tag of an Action's tagged union.
type ActionKind int

const (
	// ErrorAction marks the absence of an entry; it is never stored, only
	// returned by lookups that miss.
	ErrorAction ActionKind = iota
	Shift
	Reduce
	Accept
	Goto
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	case Goto:
		return "goto"
	default:
		return "error"
	}
}

// Action is one entry of the action/goto table: Shift(State), Reduce(Prod),
// Accept, or Goto(State).
type Action struct {
	Kind  ActionKind
	State int
	Prod  int
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.State)
	case Reduce:
		return fmt.Sprintf("reduce %d", a.Prod)
	case Accept:
		return "accept"
	case Goto:
		return fmt.Sprintf("goto %d", a.State)
	default:
		return "error"
	}
}

// ConflictError reports a shift/reduce or reduce/reduce conflict found
// while building the action table, per §4.3's "no precedence table; fail
// fast with a diagnostic" policy.
type ConflictError struct {
	State     int
	Lookahead symbol.Terminal
	Existing  Action
	New       Action
	g         grammar.Grammar
}

func (e *ConflictError) Error() string {
	kind := "conflict"
	switch {
	case e.Existing.Kind == Reduce && e.New.Kind == Shift, e.Existing.Kind == Shift && e.New.Kind == Reduce:
		kind = "shift/reduce conflict"
	case e.Existing.Kind == Reduce && e.New.Kind == Reduce:
		kind = "reduce/reduce conflict"
	case e.Existing.Kind == Accept || e.New.Kind == Accept:
		kind = "accept conflict"
	}

	describe := func(a Action) string {
		if a.Kind == Reduce {
			return fmt.Sprintf("reduce %s", e.g.Productions[a.Prod].String())
		}
		return a.String()
	}

	return fmt.Sprintf("%s detected in state %d on lookahead %q: %s vs %s",
		kind, e.State, e.Lookahead.SymbolName(), describe(e.Existing), describe(e.New))
}

// ParseTable is the action/goto table produced by the table builder.
// Entries keyed by a Terminal hold Shift/Reduce/Accept; entries keyed by a
// NonTerminal hold Goto. The start state is 0.
type ParseTable struct {
	g      grammar.Grammar
	action []map[symbol.Terminal]Action
	gotos  []map[symbol.NonTerminal]Action
}

// NumStates returns the number of states in the table.
func (t *ParseTable) NumStates() int { return len(t.action) }

// Action returns the action for (state, terminal) and whether it is
// defined.
func (t *ParseTable) Action(state int, term symbol.Terminal) (Action, bool) {
	a, ok := t.action[state][term]
	return a, ok
}

// Goto returns the goto action for (state, nonTerminal) and whether it is
// defined.
func (t *ParseTable) Goto(state int, nt symbol.NonTerminal) (Action, bool) {
	a, ok := t.gotos[state][nt]
	return a, ok
}

// Terminals returns, sorted by symbol name, every terminal for which
// state has a defined action. Used to build the parser's "expected one
// of: ..." hint.
func (t *ParseTable) Terminals(state int) []symbol.Terminal {
	out := make([]symbol.Terminal, 0, len(t.action[state]))
	for term := range t.action[state] {
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SymbolName() < out[j].SymbolName() })
	return out
}

// Grammar returns the grammar the table was built from.
func (t *ParseTable) Grammar() grammar.Grammar { return t.g }

// Build constructs the LALR(1) ParseTable for g, per §4.3's action-table
// rules:
//
//   - For a merged state containing (A -> α • a β, _) with a transition on
//     terminal a to state j: action[state, a] = Shift(j).
//   - For (A -> α •, a) where A != S': action[state, a] = Reduce(index of
//     A -> α).
//   - For (S' -> S • $, _): action[state, $] = Accept.
//   - For every non-terminal X with a transition on X to state j:
//     goto[state, X] = Goto(j).
//
// Conflicts are reported as a *ConflictError; there is no precedence
// table to resolve them.
func Build(g grammar.Grammar) (*ParseTable, error) {
	first := automaton.ComputeFirst(g)
	canonical := automaton.BuildCanonicalLR1(g, first)
	lalr := automaton.MergeLALR(canonical)

	t := &ParseTable{
		g:      g,
		action: make([]map[symbol.Terminal]Action, len(lalr.States)),
		gotos:  make([]map[symbol.NonTerminal]Action, len(lalr.States)),
	}
	for i := range t.action {
		t.action[i] = map[symbol.Terminal]Action{}
		t.gotos[i] = map[symbol.NonTerminal]Action{}
	}

	set := func(state int, term symbol.Terminal, act Action) error {
		if existing, ok := t.action[state][term]; ok && existing != act {
			return &ConflictError{State: state, Lookahead: term, Existing: existing, New: act, g: g}
		}
		t.action[state][term] = act
		return nil
	}

	for i, state := range lalr.States {
		for core, lookaheads := range state {
			body := g.Productions[core.Prod].Body

			if core.Dot < len(body) {
				next := body[core.Dot]

				// S' -> S . $ : advancing over $ does not shift into
				// another state, it accepts. This is the only item in the
				// augmented start's production with the dot short of the
				// end, so it must be special-cased ahead of the generic
				// shift branch below, or the trailing EOF gets shifted
				// and the driver runs off the end of the token stream.
				if core.Prod == 0 && next == symbol.Symbol(symbol.EOF) {
					if err := set(i, symbol.EOF, Action{Kind: Accept}); err != nil {
						return nil, err
					}
					continue
				}

				if term, ok := next.(symbol.Terminal); ok {
					j, ok := lalr.Trans[i][term.SymbolName()]
					if ok {
						if err := set(i, term, Action{Kind: Shift, State: j}); err != nil {
							return nil, err
						}
					}
				}
				continue
			}

			for la := range lookaheads {
				if err := set(i, la, Action{Kind: Reduce, Prod: core.Prod}); err != nil {
					return nil, err
				}
			}
		}

		for _, nt := range g.NonTerminals {
			if j, ok := lalr.Trans[i][nt.SymbolName()]; ok {
				t.gotos[i][nt] = Action{Kind: Goto, State: j}
			}
		}
	}

	return t, nil
}

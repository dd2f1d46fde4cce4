// Package grammar holds the declarative representation of a context-free
// grammar used by the table builder and parser driver: terminals,
// non-terminals, numbered productions with attached semantic actions, and
// the LR(1) item types the table builder operates on.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/proto3c/symbol"
)

// Action builds the semantic value for a production's head from the
// semantic values of its body symbols, in order. For a terminal body
// symbol the value is the lex.Token that matched it; for a non-terminal
// body symbol it is whatever a previous reduction returned.
type Action func(vals []any) any

// Production is a single grammar rule: head -> body, with a semantic
// action that builds the head's AST value from the body's semantic
// values.
type Production struct {
	Head   symbol.NonTerminal
	Body   []symbol.Symbol
	Action Action
}

// String renders the production in "HEAD -> X Y Z" form, "HEAD -> ε" for
// an empty body.
func (p Production) String() string {
	if len(p.Body) == 0 {
		return fmt.Sprintf("%s -> ε", p.Head)
	}
	parts := make([]string, len(p.Body))
	for i, s := range p.Body {
		parts[i] = s.SymbolName()
	}
	return fmt.Sprintf("%s -> %s", p.Head, strings.Join(parts, " "))
}

// Grammar is a complete grammar definition: its terminal and non-terminal
// vocabularies, its numbered productions, and its start symbol.
// Production 0 is always the augmented start production S' -> S $,
// prepended automatically by Builder.Build.
type Grammar struct {
	Terminals    []symbol.Terminal
	NonTerminals []symbol.NonTerminal
	Productions  []Production
	Start        symbol.NonTerminal

	termSet map[symbol.Terminal]bool
	ntSet   map[symbol.NonTerminal]bool
}

// Builder incrementally assembles a Grammar.
type Builder struct {
	g Grammar
}

// NewBuilder starts a Builder for a grammar with the given start symbol.
func NewBuilder(start symbol.NonTerminal) *Builder {
	return &Builder{g: Grammar{
		Start:   start,
		termSet: map[symbol.Terminal]bool{},
		ntSet:   map[symbol.NonTerminal]bool{},
	}}
}

// Terminal declares a terminal as part of the grammar's vocabulary. It is
// safe to call more than once for the same terminal.
func (b *Builder) Terminal(t symbol.Terminal) *Builder {
	if !b.g.termSet[t] {
		b.g.termSet[t] = true
		b.g.Terminals = append(b.g.Terminals, t)
	}
	return b
}

// NonTerminal declares a non-terminal as part of the grammar's
// vocabulary, without adding a production for it. Productions added via
// Rule declare their head automatically; this is for non-terminals that
// may not yet have a production at declaration time.
func (b *Builder) NonTerminal(nt symbol.NonTerminal) *Builder {
	if !b.g.ntSet[nt] {
		b.g.ntSet[nt] = true
		b.g.NonTerminals = append(b.g.NonTerminals, nt)
	}
	return b
}

// Rule adds a production head -> body with the given semantic action.
// Symbols in body are classified by their Go type: each symbol.Terminal
// and symbol.NonTerminal in body is declared automatically if it has not
// been declared already.
func (b *Builder) Rule(head symbol.NonTerminal, body []symbol.Symbol, action Action) *Builder {
	b.NonTerminal(head)
	for _, s := range body {
		if t, ok := s.(symbol.Terminal); ok {
			b.Terminal(t)
		} else if nt, ok := s.(symbol.NonTerminal); ok {
			b.NonTerminal(nt)
		}
	}
	b.g.Productions = append(b.g.Productions, Production{Head: head, Body: body, Action: action})
	return b
}

// Build finishes construction, prepending the augmented start production
// S' -> S $ as production 0, and validates the grammar's invariants.
func (b *Builder) Build() (Grammar, error) {
	g := b.g

	augStart := symbol.NTAugStart
	for _, nt := range g.NonTerminals {
		if nt == augStart {
			return Grammar{}, fmt.Errorf("grammar already defines reserved augmented start symbol %q", augStart)
		}
	}
	for _, t := range g.Terminals {
		if t == symbol.EOF {
			return Grammar{}, fmt.Errorf("grammar must not define end-of-input terminal %q directly", symbol.EOF)
		}
	}

	augProd := Production{
		Head: augStart,
		Body: []symbol.Symbol{g.Start, symbol.EOF},
		Action: func(vals []any) any {
			return vals[0]
		},
	}
	g.Productions = append([]Production{augProd}, g.Productions...)
	g.NonTerminals = append([]symbol.NonTerminal{augStart}, g.NonTerminals...)
	g.ntSet[augStart] = true
	g.Terminals = append(g.Terminals, symbol.EOF)
	g.termSet[symbol.EOF] = true

	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}
	return g, nil
}

// Validate checks the invariants from §3: every symbol in every
// production body is a known terminal or non-terminal, exactly one
// production has head S', and EOF appears in no user production body.
func (g Grammar) Validate() error {
	var augCount int
	for pi, p := range g.Productions {
		if p.Head == symbol.NTAugStart {
			augCount++
			continue
		}
		for _, s := range p.Body {
			if s == symbol.Symbol(symbol.EOF) {
				return fmt.Errorf("production %d (%s): user production must not contain end-of-input terminal", pi, p)
			}
			if t, ok := s.(symbol.Terminal); ok {
				if !g.termSet[t] {
					return fmt.Errorf("production %d (%s): undeclared terminal %q", pi, p, t)
				}
			} else if nt, ok := s.(symbol.NonTerminal); ok {
				if !g.ntSet[nt] {
					return fmt.Errorf("production %d (%s): undeclared non-terminal %q", pi, p, nt)
				}
			} else {
				return fmt.Errorf("production %d (%s): body symbol of unknown kind", pi, p)
			}
		}
	}
	if augCount != 1 {
		return fmt.Errorf("grammar must have exactly one production with head %q, found %d", symbol.NTAugStart, augCount)
	}
	return nil
}

// IsTerminal reports whether s names a declared terminal of g.
func (g Grammar) IsTerminal(s symbol.Symbol) bool {
	t, ok := s.(symbol.Terminal)
	return ok && g.termSet[t]
}

// ProductionsFor returns the indices of all productions with the given
// head, in declaration order.
func (g Grammar) ProductionsFor(head symbol.NonTerminal) []int {
	var out []int
	for i, p := range g.Productions {
		if p.Head == head {
			out = append(out, i)
		}
	}
	return out
}

// AugmentedStart returns the grammar's augmented start non-terminal, S'.
func (g Grammar) AugmentedStart() symbol.NonTerminal {
	return symbol.NTAugStart
}

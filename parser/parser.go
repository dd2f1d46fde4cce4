// Package parser implements the shift/reduce driver loop described in
// spec §4.5: given a token stream and a ParseTable, it drives two
// parallel stacks to either the accepted semantic value or a ParseError.
package parser

import (
	"strings"

	"github.com/dekarrin/proto3c/internal/protoerr"
	"github.com/dekarrin/proto3c/lex"
	"github.com/dekarrin/proto3c/symbol"
	"github.com/dekarrin/proto3c/table"
)

// maxExpectedHint caps how many expected-token names are listed in a
// syntax error's hint, per §4.5 step 2.
const maxExpectedHint = 12

// Parse drives tbl over the given tokens (which must end in
// exactly one EOF token) and returns the semantic value built at Accept.
//
// State is two parallel stacks, states and values, with the invariant
// |states| = |values| + 1. Productions' Action functions receive their
// body's semantic values in left-to-right order.
func Parse(tbl *table.ParseTable, tokens []lex.Token) (any, error) {
	states := []int{0}
	var values []any
	ts := lex.NewTokenStream(tokens)

	for {
		s := states[len(states)-1]
		tok := ts.Peek()

		action, ok := tbl.Action(s, tok.Kind)
		if !ok {
			return nil, unexpectedTokenError(tbl, s, tok)
		}

		switch action.Kind {
		case table.Shift:
			states = append(states, action.State)
			values = append(values, ts.Next())

		case table.Reduce:
			prod := tbl.Grammar().Productions[action.Prod]
			k := len(prod.Body)
			if k > len(values) || k > len(states)-1 {
				protoerr.Violatef("reduce of production %d needs %d symbols but only %d are on the stack", action.Prod, k, len(values))
			}

			var args []any
			if k > 0 {
				args = append(args, values[len(values)-k:]...)
				values = values[:len(values)-k]
				states = states[:len(states)-k]
			}

			v := prod.Action(args)

			top := states[len(states)-1]
			gotoAction, ok := tbl.Goto(top, prod.Head)
			if !ok || gotoAction.Kind != table.Goto {
				protoerr.Violatef("no goto entry for state %d on non-terminal %s after reducing production %d", top, prod.Head, action.Prod)
			}

			states = append(states, gotoAction.State)
			values = append(values, v)

		case table.Accept:
			if len(values) == 0 {
				protoerr.Violatef("accept reached with empty value stack")
			}
			return values[len(values)-1], nil

		default:
			protoerr.Violatef("parse table returned action of unknown kind %v in state %d", action.Kind, s)
		}
	}
}

// unexpectedTokenError builds the "unexpected <kind>" ParseError with an
// "expected one of: ..." hint, per §4.5 step 2: the set of terminals for
// which state s has any action, sorted by symbol name, capped at the
// first 12, rendered with the punctuation-preferring display rule.
func unexpectedTokenError(tbl *table.ParseTable, s int, tok lex.Token) error {
	terms := tbl.Terminals(s)
	if len(terms) > maxExpectedHint {
		terms = terms[:maxExpectedHint]
	}

	display := make([]string, len(terms))
	for i, t := range terms {
		display[i] = t.Display()
	}

	kind := tok.Kind.Display()
	if tok.Kind == symbol.EOF {
		kind = "end of file"
	}

	err := protoerr.AtSpanf(tok.Span, "unexpected %s", kind)
	if len(display) > 0 {
		err = err.WithHint("expected one of: " + strings.Join(display, ", "))
	}
	return err
}

// Package protogrammar defines the concrete proto3 grammar: productions
// over the symbols declared in package symbol, each with a semantic
// action building the typed AST nodes in package ast. It is kept separate
// from package grammar itself so that grammar/automaton/table stay
// generic and free of any ast or lex dependency.
package protogrammar

import (
	"github.com/dekarrin/proto3c/ast"
	"github.com/dekarrin/proto3c/lex"
)

// spannedString carries a partial identifier or type name up through the
// grammar's recursive-suffix productions (FULL_IDENT_REST, TYPE_NAME_REST,
// OPTION_NAME_REST) without losing its source span.
type spannedString struct {
	text string
	span lex.Span
}

// optionName carries a dotted option name (OPTION_NAME) up through the
// grammar together with the span it covers, so that a production with no
// leading keyword of its own — FIELD_OPTION, unlike OPTION_DECL — can
// still span from the name's first token.
type optionName struct {
	parts []ast.OptionNamePart
	span  lex.Span
}

// nodeSpan extracts the span of any semantic value that can appear in a
// production body: a lexed Token, a spannedString, or a *ast node.
func nodeSpan(v any) lex.Span {
	switch x := v.(type) {
	case lex.Token:
		return x.Span
	case spannedString:
		return x.span
	case optionName:
		return x.span
	case ast.OptionValue:
		return x.Span()
	case *ast.Option:
		return x.Span
	case *ast.Field:
		return x.Span
	case *ast.Message:
		return x.Span
	case *ast.Enum:
		return x.Span
	case *ast.EnumValue:
		return x.Span
	case *ast.Service:
		return x.Span
	case *ast.Rpc:
		return x.Span
	case *ast.Oneof:
		return x.Span
	case *ast.Reserved:
		return x.Span
	case *ast.ExtensionsDecl:
		return x.Span
	case *ast.Import:
		return x.Span
	case *ast.PackageDecl:
		return x.Span
	case ast.ReservedRange:
		return x.Span
	case ast.FieldType:
		return x.Span
	case ast.MessageLitField:
		return x.Span
	case bodyElem:
		return nodeSpan(x.val)
	default:
		return lex.Span{}
	}
}

// spanAcross builds the span running from the start of first's span to
// the end of last's span, as produced by a production whose body runs
// from first to last.
func spanAcross(first, last any) lex.Span {
	a, b := nodeSpan(first), nodeSpan(last)
	return lex.Span{
		File:        a.File,
		StartOffset: a.StartOffset,
		EndOffset:   b.EndOffset,
		StartLine:   a.StartLine,
		StartColumn: a.StartColumn,
	}
}

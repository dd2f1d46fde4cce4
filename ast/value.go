package ast

import "github.com/dekarrin/proto3c/lex"

// OptionValue is the value on the right of an option's `=`: a scalar
// literal, a bare identifier (an enum value name, or inf/nan), a message
// literal, or a list of values.
type OptionValue interface {
	Span() lex.Span
	isOptionValue()
}

// ScalarKind tags which lexical form a ScalarValue was written in.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
)

// ScalarValue is a string, integer, float, or boolean literal option
// value. Text holds the literal exactly as written, preserving source
// radix for integers (spec §4.6).
type ScalarValue struct {
	Kind    ScalarKind
	Text    string
	SpanVal lex.Span
}

func (v *ScalarValue) Span() lex.Span { return v.SpanVal }
func (*ScalarValue) isOptionValue()   {}

// IdentifierValue is a bare dotted identifier used as an option value:
// an enum value name, or the bare identifiers `inf`/`nan`.
type IdentifierValue struct {
	Name    string
	SpanVal lex.Span
}

func (v *IdentifierValue) Span() lex.Span { return v.SpanVal }
func (*IdentifierValue) isOptionValue()   {}

// MessageLitField is one `name: value` or `name { ... }` entry of a
// message literal.
type MessageLitField struct {
	Name  string
	Value OptionValue
	Span  lex.Span
}

// MessageValue is a `{ field: value, ... }` message literal option
// value.
type MessageValue struct {
	Fields  []MessageLitField
	SpanVal lex.Span
}

func (v *MessageValue) Span() lex.Span { return v.SpanVal }
func (*MessageValue) isOptionValue()   {}

// ListValue is a `[value, ...]` list option value.
type ListValue struct {
	Elements []OptionValue
	SpanVal  lex.Span
}

func (v *ListValue) Span() lex.Span { return v.SpanVal }
func (*ListValue) isOptionValue()   {}

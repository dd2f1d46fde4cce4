// Package ast defines the typed syntax tree produced by parsing proto3
// source, per spec §3's data model, and the canonical formatter that
// renders a tree back to source text.
package ast

import "github.com/dekarrin/proto3c/lex"

// ImportKind distinguishes a plain import from a public or weak one.
type ImportKind int

const (
	ImportDefault ImportKind = iota
	ImportPublic
	ImportWeak
)

// File is the root of a parsed proto3 source file.
type File struct {
	Syntax     string
	SyntaxSpan lex.Span
	Package    *PackageDecl
	Imports    []*Import
	Options    []*Option
	Messages   []*Message
	Enums      []*Enum
	Services   []*Service
	Extensions []*ExtensionsDecl
	Span       lex.Span
}

// PackageDecl is a file's `package foo.bar;` declaration.
type PackageDecl struct {
	Name string
	Span lex.Span
}

// Import is a single `import [public|weak] "path";` declaration.
type Import struct {
	Path string
	Kind ImportKind
	Span lex.Span
}

// OptionNamePart is one dotted component of an option path, e.g. the
// "foo" or "(custom.option)" in "foo.(custom.option).bar".
type OptionNamePart struct {
	Name          string
	Parenthesized bool
}

// Option is a `option name = value;` declaration, usable at file,
// message, field, enum, enum value, service, rpc, and oneof scope.
type Option struct {
	Name  []OptionNamePart
	Value OptionValue
	Span  lex.Span
}

// Message is a `message Name { ... }` declaration.
type Message struct {
	Name           string
	Fields         []*Field
	NestedMessages []*Message
	NestedEnums    []*Enum
	Oneofs         []*Oneof
	Reserveds      []*Reserved
	Options        []*Option
	Span           lex.Span
}

// FieldLabel is a field's optional cardinality keyword.
type FieldLabel int

const (
	LabelNone FieldLabel = iota
	LabelOptional
	LabelRepeated
	LabelRequired
)

// FieldType is a field's declared type: either a (possibly dotted,
// possibly fully-qualified) type name, or a map type.
type FieldType struct {
	Name string // empty when Map is non-nil
	Map  *MapType
	Span lex.Span
}

// MapType is a `map<key, value>` field type.
type MapType struct {
	KeyType   string
	ValueType FieldType
	Span      lex.Span
}

// Field is a single field declaration inside a message or oneof.
type Field struct {
	Label   FieldLabel
	Type    FieldType
	Name    string
	Number  int64
	Options []*Option
	Span    lex.Span
}

// Oneof is a `oneof name { ... }` declaration.
type Oneof struct {
	Name    string
	Fields  []*Field
	Options []*Option
	Span    lex.Span
}

// Enum is an `enum Name { ... }` declaration.
type Enum struct {
	Name      string
	Values    []*EnumValue
	Options   []*Option
	Reserveds []*Reserved
	Span      lex.Span
}

// EnumValue is a single `NAME = number [options];` line of an enum body.
type EnumValue struct {
	Name    string
	Number  int64
	Options []*Option
	Span    lex.Span
}

// Service is a `service Name { ... }` declaration.
type Service struct {
	Name    string
	Rpcs    []*Rpc
	Options []*Option
	Span    lex.Span
}

// Rpc is a single `rpc Name(In) returns (Out) { ... }` method.
type Rpc struct {
	Name         string
	InputType    string
	InputStream  bool
	OutputType   string
	OutputStream bool
	Options      []*Option
	Span         lex.Span
}

// ReservedRange is a single `N`, `N to M`, or `N to max` reserved or
// extension number range.
type ReservedRange struct {
	Start int64
	End   int64 // meaningless when ToMax is set
	ToMax bool
	Span  lex.Span
}

// Reserved is a `reserved ...;` declaration: either number ranges or
// field names, never both.
type Reserved struct {
	Ranges []ReservedRange
	Names  []string
	Span   lex.Span
}

// ExtensionsDecl is an `extensions ...;` declaration (proto2-style
// extension number ranges), kept at file scope in File.Extensions. The
// grammar also accepts one inside a message body, but Message has no
// field for it and it is not kept in the tree.
type ExtensionsDecl struct {
	Ranges []ReservedRange
	Span   lex.Span
}

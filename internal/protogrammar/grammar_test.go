package protogrammar

import (
	"testing"

	"github.com/dekarrin/proto3c/ast"
	"github.com/dekarrin/proto3c/lex"
	"github.com/dekarrin/proto3c/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Build_ProducesAConflictFreeLALR1Table is the single most important
// check in this package: it confirms the full grammar resolves to an
// LALR(1) table with no shift/reduce or reduce/reduce conflicts, which is
// the thing hand-tracing individual productions cannot verify on its own.
func Test_Build_ProducesAConflictFreeLALR1Table(t *testing.T) {
	g, err := Build()
	require.NoError(t, err)

	tbl, err := table.Build(g)
	require.NoError(t, err)
	assert.Greater(t, tbl.NumStates(), 0)
}

func Test_AppendBody_CopiesAndAppends(t *testing.T) {
	base := bodyList{{kind: elemField, val: 1}}
	next := appendBody([]any{base, bodyElem{kind: elemField, val: 2}}).(bodyList)

	require.Len(t, next, 2)
	assert.Equal(t, 1, next[1-1].val)
	assert.Equal(t, 2, next[1].val)

	// base must be unmodified: distinct productions sharing a common
	// reduced prefix must not see each other's appended siblings.
	require.Len(t, base, 1)
}

func Test_EmptyBody_ReturnsNilList(t *testing.T) {
	got := emptyBody(nil).(bodyList)
	assert.Nil(t, got)
}

func Test_PartitionFile_SortsElementsByKind(t *testing.T) {
	elems := bodyList{
		{kind: elemSyntax, val: spannedString{text: "proto3"}},
		{kind: elemPackage, val: &ast.PackageDecl{Name: "p"}},
		{kind: elemImport, val: &ast.Import{Path: "a.proto"}},
		{kind: elemOption, val: &ast.Option{}},
		{kind: elemMessage, val: &ast.Message{Name: "M"}},
		{kind: elemEnum, val: &ast.Enum{Name: "E"}},
		{kind: elemService, val: &ast.Service{Name: "S"}},
		{kind: elemExtensions, val: &ast.ExtensionsDecl{}},
	}
	f := partitionFile(elems)

	assert.Equal(t, "proto3", f.Syntax)
	require.NotNil(t, f.Package)
	assert.Equal(t, "p", f.Package.Name)
	require.Len(t, f.Imports, 1)
	require.Len(t, f.Options, 1)
	require.Len(t, f.Messages, 1)
	require.Len(t, f.Enums, 1)
	require.Len(t, f.Services, 1)
	require.Len(t, f.Extensions, 1)
}

func Test_PartitionMessage_SortsElementsByKind(t *testing.T) {
	elems := bodyList{
		{kind: elemField, val: &ast.Field{Name: "f"}},
		{kind: elemOneof, val: &ast.Oneof{Name: "o"}},
		{kind: elemEnum, val: &ast.Enum{Name: "E"}},
		{kind: elemMessage, val: &ast.Message{Name: "Nested"}},
		{kind: elemReserved, val: &ast.Reserved{}},
		{kind: elemOption, val: &ast.Option{}},
	}
	m := partitionMessage("Outer", elems)

	assert.Equal(t, "Outer", m.Name)
	require.Len(t, m.Fields, 1)
	require.Len(t, m.Oneofs, 1)
	require.Len(t, m.NestedEnums, 1)
	require.Len(t, m.NestedMessages, 1)
	require.Len(t, m.Reserveds, 1)
	require.Len(t, m.Options, 1)
}

func Test_PartitionEnum_SortsElementsByKind(t *testing.T) {
	elems := bodyList{
		{kind: elemEnumValue, val: &ast.EnumValue{Name: "V"}},
		{kind: elemOption, val: &ast.Option{}},
		{kind: elemReserved, val: &ast.Reserved{}},
	}
	en := partitionEnum("Kind", elems)

	assert.Equal(t, "Kind", en.Name)
	require.Len(t, en.Values, 1)
	require.Len(t, en.Options, 1)
	require.Len(t, en.Reserveds, 1)
}

func Test_PartitionService_SortsElementsByKind(t *testing.T) {
	elems := bodyList{
		{kind: elemRpc, val: &ast.Rpc{Name: "Do"}},
		{kind: elemOption, val: &ast.Option{}},
	}
	s := partitionService("Svc", elems)

	assert.Equal(t, "Svc", s.Name)
	require.Len(t, s.Rpcs, 1)
	require.Len(t, s.Options, 1)
}

func Test_PartitionOneof_SortsElementsByKind(t *testing.T) {
	elems := bodyList{
		{kind: elemField, val: &ast.Field{Name: "a"}},
		{kind: elemOption, val: &ast.Option{}},
	}
	o := partitionOneof("which", elems)

	assert.Equal(t, "which", o.Name)
	require.Len(t, o.Fields, 1)
	require.Len(t, o.Options, 1)
}

func Test_PartitionRpcOptions_IgnoresNonOptionElems(t *testing.T) {
	elems := bodyList{
		{kind: elemEmpty, val: nil},
		{kind: elemOption, val: &ast.Option{}},
	}
	opts := partitionRpcOptions(elems)
	assert.Len(t, opts, 1)
}

func Test_NodeSpan_HandlesEachSemanticValueShape(t *testing.T) {
	tokSpan := lex.Span{StartOffset: 1, EndOffset: 2}
	assert.Equal(t, tokSpan, nodeSpan(lex.Token{Span: tokSpan}))

	ssSpan := lex.Span{StartOffset: 3, EndOffset: 4}
	assert.Equal(t, ssSpan, nodeSpan(spannedString{span: ssSpan}))

	fieldSpan := lex.Span{StartOffset: 5, EndOffset: 6}
	assert.Equal(t, fieldSpan, nodeSpan(&ast.Field{Span: fieldSpan}))

	// an unrecognized value kind must degrade to the zero span rather than
	// panicking, since nodeSpan is called generically across every
	// production's body values.
	assert.Equal(t, lex.Span{}, nodeSpan(42))

	wrapped := lex.Span{StartOffset: 7, EndOffset: 8}
	assert.Equal(t, wrapped, nodeSpan(bodyElem{val: spannedString{span: wrapped}}))
}

func Test_SpanAcross_RunsFromFirstStartToLastEnd(t *testing.T) {
	first := lex.Token{Span: lex.Span{File: "f.proto", StartOffset: 0, StartLine: 1, StartColumn: 1}}
	last := lex.Token{Span: lex.Span{File: "f.proto", EndOffset: 10}}

	got := spanAcross(first, last)
	assert.Equal(t, "f.proto", got.File)
	assert.Equal(t, 0, got.StartOffset)
	assert.Equal(t, 10, got.EndOffset)
}

func Test_ExtendSpanStart_ReplacesOnlyStartFields(t *testing.T) {
	s := lex.Span{File: "a", StartOffset: 9, StartLine: 9, StartColumn: 9, EndOffset: 20}
	start := lex.Span{File: "b", StartOffset: 1, StartLine: 1, StartColumn: 1, EndOffset: 99}

	got := extendSpanStart(s, start)
	assert.Equal(t, "b", got.File)
	assert.Equal(t, 1, got.StartOffset)
	assert.Equal(t, 20, got.EndOffset, "end must come from s, not start")
}

func Test_AppendDotted_PassesThroughFirstWhenRestEmpty(t *testing.T) {
	first := spannedString{text: "foo", span: lex.Span{StartOffset: 0, EndOffset: 3}}
	rest := spannedString{}

	got := appendDotted(first, rest)
	assert.Equal(t, first, got)
}

func Test_AppendDotted_ConcatenatesTextAndExtendsSpan(t *testing.T) {
	first := spannedString{text: "foo", span: lex.Span{StartOffset: 0, EndOffset: 3, StartLine: 1, StartColumn: 1}}
	rest := spannedString{text: ".bar", span: lex.Span{StartOffset: 3, EndOffset: 7}}

	got := appendDotted(first, rest)
	assert.Equal(t, "foo.bar", got.text)
	assert.Equal(t, 0, got.span.StartOffset)
	assert.Equal(t, 7, got.span.EndOffset)
}

func Test_DottedRest_PrependsDotAndRunsToFurthestEnd(t *testing.T) {
	dot := lex.Token{Span: lex.Span{StartOffset: 3, EndOffset: 4}}
	id := spannedString{text: "bar", span: lex.Span{StartOffset: 4, EndOffset: 7}}

	// with no further rest, the span ends at id's end.
	got := dottedRest(dot, id, spannedString{})
	assert.Equal(t, ".bar", got.text)
	assert.Equal(t, 3, got.span.StartOffset)
	assert.Equal(t, 7, got.span.EndOffset)

	// with a further rest, the span must extend to rest's end instead.
	rest := spannedString{text: ".baz", span: lex.Span{StartOffset: 7, EndOffset: 11}}
	got2 := dottedRest(dot, id, rest)
	assert.Equal(t, ".bar.baz", got2.text)
	assert.Equal(t, 11, got2.span.EndOffset)
}

func Test_MustDecodeString_DecodesValidLiteral(t *testing.T) {
	got := mustDecodeString(lex.Token{Text: `"hello"`})
	assert.Equal(t, "hello", got)
}

func Test_MustParseInt_ParsesDecimalHexAndOctal(t *testing.T) {
	assert.Equal(t, int64(42), mustParseInt(lex.Token{Text: "42"}))
	assert.Equal(t, int64(255), mustParseInt(lex.Token{Text: "0xFF"}))
	assert.Equal(t, int64(8), mustParseInt(lex.Token{Text: "010"}))
}

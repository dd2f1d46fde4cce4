package protogrammar

import "github.com/dekarrin/proto3c/ast"

// elemKind tags what a bodyElem holds. The same accumulate-then-partition
// shape is reused for every kind of braced body in the grammar (file,
// message, enum, service, oneof, rpc): each XXX_ELEM production wraps its
// concrete result in a bodyElem, XXX_BODY accumulates them by left
// recursion, and the owning declaration's action partitions the
// accumulated slice into its typed fields.
type elemKind int

const (
	elemSyntax elemKind = iota
	elemPackage
	elemImport
	elemOption
	elemMessage
	elemEnum
	elemEnumValue
	elemService
	elemExtensions
	elemField
	elemOneof
	elemReserved
	elemRpc
	elemEmpty
)

type bodyElem struct {
	kind elemKind
	val  any
}

// bodyList is the accumulator built by every left-recursive XXX_BODY /
// XXX_DEFS production: BODY -> BODY ELEM | ε.
type bodyList []bodyElem

// appendBody implements the common action for BODY -> BODY ELEM.
func appendBody(vals []any) any {
	list := vals[0].(bodyList)
	elem := vals[1].(bodyElem)
	out := make(bodyList, len(list), len(list)+1)
	copy(out, list)
	return append(out, elem)
}

// emptyBody implements the common action for BODY -> ε.
func emptyBody([]any) any { return bodyList(nil) }

// partitionFile splits a bodyList into a *ast.File's members.
func partitionFile(elems bodyList) *ast.File {
	f := &ast.File{}
	for _, e := range elems {
		switch e.kind {
		case elemSyntax:
			s := e.val.(spannedString)
			f.Syntax = s.text
			f.SyntaxSpan = s.span
		case elemPackage:
			f.Package = e.val.(*ast.PackageDecl)
		case elemImport:
			f.Imports = append(f.Imports, e.val.(*ast.Import))
		case elemOption:
			f.Options = append(f.Options, e.val.(*ast.Option))
		case elemMessage:
			f.Messages = append(f.Messages, e.val.(*ast.Message))
		case elemEnum:
			f.Enums = append(f.Enums, e.val.(*ast.Enum))
		case elemService:
			f.Services = append(f.Services, e.val.(*ast.Service))
		case elemExtensions:
			f.Extensions = append(f.Extensions, e.val.(*ast.ExtensionsDecl))
		}
	}
	return f
}

// partitionMessage splits a bodyList into a *ast.Message's members.
func partitionMessage(name string, elems bodyList) *ast.Message {
	m := &ast.Message{Name: name}
	for _, e := range elems {
		switch e.kind {
		case elemField:
			m.Fields = append(m.Fields, e.val.(*ast.Field))
		case elemOneof:
			m.Oneofs = append(m.Oneofs, e.val.(*ast.Oneof))
		case elemEnum:
			m.NestedEnums = append(m.NestedEnums, e.val.(*ast.Enum))
		case elemMessage:
			m.NestedMessages = append(m.NestedMessages, e.val.(*ast.Message))
		case elemReserved:
			m.Reserveds = append(m.Reserveds, e.val.(*ast.Reserved))
		case elemOption:
			m.Options = append(m.Options, e.val.(*ast.Option))
		}
	}
	return m
}

// partitionEnum splits a bodyList into a *ast.Enum's members.
func partitionEnum(name string, elems bodyList) *ast.Enum {
	en := &ast.Enum{Name: name}
	for _, e := range elems {
		switch e.kind {
		case elemEnumValue:
			en.Values = append(en.Values, e.val.(*ast.EnumValue))
		case elemOption:
			en.Options = append(en.Options, e.val.(*ast.Option))
		case elemReserved:
			en.Reserveds = append(en.Reserveds, e.val.(*ast.Reserved))
		}
	}
	return en
}

// partitionService splits a bodyList into a *ast.Service's members.
func partitionService(name string, elems bodyList) *ast.Service {
	s := &ast.Service{Name: name}
	for _, e := range elems {
		switch e.kind {
		case elemRpc:
			s.Rpcs = append(s.Rpcs, e.val.(*ast.Rpc))
		case elemOption:
			s.Options = append(s.Options, e.val.(*ast.Option))
		}
	}
	return s
}

// partitionOneof splits a bodyList into a *ast.Oneof's members.
func partitionOneof(name string, elems bodyList) *ast.Oneof {
	o := &ast.Oneof{Name: name}
	for _, e := range elems {
		switch e.kind {
		case elemField:
			o.Fields = append(o.Fields, e.val.(*ast.Field))
		case elemOption:
			o.Options = append(o.Options, e.val.(*ast.Option))
		}
	}
	return o
}

// partitionRpcOptions extracts the options accumulated in an rpc's
// optional brace body, ignoring the empty statements the body also
// admits.
func partitionRpcOptions(elems bodyList) []*ast.Option {
	var opts []*ast.Option
	for _, e := range elems {
		if e.kind == elemOption {
			opts = append(opts, e.val.(*ast.Option))
		}
	}
	return opts
}

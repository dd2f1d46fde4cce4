package ast

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Dump renders a debug table of f's declarations: kind, name, and source
// span, with the fields, oneofs, nested types, reserveds, enum values and
// rpcs of each message, enum and service on indented rows beneath it.
// Intended for developer diagnostics, not canonical output (use Format
// for that).
func (f *File) Dump() string {
	data := [][]string{{"KIND", "NAME", "SPAN"}}

	data = append(data, []string{"syntax", f.Syntax, f.SyntaxSpan.String()})
	if f.Package != nil {
		data = append(data, []string{"package", f.Package.Name, f.Package.Span.String()})
	}
	for _, im := range f.Imports {
		data = append(data, []string{"import", im.Path, im.Span.String()})
	}
	for _, o := range f.Options {
		data = append(data, []string{"option", formatOptionName(o.Name), o.Span.String()})
	}
	for _, m := range f.Messages {
		data = append(data, dumpMessageRows("message", m)...)
	}
	for _, e := range f.Enums {
		data = append(data, dumpEnumRows("enum", e)...)
	}
	for _, s := range f.Services {
		data = append(data, dumpServiceRows("service", s)...)
	}
	for _, x := range f.Extensions {
		data = append(data, []string{"extensions", "", x.Span.String()})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func dumpMessageRows(kind string, m *Message) [][]string {
	rows := [][]string{{kind, m.Name, m.Span.String()}}
	for _, f := range m.Fields {
		rows = append(rows, []string{"  field", fmt.Sprintf("%s = %d", f.Name, f.Number), f.Span.String()})
	}
	for _, o := range m.Oneofs {
		rows = append(rows, []string{"  oneof", o.Name, o.Span.String()})
	}
	for _, e := range m.NestedEnums {
		rows = append(rows, dumpEnumRows("  enum", e)...)
	}
	for _, nm := range m.NestedMessages {
		rows = append(rows, dumpMessageRows("  message", nm)...)
	}
	for _, r := range m.Reserveds {
		rows = append(rows, []string{"  reserved", formatReserved(r), r.Span.String()})
	}
	return rows
}

func dumpEnumRows(kind string, e *Enum) [][]string {
	rows := [][]string{{kind, e.Name, e.Span.String()}}
	for _, v := range e.Values {
		rows = append(rows, []string{"  value", fmt.Sprintf("%s = %d", v.Name, v.Number), v.Span.String()})
	}
	return rows
}

func dumpServiceRows(kind string, s *Service) [][]string {
	rows := [][]string{{kind, s.Name, s.Span.String()}}
	for _, r := range s.Rpcs {
		rows = append(rows, []string{"  rpc", fmt.Sprintf("%s(%s) returns (%s)", r.Name, r.InputType, r.OutputType), r.Span.String()})
	}
	return rows
}

package ast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/proto3c/lex"
)

const indentUnit = "  "

// Format renders f as canonical proto3 source, per spec §4.6: two-space
// indentation, blank lines between groups of declarations of different
// kinds, inline field options, source-preserving numeric literals,
// minimally-escaped double-quoted strings, and exactly-as-parsed option
// paths.
func Format(f *File) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "syntax = %s;\n", EncodeStringLiteral(f.Syntax))

	var elems []fileElem
	if f.Package != nil {
		elems = append(elems, fileElem{"package", f.Package.Span, formatPackage(f.Package)})
	}
	for _, im := range f.Imports {
		elems = append(elems, fileElem{"import", im.Span, formatImport(im)})
	}
	for _, o := range f.Options {
		elems = append(elems, fileElem{"option", o.Span, formatOption(o)})
	}
	for _, m := range f.Messages {
		elems = append(elems, fileElem{"message", m.Span, formatMessage(m)})
	}
	for _, e := range f.Enums {
		elems = append(elems, fileElem{"enum", e.Span, formatEnum(e)})
	}
	for _, s := range f.Services {
		elems = append(elems, fileElem{"service", s.Span, formatService(s)})
	}
	for _, x := range f.Extensions {
		elems = append(elems, fileElem{"extensions", x.Span, formatExtensions(x)})
	}
	sortFileElems(elems)

	writeElems(&sb, elems, 0)

	return sb.String()
}

// Format renders the file as canonical source. Equivalent to Format(f).
func (f *File) Format() string { return Format(f) }

// fileElem is one top-level or message-body declaration, tagged with its
// kind (for blank-line grouping) and source span (for ordering).
type fileElem struct {
	kind string
	span lex.Span
	text string
}

func sortFileElems(elems []fileElem) {
	for i := 1; i < len(elems); i++ {
		for j := i; j > 0 && elems[j-1].span.StartOffset > elems[j].span.StartOffset; j-- {
			elems[j-1], elems[j] = elems[j], elems[j-1]
		}
	}
}

// writeElems writes elems in order, indented to level, with a blank line
// preceding any element whose kind differs from the previous one.
func writeElems(sb *strings.Builder, elems []fileElem, level int) {
	if len(elems) == 0 {
		return
	}
	sb.WriteString("\n")
	prevKind := ""
	for i, e := range elems {
		if i > 0 && e.kind != prevKind {
			sb.WriteString("\n")
		}
		writeIndented(sb, e.text, level)
		prevKind = e.kind
	}
}

func writeIndented(sb *strings.Builder, text string, level int) {
	prefix := strings.Repeat(indentUnit, level)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func formatPackage(p *PackageDecl) string {
	return fmt.Sprintf("package %s;", p.Name)
}

func formatImport(im *Import) string {
	switch im.Kind {
	case ImportPublic:
		return fmt.Sprintf("import public %s;", EncodeStringLiteral(im.Path))
	case ImportWeak:
		return fmt.Sprintf("import weak %s;", EncodeStringLiteral(im.Path))
	default:
		return fmt.Sprintf("import %s;", EncodeStringLiteral(im.Path))
	}
}

func formatOptionName(parts []OptionNamePart) string {
	rendered := make([]string, len(parts))
	for i, p := range parts {
		if p.Parenthesized {
			rendered[i] = "(" + p.Name + ")"
		} else {
			rendered[i] = p.Name
		}
	}
	return strings.Join(rendered, ".")
}

func formatOption(o *Option) string {
	return fmt.Sprintf("option %s = %s;", formatOptionName(o.Name), formatOptionValue(o.Value))
}

func formatOptionValue(v OptionValue) string {
	switch val := v.(type) {
	case *ScalarValue:
		if val.Kind == ScalarString {
			return EncodeStringLiteral(val.Text)
		}
		return val.Text
	case *IdentifierValue:
		return val.Name
	case *MessageValue:
		return formatMessageValue(val)
	case *ListValue:
		parts := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			parts[i] = formatOptionValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

func formatMessageValue(v *MessageValue) string {
	if len(v.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		if mv, ok := f.Value.(*MessageValue); ok {
			parts[i] = fmt.Sprintf("%s %s", f.Name, formatMessageValue(mv))
		} else {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, formatOptionValue(f.Value))
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func formatFieldOptionsInline(opts []*Option) string {
	if len(opts) == 0 {
		return ""
	}
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = fmt.Sprintf("%s = %s", formatOptionName(o.Name), formatOptionValue(o.Value))
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func formatFieldType(t FieldType) string {
	if t.Map != nil {
		return fmt.Sprintf("map<%s, %s>", t.Map.KeyType, formatFieldType(t.Map.ValueType))
	}
	return t.Name
}

func formatFieldLabel(l FieldLabel) string {
	switch l {
	case LabelOptional:
		return "optional "
	case LabelRepeated:
		return "repeated "
	case LabelRequired:
		return "required "
	default:
		return ""
	}
}

func formatField(f *Field) string {
	return fmt.Sprintf("%s%s %s = %d%s;",
		formatFieldLabel(f.Label), formatFieldType(f.Type), f.Name, f.Number, formatFieldOptionsInline(f.Options))
}

func formatReservedRange(r ReservedRange) string {
	if r.ToMax {
		return fmt.Sprintf("%d to max", r.Start)
	}
	if r.End != r.Start {
		return fmt.Sprintf("%d to %d", r.Start, r.End)
	}
	return fmt.Sprintf("%d", r.Start)
}

func formatReserved(r *Reserved) string {
	if len(r.Names) > 0 {
		names := make([]string, len(r.Names))
		for i, n := range r.Names {
			names[i] = EncodeStringLiteral(n)
		}
		return fmt.Sprintf("reserved %s;", strings.Join(names, ", "))
	}
	ranges := make([]string, len(r.Ranges))
	for i, rr := range r.Ranges {
		ranges[i] = formatReservedRange(rr)
	}
	return fmt.Sprintf("reserved %s;", strings.Join(ranges, ", "))
}

func formatExtensions(x *ExtensionsDecl) string {
	ranges := make([]string, len(x.Ranges))
	for i, rr := range x.Ranges {
		ranges[i] = formatReservedRange(rr)
	}
	return fmt.Sprintf("extensions %s;", strings.Join(ranges, ", "))
}

func formatEnumValue(v *EnumValue) string {
	return fmt.Sprintf("%s = %d%s;", v.Name, v.Number, formatFieldOptionsInline(v.Options))
}

func formatOneof(o *Oneof) string {
	var elems []fileElem
	for _, f := range o.Fields {
		elems = append(elems, fileElem{"field", f.Span, formatField(f)})
	}
	for _, opt := range o.Options {
		elems = append(elems, fileElem{"option", opt.Span, formatOption(opt)})
	}
	sortFileElems(elems)

	var sb strings.Builder
	fmt.Fprintf(&sb, "oneof %s {", o.Name)
	writeElems(&sb, elems, 1)
	sb.WriteString("}")
	return sb.String()
}

func formatMessage(m *Message) string {
	var elems []fileElem
	for _, f := range m.Fields {
		elems = append(elems, fileElem{"field", f.Span, formatField(f)})
	}
	for _, o := range m.Oneofs {
		elems = append(elems, fileElem{"oneof", o.Span, formatOneof(o)})
	}
	for _, e := range m.NestedEnums {
		elems = append(elems, fileElem{"enum", e.Span, formatEnum(e)})
	}
	for _, nm := range m.NestedMessages {
		elems = append(elems, fileElem{"message", nm.Span, formatMessage(nm)})
	}
	for _, r := range m.Reserveds {
		elems = append(elems, fileElem{"reserved", r.Span, formatReserved(r)})
	}
	for _, o := range m.Options {
		elems = append(elems, fileElem{"option", o.Span, formatOption(o)})
	}
	sortFileElems(elems)

	var sb strings.Builder
	fmt.Fprintf(&sb, "message %s {", m.Name)
	writeElems(&sb, elems, 1)
	sb.WriteString("}")
	return sb.String()
}

func formatEnum(e *Enum) string {
	var elems []fileElem
	for _, v := range e.Values {
		elems = append(elems, fileElem{"value", v.Span, formatEnumValue(v)})
	}
	for _, r := range e.Reserveds {
		elems = append(elems, fileElem{"reserved", r.Span, formatReserved(r)})
	}
	for _, o := range e.Options {
		elems = append(elems, fileElem{"option", o.Span, formatOption(o)})
	}
	sortFileElems(elems)

	var sb strings.Builder
	fmt.Fprintf(&sb, "enum %s {", e.Name)
	writeElems(&sb, elems, 1)
	sb.WriteString("}")
	return sb.String()
}

func formatRpcParam(typeName string, stream bool) string {
	if stream {
		return "stream " + typeName
	}
	return typeName
}

func formatRpc(r *Rpc) string {
	head := fmt.Sprintf("rpc %s(%s) returns (%s)", r.Name,
		formatRpcParam(r.InputType, r.InputStream), formatRpcParam(r.OutputType, r.OutputStream))

	if len(r.Options) == 0 {
		return head + ";"
	}

	var elems []fileElem
	for _, o := range r.Options {
		elems = append(elems, fileElem{"option", o.Span, formatOption(o)})
	}
	sortFileElems(elems)

	var sb strings.Builder
	sb.WriteString(head + " {")
	writeElems(&sb, elems, 1)
	sb.WriteString("}")
	return sb.String()
}

func formatService(s *Service) string {
	var elems []fileElem
	for _, r := range s.Rpcs {
		elems = append(elems, fileElem{"rpc", r.Span, formatRpc(r)})
	}
	for _, o := range s.Options {
		elems = append(elems, fileElem{"option", o.Span, formatOption(o)})
	}
	sortFileElems(elems)

	var sb strings.Builder
	fmt.Fprintf(&sb, "service %s {", s.Name)
	writeElems(&sb, elems, 1)
	sb.WriteString("}")
	return sb.String()
}

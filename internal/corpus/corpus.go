// Package corpus generates random proto3 source files for the round-trip
// property test described by spec §8: for every source the generator
// produces, format(parse(format(parse(s)))) must equal format(parse(s)).
//
// This fills the gap left by original_source/protopy's
// protopy.testing.generate_proto_sources(seed, count), which spec.md's
// own §1 scope explicitly keeps external to the parser core. There is no
// randomized-generation library anywhere in the reference corpus, so this
// package is built directly on math/rand (see DESIGN.md).
package corpus

import (
	"fmt"
	"math/rand"

	"github.com/dekarrin/proto3c/ast"
)

var words = []string{
	"alpha", "beta", "gamma", "delta", "omega", "zeta", "theta", "kappa",
	"lambda", "sigma", "tau", "phi", "chi", "psi", "epsilon", "rho",
}

var scalarTypeNames = []string{
	"int32", "int64", "uint32", "uint64", "sint32", "sint64",
	"fixed32", "fixed64", "sfixed32", "sfixed64",
	"float", "double", "bool", "string", "bytes",
}

var mapKeyTypeNames = []string{
	"int32", "int64", "uint32", "uint64", "sint32", "sint64",
	"fixed32", "fixed64", "sfixed32", "sfixed64", "bool", "string",
}

// Generate returns count independently generated proto3 source files,
// deterministic for a given seed: the same (seed, count) always produces
// the same sources, in the same order.
func Generate(seed int64, count int) []string {
	rng := rand.New(rand.NewSource(seed))
	out := make([]string, count)
	for i := range out {
		out[i] = ast.Format(genFile(rng, i))
	}
	return out
}

type namer struct {
	rng *rand.Rand
	n   int
}

func (nm *namer) next(base string) string {
	nm.n++
	return fmt.Sprintf("%s_%s%d", base, words[nm.rng.Intn(len(words))], nm.n)
}

func genFile(rng *rand.Rand, idx int) *ast.File {
	nm := &namer{rng: rng}
	f := &ast.File{Syntax: "proto3"}

	if rng.Intn(4) != 0 {
		f.Package = &ast.PackageDecl{Name: genFullIdent(rng, nm)}
	}

	for n := rng.Intn(3); n > 0; n-- {
		kind := ast.ImportDefault
		switch rng.Intn(3) {
		case 1:
			kind = ast.ImportPublic
		case 2:
			kind = ast.ImportWeak
		}
		f.Imports = append(f.Imports, &ast.Import{
			Path: fmt.Sprintf("%s/%s.proto", words[rng.Intn(len(words))], nm.next("dep")),
			Kind: kind,
		})
	}

	for n := rng.Intn(3); n > 0; n-- {
		f.Options = append(f.Options, genOption(rng, nm))
	}

	msgCount := 1 + rng.Intn(4)
	for i := 0; i < msgCount; i++ {
		f.Messages = append(f.Messages, genMessage(rng, nm, 0))
	}

	for n := rng.Intn(3); n > 0; n-- {
		f.Enums = append(f.Enums, genEnum(rng, nm))
	}

	for n := rng.Intn(2); n > 0; n-- {
		f.Services = append(f.Services, genService(rng, nm))
	}

	if rng.Intn(5) == 0 {
		f.Extensions = append(f.Extensions, &ast.ExtensionsDecl{
			Ranges: genReservedRanges(rng),
		})
	}

	_ = idx
	return f
}

func genFullIdent(rng *rand.Rand, nm *namer) string {
	parts := 1 + rng.Intn(3)
	name := nm.next("pkg")
	for i := 1; i < parts; i++ {
		name += "." + nm.next("pkg")
	}
	return name
}

func genOption(rng *rand.Rand, nm *namer) *ast.Option {
	return &ast.Option{
		Name:  []ast.OptionNamePart{{Name: nm.next("opt")}},
		Value: genScalarOptionValue(rng),
	}
}

func genScalarOptionValue(rng *rand.Rand) ast.OptionValue {
	switch rng.Intn(4) {
	case 0:
		return &ast.ScalarValue{Kind: ast.ScalarString, Text: fmt.Sprintf("text value %d", rng.Intn(1000))}
	case 1:
		return &ast.ScalarValue{Kind: ast.ScalarInt, Text: fmt.Sprintf("%d", rng.Intn(10000))}
	case 2:
		return &ast.ScalarValue{Kind: ast.ScalarFloat, Text: fmt.Sprintf("%g", rng.Float64()*1000)}
	default:
		if rng.Intn(2) == 0 {
			return &ast.ScalarValue{Kind: ast.ScalarBool, Text: "true"}
		}
		return &ast.ScalarValue{Kind: ast.ScalarBool, Text: "false"}
	}
}

func genFieldOptions(rng *rand.Rand, nm *namer) []*ast.Option {
	var opts []*ast.Option
	for n := rng.Intn(3); n > 0; n-- {
		opts = append(opts, genOption(rng, nm))
	}
	return opts
}

func genReservedRanges(rng *rand.Rand) []ast.ReservedRange {
	n := 1 + rng.Intn(3)
	ranges := make([]ast.ReservedRange, n)
	next := int64(2)
	for i := range ranges {
		start := next
		next += int64(1 + rng.Intn(5))
		switch rng.Intn(3) {
		case 0:
			ranges[i] = ast.ReservedRange{Start: start, End: start}
		case 1:
			end := start + int64(rng.Intn(5))
			ranges[i] = ast.ReservedRange{Start: start, End: end}
			next = end + 1
		default:
			ranges[i] = ast.ReservedRange{Start: start, ToMax: true}
		}
	}
	return ranges
}

func genFieldType(rng *rand.Rand, nm *namer, allowMap bool) ast.FieldType {
	if allowMap && rng.Intn(5) == 0 {
		return ast.FieldType{Map: &ast.MapType{
			KeyType:   mapKeyTypeNames[rng.Intn(len(mapKeyTypeNames))],
			ValueType: genFieldType(rng, nm, false),
		}}
	}
	if rng.Intn(4) == 0 {
		return ast.FieldType{Name: nm.next("Msg")}
	}
	return ast.FieldType{Name: scalarTypeNames[rng.Intn(len(scalarTypeNames))]}
}

func genFieldLabel(rng *rand.Rand) ast.FieldLabel {
	switch rng.Intn(3) {
	case 0:
		return ast.LabelNone
	case 1:
		return ast.LabelOptional
	default:
		return ast.LabelRepeated
	}
}

func genField(rng *rand.Rand, nm *namer, number int64, allowMap bool) *ast.Field {
	return &ast.Field{
		Label:   genFieldLabel(rng),
		Type:    genFieldType(rng, nm, allowMap),
		Name:    nm.next("field"),
		Number:  number,
		Options: genFieldOptions(rng, nm),
	}
}

func genOneof(rng *rand.Rand, nm *namer, startNumber int64) *ast.Oneof {
	o := &ast.Oneof{Name: nm.next("choice")}
	n := 2 + rng.Intn(2)
	for i := 0; i < n; i++ {
		f := genField(rng, nm, startNumber+int64(i), false)
		f.Label = ast.LabelNone
		o.Fields = append(o.Fields, f)
	}
	for k := rng.Intn(2); k > 0; k-- {
		o.Options = append(o.Options, genOption(rng, nm))
	}
	return o
}

func genMessage(rng *rand.Rand, nm *namer, depth int) *ast.Message {
	m := &ast.Message{Name: nm.next("Msg")}

	fieldCount := 1 + rng.Intn(5)
	var number int64 = 1
	for i := 0; i < fieldCount; i++ {
		m.Fields = append(m.Fields, genField(rng, nm, number, true))
		number++
	}

	if rng.Intn(3) == 0 {
		m.Oneofs = append(m.Oneofs, genOneof(rng, nm, number))
		number += 2
	}

	if depth < 2 && rng.Intn(3) == 0 {
		m.NestedMessages = append(m.NestedMessages, genMessage(rng, nm, depth+1))
	}
	if rng.Intn(3) == 0 {
		m.NestedEnums = append(m.NestedEnums, genEnum(rng, nm))
	}
	if rng.Intn(3) == 0 {
		m.Reserveds = append(m.Reserveds, genReserved(rng, nm))
	}
	for k := rng.Intn(2); k > 0; k-- {
		m.Options = append(m.Options, genOption(rng, nm))
	}

	return m
}

func genReserved(rng *rand.Rand, nm *namer) *ast.Reserved {
	if rng.Intn(2) == 0 {
		n := 1 + rng.Intn(3)
		names := make([]string, n)
		for i := range names {
			names[i] = nm.next("old_field")
		}
		return &ast.Reserved{Names: names}
	}
	return &ast.Reserved{Ranges: genReservedRanges(rng)}
}

func genEnum(rng *rand.Rand, nm *namer) *ast.Enum {
	e := &ast.Enum{Name: nm.next("Kind")}

	valueCount := 1 + rng.Intn(4)
	e.Values = append(e.Values, &ast.EnumValue{Name: nm.next("KIND_UNSPECIFIED"), Number: 0})
	for i := 1; i < valueCount; i++ {
		e.Values = append(e.Values, &ast.EnumValue{
			Name:    nm.next("KIND_VALUE"),
			Number:  int64(i),
			Options: genFieldOptions(rng, nm),
		})
	}

	if rng.Intn(3) == 0 {
		e.Options = append(e.Options, &ast.Option{
			Name:  []ast.OptionNamePart{{Name: "allow_alias"}},
			Value: &ast.ScalarValue{Kind: ast.ScalarBool, Text: "true"},
		})
	}
	if rng.Intn(3) == 0 {
		e.Reserveds = append(e.Reserveds, genReserved(rng, nm))
	}

	return e
}

func genService(rng *rand.Rand, nm *namer) *ast.Service {
	s := &ast.Service{Name: nm.next("Service")}

	rpcCount := 1 + rng.Intn(4)
	for i := 0; i < rpcCount; i++ {
		s.Rpcs = append(s.Rpcs, genRpc(rng, nm))
	}
	for k := rng.Intn(2); k > 0; k-- {
		s.Options = append(s.Options, genOption(rng, nm))
	}

	return s
}

func genRpc(rng *rand.Rand, nm *namer) *ast.Rpc {
	r := &ast.Rpc{
		Name:         nm.next("Method"),
		InputType:    nm.next("Request"),
		InputStream:  rng.Intn(4) == 0,
		OutputType:   nm.next("Response"),
		OutputStream: rng.Intn(4) == 0,
	}
	for k := rng.Intn(2); k > 0; k-- {
		r.Options = append(r.Options, genOption(rng, nm))
	}
	return r
}

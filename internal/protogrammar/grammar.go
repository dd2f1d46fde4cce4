package protogrammar

import (
	"strconv"

	"github.com/dekarrin/proto3c/ast"
	"github.com/dekarrin/proto3c/grammar"
	"github.com/dekarrin/proto3c/internal/protoerr"
	"github.com/dekarrin/proto3c/lex"
	"github.com/dekarrin/proto3c/symbol"
)

// rpcParam is the semantic value of RPC_PARAM: a (possibly streamed) type
// name on either side of an rpc's parameter list.
type rpcParam struct {
	typeName string
	stream   bool
	span     lex.Span
}

// extendSpanStart returns s with its start position replaced by start's.
func extendSpanStart(s, start lex.Span) lex.Span {
	s.File = start.File
	s.StartOffset = start.StartOffset
	s.StartLine = start.StartLine
	s.StartColumn = start.StartColumn
	return s
}

// appendDotted joins a leading identifier with a (possibly empty)
// dotted-suffix spannedString produced by a FULL_IDENT_REST/TYPE_NAME_REST
// reduction, preserving first's start position when rest is empty.
func appendDotted(first, rest spannedString) spannedString {
	if rest.text == "" {
		return first
	}
	return spannedString{
		text: first.text + rest.text,
		span: lex.Span{
			File:        first.span.File,
			StartOffset: first.span.StartOffset,
			EndOffset:   rest.span.EndOffset,
			StartLine:   first.span.StartLine,
			StartColumn: first.span.StartColumn,
		},
	}
}

// dottedRest builds the semantic value of a '.' IDENT_OR_KEYWORD REST
// production: the text and span running from the dot through whichever of
// id or rest ends last.
func dottedRest(dot lex.Token, id, rest spannedString) spannedString {
	text := "." + id.text + rest.text
	end := id.span
	if rest.text != "" {
		end = rest.span
	}
	return spannedString{
		text: text,
		span: lex.Span{
			File:        dot.Span.File,
			StartOffset: dot.Span.StartOffset,
			EndOffset:   end.EndOffset,
			StartLine:   dot.Span.StartLine,
			StartColumn: dot.Span.StartColumn,
		},
	}
}

func mustDecodeString(tok lex.Token) string {
	s, err := ast.DecodeStringLiteral(tok.Text)
	if err != nil {
		protoerr.Violatef("string literal %q accepted by lexer but failed to decode: %v", tok.Text, err)
	}
	return s
}

func mustParseInt(tok lex.Token) int64 {
	n, err := strconv.ParseInt(tok.Text, 0, 64)
	if err != nil {
		protoerr.Violatef("integer literal %q accepted by lexer but failed to parse: %v", tok.Text, err)
	}
	return n
}

// Build assembles the complete proto3 grammar: every production listed in
// spec.md §4.2-§4.6, each carrying a semantic action that builds the typed
// AST nodes in package ast.
func Build() (grammar.Grammar, error) {
	b := grammar.NewBuilder(symbol.NTFile)

	// FILE -> SYNTAX_DECL TOP_LEVEL_DEFS
	//
	// The syntax declaration is required grammatically first. This keeps
	// the "unexpected token" hint at the very start of a file limited to
	// the one token that can legally open it (matching the boundary case
	// where a stray ';' before any syntax line should be told to expect
	// "syntax"), while leaving the question of whether the declared value
	// actually equals "proto3" to a semantic check after parsing succeeds.
	b.Rule(symbol.NTFile, []symbol.Symbol{symbol.NTSyntaxDecl, symbol.NTTopLevelDefs}, func(vals []any) any {
		syn := vals[0].(spannedString)
		defs := vals[1].(bodyList)
		f := partitionFile(defs)
		f.Syntax = syn.text
		f.SyntaxSpan = syn.span
		span := syn.span
		if len(defs) > 0 {
			span.EndOffset = nodeSpan(defs[len(defs)-1].val).EndOffset
		}
		f.Span = span
		return f
	})

	// SYNTAX_DECL -> 'syntax' '=' STRING_LIT ';'
	b.Rule(symbol.NTSyntaxDecl, []symbol.Symbol{symbol.KwSyntax, symbol.EQUALS, symbol.StringLit, symbol.SEMI}, func(vals []any) any {
		tok := vals[2].(lex.Token)
		return spannedString{text: mustDecodeString(tok), span: spanAcross(vals[0], vals[3])}
	})

	// TOP_LEVEL_DEFS -> TOP_LEVEL_DEFS TOP_LEVEL_DEF | ε
	b.Rule(symbol.NTTopLevelDefs, []symbol.Symbol{symbol.NTTopLevelDefs, symbol.NTTopLevelDef}, appendBody)
	b.Rule(symbol.NTTopLevelDefs, nil, emptyBody)

	// TOP_LEVEL_DEF -> PACKAGE_DECL | IMPORT_DECL | OPTION_DECL
	//                | MESSAGE_DECL | ENUM_DECL | SERVICE_DECL
	//                | EXTENSIONS_DECL | EMPTY_STMT
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTPackageDecl}, wrapElem(elemPackage))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTImportDecl}, wrapElem(elemImport))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTOptionDecl}, wrapElem(elemOption))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTMessageDecl}, wrapElem(elemMessage))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTEnumDecl}, wrapElem(elemEnum))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTServiceDecl}, wrapElem(elemService))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTExtensionsDecl}, wrapElem(elemExtensions))
	b.Rule(symbol.NTTopLevelDef, []symbol.Symbol{symbol.NTEmptyStmt}, passThrough)

	// PACKAGE_DECL -> 'package' FULL_IDENT ';'
	b.Rule(symbol.NTPackageDecl, []symbol.Symbol{symbol.KwPackage, symbol.NTFullIdent, symbol.SEMI}, func(vals []any) any {
		name := vals[1].(spannedString)
		return &ast.PackageDecl{Name: name.text, Span: spanAcross(vals[0], vals[2])}
	})

	// IMPORT_MODIFIER -> 'public' | 'weak' | ε
	b.Rule(symbol.NTImportModifier, []symbol.Symbol{symbol.KwPublic}, func([]any) any { return ast.ImportPublic })
	b.Rule(symbol.NTImportModifier, []symbol.Symbol{symbol.KwWeak}, func([]any) any { return ast.ImportWeak })
	b.Rule(symbol.NTImportModifier, nil, func([]any) any { return ast.ImportDefault })

	// IMPORT_DECL -> 'import' IMPORT_MODIFIER STRING_LIT ';'
	b.Rule(symbol.NTImportDecl, []symbol.Symbol{symbol.KwImport, symbol.NTImportModifier, symbol.StringLit, symbol.SEMI}, func(vals []any) any {
		kind := vals[1].(ast.ImportKind)
		tok := vals[2].(lex.Token)
		return &ast.Import{Path: mustDecodeString(tok), Kind: kind, Span: spanAcross(vals[0], vals[3])}
	})

	// OPTION_DECL -> 'option' OPTION_NAME '=' OPTION_VALUE ';'
	b.Rule(symbol.NTOptionDecl, []symbol.Symbol{symbol.KwOption, symbol.NTOptionName, symbol.EQUALS, symbol.NTOptionValue, symbol.SEMI}, func(vals []any) any {
		name := vals[1].(optionName)
		val := vals[3].(ast.OptionValue)
		return &ast.Option{Name: name.parts, Value: val, Span: spanAcross(vals[0], vals[4])}
	})

	// OPTION_NAME -> IDENT_OR_KEYWORD OPTION_NAME_REST
	//              | '(' FULL_IDENT ')' OPTION_NAME_REST
	b.Rule(symbol.NTOptionName, []symbol.Symbol{symbol.NTIdentOrKeyword, symbol.NTOptionNameRest}, func(vals []any) any {
		first := vals[0].(spannedString)
		rest := vals[1].([]ast.OptionNamePart)
		parts := append([]ast.OptionNamePart{{Name: first.text}}, rest...)
		return optionName{parts: parts, span: first.span}
	})
	b.Rule(symbol.NTOptionName, []symbol.Symbol{symbol.LPAREN, symbol.NTFullIdent, symbol.RPAREN, symbol.NTOptionNameRest}, func(vals []any) any {
		name := vals[1].(spannedString)
		rest := vals[3].([]ast.OptionNamePart)
		parts := append([]ast.OptionNamePart{{Name: name.text, Parenthesized: true}}, rest...)
		lparen := vals[0].(lex.Token)
		return optionName{parts: parts, span: nodeSpan(lparen)}
	})

	// OPTION_NAME_REST -> '.' IDENT_OR_KEYWORD OPTION_NAME_REST
	//                   | '.' '(' FULL_IDENT ')' OPTION_NAME_REST
	//                   | ε
	b.Rule(symbol.NTOptionNameRest, []symbol.Symbol{symbol.DOT, symbol.NTIdentOrKeyword, symbol.NTOptionNameRest}, func(vals []any) any {
		name := vals[1].(spannedString)
		rest := vals[2].([]ast.OptionNamePart)
		return append([]ast.OptionNamePart{{Name: name.text}}, rest...)
	})
	b.Rule(symbol.NTOptionNameRest, []symbol.Symbol{symbol.DOT, symbol.LPAREN, symbol.NTFullIdent, symbol.RPAREN, symbol.NTOptionNameRest}, func(vals []any) any {
		name := vals[2].(spannedString)
		rest := vals[4].([]ast.OptionNamePart)
		return append([]ast.OptionNamePart{{Name: name.text, Parenthesized: true}}, rest...)
	})
	b.Rule(symbol.NTOptionNameRest, nil, func([]any) any { return []ast.OptionNamePart(nil) })

	// OPTION_VALUE -> SCALAR_VALUE | FULL_IDENT | MSG_LITERAL | LIST_VALUE
	b.Rule(symbol.NTOptionValue, []symbol.Symbol{symbol.NTScalarValue}, passThrough)
	b.Rule(symbol.NTOptionValue, []symbol.Symbol{symbol.NTFullIdent}, func(vals []any) any {
		s := vals[0].(spannedString)
		return &ast.IdentifierValue{Name: s.text, SpanVal: s.span}
	})
	b.Rule(symbol.NTOptionValue, []symbol.Symbol{symbol.NTMsgLiteral}, passThrough)
	b.Rule(symbol.NTOptionValue, []symbol.Symbol{symbol.NTListValue}, passThrough)

	// SCALAR_VALUE -> STRING_LIT | INT_LIT | FLOAT_LIT | 'true' | 'false'
	b.Rule(symbol.NTScalarValue, []symbol.Symbol{symbol.StringLit}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return &ast.ScalarValue{Kind: ast.ScalarString, Text: mustDecodeString(tok), SpanVal: tok.Span}
	})
	b.Rule(symbol.NTScalarValue, []symbol.Symbol{symbol.IntLit}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return &ast.ScalarValue{Kind: ast.ScalarInt, Text: tok.Text, SpanVal: tok.Span}
	})
	b.Rule(symbol.NTScalarValue, []symbol.Symbol{symbol.FloatLit}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return &ast.ScalarValue{Kind: ast.ScalarFloat, Text: tok.Text, SpanVal: tok.Span}
	})
	b.Rule(symbol.NTScalarValue, []symbol.Symbol{symbol.KwTrue}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return &ast.ScalarValue{Kind: ast.ScalarBool, Text: tok.Text, SpanVal: tok.Span}
	})
	b.Rule(symbol.NTScalarValue, []symbol.Symbol{symbol.KwFalse}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return &ast.ScalarValue{Kind: ast.ScalarBool, Text: tok.Text, SpanVal: tok.Span}
	})

	// MSG_LITERAL -> '{' MSG_LIT_FIELDS '}'
	b.Rule(symbol.NTMsgLiteral, []symbol.Symbol{symbol.LBRACE, symbol.NTMsgLitFields, symbol.RBRACE}, func(vals []any) any {
		fields := vals[1].([]ast.MessageLitField)
		return &ast.MessageValue{Fields: fields, SpanVal: spanAcross(vals[0], vals[2])}
	})

	// MSG_LIT_FIELDS -> MSG_LIT_FIELDS MSG_LIT_FIELD_SEP MSG_LIT_FIELD
	//                 | MSG_LIT_FIELDS MSG_LIT_FIELD
	//                 | ε
	b.Rule(symbol.NTMsgLitFields, []symbol.Symbol{symbol.NTMsgLitFields, symbol.NTMsgLitFieldSep, symbol.NTMsgLitField}, func(vals []any) any {
		fields := vals[0].([]ast.MessageLitField)
		f := vals[2].(ast.MessageLitField)
		return append(append([]ast.MessageLitField{}, fields...), f)
	})
	b.Rule(symbol.NTMsgLitFields, []symbol.Symbol{symbol.NTMsgLitFields, symbol.NTMsgLitField}, func(vals []any) any {
		fields := vals[0].([]ast.MessageLitField)
		f := vals[1].(ast.MessageLitField)
		return append(append([]ast.MessageLitField{}, fields...), f)
	})
	b.Rule(symbol.NTMsgLitFields, nil, func([]any) any { return []ast.MessageLitField(nil) })

	// MSG_LIT_FIELD_SEP -> ',' | ';'
	b.Rule(symbol.NTMsgLitFieldSep, []symbol.Symbol{symbol.COMMA}, func([]any) any { return nil })
	b.Rule(symbol.NTMsgLitFieldSep, []symbol.Symbol{symbol.SEMI}, func([]any) any { return nil })

	// MSG_LIT_FIELD -> IDENT_OR_KEYWORD ':' OPTION_VALUE
	//                | IDENT_OR_KEYWORD MSG_LITERAL
	b.Rule(symbol.NTMsgLitField, []symbol.Symbol{symbol.NTIdentOrKeyword, symbol.COLON, symbol.NTOptionValue}, func(vals []any) any {
		name := vals[0].(spannedString)
		val := vals[2].(ast.OptionValue)
		return ast.MessageLitField{Name: name.text, Value: val, Span: spanAcross(vals[0], val)}
	})
	b.Rule(symbol.NTMsgLitField, []symbol.Symbol{symbol.NTIdentOrKeyword, symbol.NTMsgLiteral}, func(vals []any) any {
		name := vals[0].(spannedString)
		val := vals[1].(*ast.MessageValue)
		return ast.MessageLitField{Name: name.text, Value: val, Span: spanAcross(vals[0], vals[1])}
	})

	// LIST_VALUE -> '[' LIST_ELEMS ']'
	b.Rule(symbol.NTListValue, []symbol.Symbol{symbol.LBRACKET, symbol.NTListElems, symbol.RBRACKET}, func(vals []any) any {
		elems := vals[1].([]ast.OptionValue)
		return &ast.ListValue{Elements: elems, SpanVal: spanAcross(vals[0], vals[2])}
	})

	// LIST_ELEMS -> LIST_ELEMS ',' OPTION_VALUE | OPTION_VALUE | ε
	b.Rule(symbol.NTListElems, []symbol.Symbol{symbol.NTListElems, symbol.COMMA, symbol.NTOptionValue}, func(vals []any) any {
		elems := vals[0].([]ast.OptionValue)
		return append(append([]ast.OptionValue{}, elems...), vals[2].(ast.OptionValue))
	})
	b.Rule(symbol.NTListElems, []symbol.Symbol{symbol.NTOptionValue}, func(vals []any) any {
		return []ast.OptionValue{vals[0].(ast.OptionValue)}
	})
	b.Rule(symbol.NTListElems, nil, func([]any) any { return []ast.OptionValue(nil) })

	// MESSAGE_DECL -> 'message' IDENT_OR_KEYWORD '{' MESSAGE_BODY '}'
	b.Rule(symbol.NTMessageDecl, []symbol.Symbol{symbol.KwMessage, symbol.NTIdentOrKeyword, symbol.LBRACE, symbol.NTMessageBody, symbol.RBRACE}, func(vals []any) any {
		name := vals[1].(spannedString)
		body := vals[3].(bodyList)
		m := partitionMessage(name.text, body)
		m.Span = spanAcross(vals[0], vals[4])
		return m
	})

	// MESSAGE_BODY -> MESSAGE_BODY MESSAGE_ELEM | ε
	b.Rule(symbol.NTMessageBody, []symbol.Symbol{symbol.NTMessageBody, symbol.NTMessageElem}, appendBody)
	b.Rule(symbol.NTMessageBody, nil, emptyBody)

	// MESSAGE_ELEM -> FIELD_DECL | ONEOF_DECL | MESSAGE_DECL | ENUM_DECL
	//               | RESERVED_DECL | OPTION_DECL | EXTENSIONS_DECL | EMPTY_STMT
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTFieldDecl}, wrapElem(elemField))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTOneofDecl}, wrapElem(elemOneof))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTMessageDecl}, wrapElem(elemMessage))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTEnumDecl}, wrapElem(elemEnum))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTReservedDecl}, wrapElem(elemReserved))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTOptionDecl}, wrapElem(elemOption))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTExtensionsDecl}, wrapElem(elemExtensions))
	b.Rule(symbol.NTMessageElem, []symbol.Symbol{symbol.NTEmptyStmt}, passThrough)

	// FIELD_DECL -> FIELD_LABEL FIELD_TYPE IDENT_OR_KEYWORD '=' INT_LIT FIELD_OPTIONS ';'
	b.Rule(symbol.NTFieldDecl, []symbol.Symbol{
		symbol.NTFieldLabel, symbol.NTFieldType, symbol.NTIdentOrKeyword, symbol.EQUALS, symbol.IntLit, symbol.NTFieldOptions, symbol.SEMI,
	}, func(vals []any) any {
		lbl := vals[0].(fieldLabel)
		typ := vals[1].(ast.FieldType)
		name := vals[2].(spannedString)
		numTok := vals[4].(lex.Token)
		opts := vals[5].([]*ast.Option)

		start := lbl.span
		if start == (lex.Span{}) {
			start = typ.Span
		}
		endTok := vals[6].(lex.Token)
		span := extendSpanStart(endTok.Span, start)
		span.EndOffset = endTok.Span.EndOffset

		return &ast.Field{
			Label:   lbl.label,
			Type:    typ,
			Name:    name.text,
			Number:  mustParseInt(numTok),
			Options: opts,
			Span:    span,
		}
	})

	// FIELD_LABEL -> 'optional' | 'repeated' | 'required' | ε
	b.Rule(symbol.NTFieldLabel, []symbol.Symbol{symbol.KwOptional}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return fieldLabel{label: ast.LabelOptional, span: tok.Span}
	})
	b.Rule(symbol.NTFieldLabel, []symbol.Symbol{symbol.KwRepeated}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return fieldLabel{label: ast.LabelRepeated, span: tok.Span}
	})
	b.Rule(symbol.NTFieldLabel, []symbol.Symbol{symbol.KwRequired}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return fieldLabel{label: ast.LabelRequired, span: tok.Span}
	})
	b.Rule(symbol.NTFieldLabel, nil, func([]any) any { return fieldLabel{label: ast.LabelNone} })

	// FIELD_TYPE -> TYPE_NAME | MAP_TYPE
	b.Rule(symbol.NTFieldType, []symbol.Symbol{symbol.NTTypeName}, func(vals []any) any {
		s := vals[0].(spannedString)
		return ast.FieldType{Name: s.text, Span: s.span}
	})
	b.Rule(symbol.NTFieldType, []symbol.Symbol{symbol.NTMapType}, func(vals []any) any {
		m := vals[0].(*ast.MapType)
		return ast.FieldType{Map: m, Span: m.Span}
	})

	// MAP_TYPE -> 'map' '<' KEY_TYPE ',' FIELD_TYPE '>'
	b.Rule(symbol.NTMapType, []symbol.Symbol{symbol.KwMap, symbol.LANGLE, symbol.NTKeyType, symbol.COMMA, symbol.NTFieldType, symbol.RANGLE}, func(vals []any) any {
		key := vals[2].(spannedString)
		val := vals[4].(ast.FieldType)
		return &ast.MapType{KeyType: key.text, ValueType: val, Span: spanAcross(vals[0], vals[5])}
	})

	// KEY_TYPE -> IDENT_OR_KEYWORD
	//
	// The integral/string/bool restriction on map key types is a semantic
	// rule, not a syntactic one; the grammar admits any identifier here
	// and leaves validating it to a later pass.
	b.Rule(symbol.NTKeyType, []symbol.Symbol{symbol.NTIdentOrKeyword}, passThrough)

	// TYPE_NAME -> IDENT_OR_KEYWORD TYPE_NAME_REST | '.' IDENT_OR_KEYWORD TYPE_NAME_REST
	b.Rule(symbol.NTTypeName, []symbol.Symbol{symbol.NTIdentOrKeyword, symbol.NTTypeNameRest}, func(vals []any) any {
		first := vals[0].(spannedString)
		rest := vals[1].(spannedString)
		return appendDotted(first, rest)
	})
	b.Rule(symbol.NTTypeName, []symbol.Symbol{symbol.DOT, symbol.NTIdentOrKeyword, symbol.NTTypeNameRest}, func(vals []any) any {
		dot := vals[0].(lex.Token)
		id := vals[1].(spannedString)
		rest := vals[2].(spannedString)
		joined := dottedRest(dot, id, rest)
		return spannedString{text: "." + id.text + rest.text, span: joined.span}
	})

	// TYPE_NAME_REST -> '.' IDENT_OR_KEYWORD TYPE_NAME_REST | ε
	b.Rule(symbol.NTTypeNameRest, []symbol.Symbol{symbol.DOT, symbol.NTIdentOrKeyword, symbol.NTTypeNameRest}, func(vals []any) any {
		return dottedRest(vals[0].(lex.Token), vals[1].(spannedString), vals[2].(spannedString))
	})
	b.Rule(symbol.NTTypeNameRest, nil, func([]any) any { return spannedString{} })

	// FIELD_OPTIONS -> '[' FIELD_OPTION_SEQ ']' | ε
	b.Rule(symbol.NTFieldOptions, []symbol.Symbol{symbol.LBRACKET, symbol.NTFieldOptionSeq, symbol.RBRACKET}, func(vals []any) any {
		return vals[1].([]*ast.Option)
	})
	b.Rule(symbol.NTFieldOptions, nil, func([]any) any { return []*ast.Option(nil) })

	// FIELD_OPTION_SEQ -> FIELD_OPTION_SEQ ',' FIELD_OPTION | FIELD_OPTION
	b.Rule(symbol.NTFieldOptionSeq, []symbol.Symbol{symbol.NTFieldOptionSeq, symbol.COMMA, symbol.NTFieldOption}, func(vals []any) any {
		seq := vals[0].([]*ast.Option)
		return append(append([]*ast.Option{}, seq...), vals[2].(*ast.Option))
	})
	b.Rule(symbol.NTFieldOptionSeq, []symbol.Symbol{symbol.NTFieldOption}, func(vals []any) any {
		return []*ast.Option{vals[0].(*ast.Option)}
	})

	// FIELD_OPTION -> OPTION_NAME '=' OPTION_VALUE
	//
	// Unlike OPTION_DECL there is no leading 'option' keyword here, so the
	// span must run from the option name's own start through the value,
	// the same way every other Option-constructing production spans name
	// through value.
	b.Rule(symbol.NTFieldOption, []symbol.Symbol{symbol.NTOptionName, symbol.EQUALS, symbol.NTOptionValue}, func(vals []any) any {
		name := vals[0].(optionName)
		val := vals[2].(ast.OptionValue)
		return &ast.Option{Name: name.parts, Value: val, Span: spanAcross(vals[0], vals[2])}
	})

	// ONEOF_DECL -> 'oneof' IDENT_OR_KEYWORD '{' ONEOF_BODY '}'
	b.Rule(symbol.NTOneofDecl, []symbol.Symbol{symbol.KwOneof, symbol.NTIdentOrKeyword, symbol.LBRACE, symbol.NTOneofBody, symbol.RBRACE}, func(vals []any) any {
		name := vals[1].(spannedString)
		body := vals[3].(bodyList)
		o := partitionOneof(name.text, body)
		o.Span = spanAcross(vals[0], vals[4])
		return o
	})

	// ONEOF_BODY -> ONEOF_BODY ONEOF_ELEM | ε
	b.Rule(symbol.NTOneofBody, []symbol.Symbol{symbol.NTOneofBody, symbol.NTOneofElem}, appendBody)
	b.Rule(symbol.NTOneofBody, nil, emptyBody)

	// ONEOF_ELEM -> FIELD_DECL | OPTION_DECL | EMPTY_STMT
	//
	// The grammar reuses FIELD_DECL (which admits an optional label) here
	// rather than duplicating a label-less field rule; rejecting a labeled
	// field inside a oneof is a semantic check, not a syntactic one.
	b.Rule(symbol.NTOneofElem, []symbol.Symbol{symbol.NTFieldDecl}, wrapElem(elemField))
	b.Rule(symbol.NTOneofElem, []symbol.Symbol{symbol.NTOptionDecl}, wrapElem(elemOption))
	b.Rule(symbol.NTOneofElem, []symbol.Symbol{symbol.NTEmptyStmt}, passThrough)

	// ENUM_DECL -> 'enum' IDENT_OR_KEYWORD '{' ENUM_BODY '}'
	b.Rule(symbol.NTEnumDecl, []symbol.Symbol{symbol.KwEnum, symbol.NTIdentOrKeyword, symbol.LBRACE, symbol.NTEnumBody, symbol.RBRACE}, func(vals []any) any {
		name := vals[1].(spannedString)
		body := vals[3].(bodyList)
		e := partitionEnum(name.text, body)
		e.Span = spanAcross(vals[0], vals[4])
		return e
	})

	// ENUM_BODY -> ENUM_BODY ENUM_ELEM | ε
	b.Rule(symbol.NTEnumBody, []symbol.Symbol{symbol.NTEnumBody, symbol.NTEnumElem}, appendBody)
	b.Rule(symbol.NTEnumBody, nil, emptyBody)

	// ENUM_ELEM -> ENUM_VALUE_DECL | OPTION_DECL | RESERVED_DECL | EMPTY_STMT
	b.Rule(symbol.NTEnumElem, []symbol.Symbol{symbol.NTEnumValueDecl}, wrapElem(elemEnumValue))
	b.Rule(symbol.NTEnumElem, []symbol.Symbol{symbol.NTOptionDecl}, wrapElem(elemOption))
	b.Rule(symbol.NTEnumElem, []symbol.Symbol{symbol.NTReservedDecl}, wrapElem(elemReserved))
	b.Rule(symbol.NTEnumElem, []symbol.Symbol{symbol.NTEmptyStmt}, passThrough)

	// ENUM_VALUE_DECL -> IDENT_OR_KEYWORD '=' INT_LIT FIELD_OPTIONS ';'
	b.Rule(symbol.NTEnumValueDecl, []symbol.Symbol{symbol.NTIdentOrKeyword, symbol.EQUALS, symbol.IntLit, symbol.NTFieldOptions, symbol.SEMI}, func(vals []any) any {
		name := vals[0].(spannedString)
		numTok := vals[2].(lex.Token)
		opts := vals[3].([]*ast.Option)
		return &ast.EnumValue{Name: name.text, Number: mustParseInt(numTok), Options: opts, Span: spanAcross(vals[0], vals[4])}
	})

	// SERVICE_DECL -> 'service' IDENT_OR_KEYWORD '{' SERVICE_BODY '}'
	b.Rule(symbol.NTServiceDecl, []symbol.Symbol{symbol.KwService, symbol.NTIdentOrKeyword, symbol.LBRACE, symbol.NTServiceBody, symbol.RBRACE}, func(vals []any) any {
		name := vals[1].(spannedString)
		body := vals[3].(bodyList)
		s := partitionService(name.text, body)
		s.Span = spanAcross(vals[0], vals[4])
		return s
	})

	// SERVICE_BODY -> SERVICE_BODY SERVICE_ELEM | ε
	b.Rule(symbol.NTServiceBody, []symbol.Symbol{symbol.NTServiceBody, symbol.NTServiceElem}, appendBody)
	b.Rule(symbol.NTServiceBody, nil, emptyBody)

	// SERVICE_ELEM -> RPC_DECL | OPTION_DECL | EMPTY_STMT
	b.Rule(symbol.NTServiceElem, []symbol.Symbol{symbol.NTRpcDecl}, wrapElem(elemRpc))
	b.Rule(symbol.NTServiceElem, []symbol.Symbol{symbol.NTOptionDecl}, wrapElem(elemOption))
	b.Rule(symbol.NTServiceElem, []symbol.Symbol{symbol.NTEmptyStmt}, passThrough)

	// RPC_DECL -> 'rpc' IDENT_OR_KEYWORD '(' RPC_PARAM ')' 'returns' '(' RPC_PARAM ')' RPC_BODY
	b.Rule(symbol.NTRpcDecl, []symbol.Symbol{
		symbol.KwRpc, symbol.NTIdentOrKeyword, symbol.LPAREN, symbol.NTRpcParam, symbol.RPAREN,
		symbol.KwReturns, symbol.LPAREN, symbol.NTRpcParam, symbol.RPAREN, symbol.NTRpcBody,
	}, func(vals []any) any {
		name := vals[1].(spannedString)
		in := vals[3].(rpcParam)
		out := vals[7].(rpcParam)
		opts := vals[9].([]*ast.Option)
		return &ast.Rpc{
			Name: name.text, InputType: in.typeName, InputStream: in.stream,
			OutputType: out.typeName, OutputStream: out.stream,
			Options: opts, Span: spanAcross(vals[0], vals[9]),
		}
	})

	// RPC_PARAM -> 'stream' FULL_IDENT | FULL_IDENT
	b.Rule(symbol.NTRpcParam, []symbol.Symbol{symbol.KwStream, symbol.NTFullIdent}, func(vals []any) any {
		id := vals[1].(spannedString)
		return rpcParam{typeName: id.text, stream: true, span: spanAcross(vals[0], vals[1])}
	})
	b.Rule(symbol.NTRpcParam, []symbol.Symbol{symbol.NTFullIdent}, func(vals []any) any {
		id := vals[0].(spannedString)
		return rpcParam{typeName: id.text, stream: false, span: id.span}
	})

	// RPC_BODY -> ';' | '{' RPC_BODY_ELEMS '}'
	b.Rule(symbol.NTRpcBody, []symbol.Symbol{symbol.SEMI}, func([]any) any { return []*ast.Option(nil) })
	b.Rule(symbol.NTRpcBody, []symbol.Symbol{symbol.LBRACE, symbol.NTRpcBodyElems, symbol.RBRACE}, func(vals []any) any {
		return partitionRpcOptions(vals[1].(bodyList))
	})

	// RPC_BODY_ELEMS -> RPC_BODY_ELEMS RPC_BODY_ELEM | ε
	b.Rule(symbol.NTRpcBodyElems, []symbol.Symbol{symbol.NTRpcBodyElems, symbol.NTRpcBodyElem}, appendBody)
	b.Rule(symbol.NTRpcBodyElems, nil, emptyBody)

	// RPC_BODY_ELEM -> OPTION_DECL | EMPTY_STMT
	b.Rule(symbol.NTRpcBodyElem, []symbol.Symbol{symbol.NTOptionDecl}, wrapElem(elemOption))
	b.Rule(symbol.NTRpcBodyElem, []symbol.Symbol{symbol.NTEmptyStmt}, passThrough)

	// RESERVED_DECL -> 'reserved' RESERVED_END
	b.Rule(symbol.NTReservedDecl, []symbol.Symbol{symbol.KwReserved, symbol.NTReservedEnd}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		r := vals[1].(*ast.Reserved)
		r.Span = extendSpanStart(r.Span, tok.Span)
		return r
	})

	// RESERVED_END -> RESERVED_RANGES ';' | RESERVED_NAMES ';'
	b.Rule(symbol.NTReservedEnd, []symbol.Symbol{symbol.NTReservedRanges, symbol.SEMI}, func(vals []any) any {
		ranges := vals[0].([]ast.ReservedRange)
		return &ast.Reserved{Ranges: ranges, Span: spanAcross(vals[0], vals[1])}
	})
	b.Rule(symbol.NTReservedEnd, []symbol.Symbol{symbol.NTReservedNames, symbol.SEMI}, func(vals []any) any {
		names := vals[0].([]string)
		return &ast.Reserved{Names: names, Span: spanAcross(vals[0], vals[1])}
	})

	// RESERVED_RANGES -> RESERVED_RANGES ',' RESERVED_RANGE | RESERVED_RANGE
	b.Rule(symbol.NTReservedRanges, []symbol.Symbol{symbol.NTReservedRanges, symbol.COMMA, symbol.NTReservedRange}, func(vals []any) any {
		ranges := vals[0].([]ast.ReservedRange)
		return append(append([]ast.ReservedRange{}, ranges...), vals[2].(ast.ReservedRange))
	})
	b.Rule(symbol.NTReservedRanges, []symbol.Symbol{symbol.NTReservedRange}, func(vals []any) any {
		return []ast.ReservedRange{vals[0].(ast.ReservedRange)}
	})

	// RESERVED_RANGE -> INT_LIT | INT_LIT 'to' INT_LIT | INT_LIT 'to' IDENT
	//
	// "max" is not a reserved word (symbol.Keywords has no entry for it):
	// it lexes as an ordinary IDENT so that it stays usable as a field,
	// message, or enum value name everywhere else. Here, where protoc
	// treats it as a contextual keyword, the grammar accepts any IDENT in
	// this slot (an LALR(1) table has no way to shift only on the literal
	// text "max") and the action below matches the text itself.
	b.Rule(symbol.NTReservedRange, []symbol.Symbol{symbol.IntLit}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		n := mustParseInt(tok)
		return ast.ReservedRange{Start: n, End: n, Span: tok.Span}
	})
	b.Rule(symbol.NTReservedRange, []symbol.Symbol{symbol.IntLit, symbol.KwTo, symbol.IntLit}, func(vals []any) any {
		startTok := vals[0].(lex.Token)
		endTok := vals[2].(lex.Token)
		return ast.ReservedRange{Start: mustParseInt(startTok), End: mustParseInt(endTok), Span: spanAcross(vals[0], vals[2])}
	})
	b.Rule(symbol.NTReservedRange, []symbol.Symbol{symbol.IntLit, symbol.KwTo, symbol.Ident}, func(vals []any) any {
		startTok := vals[0].(lex.Token)
		endTok := vals[2].(lex.Token)
		return ast.ReservedRange{
			Start: mustParseInt(startTok),
			ToMax: endTok.Text == "max",
			Span:  spanAcross(vals[0], vals[2]),
		}
	})

	// RESERVED_NAMES -> RESERVED_NAMES ',' STRING_LIT | STRING_LIT
	b.Rule(symbol.NTReservedNames, []symbol.Symbol{symbol.NTReservedNames, symbol.COMMA, symbol.StringLit}, func(vals []any) any {
		names := vals[0].([]string)
		tok := vals[2].(lex.Token)
		return append(append([]string{}, names...), mustDecodeString(tok))
	})
	b.Rule(symbol.NTReservedNames, []symbol.Symbol{symbol.StringLit}, func(vals []any) any {
		tok := vals[0].(lex.Token)
		return []string{mustDecodeString(tok)}
	})

	// EXTENSIONS_DECL -> 'extensions' RESERVED_RANGES ';'
	b.Rule(symbol.NTExtensionsDecl, []symbol.Symbol{symbol.KwExtensions, symbol.NTReservedRanges, symbol.SEMI}, func(vals []any) any {
		ranges := vals[1].([]ast.ReservedRange)
		return &ast.ExtensionsDecl{Ranges: ranges, Span: spanAcross(vals[0], vals[2])}
	})

	// IDENT_OR_KEYWORD -> IDENT
	//
	// Earlier drafts of this grammar also admitted every keyword in
	// symbol.KeywordsAllowedAsIdent here, mirroring protoc's tolerance of
	// keywords in identifier position. Tracing the resulting item sets
	// shows that doesn't work in LALR(1): at the point a body keyword
	// like 'message' is shifted, the parser cannot decide between
	// reducing it to IDENT_OR_KEYWORD (treating it as a field/type name)
	// and holding it as MESSAGE_DECL's own leading terminal, because both
	// continuations expect the same IDENT_OR_KEYWORD-starting lookahead
	// set next. protoc resolves this with a hand-rolled parser that can
	// look arbitrarily far ahead; a context-free grammar without a
	// precedence table cannot. Keywords are reserved words here instead.
	b.Rule(symbol.NTIdentOrKeyword, []symbol.Symbol{symbol.Ident}, identOrKeywordAction)

	// FULL_IDENT -> IDENT_OR_KEYWORD FULL_IDENT_REST
	b.Rule(symbol.NTFullIdent, []symbol.Symbol{symbol.NTIdentOrKeyword, symbol.NTFullIdentRest}, func(vals []any) any {
		first := vals[0].(spannedString)
		rest := vals[1].(spannedString)
		return appendDotted(first, rest)
	})

	// FULL_IDENT_REST -> '.' IDENT_OR_KEYWORD FULL_IDENT_REST | ε
	b.Rule(symbol.NTFullIdentRest, []symbol.Symbol{symbol.DOT, symbol.NTIdentOrKeyword, symbol.NTFullIdentRest}, func(vals []any) any {
		return dottedRest(vals[0].(lex.Token), vals[1].(spannedString), vals[2].(spannedString))
	})
	b.Rule(symbol.NTFullIdentRest, nil, func([]any) any { return spannedString{} })

	// EMPTY_STMT -> ';'
	b.Rule(symbol.NTEmptyStmt, []symbol.Symbol{symbol.SEMI}, func([]any) any {
		return bodyElem{kind: elemEmpty, val: nil}
	})

	return b.Build()
}

// fieldLabel is the semantic value of FIELD_LABEL: the chosen cardinality
// plus the span of the label keyword, or a zero span when none was
// written (FIELD_DECL falls back to its type's span in that case).
type fieldLabel struct {
	label ast.FieldLabel
	span  lex.Span
}

// wrapElem returns an action that tags its single input value with kind,
// for use by every XXX_ELEM -> YYY_DECL production.
func wrapElem(kind elemKind) grammar.Action {
	return func(vals []any) any {
		return bodyElem{kind: kind, val: vals[0]}
	}
}

// passThrough returns its single input value unchanged, for productions
// that are pure alternation (no combining to do).
func passThrough(vals []any) any {
	return vals[0]
}

// identOrKeywordAction builds the spannedString for IDENT_OR_KEYWORD's
// single IDENT alternative: the token's text and span.
func identOrKeywordAction(vals []any) any {
	tok := vals[0].(lex.Token)
	return spannedString{text: tok.Text, span: tok.Span}
}

// Package symbol defines the terminal and non-terminal identities used by
// the proto3 grammar, table builder, and parser. A Terminal or NonTerminal
// is identified entirely by its name; two symbols with the same name and
// kind are the same symbol.
package symbol

import "strings"

// Symbol is anything that can appear in a production body: a Terminal or a
// NonTerminal.
type Symbol interface {
	// SymbolName returns the stable name of the symbol.
	SymbolName() string

	// IsTerminal returns whether the symbol is a Terminal.
	IsTerminal() bool
}

// Terminal is a terminal symbol of the grammar. Terminals are named string
// values; two Terminals with the same name are the same terminal.
type Terminal string

// SymbolName returns the terminal's name.
func (t Terminal) SymbolName() string { return string(t) }

// IsTerminal always returns true for a Terminal.
func (t Terminal) IsTerminal() bool { return true }

// Display returns the printable form used in error messages: single
// character punctuation is shown as itself, every other terminal is shown
// by name.
func (t Terminal) Display() string {
	v := string(t)
	if len(v) == 1 && strings.ContainsRune(punctuation, rune(v[0])) {
		return v
	}
	return v
}

// NonTerminal is a non-terminal symbol of the grammar.
type NonTerminal string

// SymbolName returns the non-terminal's name.
func (n NonTerminal) SymbolName() string { return string(n) }

// IsTerminal always returns false for a NonTerminal.
func (n NonTerminal) IsTerminal() bool { return false }

const punctuation = "{}[]()<>,.;=:"

// EOF is the special end-of-input terminal, "$" in the grammar notation.
const EOF Terminal = "$"

// Punctuation terminals. Each character is its own terminal and its own
// printable form.
const (
	LBRACE    Terminal = "{"
	RBRACE    Terminal = "}"
	LBRACKET  Terminal = "["
	RBRACKET  Terminal = "]"
	LPAREN    Terminal = "("
	RPAREN    Terminal = ")"
	LANGLE    Terminal = "<"
	RANGLE    Terminal = ">"
	COMMA     Terminal = ","
	DOT       Terminal = "."
	SEMI      Terminal = ";"
	EQUALS    Terminal = "="
	COLON     Terminal = ":"
)

// Keyword terminals.
const (
	KwSyntax     Terminal = "syntax"
	KwPackage    Terminal = "package"
	KwImport     Terminal = "import"
	KwPublic     Terminal = "public"
	KwWeak       Terminal = "weak"
	KwOption     Terminal = "option"
	KwMessage    Terminal = "message"
	KwEnum       Terminal = "enum"
	KwService    Terminal = "service"
	KwRpc        Terminal = "rpc"
	KwReturns    Terminal = "returns"
	KwStream     Terminal = "stream"
	KwOneof      Terminal = "oneof"
	KwMap        Terminal = "map"
	KwRepeated   Terminal = "repeated"
	KwOptional   Terminal = "optional"
	KwRequired   Terminal = "required"
	KwReserved   Terminal = "reserved"
	KwTo         Terminal = "to"
	KwExtensions Terminal = "extensions"
	KwExtend     Terminal = "extend"
	KwTrue       Terminal = "true"
	KwFalse      Terminal = "false"
)

// max is not a keyword: it is contextual, meaning only the special
// upper-bound marker in a RESERVED_RANGE/EXTENSIONS_DECL when it
// immediately follows "to". Everywhere else, including field and message
// names, "max" lexes as a plain IDENT and package protogrammar's
// RESERVED_RANGE production matches it by its token text instead.

// Literal terminals.
const (
	IntLit    Terminal = "INT_LIT"
	FloatLit  Terminal = "FLOAT_LIT"
	StringLit Terminal = "STRING_LIT"
	Ident     Terminal = "IDENT"
)

// Keywords maps a lowercase lexeme to its keyword terminal, for use by the
// tokenizer's keyword/identifier disambiguation.
var Keywords = map[string]Terminal{
	"syntax":     KwSyntax,
	"package":    KwPackage,
	"import":     KwImport,
	"public":     KwPublic,
	"weak":       KwWeak,
	"option":     KwOption,
	"message":    KwMessage,
	"enum":       KwEnum,
	"service":    KwService,
	"rpc":        KwRpc,
	"returns":    KwReturns,
	"stream":     KwStream,
	"oneof":      KwOneof,
	"map":        KwMap,
	"repeated":   KwRepeated,
	"optional":   KwOptional,
	"required":   KwRequired,
	"reserved":   KwReserved,
	"to":         KwTo,
	"extensions": KwExtensions,
	"extend":     KwExtend,
	"true":       KwTrue,
	"false":      KwFalse,
}

// All keyword terminals are reserved words: none of them are valid in
// identifier position. An earlier design let keywords double as
// identifiers via a KeywordsAllowedAsIdent set, but that produces
// unavoidable LALR(1) shift/reduce conflicts (see the ident_or_keyword
// production comment in package protogrammar) and was dropped.

// Non-terminals of the proto3 grammar.
const (
	NTAugStart       NonTerminal = "S'"
	NTFile           NonTerminal = "FILE"
	NTSyntaxDecl     NonTerminal = "SYNTAX_DECL"
	NTTopLevelDefs   NonTerminal = "TOP_LEVEL_DEFS"
	NTTopLevelDef    NonTerminal = "TOP_LEVEL_DEF"
	NTPackageDecl    NonTerminal = "PACKAGE_DECL"
	NTImportDecl     NonTerminal = "IMPORT_DECL"
	NTImportModifier NonTerminal = "IMPORT_MODIFIER"
	NTOptionDecl     NonTerminal = "OPTION_DECL"
	NTOptionName     NonTerminal = "OPTION_NAME"
	NTOptionNameRest NonTerminal = "OPTION_NAME_REST"
	NTOptionValue    NonTerminal = "OPTION_VALUE"
	NTScalarValue    NonTerminal = "SCALAR_VALUE"
	NTMsgLiteral     NonTerminal = "MSG_LITERAL"
	NTMsgLitFields   NonTerminal = "MSG_LIT_FIELDS"
	NTMsgLitField    NonTerminal = "MSG_LIT_FIELD"
	NTMsgLitFieldSep NonTerminal = "MSG_LIT_FIELD_SEP"
	NTListValue      NonTerminal = "LIST_VALUE"
	NTListElems      NonTerminal = "LIST_ELEMS"
	NTMessageDecl    NonTerminal = "MESSAGE_DECL"
	NTMessageBody    NonTerminal = "MESSAGE_BODY"
	NTMessageElem    NonTerminal = "MESSAGE_ELEM"
	NTFieldDecl      NonTerminal = "FIELD_DECL"
	NTFieldLabel     NonTerminal = "FIELD_LABEL"
	NTFieldType      NonTerminal = "FIELD_TYPE"
	NTMapType        NonTerminal = "MAP_TYPE"
	NTKeyType        NonTerminal = "KEY_TYPE"
	NTTypeName       NonTerminal = "TYPE_NAME"
	NTTypeNameRest   NonTerminal = "TYPE_NAME_REST"
	NTFieldOptions   NonTerminal = "FIELD_OPTIONS"
	NTFieldOptionSeq NonTerminal = "FIELD_OPTION_SEQ"
	NTFieldOption    NonTerminal = "FIELD_OPTION"
	NTOneofDecl      NonTerminal = "ONEOF_DECL"
	NTOneofBody      NonTerminal = "ONEOF_BODY"
	NTOneofElem      NonTerminal = "ONEOF_ELEM"
	NTEnumDecl       NonTerminal = "ENUM_DECL"
	NTEnumBody       NonTerminal = "ENUM_BODY"
	NTEnumElem       NonTerminal = "ENUM_ELEM"
	NTEnumValueDecl  NonTerminal = "ENUM_VALUE_DECL"
	NTServiceDecl    NonTerminal = "SERVICE_DECL"
	NTServiceBody    NonTerminal = "SERVICE_BODY"
	NTServiceElem    NonTerminal = "SERVICE_ELEM"
	NTRpcDecl        NonTerminal = "RPC_DECL"
	NTRpcParam       NonTerminal = "RPC_PARAM"
	NTRpcBody        NonTerminal = "RPC_BODY"
	NTRpcBodyElems   NonTerminal = "RPC_BODY_ELEMS"
	NTRpcBodyElem    NonTerminal = "RPC_BODY_ELEM"
	NTReservedDecl   NonTerminal = "RESERVED_DECL"
	NTReservedRanges NonTerminal = "RESERVED_RANGES"
	NTReservedRange  NonTerminal = "RESERVED_RANGE"
	NTReservedEnd    NonTerminal = "RESERVED_END"
	NTReservedNames  NonTerminal = "RESERVED_NAMES"
	NTExtensionsDecl NonTerminal = "EXTENSIONS_DECL"
	NTIdentOrKeyword NonTerminal = "IDENT_OR_KEYWORD"
	NTFullIdent      NonTerminal = "FULL_IDENT"
	NTFullIdentRest  NonTerminal = "FULL_IDENT_REST"
	NTEmptyStmt      NonTerminal = "EMPTY_STMT"
)

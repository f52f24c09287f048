// Package token defines the lexical tokens produced by schema/lexer and
// consumed by schema/parser.
package token

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	EOF Kind = iota
	Illegal

	Ident  // bareword identifier or keyword spelling
	Int    // integer literal
	Float  // floating point literal
	String // "quoted string" literal

	DocComment // /// line
	Comment    // // line or /* block */, discarded by the parser

	// Punctuation
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	LParen    // (
	RParen    // )
	Colon     // :
	Comma     // ,
	Dot       // .
	Question  // ?
	At        // @
	AtAt      // @@
	Eq        // =
)

var names = map[Kind]string{
	EOF:        "EOF",
	Illegal:    "ILLEGAL",
	Ident:      "IDENT",
	Int:        "INT",
	Float:      "FLOAT",
	String:     "STRING",
	DocComment: "DOC_COMMENT",
	Comment:    "COMMENT",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	LParen:     "(",
	RParen:     ")",
	Colon:      ":",
	Comma:      ",",
	Dot:        ".",
	Question:   "?",
	At:         "@",
	AtAt:       "@@",
	Eq:         "=",
}

// String returns the token kind's canonical name, used for the found
// token in parser error messages ("expected model name, got {").
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Keyword kinds. The parser switches on these directly when it expects a
// top-level declaration.
const (
	KeywordModel Kind = iota + 100
	KeywordEnum
	KeywordType
	KeywordView
	KeywordDatasource
	KeywordGenerator
	KeywordServerGroup
)

// keywords are the reserved words of the schema language. Every other
// Ident is a free-form name (model/field/enum/etc. identifier).
var keywords = map[string]Kind{
	"model":       KeywordModel,
	"enum":        KeywordEnum,
	"type":        KeywordType,
	"view":        KeywordView,
	"datasource":  KeywordDatasource,
	"generator":   KeywordGenerator,
	"serverGroup": KeywordServerGroup,
}

func init() {
	for kw, k := range keywords {
		names[k] = kw
	}
}

// Lookup classifies ident as a keyword Kind if it is one, otherwise
// returns Ident.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

// Token is one lexical unit: its Kind, the literal source text it
// covers (Text), and its byte/line/column position.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Position is a single point in the source, used to build prax.Span
// ranges once a token's extent is known.
type Position struct {
	Offset int
	Line   int
	Col    int
}

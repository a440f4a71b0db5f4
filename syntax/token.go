package syntax

import "garnet/report"

// Token represents a single lexical token of a serialized AST.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  For string and symbol tokens, this is
	// the decoded contents without the surrounding quotes.  For regexp tokens,
	// this is the regexp source.
	Value string

	// The option letters trailing a regexp token.
	Suffix string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_SOPEN = iota // `s(`
	TOK_RPAREN
	TOK_COMMA

	TOK_SYMBOL
	TOK_STRING
	TOK_INT
	TOK_FLOAT
	TOK_REGEXP

	TOK_DOT2
	TOK_DOT3

	TOK_NIL
	TOK_TRUE
	TOK_FALSE

	TOK_EOF
)

// tokenNames is used to describe tokens in error messages.
var tokenNames = map[int]string{
	TOK_SOPEN:  "`s(`",
	TOK_RPAREN: "`)`",
	TOK_COMMA:  "`,`",
	TOK_SYMBOL: "symbol",
	TOK_STRING: "string",
	TOK_INT:    "integer",
	TOK_FLOAT:  "float",
	TOK_REGEXP: "regexp",
	TOK_DOT2:   "`..`",
	TOK_DOT3:   "`...`",
	TOK_NIL:    "`nil`",
	TOK_TRUE:   "`true`",
	TOK_FALSE:  "`false`",
	TOK_EOF:    "end of file",
}

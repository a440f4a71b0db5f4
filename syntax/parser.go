package syntax

import (
	"bufio"
	"errors"
	"garnet/ast"
	"garnet/report"
	"garnet/util"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// NOTE: All parsing functions are commented with the EBNF notation of the
// grammar they parse.

// Parser reads the s-expression serialization of a parsed Ruby program: the
// textual form the Ruby parser prints for its output, eg.
//
//	s(:call, nil, :puts, s(:str, "hi"))
//
// It is a recursive descent parser.  All parsing functions assume that they
// begin with the parser centered on the first token of their production and
// must consume all tokens (including the last) of their production, leaving
// the parser on the next token.
type Parser struct {
	// lexer is the Lexer this parser is using to lex the input.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token
}

// NewParser creates a new parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(bufio.NewReader(r))}
}

// Parse parses a single serialized AST and returns its root node.  Errors in
// the input are returned as *report.LocalCompileError.
func (p *Parser) Parse() (root *ast.Node, err error) {
	defer report.Catch(&err)

	p.next()
	root = p.parseNode()

	if !p.got(TOK_EOF) {
		p.reject()
	}

	return root, nil
}

// ParseString parses a serialized AST held in a string.
func ParseString(text string) (*ast.Node, error) {
	return NewParser(strings.NewReader(text)).Parse()
}

// ParseFile parses the serialized AST stored in the file at path.
func ParseFile(path string) (*ast.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewParser(f).Parse()
}

// -----------------------------------------------------------------------------

// node = 's(' symbol {',' child} ')'
func (p *Parser) parseNode() *ast.Node {
	start := p.want(TOK_SOPEN)

	kindTok := p.want(TOK_SYMBOL)
	kind, ok := ast.KindByName(kindTok.Value)
	if !ok {
		panic(report.Raise(kindTok.Span, "unknown node kind: `%s`", kindTok.Value))
	}

	var children []ast.Child
	for !p.got(TOK_RPAREN) {
		p.want(TOK_COMMA)
		children = append(children, p.parseChild())
	}

	end := p.want(TOK_RPAREN)
	return ast.NewOn(report.NewSpanOver(start.Span, end.Span), kind, children...)
}

// child = node | symbol | string | regexp | 'nil' | 'true' | 'false' | range | number
// range = [number] ('..' | '...') [number]
func (p *Parser) parseChild() ast.Child {
	switch p.tok.Kind {
	case TOK_SOPEN:
		return p.parseNode()
	case TOK_SYMBOL:
		return ast.Symbol(p.want(TOK_SYMBOL).Value)
	case TOK_STRING:
		return ast.String(p.want(TOK_STRING).Value)
	case TOK_REGEXP:
		return p.parseRegexp()
	case TOK_TRUE:
		p.next()
		return ast.Bool(true)
	case TOK_FALSE:
		p.next()
		return ast.Bool(false)
	case TOK_NIL:
		p.next()
		if p.gotOneOf(TOK_DOT2, TOK_DOT3) {
			return p.parseRange(nil)
		}

		return nil
	case TOK_INT, TOK_FLOAT:
		num := p.parseNumber()
		if p.gotOneOf(TOK_DOT2, TOK_DOT3) {
			return p.parseRange(num)
		}

		return num
	case TOK_DOT2, TOK_DOT3:
		return p.parseRange(nil)
	}

	p.reject()
	return nil
}

// number = int | float
func (p *Parser) parseNumber() ast.Child {
	tok := p.tok
	p.next()

	if tok.Kind == TOK_FLOAT {
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			panic(report.Raise(tok.Span, "invalid float literal: `%s`", tok.Value))
		}

		return ast.Float(f)
	}

	n, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		panic(report.Raise(tok.Span, "integer literal out of range: `%s`", tok.Value))
	}

	return ast.Int(n)
}

// parseRange parses the remainder of a range whose lower bound is lo.
func (p *Parser) parseRange(lo ast.Child) ast.Child {
	exclusive := p.got(TOK_DOT3)
	p.next()

	var hi ast.Child
	switch p.tok.Kind {
	case TOK_INT, TOK_FLOAT:
		hi = p.parseNumber()
	case TOK_NIL:
		p.next()
	}

	return ast.Range{Lo: lo, Hi: hi, Exclusive: exclusive}
}

// parseRegexp parses a regexp literal and checks that its source compiles.
func (p *Parser) parseRegexp() ast.Child {
	tok := p.want(TOK_REGEXP)

	re, err := CompileRegexp(tok.Value, tok.Suffix)
	if err != nil {
		panic(report.Raise(tok.Span, "%s", err))
	}

	return re
}

// CompileRegexp converts a regexp source and its option letters into a regexp
// literal, checking that the source is a valid expression.
func CompileRegexp(source, flags string) (ast.Regexp, error) {
	// Ruby anchors `^` and `$` at line boundaries regardless of options.
	opts := regexp2.RegexOptions(regexp2.Multiline)
	bits := 0

	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
			bits |= ast.RegexpIgnoreCase
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
			bits |= ast.RegexpExtended
		case 'm':
			opts |= regexp2.Singleline
			bits |= ast.RegexpMultiline
		case 'o', 'n', 'e', 's', 'u':
			// Encoding and interpolation options do not affect the source.
		default:
			return ast.Regexp{}, &regexpError{msg: "unknown regexp option `" + string(f) + "`"}
		}
	}

	if _, err := regexp2.Compile(source, opts); err != nil {
		return ast.Regexp{}, &regexpError{msg: "invalid regexp literal: " + err.Error()}
	}

	return ast.Regexp{Source: source, Options: bits}, nil
}

type regexpError struct {
	msg string
}

func (re *regexpError) Error() string {
	return re.msg
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		if lce, ok := err.(*report.LocalCompileError); ok {
			panic(lce)
		}

		panic(report.Raise(nil, "error reading input: %s", err))
	}

	p.tok = tok
}

// got returns true if the parser is on a token of a given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// gotOneOf returns if the parser's current token kind is one of given kinds.
func (p *Parser) gotOneOf(kinds ...int) bool {
	return util.Contains(kinds, p.tok.Kind)
}

// want asserts that the parser is on a token of the given kind, moves the
// parser forward and returns the token it was on.
func (p *Parser) want(kind int) *Token {
	if !p.got(kind) {
		p.rejectWithMsg("expected %s not %s", tokenNames[kind], describe(p.tok))
	}

	tok := p.tok
	p.next()
	return tok
}

// reject reports an unexpected token error on the current token.
func (p *Parser) reject() {
	p.rejectWithMsg("unexpected %s", describe(p.tok))
}

// rejectWithMsg rejects the current token with a specific message.
func (p *Parser) rejectWithMsg(msg string, a ...interface{}) {
	lce := report.Raise(p.tok.Span, msg, a...)
	lce.Incomplete = p.got(TOK_EOF)
	panic(lce)
}

// IsIncomplete returns whether err was caused by the input ending early: more
// input could make it valid.
func IsIncomplete(err error) bool {
	var lce *report.LocalCompileError
	return errors.As(err, &lce) && lce.Incomplete
}

// describe returns a description of a token for use in error messages.
func describe(tok *Token) string {
	switch tok.Kind {
	case TOK_EOF:
		return "end of file"
	case TOK_SYMBOL:
		return "symbol `:" + tok.Value + "`"
	case TOK_STRING:
		return "string"
	case TOK_INT, TOK_FLOAT:
		return "number `" + tok.Value + "`"
	}

	return tokenNames[tok.Kind]
}

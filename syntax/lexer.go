package syntax

import (
	"bufio"
	"garnet/report"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer is responsible for tokenizing a serialized AST.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
	}
}

// NextToken retrieves the next token from the input. If the input has ended,
// this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '#':
			for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
			}

			if err != nil {
				return nil, err
			}
		case '(':
			l.mark()
			l.eat()
			return nil, report.Raise(l.getSpan(), "expected `s` before `(`")
		case ')':
			l.mark()
			l.eat()
			return l.makeToken(TOK_RPAREN), nil
		case ',':
			l.mark()
			l.eat()
			return l.makeToken(TOK_COMMA), nil
		case ':':
			return l.lexSymbol()
		case '"':
			l.mark()
			return l.lexQuoted(TOK_STRING)
		case '/':
			return l.lexRegexp()
		case '.':
			return l.lexDots()
		default:
			if isDecimalDigit(c) || c == '-' {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdent()
			}

			l.mark()
			l.eat()
			return nil, report.Raise(l.getSpan(), "unexpected character `%c`", c)
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// identPatterns maps the words that may appear bare in the input to their
// token kinds.
var identPatterns = map[string]int{
	"nil":   TOK_NIL,
	"true":  TOK_TRUE,
	"false": TOK_FALSE,
}

// lexIdent lexes `s(`, `nil`, `true` or `false`.
func (l *Lexer) lexIdent() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	word := l.tokBuff.String()
	if word == "s" {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c != '(' {
			return nil, report.Raise(l.getSpan(), "expected `(` after `s`")
		}

		l.eat()
		return l.makeToken(TOK_SOPEN), nil
	}

	if kind, ok := identPatterns[word]; ok {
		return l.makeToken(kind), nil
	}

	return nil, report.Raise(l.getSpan(), "unexpected identifier: `%s`", word)
}

// lexSymbol lexes a bare symbol (`:foo`, `:[]=`, `:*args`) or a quoted symbol
// (`:"foo bar"`).
func (l *Lexer) lexSymbol() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	} else if c == '"' {
		return l.lexQuoted(TOK_SYMBOL)
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 || c == ',' || c == ')' || unicode.IsSpace(c) {
			break
		}

		l.eat()
	}

	if l.tokBuff.Len() == 0 {
		return nil, report.Raise(l.getSpan(), "empty symbol")
	}

	return l.makeToken(TOK_SYMBOL), nil
}

// lexQuoted lexes a double-quoted string decoding its escape sequences.  The
// lexer must be positioned on the opening quote.
func (l *Lexer) lexQuoted(kind int) (*Token, error) {
	l.skip()

	for {
		c, err := l.skip()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			lce := report.Raise(l.getSpan(), "unclosed string literal")
			lce.Incomplete = true
			return nil, lce
		case '"':
			return l.makeToken(kind), nil
		case '\\':
			if err := l.readEscapeSequence(); err != nil {
				return nil, err
			}
		default:
			l.tokBuff.WriteRune(c)
		}
	}
}

// simpleEscapes maps single character escape codes to their values.
var simpleEscapes = map[rune]byte{
	'n': '\n',
	't': '\t',
	'r': '\r',
	'e': 0x1b,
	's': ' ',
	'a': '\a',
	'b': '\b',
	'f': '\f',
	'v': '\v',
}

// readEscapeSequence decodes an escape sequence and writes its value to the
// token buffer.  This assumes the leading `\` has already been consumed.
func (l *Lexer) readEscapeSequence() error {
	c, err := l.skip()
	if err != nil {
		return err
	}

	if b, ok := simpleEscapes[c]; ok {
		l.tokBuff.WriteByte(b)
		return nil
	}

	switch {
	case c == -1:
		return report.Raise(l.getSpan(), "expected escape sequence not end of file")
	case c == 'x':
		digits, err := l.readDigits(2, isHexDigit)
		if err != nil {
			return err
		} else if digits == "" {
			return report.Raise(l.getSpan(), "invalid hex escape")
		}

		v, _ := strconv.ParseUint(digits, 16, 8)
		l.tokBuff.WriteByte(byte(v))
	case c == 'u':
		next, err := l.peek()
		if err != nil {
			return err
		}

		var digits string
		if next == '{' {
			l.skip()
			if digits, err = l.readDigits(6, isHexDigit); err != nil {
				return err
			}

			if closing, err := l.skip(); err != nil {
				return err
			} else if closing != '}' {
				return report.Raise(l.getSpan(), "unclosed unicode escape")
			}
		} else if digits, err = l.readDigits(4, isHexDigit); err != nil {
			return err
		}

		return l.writeCodePoint(digits)
	case c == 'U':
		digits, err := l.readDigits(8, isHexDigit)
		if err != nil {
			return err
		}

		return l.writeCodePoint(digits)
	case '0' <= c && c <= '7':
		rest, err := l.readDigits(2, isOctalDigit)
		if err != nil {
			return err
		}

		v, _ := strconv.ParseUint(string(c)+rest, 8, 16)
		l.tokBuff.WriteByte(byte(v))
	default:
		// Any other escaped character stands for itself.
		l.tokBuff.WriteRune(c)
	}

	return nil
}

// readDigits reads up to max digits accepted by valid.
func (l *Lexer) readDigits(max int, valid func(rune) bool) (string, error) {
	sb := strings.Builder{}
	for i := 0; i < max; i++ {
		c, err := l.peek()
		if err != nil {
			return "", err
		} else if !valid(c) {
			break
		}

		l.skip()
		sb.WriteRune(c)
	}

	return sb.String(), nil
}

// writeCodePoint writes the UTF-8 encoding of a hexadecimal code point.
func (l *Lexer) writeCodePoint(digits string) error {
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return report.Raise(l.getSpan(), "invalid unicode escape: `%s`", digits)
	}

	l.tokBuff.WriteRune(rune(v))
	return nil
}

// lexRegexp lexes a regexp literal and its trailing option letters.
func (l *Lexer) lexRegexp() (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.skip()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(l.getSpan(), "unclosed regexp literal")
		case '/':
			flags, err := l.readDigits(8, unicode.IsLetter)
			if err != nil {
				return nil, err
			}

			tok := l.makeToken(TOK_REGEXP)
			tok.Suffix = flags
			return tok, nil
		case '\\':
			next, err := l.skip()
			if err != nil {
				return nil, err
			} else if next == -1 {
				return nil, report.Raise(l.getSpan(), "unclosed regexp literal")
			}

			if next != '/' {
				l.tokBuff.WriteRune('\\')
			}

			l.tokBuff.WriteRune(next)
		default:
			l.tokBuff.WriteRune(c)
		}
	}
}

// lexDots lexes `..` or `...`.
func (l *Lexer) lexDots() (*Token, error) {
	l.mark()
	l.eat()

	c, err := l.peek()
	if err != nil {
		return nil, err
	} else if c != '.' {
		return nil, report.Raise(l.getSpan(), "unexpected character `.`")
	}

	l.eat()

	if c, err = l.peek(); err != nil {
		return nil, err
	} else if c == '.' {
		l.eat()
		return l.makeToken(TOK_DOT3), nil
	}

	return l.makeToken(TOK_DOT2), nil
}

// lexNumericLit lexes an integer or float literal.
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()
	c, _ := l.eat()

	if c == '-' {
		if next, err := l.peek(); err != nil {
			return nil, err
		} else if !isDecimalDigit(next) {
			return nil, report.Raise(l.getSpan(), "expected digit after `-`")
		}
	}

	isFloat := false
	hasExp := false
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case isDecimalDigit(c):
			l.eat()
		case c == '_':
			l.skip()
		case c == '.' && !isFloat && !hasExp:
			// A dot only continues the literal if a digit follows it: `1..2`
			// is a range.
			if !l.digitAfterNext() {
				return l.makeNumber(isFloat), nil
			}

			l.eat()
			isFloat = true
		case (c == 'e' || c == 'E') && !hasExp:
			l.eat()
			isFloat = true
			hasExp = true

			if sign, err := l.peek(); err != nil {
				return nil, err
			} else if sign == '-' || sign == '+' {
				l.eat()
			}
		default:
			return l.makeNumber(isFloat), nil
		}
	}
}

func (l *Lexer) makeNumber(isFloat bool) *Token {
	if isFloat {
		return l.makeToken(TOK_FLOAT)
	}

	return l.makeToken(TOK_INT)
}

// digitAfterNext returns whether the rune after the next one is a digit.
func (l *Lexer) digitAfterNext() bool {
	b, err := l.file.Peek(2)
	return err == nil && len(b) == 2 && isDecimalDigit(rune(b[1]))
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, err := l.skip()
	if err == nil && c != -1 {
		l.tokBuff.WriteRune(c)
	}

	return c, err
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the input without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isOctalDigit returns whether c is an octal digit.
func isOctalDigit(c rune) bool {
	return '0' <= c && c <= '7'
}

// isHexDigit returns whether  c is a hexadecimal digit.
func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

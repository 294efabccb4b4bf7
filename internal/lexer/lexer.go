// Package lexer turns path-expression text into tokens.
//
// Besides the normal mode the lexer has three exclusive quoting modes entered
// by ', " and ` and left by the matching unescaped delimiter. Inside any of
// them a backslash escapes the following character. Single- and double-quoted
// content yields an ID token flagged as Quoted; back-quoted content yields a
// NamedOperator token.
package lexer

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/jacoelho/jpath/internal/stack"
)

var (
	// ErrUnexpectedCharacter reports a character that no rule of the current mode accepts.
	ErrUnexpectedCharacter = errors.New("unexpected character")

	// ErrUnterminated reports end of input inside quoted or back-quoted content.
	ErrUnterminated = errors.New("unexpected EOF in string literal or identifier")
)

// Error carries the position of a lexing failure.
type Error struct {
	Line  int
	Col   int
	Char  rune
	State string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d, col %d", e.Line, e.Col)
	if e.State != "" {
		fmt.Fprintf(&b, " while lexing %s", e.State)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if errors.Is(e.Err, ErrUnexpectedCharacter) {
		fmt.Fprintf(&b, " %q", e.Char)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type mode uint8

const (
	modeNormal mode = iota
	modeSingleQuote
	modeDoubleQuote
	modeBackQuote
)

func (m mode) String() string {
	switch m {
	case modeSingleQuote:
		return "singlequoted field"
	case modeDoubleQuote:
		return "doublequoted field"
	case modeBackQuote:
		return "backquoted operator"
	default:
		return ""
	}
}

func (m mode) delimiter() byte {
	switch m {
	case modeSingleQuote:
		return '\''
	case modeDoubleQuote:
		return '"'
	default:
		return '`'
	}
}

// Lexer produces tokens on demand. A Lexer is bound to one input and is not
// safe for concurrent use; create one per tokenization.
type Lexer struct {
	input     string
	pos       int
	line      int
	lineStart int
	modes     *stack.Stack[mode]

	buf       strings.Builder
	startLine int
	startCol  int
}

func New(input string) *Lexer {
	modes := stack.NewWithCapacity[mode](2)
	modes.Push(modeNormal)
	return &Lexer{
		input: input,
		line:  1,
		modes: modes,
	}
}

// Tokenize lazily yields the tokens of input, ending with the first error.
// The trailing EOF token is not yielded.
func Tokenize(input string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := New(input)
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if tok.Kind == EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// All collects every token of input, including the trailing EOF.
func All(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	for {
		current, _ := l.modes.Peek()
		if current != modeNormal {
			return l.quoted(current)
		}

		if l.pos >= len(l.input) {
			return Token{Kind: EOF, Line: l.line, Col: l.col()}, nil
		}

		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t':
			l.pos++
		case c == '\n':
			l.pos++
			l.line++
			l.lineStart = l.pos
		case c == '\'':
			l.enter(modeSingleQuote)
		case c == '"':
			l.enter(modeDoubleQuote)
		case c == '`':
			l.enter(modeBackQuote)
		case isDigit(c) || (c == '-' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
			return l.number()
		case isIdentStart(c):
			return l.identifier(), nil
		default:
			if tok, ok := l.operator(); ok {
				return tok, nil
			}
			return Token{}, l.errorf(ErrUnexpectedCharacter, rune(c), modeNormal)
		}
	}
}

func (l *Lexer) col() int {
	return l.pos - l.lineStart + 1
}

func (l *Lexer) token(kind Kind, text string) Token {
	tok := Token{Kind: kind, Text: text, Line: l.line, Col: l.col()}
	l.pos += len(text)
	return tok
}

func (l *Lexer) errorf(err error, char rune, m mode) *Error {
	return &Error{Line: l.line, Col: l.col(), Char: char, State: m.String(), Err: err}
}

func (l *Lexer) enter(m mode) {
	l.startLine, l.startCol = l.line, l.col()
	l.buf.Reset()
	l.modes.Push(m)
	l.pos++
}

func (l *Lexer) quoted(m mode) (Token, error) {
	delim := m.delimiter()
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '\\':
			if l.pos+1 >= len(l.input) {
				return Token{}, l.errorf(ErrUnexpectedCharacter, '\\', m)
			}
			next := l.input[l.pos+1]
			if next == '\n' {
				l.line++
				l.lineStart = l.pos + 2
			}
			l.buf.WriteByte(next)
			l.pos += 2
		case delim:
			l.pos++
			l.modes.Pop()
			tok := Token{Kind: ID, Text: l.buf.String(), Quoted: true, Line: l.startLine, Col: l.startCol}
			if m == modeBackQuote {
				tok.Kind = NamedOperator
				tok.Quoted = false
			}
			return tok, nil
		default:
			if c == '\n' {
				l.line++
				l.lineStart = l.pos + 1
			}
			l.buf.WriteByte(c)
			l.pos++
		}
	}
	return Token{}, &Error{Line: l.startLine, Col: l.startCol, State: m.String(), Err: ErrUnterminated}
}

func (l *Lexer) number() (Token, error) {
	start := l.pos
	end := l.pos
	if l.input[end] == '-' {
		end++
	}
	for end < len(l.input) && isDigit(l.input[end]) {
		end++
	}

	if end+1 < len(l.input) && l.input[end] == '.' && isDigit(l.input[end+1]) {
		end++
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
		text := l.input[start:end]
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, l.errorf(fmt.Errorf("%w: invalid float %s", ErrUnexpectedCharacter, text), rune(l.input[start]), modeNormal)
		}
		tok := l.token(Float, text)
		tok.Float = value
		return tok, nil
	}

	text := l.input[start:end]
	value, err := strconv.Atoi(text)
	if err != nil {
		return Token{}, l.errorf(fmt.Errorf("%w: invalid integer %s", ErrUnexpectedCharacter, text), rune(l.input[start]), modeNormal)
	}
	tok := l.token(Number, text)
	tok.Int = value
	return tok, nil
}

func (l *Lexer) identifier() Token {
	end := l.pos + 1
	for end < len(l.input) && isIdentPart(l.input[end]) {
		end++
	}
	text := l.input[l.pos:end]

	if kind, ok := keywords[text]; ok {
		return l.token(kind, text)
	}
	switch text {
	case "true", "false":
		tok := l.token(Bool, text)
		tok.Bool = text == "true"
		return tok
	}
	return l.token(ID, text)
}

func (l *Lexer) operator() (Token, bool) {
	rest := l.input[l.pos:]
	for _, op := range [...]struct {
		text string
		kind Kind
	}{
		{"..", DoubleDot},
		{"&&", DoubleAnd},
		{"||", DoubleOr},
		{"==", FilterOp},
		{"!=", FilterOp},
		{"<=", FilterOp},
		{">=", FilterOp},
		{"=", FilterOp},
		{"<", FilterOp},
		{">", FilterOp},
	} {
		if strings.HasPrefix(rest, op.text) {
			return l.token(op.kind, op.text), true
		}
	}

	if kind, ok := literals[rest[0]]; ok {
		return l.token(kind, rest[:1]), true
	}
	return Token{}, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '@' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

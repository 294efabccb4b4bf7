package lexer

import "fmt"

// Kind identifies a lexical token type.
type Kind int

const (
	EOF Kind = iota
	ID
	Number
	Float
	Bool
	NamedOperator
	Where
	Contains
	DoubleDot
	DoubleAnd
	DoubleOr
	FilterOp

	Star
	Dot
	LeftBracket
	RightBracket
	LeftParen
	RightParen
	Dollar
	Comma
	Colon
	Pipe
	Amp
	Tilde
	Question
	Plus
	Minus
	Slash
	Backslash
)

var kindNames = [...]string{
	EOF:           "EOF",
	ID:            "ID",
	Number:        "NUMBER",
	Float:         "FLOAT",
	Bool:          "BOOL",
	NamedOperator: "NAMED_OPERATOR",
	Where:         "WHERE",
	Contains:      "CONTAINS",
	DoubleDot:     "..",
	DoubleAnd:     "&&",
	DoubleOr:      "||",
	FilterOp:      "FILTER_OP",
	Star:          "*",
	Dot:           ".",
	LeftBracket:   "[",
	RightBracket:  "]",
	LeftParen:     "(",
	RightParen:    ")",
	Dollar:        "$",
	Comma:         ",",
	Colon:         ":",
	Pipe:          "|",
	Amp:           "&",
	Tilde:         "~",
	Question:      "?",
	Plus:          "+",
	Minus:         "-",
	Slash:         "/",
	Backslash:     `\`,
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// literals maps the single-character tokens to their kinds.
var literals = map[byte]Kind{
	'*':  Star,
	'.':  Dot,
	'[':  LeftBracket,
	']':  RightBracket,
	'(':  LeftParen,
	')':  RightParen,
	'$':  Dollar,
	',':  Comma,
	':':  Colon,
	'|':  Pipe,
	'&':  Amp,
	'~':  Tilde,
	'?':  Question,
	'+':  Plus,
	'-':  Minus,
	'/':  Slash,
	'\\': Backslash,
}

var keywords = map[string]Kind{
	"where":    Where,
	"contains": Contains,
}

// Token is a single lexeme. Text holds the raw (or unescaped, for quoted
// content) text; Int, Float and Bool hold the parsed value of literal tokens.
type Token struct {
	Kind   Kind
	Text   string
	Int    int
	Float  float64
	Bool   bool
	Quoted bool // ID produced by a single- or double-quoted field name
	Line   int
	Col    int
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case ID:
		if t.Quoted {
			return fmt.Sprintf("%q", t.Text)
		}
		return t.Text
	case NamedOperator:
		return "`" + t.Text + "`"
	default:
		if t.Text != "" {
			return t.Text
		}
		return t.Kind.String()
	}
}

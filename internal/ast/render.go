package ast

import (
	"math"
	"strconv"
	"strings"
)

// Binding levels of path operators, loosest first. Rendering parenthesizes
// an operand whose level is too low for its position.
const (
	levelArithmetic = iota
	levelPostfix
	levelDescendants
	levelChild
	levelUnion
	levelWhere
	levelAtom
)

func (n Root) String() string          { return "$" }
func (n This) String() string          { return "`this`" }
func (n Parent) String() string        { return "`parent`" }
func (n Fields) String() string        { return Render(n, true) }
func (n Index) String() string         { return Render(n, true) }
func (n Slice) String() string         { return Render(n, true) }
func (n Child) String() string         { return Render(n, true) }
func (n Where) String() string         { return Render(n, true) }
func (n Descendants) String() string   { return Render(n, true) }
func (n Union) String() string         { return Render(n, true) }
func (n Filter) String() string        { return Render(n, true) }
func (n Expression) String() string    { return Render(n, true) }
func (n Literal) String() string       { return Render(n, true) }
func (n Operation) String() string     { return Render(n, true) }
func (n SortFilter) String() string    { return Render(n, true) }
func (n NamedOperator) String() string { return Render(n, true) }

// Render writes n in expression syntax. With quote set, field names that
// would not lex as bare identifiers are quoted so the output parses back to
// an equal tree; without it names are written verbatim, which is how
// auto-id pseudo paths are displayed.
func Render(n Node, quote bool) string {
	r := renderer{quote: quote}
	r.node(n)
	return r.b.String()
}

type renderer struct {
	b     strings.Builder
	quote bool
}

func level(n Node) int {
	switch n := n.(type) {
	case Operation:
		return levelArithmetic
	case Child:
		if isBracket(n.Right) {
			return levelPostfix
		}
		return levelChild
	case Descendants:
		return levelDescendants
	case Union:
		return levelUnion
	case Where:
		return levelWhere
	default:
		return levelAtom
	}
}

func isBracket(n Node) bool {
	switch n.(type) {
	case Index, Slice, Filter, SortFilter:
		return true
	}
	return false
}

func (r *renderer) operand(n Node, minLevel int) {
	if level(n) < minLevel {
		r.b.WriteByte('(')
		r.node(n)
		r.b.WriteByte(')')
		return
	}
	r.node(n)
}

// binary writes a left-associative operator. A bracket-suffixed left operand
// is closed by its "]" and never needs parentheses.
func (r *renderer) binary(left Node, op string, right Node, lvl int) {
	if level(left) == levelPostfix {
		r.node(left)
	} else {
		r.operand(left, lvl)
	}
	r.b.WriteString(op)
	r.operand(right, lvl+1)
}

func (r *renderer) node(n Node) {
	switch n := n.(type) {
	case Root, This, Parent:
		r.b.WriteString(n.String())
	case Fields:
		r.fields(n.Names)
	case Index:
		r.b.WriteByte('[')
		r.b.WriteString(strconv.Itoa(n.Index))
		r.b.WriteByte(']')
	case Slice:
		r.slice(n)
	case Child:
		if isBracket(n.Right) {
			r.operand(n.Left, levelPostfix)
			r.node(n.Right)
			return
		}
		r.binary(n.Left, ".", n.Right, levelChild)
	case Descendants:
		r.binary(n.Left, "..", n.Right, levelDescendants)
	case Union:
		r.binary(n.Left, "|", n.Right, levelUnion)
	case Where:
		r.binary(n.Left, " where ", n.Right, levelWhere)
	case Filter:
		r.b.WriteString("[?")
		for i, expr := range n.Expressions {
			if i > 0 {
				r.b.WriteString(" & ")
			}
			r.node(expr)
		}
		r.b.WriteByte(']')
	case Expression:
		r.operand(n.Target, levelPostfix)
		if n.Op != "" {
			r.b.WriteString(n.Op)
			r.literal(n.Value)
		}
	case Literal:
		r.literal(n.Value)
	case Operation:
		r.operation(n)
	case SortFilter:
		r.b.WriteByte('[')
		for i, key := range n.Keys {
			if i > 0 {
				r.b.WriteByte(',')
			}
			if key.Descending {
				r.b.WriteByte('\\')
			} else {
				r.b.WriteByte('/')
			}
			r.operand(key.Path, levelPostfix)
		}
		r.b.WriteByte(']')
	case NamedOperator:
		r.b.WriteByte('`')
		r.b.WriteString(escape(n.text(), '`'))
		r.b.WriteByte('`')
	}
}

func (r *renderer) fields(names []string) {
	for i, name := range names {
		if i > 0 {
			r.b.WriteByte(',')
		}
		if !r.quote || name == Wildcard || IsBareName(name) {
			r.b.WriteString(name)
			continue
		}
		r.b.WriteString(quoteName(name))
	}
}

func (r *renderer) slice(s Slice) {
	if s.IsAll() {
		r.b.WriteString("[*]")
		return
	}
	r.b.WriteByte('[')
	if s.Start != nil {
		r.b.WriteString(strconv.Itoa(*s.Start))
	}
	r.b.WriteByte(':')
	if s.End != nil {
		r.b.WriteString(strconv.Itoa(*s.End))
	}
	if s.Step != nil {
		r.b.WriteByte(':')
		r.b.WriteString(strconv.Itoa(*s.Step))
	}
	r.b.WriteByte(']')
}

func precedence(op string) int {
	if op == "*" || op == "/" {
		return 2
	}
	return 1
}

func (r *renderer) operation(n Operation) {
	p := precedence(n.Op)
	r.arithmeticOperand(n.Left, func(o Operation) bool { return precedence(o.Op) < p })
	r.b.WriteByte(' ')
	r.b.WriteString(n.Op)
	r.b.WriteByte(' ')
	r.arithmeticOperand(n.Right, func(o Operation) bool { return precedence(o.Op) <= p })
}

func (r *renderer) arithmeticOperand(n Node, needParens func(Operation) bool) {
	switch n := n.(type) {
	case Operation:
		if needParens(n) {
			r.b.WriteByte('(')
			r.operation(n)
			r.b.WriteByte(')')
			return
		}
		r.operation(n)
	case Fields:
		// a lone quoted name next to an operator is a string constant, so
		// quoted field names are written in bracket form instead
		if r.quote && len(n.Names) == 1 && n.Names[0] != Wildcard && !IsBareName(n.Names[0]) {
			r.b.WriteByte('[')
			r.b.WriteString(quoteName(n.Names[0]))
			r.b.WriteByte(']')
			return
		}
		r.node(n)
	default:
		r.node(n)
	}
}

func (r *renderer) literal(v any) {
	switch v := v.(type) {
	case string:
		r.b.WriteString(quoteName(v))
	case bool:
		r.b.WriteString(strconv.FormatBool(v))
	case int:
		r.b.WriteString(strconv.Itoa(v))
	case float64:
		r.b.WriteString(FormatFloat(v))
	case nil:
		r.b.WriteString("null")
	}
}

// FormatFloat writes f so that it lexes back as a float literal.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (n NamedOperator) text() string {
	switch n.Name {
	case OpStr:
		return "str()"
	case OpSub:
		return "sub(/" + n.Args[0] + "/, " + n.Args[1] + ")"
	case OpSplit:
		return "split(" + strings.Join(n.Args, ", ") + ")"
	default:
		return n.Name
	}
}

// IsBareName reports whether name lexes as a plain identifier.
func IsBareName(name string) bool {
	if name == "" || name == "@" {
		return false
	}
	switch name {
	case "where", "contains", "true", "false":
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		letter := c == '_' || c == '@' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if letter {
			continue
		}
		if i > 0 && ((c >= '0' && c <= '9') || c == '-') {
			continue
		}
		return false
	}
	return true
}

func quoteName(name string) string {
	return "'" + escape(name, '\'') + "'"
}

func escape(s string, delim byte) string {
	if !strings.ContainsRune(s, rune(delim)) && !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == delim || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

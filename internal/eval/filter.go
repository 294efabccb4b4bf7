package eval

import (
	"strings"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/number"
)

// filter keeps the elements of a list, or the values of a mapping, for which
// every expression holds. Anything else has nothing to filter.
func (e *evaluator) filter(n ast.Filter, d *Datum) []*Datum {
	var candidates []*Datum
	switch v := d.Value.(type) {
	case []any:
		candidates = elements(v, d)
	case map[string]any:
		candidates = entries(v, d)
	default:
		return nil
	}

	var out []*Datum
	for _, candidate := range candidates {
		if e.matchesAll(n.Expressions, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func (e *evaluator) matchesAll(expressions []ast.Expression, d *Datum) bool {
	for _, expression := range expressions {
		if !e.matches(expression, d) {
			return false
		}
	}
	return true
}

// matches holds when the target exists or, with an operator, when any value
// it resolves to compares true against the literal.
func (e *evaluator) matches(expression ast.Expression, d *Datum) bool {
	found := e.find(expression.Target, d)
	if expression.Op == "" {
		return len(found) > 0
	}
	for _, f := range found {
		if compare(f.Value, expression.Op, expression.Value) {
			return true
		}
	}
	return false
}

// compare applies op between a document value and a filter literal. The
// literal's type decides the comparison; values of another type never match,
// except that numeric strings compare as numbers and "!=" holds for any
// non-string against a string literal.
func compare(value any, op string, literal any) bool {
	switch lit := literal.(type) {
	case bool:
		b, ok := value.(bool)
		if !ok {
			return false
		}
		switch op {
		case "=", "==":
			return b == lit
		case "!=":
			return b != lit
		default:
			return false
		}
	case string:
		s, ok := value.(string)
		if !ok {
			return op == "!="
		}
		return ordered(op, strings.Compare(s, lit))
	default:
		if s, ok := value.(string); ok {
			parsed, ok := number.Parse(strings.TrimSpace(s))
			if !ok {
				return false
			}
			value = parsed
		}
		c, ok := number.Compare(value, lit)
		if !ok {
			return false
		}
		return ordered(op, c)
	}
}

func ordered(op string, c int) bool {
	switch op {
	case "=", "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	default:
		return false
	}
}

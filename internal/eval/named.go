package eval

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/number"
	"github.com/jacoelho/jpath/internal/regex"
)

func (e *evaluator) named(n ast.NamedOperator, d *Datum) []*Datum {
	value, ok := e.apply(n, d.Value)
	if !ok {
		return nil
	}
	return []*Datum{{Value: value, Path: n, Context: d, computed: true}}
}

func (e *evaluator) apply(n ast.NamedOperator, value any) (any, bool) {
	switch n.Name {
	case ast.OpSorted:
		return sortedValue(value), true
	case ast.OpLen:
		return length(value)
	case ast.OpStr:
		return stringify(value), true
	case ast.OpSub:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		re, err := regex.Compile(n.Args[0])
		if err != nil {
			e.logger.Debug("sub pattern rejected", "pattern", n.Args[0], "error", err)
			return nil, false
		}
		return regex.Substitute(re, s, n.Args[1])
	case ast.OpSplit:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		return split(s, n.Args)
	default:
		return nil, false
	}
}

func length(value any) (any, bool) {
	switch v := value.(type) {
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	case string:
		return utf8.RuneCountInString(v), true
	default:
		return nil, false
	}
}

// split cuts s on the separator at most maxsplit times (-1 for no limit) and
// selects one segment; a negative index counts from the end.
func split(s string, args []string) (any, bool) {
	separator := args[0]
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, false
	}
	maxSplit, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, false
	}

	var parts []string
	if maxSplit < 0 {
		parts = strings.Split(s, separator)
	} else {
		parts = strings.SplitN(s, separator, maxSplit+1)
	}

	if index < 0 {
		index += len(parts)
	}
	if index < 0 || index >= len(parts) {
		return nil, false
	}
	return parts[index], true
}

// stringify renders scalars as text and containers as compact JSON.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float32, float64:
		f, _ := number.ToFloat64(v)
		return ast.FormatFloat(f)
	}

	if n, err := number.ToStrictInt(value); err == nil {
		return strconv.Itoa(n)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded)
}

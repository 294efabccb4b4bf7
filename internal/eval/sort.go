package eval

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/number"
)

// sort reorders a list by the sort keys, left to right. The sort is stable and
// a key that is missing or not comparable leaves the pair tied. Other values
// pass through unchanged.
func (e *evaluator) sort(n ast.SortFilter, d *Datum) []*Datum {
	list, ok := d.Value.([]any)
	if !ok {
		return []*Datum{{Value: d.Value, Path: n, Context: d, computed: true}}
	}

	type keyed struct {
		value any
		keys  []any
		found []bool
	}

	rows := make([]keyed, len(list))
	for i, value := range list {
		row := keyed{value: value, keys: make([]any, len(n.Keys)), found: make([]bool, len(n.Keys))}
		element := &Datum{Value: value, Path: ast.Index{Index: i}, Context: d}
		for k, key := range n.Keys {
			if matches := e.find(key.Path, element); len(matches) > 0 {
				row.keys[k], row.found[k] = matches[0].Value, true
			}
		}
		rows[i] = row
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		for k, key := range n.Keys {
			if !a.found[k] || !b.found[k] {
				continue
			}
			c, ok := compareValues(a.keys[k], b.keys[k])
			if !ok || c == 0 {
				continue
			}
			if key.Descending {
				return -c
			}
			return c
		}
		return 0
	})

	sorted := make([]any, len(rows))
	for i, row := range rows {
		sorted[i] = row.value
	}
	return []*Datum{{Value: sorted, Path: n, Context: d, computed: true}}
}

// compareValues orders numbers, strings and booleans among their own kind.
func compareValues(a, b any) (int, bool) {
	if c, ok := number.Compare(a, b); ok {
		return c, true
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y)), true
		}
	}
	return 0, false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sortedValue backs the sorted named operator: lists are sorted by value and
// mappings yield their sorted keys.
func sortedValue(value any) any {
	switch v := value.(type) {
	case []any:
		sorted := slices.Clone(v)
		slices.SortStableFunc(sorted, func(a, b any) int {
			c, _ := compareValues(a, b)
			return c
		})
		return sorted
	case map[string]any:
		keys := sortedKeys(v)
		out := make([]any, len(keys))
		for i, key := range keys {
			out[i] = key
		}
		return out
	default:
		return value
	}
}

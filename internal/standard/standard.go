// Package standard evaluates strict RFC 9535 JSONPath queries. The CLI uses
// it when asked for standard semantics instead of the extended grammar.
package standard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theory/jsonpath"
)

var (
	ErrEmptyQuery = errors.New("query is empty")
	ErrSyntax     = errors.New("invalid RFC 9535 query")
)

// Query is a compiled RFC 9535 query.
type Query struct {
	text string
	path *jsonpath.Path
}

// Parse compiles expr. Queries must start with "$".
func Parse(expr string) (*Query, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptyQuery
	}

	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, expr, err)
	}

	return &Query{text: expr, path: path}, nil
}

// Select returns every node the query selects from data.
func (q *Query) Select(data any) []any {
	return q.path.Select(data)
}

func (q *Query) String() string {
	return q.text
}

package jsonpath

import (
	"github.com/jacoelho/jpath/internal/eval"
	"github.com/jacoelho/jpath/internal/parser"
)

var (
	// ErrSyntax indicates a path expression that does not parse.
	ErrSyntax = parser.ErrSyntax

	// ErrNotCreatable indicates a path step UpdateOrCreate cannot build.
	ErrNotCreatable = eval.ErrNotCreatable

	// ErrNotUpdatable indicates a match Update cannot write to.
	ErrNotUpdatable = eval.ErrNotUpdatable
)

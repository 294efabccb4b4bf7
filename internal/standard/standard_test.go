package standard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/eval"
	"github.com/jacoelho/jpath/internal/parser"
	"github.com/jacoelho/jpath/internal/standard"
)

const store = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99},
      {"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  }
}`

func TestParse(t *testing.T) {
	t.Parallel()

	q, err := standard.Parse(" $.store.book[0].title ")
	require.NoError(t, err)
	assert.Equal(t, "$.store.book[0].title", q.String())

	_, err = standard.Parse("")
	assert.ErrorIs(t, err, standard.ErrEmptyQuery)

	_, err = standard.Parse("store.book")
	assert.ErrorIs(t, err, standard.ErrSyntax)

	_, err = standard.Parse("$.a[?(@.b)")
	assert.ErrorIs(t, err, standard.ErrSyntax)
}

// The extended grammar agrees with RFC 9535 on the queries both accept.
func TestAgreesWithExtendedGrammar(t *testing.T) {
	t.Parallel()

	queries := []string{
		"$.store.book[0].title",
		"$['store']['bicycle']",
		"$.store.book[*].author",
		"$..author",
		"$.store.*",
		"$.store..price",
		"$..book[2].title",
		"$..book[-1].title",
		"$..book[0:2].title",
		"$..book[::2].title",
		"$.store.book[?@.isbn].title",
		"$.store.missing",
	}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			t.Parallel()

			data, err := document.Parse([]byte(store), document.FormatJSON)
			require.NoError(t, err)

			q, err := standard.Parse(query)
			require.NoError(t, err)
			want := q.Select(data)

			node, err := parser.Parse(query)
			require.NoError(t, err)
			got := eval.Values(eval.Find(node, data))

			assert.ElementsMatch(t, []any(want), got)
		})
	}
}

package parser

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/lexer"
)

func fields(names ...string) ast.Fields {
	return ast.NewFields(names...)
}

func child(left, right ast.Node) ast.Child {
	return ast.Child{Left: left, Right: right}
}

func checkParse(t *testing.T, tests []parseCase, opts ...Option) {
	t.Helper()

	p := New(opts...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Truef(t, ast.Equal(tt.want, got), "want %#v\n got %#v", tt.want, got)
		})
	}
}

type parseCase struct {
	name  string
	input string
	want  ast.Node
}

func TestParseAtomic(t *testing.T) {
	t.Parallel()

	checkParse(t, []parseCase{
		{name: "field", input: "foo", want: fields("foo")},
		{name: "wildcard", input: "*", want: fields("*")},
		{name: "field_union", input: "baz,bizzle", want: fields("baz", "bizzle")},
		{name: "index", input: "[1]", want: ast.Index{Index: 1}},
		{name: "slice_start", input: "[1:]", want: ast.Slice{Start: ast.Int(1)}},
		{name: "slice_open", input: "[:]", want: ast.Slice{}},
		{name: "slice_star", input: "[*]", want: ast.Slice{}},
		{name: "slice_end", input: "[:2]", want: ast.Slice{End: ast.Int(2)}},
		{name: "slice_both", input: "[1:2]", want: ast.Slice{Start: ast.Int(1), End: ast.Int(2)}},
		{name: "slice_negative", input: "[5:-2]", want: ast.Slice{Start: ast.Int(5), End: ast.Int(-2)}},
		{name: "slice_step", input: "[::2]", want: ast.Slice{Step: ast.Int(2)}},
		{name: "root", input: "$", want: ast.Root{}},
		{name: "this", input: "`this`", want: ast.This{}},
		{name: "at_is_this", input: "@", want: ast.This{}},
		{name: "parent", input: "`parent`", want: ast.Parent{}},
		{name: "at_prefixed_field", input: "@foo", want: fields("@foo")},
		{name: "quoted_field", input: `"bar-baz"`, want: fields("bar-baz")},
		{name: "true_field", input: "$.true", want: child(ast.Root{}, fields("true"))},
		{name: "false_field", input: "false.x", want: child(fields("false"), fields("x"))},
		{name: "bool_field_union", input: "true,false", want: fields("true", "false")},
		{name: "bool_bracket_field", input: "a[true]", want: child(fields("a"), fields("true"))},
	}, WithBaseGrammar())
}

func TestParseNested(t *testing.T) {
	t.Parallel()

	checkParse(t, []parseCase{
		{name: "child", input: "foo.baz", want: child(fields("foo"), fields("baz"))},
		{name: "child_union", input: "foo.baz,bizzle", want: child(fields("foo"), fields("baz", "bizzle"))},
		{name: "where", input: "foo where baz", want: ast.Where{Left: fields("foo"), Right: fields("baz")}},
		{name: "descendants", input: "foo..baz", want: ast.Descendants{Left: fields("foo"), Right: fields("baz")}},
		{
			name:  "descendants_binds_looser_than_child",
			input: "foo..baz.bing",
			want:  ast.Descendants{Left: fields("foo"), Right: child(fields("baz"), fields("bing"))},
		},
		{
			name:  "where_binds_tighter_than_child",
			input: "a.b where c",
			want:  child(fields("a"), ast.Where{Left: fields("b"), Right: fields("c")}),
		},
		{
			name:  "union",
			input: "payload.id|(resource.id)",
			want: child(fields("payload"), ast.Union{
				Left:  fields("id"),
				Right: child(fields("resource"), fields("id")),
			}),
		},
		{
			name:  "parenthesized_union",
			input: "payload.(id|(resource.id))",
			want: child(fields("payload"), ast.Union{
				Left:  fields("id"),
				Right: child(fields("resource"), fields("id")),
			}),
		},
		{
			name:  "bracketed_names",
			input: `foo.["bar-baz","blah-blah"]`,
			want:  child(fields("foo"), fields("bar-baz", "blah-blah")),
		},
		{
			name:  "named_this_and_parent",
			input: "foo.`parent`.foo.baz.`this`",
			want:  child(child(child(child(fields("foo"), ast.Parent{}), fields("foo")), fields("baz")), ast.This{}),
		},
	})
}

func TestParseGoessnerExamples(t *testing.T) {
	t.Parallel()

	book := ast.Descendants{Left: ast.Root{}, Right: fields("book")}
	checkParse(t, []parseCase{
		{
			name:  "authors_of_all_books",
			input: "$.store.book[*].author",
			want:  child(child(child(child(ast.Root{}, fields("store")), fields("book")), ast.Slice{}), fields("author")),
		},
		{name: "all_authors", input: "$..author", want: ast.Descendants{Left: ast.Root{}, Right: fields("author")}},
		{name: "everything_in_store", input: "$.store.*", want: child(child(ast.Root{}, fields("store")), fields("*"))},
		{
			name:  "price_of_everything",
			input: "$.store..price",
			want:  ast.Descendants{Left: child(ast.Root{}, fields("store")), Right: fields("price")},
		},
		{name: "third_book", input: "$..book[2]", want: child(book, ast.Index{Index: 2})},
		{name: "last_book", input: "$..book[-1:]", want: child(book, ast.Slice{Start: ast.Int(-1)})},
		{name: "first_two_books", input: "$..book[:2]", want: child(book, ast.Slice{End: ast.Int(2)})},
		{
			name:  "books_with_isbn",
			input: "$..book[?(@.isbn)]",
			want: child(book, ast.Filter{Expressions: []ast.Expression{
				{Target: child(ast.This{}, fields("isbn"))},
			}}),
		},
		{
			name:  "books_cheaper_than_10",
			input: "$..book[?(@.price<10)]",
			want: child(book, ast.Filter{Expressions: []ast.Expression{
				{Target: child(ast.This{}, fields("price")), Op: "<", Value: 10},
			}}),
		},
		{name: "all_members", input: "$..*", want: ast.Descendants{Left: ast.Root{}, Right: fields("*")}},
		{
			name:  "object_navigation",
			input: "$.store.book[0].title",
			want:  child(child(child(child(ast.Root{}, fields("store")), fields("book")), ast.Index{Index: 0}), fields("title")),
		},
		{
			name:  "dictionary_navigation",
			input: "$['store']['book'][0]['title']",
			want:  child(child(child(child(ast.Root{}, fields("store")), fields("book")), ast.Index{Index: 0}), fields("title")),
		},
	})
}

func TestParseExtensions(t *testing.T) {
	t.Parallel()

	objects := fields("objects")
	foo := child(ast.Root{}, fields("foo"))
	checkParse(t, []parseCase{
		{
			name:  "filter_and",
			input: "objects[?cow>5&cat=2]",
			want: child(objects, ast.Filter{Expressions: []ast.Expression{
				{Target: fields("cow"), Op: ">", Value: 5},
				{Target: fields("cat"), Op: "=", Value: 2},
			}}),
		},
		{
			name:  "filter_double_and_float",
			input: "objects[?a>=0.5 && b!='x']",
			want: child(objects, ast.Filter{Expressions: []ast.Expression{
				{Target: fields("a"), Op: ">=", Value: 0.5},
				{Target: fields("b"), Op: "!=", Value: "x"},
			}}),
		},
		{
			name:  "filter_bool",
			input: "foo[?flag = true].color",
			want: child(child(fields("foo"), ast.Filter{Expressions: []ast.Expression{
				{Target: fields("flag"), Op: "=", Value: true},
			}}), fields("color")),
		},
		{
			name:  "filter_bracketed_target",
			input: `objects[?(@.["cow"]="moo")]`,
			want: child(objects, ast.Filter{Expressions: []ast.Expression{
				{Target: child(ast.This{}, fields("cow")), Op: "=", Value: "moo"},
			}}),
		},
		{
			name:  "filter_groups",
			input: "objects[?(a=1)&(b)]",
			want: child(objects, ast.Filter{Expressions: []ast.Expression{
				{Target: fields("a"), Op: "=", Value: 1},
				{Target: fields("b")},
			}}),
		},
		{
			name:  "filter_parenthesized_target",
			input: "objects[?(a|b).c=1]",
			want: child(objects, ast.Filter{Expressions: []ast.Expression{
				{Target: child(ast.Union{Left: fields("a"), Right: fields("b")}, fields("c")), Op: "=", Value: 1},
			}}),
		},
		{
			name:  "sort_two_keys",
			input: `objects[/cow,\cat]`,
			want: child(objects, ast.SortFilter{Keys: []ast.SortKey{
				{Path: fields("cow")},
				{Path: fields("cat"), Descending: true},
			}}),
		},
		{
			name:  "sort_nested_union_key",
			input: "objects[/cat.(cow,bow)][0]",
			want: child(child(objects, ast.SortFilter{Keys: []ast.SortKey{
				{Path: child(fields("cat"), fields("cow", "bow"))},
			}}), ast.Index{Index: 0}),
		},
		{
			name:  "arithmetic_literals",
			input: "3 * 3",
			want:  ast.Operation{Left: ast.Literal{Value: 3}, Op: "*", Right: ast.Literal{Value: 3}},
		},
		{
			name:  "arithmetic_precedence",
			input: "$.foo * 10 * $.foo + 2",
			want: ast.Operation{
				Left: ast.Operation{
					Left:  ast.Operation{Left: foo, Op: "*", Right: ast.Literal{Value: 10}},
					Op:    "*",
					Right: foo,
				},
				Op:    "+",
				Right: ast.Literal{Value: 2},
			},
		},
		{
			name:  "arithmetic_parentheses",
			input: "$.foo * (10 + $.foo)",
			want: ast.Operation{
				Left:  foo,
				Op:    "*",
				Right: ast.Operation{Left: ast.Literal{Value: 10}, Op: "+", Right: foo},
			},
		},
		{
			name:  "arithmetic_quoted_operand_is_string",
			input: `$.foo + "_" + $.bar`,
			want: ast.Operation{
				Left:  ast.Operation{Left: foo, Op: "+", Right: ast.Literal{Value: "_"}},
				Op:    "+",
				Right: child(ast.Root{}, fields("bar")),
			},
		},
		{
			name:  "arithmetic_bare_operand_is_path",
			input: "foo * 3",
			want:  ast.Operation{Left: fields("foo"), Op: "*", Right: ast.Literal{Value: 3}},
		},
		{
			name:  "arithmetic_division_float",
			input: "a / 2.5 - b",
			want: ast.Operation{
				Left:  ast.Operation{Left: fields("a"), Op: "/", Right: ast.Literal{Value: 2.5}},
				Op:    "-",
				Right: fields("b"),
			},
		},
		{name: "lone_quoted_is_field", input: `"foo"`, want: fields("foo")},
		{name: "sorted", input: "objects.`sorted`", want: child(objects, ast.NamedOperator{Name: ast.OpSorted})},
		{name: "len", input: "objects.`len`", want: child(objects, ast.NamedOperator{Name: ast.OpLen})},
		{name: "str", input: "payload.`str()`", want: child(fields("payload"), ast.NamedOperator{Name: ast.OpStr})},
		{
			name:  "sub",
			input: "payload.`sub(/(foo\\\\d+)\\\\+(\\\\d+bar)/, \\\\2-\\\\1)`",
			want: child(fields("payload"), ast.NamedOperator{
				Name: ast.OpSub,
				Args: []string{`(foo\d+)\+(\d+bar)`, `\2-\1`},
			}),
		},
		{
			name:  "split",
			input: "payload.`split(-, 2, -1)`",
			want:  child(fields("payload"), ast.NamedOperator{Name: ast.OpSplit, Args: []string{"-", "2", "-1"}}),
		},
		{
			name:  "split_separator_with_comma",
			input: "payload.`split(,, 0, 1)`",
			want:  child(fields("payload"), ast.NamedOperator{Name: ast.OpSplit, Args: []string{",", "0", "1"}}),
		},
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		opts    []Option
		wantErr error
	}{
		{name: "unknown_named_operator", input: "foo.bar.`grandparent`.baz", wantErr: ErrUnknownNamedOperator},
		{
			name:    "unknown_named_operator_base",
			input:   "foo.bar.`grandparent`.baz",
			opts:    []Option{WithBaseGrammar()},
			wantErr: ErrUnknownNamedOperator,
		},
		{name: "base_rejects_sorted", input: "foo.`sorted`", opts: []Option{WithBaseGrammar()}, wantErr: ErrUnknownNamedOperator},
		{name: "base_rejects_filter", input: "foo[?bar]", opts: []Option{WithBaseGrammar()}, wantErr: ErrUnexpectedToken},
		{name: "base_rejects_sort", input: "foo[/bar]", opts: []Option{WithBaseGrammar()}, wantErr: ErrUnexpectedToken},
		{name: "base_rejects_arithmetic", input: "foo * 2", opts: []Option{WithBaseGrammar()}, wantErr: ErrUnexpectedToken},
		{name: "empty", input: "", wantErr: ErrUnexpectedToken},
		{name: "dangling_dot", input: "foo.", wantErr: ErrUnexpectedToken},
		{name: "unclosed_bracket", input: "foo[0", wantErr: ErrUnexpectedToken},
		{name: "unclosed_paren", input: "(foo", wantErr: ErrUnexpectedToken},
		{name: "zero_step", input: "[::0]", wantErr: ErrUnexpectedToken},
		{name: "trailing_tokens", input: "foo bar", wantErr: ErrUnexpectedToken},
		{name: "filter_missing_value", input: "foo[?a=]", wantErr: ErrUnexpectedToken},
		{name: "sort_missing_direction", input: "foo[/a,]", wantErr: ErrUnexpectedToken},
		{name: "sub_bad_shape", input: "a.`sub(foo)`", wantErr: ErrInvalidNamedOperator},
		{name: "sub_bad_regex", input: "a.`sub(/(foo/, x)`", wantErr: ErrInvalidNamedOperator},
		{name: "split_bad_index", input: "a.`split(-, x, 1)`", wantErr: ErrInvalidNamedOperator},
		{name: "split_bad_maxsplit", input: "a.`split(-, 1, -2)`", wantErr: ErrInvalidNamedOperator},
		{name: "lexer_error", input: "foo.#", wantErr: lexer.ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.input, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrSyntax)

			var parseErr *Error
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := Parse("foo.bar.`grandparent`.baz")
	var parseErr *Error
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, parseErr.Line)
	assert.Equal(t, 9, parseErr.Col)
	assert.Equal(t, "parse error at line 1, col 9 near `grandparent`: unknown named operator: grandparent", err.Error())

	_, err = Parse("foo\n.'bar")
	var lexErr *lexer.Error
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 2, lexErr.Line)
	assert.Equal(t, 2, lexErr.Col)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"foo",
		"$",
		"`this`.foo",
		"foo.baz,bizzle",
		"foo..baz.bing",
		"(foo..baz).bing",
		"$.store.book[*].author",
		"$..book[-1:]",
		"$..book[::2]",
		"$['store']['book'][0]['title']",
		"a.b where c",
		"(a.b) where c",
		"a where b.c",
		"payload.id|(resource.id)",
		"(a|b).c",
		"a.(b[0])",
		"a.(b..c)",
		`foo."bar-baz"`,
		`foo.'it\'s'`,
		"foo.'where'",
		"foo.'@'",
		"foo.`parent`.bar",
		"objects[?cow>5&cat='x'&dog]",
		"objects[?(@.price<10.5)]",
		"foo[?flag=true].color",
		`objects[/cow,\cat][0].cat`,
		"objects[/cat.(cow,bow)]",
		"3 * 3",
		"$.foo * 10 * $.foo + 2",
		"($.foo * 10 * $.foo) + 2",
		"a - (b - c)",
		"a / (b * c)",
		`$.foo + "_" + $.bar`,
		`['a-b'] * 2`,
		"(a + 1).b",
		"objects.`sorted`[1]",
		"payload.`sub(/(foo\\\\d+)\\\\+(\\\\d+bar)/, \\\\2-\\\\1)`",
		"payload.`sub(/a\\`b/, c)`",
		"payload.`split(-, 2, -1)`",
		"payload.`str()`.`len`",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			first, err := Parse(input)
			require.NoError(t, err)

			rendered := first.String()
			second, err := Parse(rendered)
			require.NoError(t, err, "rendered %q", rendered)
			assert.Truef(t, ast.Equal(first, second), "%q rendered as %q", input, rendered)
		})
	}
}

func TestParserIsReusable(t *testing.T) {
	t.Parallel()

	p := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				n, err := p.Parse("$.objects[?cow>1].name")
				assert.NoError(t, err)
				assert.NotNil(t, n)
			}
		}()
	}
	wg.Wait()
}

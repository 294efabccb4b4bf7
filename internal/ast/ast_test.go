package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	foo := NewFields("foo")
	tests := []struct {
		name        string
		left, right Node
		want        Node
	}{
		{name: "root_absorbed", left: Root{}, right: foo, want: foo},
		{name: "this_left_absorbed", left: This{}, right: foo, want: foo},
		{name: "this_right_absorbed", left: foo, right: This{}, want: foo},
		{name: "child", left: foo, right: Index{Index: 1}, want: Child{Left: foo, Right: Index{Index: 1}}},
		{name: "root_right_kept", left: foo, right: Root{}, want: Child{Left: foo, Right: Root{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Compose(tt.left, tt.right))
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(Slice{Start: Int(1)}, Slice{Start: Int(1)}))
	assert.False(t, Equal(Slice{Start: Int(1)}, Slice{Start: Int(2)}))
	assert.True(t, Equal(
		Child{Left: NewFields("a", "b"), Right: Index{Index: 0}},
		Child{Left: NewFields("a", "b"), Right: Index{Index: 0}},
	))
	assert.False(t, Equal(Where{Left: Root{}, Right: This{}}, Child{Left: Root{}, Right: This{}}))
	assert.Equal(t, Key(NewFields("a")), Key(NewFields("a")))
	assert.Empty(t, Key(nil))
}

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node Node
		want string
	}{
		{name: "root", node: Root{}, want: "$"},
		{name: "this", node: This{}, want: "`this`"},
		{name: "fields", node: NewFields("foo", "bar-baz", "a b"), want: "foo,bar-baz,'a b'"},
		{name: "keyword_field", node: NewFields("where"), want: "'where'"},
		{name: "escaped_field", node: NewFields(`it's\`), want: `'it\'s\\'`},
		{name: "wildcard", node: NewFields("*"), want: "*"},
		{name: "slice_all", node: Slice{}, want: "[*]"},
		{name: "slice_bounds", node: Slice{Start: Int(1), End: Int(-1), Step: Int(2)}, want: "[1:-1:2]"},
		{
			name: "postfix",
			node: Child{Left: Descendants{Left: Root{}, Right: NewFields("book")}, Right: Index{Index: 2}},
			want: "$..book[2]",
		},
		{
			name: "descendants_left_needs_parens",
			node: Child{Left: Descendants{Left: NewFields("a"), Right: NewFields("b")}, Right: NewFields("c")},
			want: "(a..b).c",
		},
		{
			name: "filter",
			node: Filter{Expressions: []Expression{
				{Target: NewFields("a"), Op: ">", Value: 1.0},
				{Target: NewFields("b")},
			}},
			want: "[?a>1.0 & b]",
		},
		{
			name: "sort",
			node: SortFilter{Keys: []SortKey{{Path: NewFields("a")}, {Path: NewFields("b"), Descending: true}}},
			want: `[/a,\b]`,
		},
		{
			name: "arithmetic",
			node: Operation{
				Left:  Operation{Left: NewFields("a"), Op: "+", Right: Literal{Value: 1}},
				Op:    "*",
				Right: Literal{Value: "x"},
			},
			want: "(a + 1) * 'x'",
		},
		{name: "sub", node: NamedOperator{Name: OpSub, Args: []string{`a\d`, "b"}}, want: "`sub(/a\\\\d/, b)`"},
		{name: "split", node: NamedOperator{Name: OpSplit, Args: []string{"-", "1", "-1"}}, want: "`split(-, 1, -1)`"},
		{name: "str", node: NamedOperator{Name: OpStr}, want: "`str()`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestRenderUnquoted(t *testing.T) {
	t.Parallel()

	n := Child{Left: NewFields("a b"), Right: NewFields("c")}
	assert.Equal(t, "a b.c", Render(n, false))
	assert.Equal(t, "'a b'.c", Render(n, true))
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2.0", FormatFloat(2))
	assert.Equal(t, "0.5", FormatFloat(0.5))
	assert.Equal(t, "-1.25", FormatFloat(-1.25))
}

package jsonpath

// Package jsonpath compiles path expressions and runs them against decoded
// JSON or YAML documents. It emits matches with the value and the canonical
// path of every node the expression selects, and can write values back.
//
// Grammar (extended mode, the default):
//   - Root `$`, current `@` or `this`, parent `parent`
//   - Child `.` and descendant `..` segments, `where` and `|` combinators
//   - Names, quoted names, comma separated names, wildcard `*`
//   - Indexes `[n]`, slices `[start:end:step]`, `[*]`
//   - Filters `[?expr & expr]` where expr is `path` or `path <op> literal`:
//     <op>      →  =  ==  !=  <  <=  >  >=
//     <literal> →  integer  |  float  |  true  |  false  |  'string'
//   - Sorting `[/key, \key]`
//   - Arithmetic `+ - * /` between paths and constants
//   - Named operators between backticks: `sorted`, `len`, `str()`,
//     `sub(/regex/, replacement)`, `split(separator, index, maxsplit)`
//
// WithBaseGrammar restricts parsing to paths without filters, sorting,
// arithmetic or named operators other than this and parent.

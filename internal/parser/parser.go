// Package parser builds path-expression trees from text.
//
// The default grammar is the extended one: filters, sorting, arithmetic and
// the function-like named operators. WithBaseGrammar restricts parsing to the
// plain path syntax.
//
// Path operators bind, loosest first: a trailing bracket (applied to the whole
// path on its left), "..", ".", "|" and "where". All of them associate to the
// left. Arithmetic sits below paths with "*" and "/" binding tighter than "+"
// and "-".
package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/lexer"
)

type options struct {
	base   bool
	logger *slog.Logger
}

type Option func(*options)

// WithBaseGrammar rejects extension syntax.
func WithBaseGrammar() Option {
	return func(o *options) {
		o.base = true
	}
}

// WithLogger traces parsed expressions at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Parser holds configuration only; Parse keeps its state per call, so one
// Parser can be shared.
type Parser struct {
	opts options
}

func New(opts ...Option) *Parser {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o}
}

// Parse is shorthand for New(opts...).Parse(text).
func Parse(text string, opts ...Option) (ast.Node, error) {
	return New(opts...).Parse(text)
}

func (p *Parser) Parse(text string) (ast.Node, error) {
	tokens, err := lexer.All(text)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, &Error{Line: lexErr.Line, Col: lexErr.Col, Err: err}
		}
		return nil, &Error{Err: err}
	}

	state := parserState{tokens: tokens, base: p.opts.base}
	if tok := state.current(); tok.Kind == lexer.EOF {
		return nil, state.fail(tok, fmt.Errorf("%w: expression is empty", ErrUnexpectedToken))
	}

	root, err := state.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := state.current(); tok.Kind != lexer.EOF {
		return nil, state.unexpected(tok)
	}

	p.opts.logger.Debug("parsed path expression", "expression", text, "tree", root.String())
	return root, nil
}

type parserState struct {
	tokens []lexer.Token
	pos    int
	base   bool
}

func (p *parserState) current() lexer.Token {
	return p.peek(0)
}

func (p *parserState) peek(offset int) lexer.Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parserState) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parserState) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return tok, p.fail(tok, fmt.Errorf("%w: expected %s", ErrUnexpectedToken, kind))
	}
	return p.advance(), nil
}

func (p *parserState) fail(tok lexer.Token, err error) error {
	return &Error{Line: tok.Line, Col: tok.Col, Token: tok.String(), Err: err}
}

func (p *parserState) unexpected(tok lexer.Token) error {
	return p.fail(tok, ErrUnexpectedToken)
}

func (p *parserState) extension(tok lexer.Token) error {
	if !p.base {
		return nil
	}
	return p.fail(tok, fmt.Errorf("%w: %s requires the extended grammar", ErrUnexpectedToken, tok))
}

func (p *parserState) parseExpression() (ast.Node, error) {
	if p.base {
		return p.parsePath(0)
	}
	node, _, err := p.parseAdditive()
	return node, err
}

func (p *parserState) parseAdditive() (ast.Node, bool, error) {
	left, lone, err := p.parseMultiplicative()
	if err != nil {
		return nil, false, err
	}

	for {
		kind := p.current().Kind
		if kind != lexer.Plus && kind != lexer.Minus {
			return left, lone, nil
		}

		op := p.advance()
		right, rightLone, err := p.parseMultiplicative()
		if err != nil {
			return nil, false, err
		}
		left = ast.Operation{Left: operand(left, lone), Op: op.Text, Right: operand(right, rightLone)}
		lone = false
	}
}

func (p *parserState) parseMultiplicative() (ast.Node, bool, error) {
	left, lone, err := p.parseOperand()
	if err != nil {
		return nil, false, err
	}

	for {
		kind := p.current().Kind
		if kind != lexer.Star && kind != lexer.Slash {
			return left, lone, nil
		}

		op := p.advance()
		right, rightLone, err := p.parseOperand()
		if err != nil {
			return nil, false, err
		}
		left = ast.Operation{Left: operand(left, lone), Op: op.Text, Right: operand(right, rightLone)}
		lone = false
	}
}

// parseOperand reports whether the operand was a single quoted name with
// nothing attached; next to an arithmetic operator that is a string constant.
func (p *parserState) parseOperand() (ast.Node, bool, error) {
	tok := p.current()
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		return ast.Literal{Value: tok.Int}, false, nil
	case lexer.Float:
		p.advance()
		return ast.Literal{Value: tok.Float}, false, nil
	case lexer.Bool:
		p.advance()
		return ast.Literal{Value: tok.Bool}, false, nil
	}

	start := p.pos
	node, err := p.parsePath(0)
	if err != nil {
		return nil, false, err
	}
	lone := tok.Kind == lexer.ID && tok.Quoted && p.pos == start+1
	return node, lone, nil
}

func operand(n ast.Node, lone bool) ast.Node {
	if !lone {
		return n
	}
	return ast.Literal{Value: n.(ast.Fields).Names[0]}
}

var bindingPowers = map[lexer.Kind]int{
	lexer.LeftBracket: 1,
	lexer.DoubleDot:   2,
	lexer.Dot:         3,
	lexer.Pipe:        4,
	lexer.Where:       5,
}

func (p *parserState) parsePath(minPower int) (ast.Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		power := bindingPowers[tok.Kind]
		if power <= minPower {
			return left, nil
		}

		if tok.Kind == lexer.LeftBracket {
			right, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			left = ast.Child{Left: left, Right: right}
			continue
		}

		p.advance()
		right, err := p.parsePath(power)
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case lexer.Dot:
			left = ast.Child{Left: left, Right: right}
		case lexer.DoubleDot:
			left = ast.Descendants{Left: left, Right: right}
		case lexer.Pipe:
			left = ast.Union{Left: left, Right: right}
		case lexer.Where:
			left = ast.Where{Left: left, Right: right}
		}
	}
}

func (p *parserState) parseAtom() (ast.Node, error) {
	tok := p.current()
	switch tok.Kind {
	case lexer.Dollar:
		p.advance()
		return ast.Root{}, nil
	case lexer.Star:
		p.advance()
		return ast.NewFields(ast.Wildcard), nil
	case lexer.ID:
		if !tok.Quoted && tok.Text == "@" {
			p.advance()
			return ast.This{}, nil
		}
		return p.parseFields(), nil
	case lexer.Bool:
		// true and false are plain field names in path position.
		return p.parseFields(), nil
	case lexer.NamedOperator:
		p.advance()
		return p.namedOperator(tok)
	case lexer.LeftBracket:
		return p.parseBracket()
	case lexer.LeftParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.unexpected(tok)
	}
}

func isName(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.Bool:
		return true
	case lexer.ID:
		return tok.Quoted || tok.Text != "@"
	default:
		return false
	}
}

// parseFields reads a comma-separated run of names. A comma not followed by a
// name is left for the caller, which is how sort keys are separated.
func (p *parserState) parseFields() ast.Fields {
	names := []string{p.advance().Text}
	for p.current().Kind == lexer.Comma && isName(p.peek(1)) {
		p.advance()
		names = append(names, p.advance().Text)
	}
	return ast.Fields{Names: names}
}

func (p *parserState) parseBracket() (ast.Node, error) {
	if _, err := p.expect(lexer.LeftBracket); err != nil {
		return nil, err
	}

	var (
		node ast.Node
		err  error
	)

	tok := p.current()
	switch {
	case tok.Kind == lexer.Question:
		if err := p.extension(tok); err != nil {
			return nil, err
		}
		p.advance()
		node, err = p.parseFilter()
	case tok.Kind == lexer.Slash || tok.Kind == lexer.Backslash:
		if err := p.extension(tok); err != nil {
			return nil, err
		}
		node, err = p.parseSort()
	case tok.Kind == lexer.Star && p.peek(1).Kind == lexer.RightBracket:
		p.advance()
		node = ast.Slice{}
	case tok.Kind == lexer.Number || tok.Kind == lexer.Colon:
		node, err = p.parseIndexOrSlice()
	case isName(tok):
		node = p.parseFields()
	default:
		return nil, p.unexpected(tok)
	}
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RightBracket); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parserState) parseIndexOrSlice() (ast.Node, error) {
	var bounds [3]*int

	if tok := p.current(); tok.Kind == lexer.Number {
		p.advance()
		if p.current().Kind != lexer.Colon {
			return ast.Index{Index: tok.Int}, nil
		}
		bounds[0] = ast.Int(tok.Int)
	}

	for part := 1; part < len(bounds) && p.current().Kind == lexer.Colon; part++ {
		p.advance()
		if tok := p.current(); tok.Kind == lexer.Number {
			p.advance()
			bounds[part] = ast.Int(tok.Int)
		}
	}

	if bounds[2] != nil && *bounds[2] == 0 {
		return nil, p.fail(p.current(), fmt.Errorf("%w: slice step cannot be zero", ErrUnexpectedToken))
	}
	return ast.Slice{Start: bounds[0], End: bounds[1], Step: bounds[2]}, nil
}

func (p *parserState) parseFilter() (ast.Node, error) {
	expressions, err := p.parseConjunction()
	if err != nil {
		return nil, err
	}
	return ast.Filter{Expressions: expressions}, nil
}

func (p *parserState) parseConjunction() ([]ast.Expression, error) {
	var expressions []ast.Expression
	for {
		term, err := p.parseFilterTerm()
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, term...)

		if kind := p.current().Kind; kind != lexer.Amp && kind != lexer.DoubleAnd {
			return expressions, nil
		}
		p.advance()
	}
}

// parseFilterTerm reads one comparison or a parenthesized group of them. A
// parenthesis that turns out to open a path is re-read as a comparison.
func (p *parserState) parseFilterTerm() ([]ast.Expression, error) {
	if p.current().Kind == lexer.LeftParen {
		start := p.pos
		p.advance()
		group, err := p.parseConjunction()
		if err == nil && p.current().Kind == lexer.RightParen {
			p.advance()
			switch p.current().Kind {
			case lexer.Amp, lexer.DoubleAnd, lexer.RightBracket, lexer.RightParen:
				return group, nil
			}
		}
		p.pos = start
	}

	expression, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	return []ast.Expression{expression}, nil
}

func (p *parserState) parseComparison() (ast.Expression, error) {
	target, err := p.parsePath(0)
	if err != nil {
		return ast.Expression{}, err
	}

	op := p.current()
	if op.Kind != lexer.FilterOp {
		return ast.Expression{Target: target}, nil
	}
	p.advance()

	tok := p.current()
	var value any
	switch tok.Kind {
	case lexer.Number:
		value = tok.Int
	case lexer.Float:
		value = tok.Float
	case lexer.Bool:
		value = tok.Bool
	case lexer.ID:
		value = tok.Text
	default:
		return ast.Expression{}, p.unexpected(tok)
	}
	p.advance()

	return ast.Expression{Target: target, Op: op.Text, Value: value}, nil
}

func (p *parserState) parseSort() (ast.Node, error) {
	var keys []ast.SortKey
	for {
		direction := p.current()
		if direction.Kind != lexer.Slash && direction.Kind != lexer.Backslash {
			return nil, p.fail(direction, fmt.Errorf("%w: expected sort direction", ErrUnexpectedToken))
		}
		p.advance()

		path, err := p.parsePath(0)
		if err != nil {
			return nil, err
		}
		keys = append(keys, ast.SortKey{Path: path, Descending: direction.Kind == lexer.Backslash})

		if p.current().Kind != lexer.Comma {
			return ast.SortFilter{Keys: keys}, nil
		}
		p.advance()
	}
}

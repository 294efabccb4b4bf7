package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/lexer"
	"github.com/jacoelho/jpath/internal/regex"
)

func (p *parserState) namedOperator(tok lexer.Token) (ast.Node, error) {
	text := tok.Text
	switch text {
	case "this":
		return ast.This{}, nil
	case "parent":
		return ast.Parent{}, nil
	}

	if p.base {
		return nil, p.fail(tok, fmt.Errorf("%w: %s", ErrUnknownNamedOperator, text))
	}

	switch {
	case text == ast.OpSorted || text == ast.OpLen:
		return ast.NamedOperator{Name: text}, nil
	case text == "str()":
		return ast.NamedOperator{Name: ast.OpStr}, nil
	case strings.HasPrefix(text, "sub("):
		return p.parseSub(tok)
	case strings.HasPrefix(text, "split("):
		return p.parseSplit(tok)
	default:
		return nil, p.fail(tok, fmt.Errorf("%w: %s", ErrUnknownNamedOperator, text))
	}
}

// parseSub reads sub(/pattern/, replacement). The pattern runs to the last
// "/," so it may itself contain slashes.
func (p *parserState) parseSub(tok lexer.Token) (ast.Node, error) {
	body, okPrefix := strings.CutPrefix(tok.Text, "sub(/")
	body, okSuffix := strings.CutSuffix(body, ")")
	sep := strings.LastIndex(body, "/,")
	if !okPrefix || !okSuffix || sep < 0 {
		return nil, p.fail(tok, fmt.Errorf("%w: want sub(/regex/, replacement)", ErrInvalidNamedOperator))
	}

	pattern := body[:sep]
	replacement := strings.TrimLeft(body[sep+2:], " \t\n")
	if _, err := regex.Compile(pattern); err != nil {
		return nil, p.fail(tok, fmt.Errorf("%w: %w", ErrInvalidNamedOperator, err))
	}

	return ast.NamedOperator{Name: ast.OpSub, Args: []string{pattern, replacement}}, nil
}

// parseSplit reads split(separator, index, maxsplit). The two numbers are
// taken from the right so the separator may contain commas.
func (p *parserState) parseSplit(tok lexer.Token) (ast.Node, error) {
	invalid := func(reason string) error {
		return p.fail(tok, fmt.Errorf("%w: %s", ErrInvalidNamedOperator, reason))
	}

	body, ok := strings.CutPrefix(tok.Text, "split(")
	if !ok {
		return nil, invalid("want split(separator, index, maxsplit)")
	}
	body, ok = strings.CutSuffix(body, ")")
	if !ok {
		return nil, invalid("want split(separator, index, maxsplit)")
	}

	last := strings.LastIndex(body, ",")
	if last < 0 {
		return nil, invalid("want split(separator, index, maxsplit)")
	}
	maxSplit := strings.TrimSpace(body[last+1:])
	rest := body[:last]

	mid := strings.LastIndex(rest, ",")
	if mid < 0 {
		return nil, invalid("want split(separator, index, maxsplit)")
	}
	index := strings.TrimSpace(rest[mid+1:])
	separator := rest[:mid]

	if separator == "" {
		return nil, invalid("empty separator")
	}
	if _, err := strconv.Atoi(index); err != nil {
		return nil, invalid(fmt.Sprintf("index %q is not an integer", index))
	}
	if n, err := strconv.Atoi(maxSplit); err != nil || n < -1 {
		return nil, invalid(fmt.Sprintf("maxsplit %q must be -1 or a non-negative integer", maxSplit))
	}

	return ast.NamedOperator{Name: ast.OpSplit, Args: []string{separator, index, maxSplit}}, nil
}

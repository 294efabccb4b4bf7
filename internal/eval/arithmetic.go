package eval

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/number"
)

var (
	// ErrTypeMismatch reports operands an operator cannot combine.
	ErrTypeMismatch = errors.New("unsupported operand types")

	// ErrLengthMismatch reports path operands with different match counts.
	ErrLengthMismatch = errors.New("operands resolve to different numbers of values")
)

// operation evaluates an arithmetic node. Any failure discards the whole
// result rather than the offending pair.
func (e *evaluator) operation(n ast.Operation, d *Datum) []*Datum {
	values, err := e.arithmetic(n, d)
	if err != nil {
		e.logger.Debug("arithmetic discarded", "expression", n.String(), "error", err)
		return nil
	}

	out := make([]*Datum, len(values))
	for i, value := range values {
		out[i] = &Datum{Value: value, Path: ast.This{}, computed: true}
	}
	return out
}

func (e *evaluator) arithmetic(n ast.Operation, d *Datum) ([]any, error) {
	left, leftConst := n.Left.(ast.Literal)
	right, rightConst := n.Right.(ast.Literal)

	switch {
	case leftConst && rightConst:
		value, err := combine(n.Op, left.Value, right.Value)
		if err != nil {
			return nil, err
		}
		return []any{value}, nil

	case leftConst:
		return broadcast(Values(e.find(n.Right, d)), func(v any) (any, error) {
			return combine(n.Op, left.Value, v)
		})

	case rightConst:
		return broadcast(Values(e.find(n.Left, d)), func(v any) (any, error) {
			return combine(n.Op, v, right.Value)
		})
	}

	lefts := Values(e.find(n.Left, d))
	rights := Values(e.find(n.Right, d))
	if len(lefts) == 0 || len(lefts) != len(rights) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(lefts), len(rights))
	}

	out := make([]any, len(lefts))
	for i := range lefts {
		value, err := combine(n.Op, lefts[i], rights[i])
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

func broadcast(values []any, apply func(any) (any, error)) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		value, err := apply(v)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

// combine applies op to two values. Beyond numbers it concatenates strings
// and lists with "+" and repeats them by an integer with "*".
func combine(op string, left, right any) (any, error) {
	if number.IsNumber(left) && number.IsNumber(right) {
		return number.Apply(op, left, right)
	}

	switch op {
	case "+":
		if l, ok := left.(string); ok {
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		}
		if l, ok := left.([]any); ok {
			if r, ok := right.([]any); ok {
				return slices.Concat(l, r), nil
			}
		}
	case "*":
		if times, err := number.ToStrictInt(right); err == nil {
			if repeated, ok := repeat(left, times); ok {
				return repeated, nil
			}
		}
		if times, err := number.ToStrictInt(left); err == nil {
			if repeated, ok := repeat(right, times); ok {
				return repeated, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %T %s %T", ErrTypeMismatch, left, op, right)
}

func repeat(value any, times int) (any, bool) {
	times = max(times, 0)
	switch v := value.(type) {
	case string:
		return strings.Repeat(v, times), true
	case []any:
		return slices.Repeat(v, times), true
	default:
		return nil, false
	}
}

// Package number normalizes and combines the numeric values found in decoded
// documents.
package number

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrNotNumeric      = errors.New("value is not numeric")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnknownOperator = errors.New("unknown arithmetic operator")
)

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ToStrictInt converts integer-typed values into int.
func ToStrictInt(value any) (int, error) {
	switch current := value.(type) {
	case int:
		return current, nil
	case int8:
		return int(current), nil
	case int16:
		return int(current), nil
	case int32:
		return int(current), nil
	case int64:
		return int(current), nil
	case uint:
		return int(current), nil
	case uint8:
		return int(current), nil
	case uint16:
		return int(current), nil
	case uint32:
		return int(current), nil
	case uint64:
		return int(current), nil
	case json.Number:
		parsed, err := strconv.Atoi(current.String())
		if err != nil {
			return 0, fmt.Errorf("value %s is not an integer", current)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("value %T is not an integer", value)
	}
}

// IsNumber reports whether value is numeric. Booleans are not numbers.
func IsNumber(value any) bool {
	_, ok := ToFloat64(value)
	return ok
}

// Normalize maps every numeric kind onto int or float64 and leaves other
// values untouched. Integral json.Number values become int.
func Normalize(value any) any {
	if n, err := ToStrictInt(value); err == nil {
		return n
	}
	if f, ok := ToFloat64(value); ok {
		return f
	}
	return value
}

// Parse reads an integer or float literal.
func Parse(text string) (any, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// Apply combines two numbers. Integers stay integers for +, - and *; /
// always yields a float.
func Apply(op string, left, right any) (any, error) {
	if !IsNumber(left) || !IsNumber(right) {
		return nil, fmt.Errorf("%w: %T %s %T", ErrNotNumeric, left, op, right)
	}

	l, lerr := ToStrictInt(left)
	r, rerr := ToStrictInt(right)
	if lerr == nil && rerr == nil && op != "/" {
		switch op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, op)
	}

	lf, _ := ToFloat64(left)
	rf, _ := ToFloat64(right)
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, ErrDivisionByZero
		}
		return lf / rf, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, op)
}

// Compare orders two numbers. The second result is false when either side is
// not numeric.
func Compare(left, right any) (int, bool) {
	l, lerr := ToStrictInt(left)
	r, rerr := ToStrictInt(right)
	if lerr == nil && rerr == nil {
		return cmp.Compare(l, r), true
	}

	lf, lok := ToFloat64(left)
	rf, rok := ToFloat64(right)
	if !lok || !rok {
		return 0, false
	}
	return cmp.Compare(lf, rf), true
}

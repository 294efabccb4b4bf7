package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax matches every parse failure, lexing failures included.
	ErrSyntax = errors.New("syntax error")

	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnknownNamedOperator reports a back-quoted name outside the fixed set.
	ErrUnknownNamedOperator = errors.New("unknown named operator")

	// ErrInvalidNamedOperator reports malformed named operator arguments.
	ErrInvalidNamedOperator = errors.New("invalid named operator")
)

// Error describes where parsing failed.
type Error struct {
	Line  int
	Col   int
	Token string
	Err   error
}

func (e *Error) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error at line %d, col %d near %s: %v", e.Line, e.Col, e.Token, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

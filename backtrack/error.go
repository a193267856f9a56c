package backtrack

import (
	"errors"
	"fmt"
)

// Common matching errors.
var (
	// ErrResourceExhausted is the base error for aborted searches. A
	// call failing with it made no determination: the caller must not
	// read the result as "does not match".
	ErrResourceExhausted = errors.New("backtrack: resource budget exhausted")

	// ErrInvalidConfig indicates an out-of-range Config value.
	ErrInvalidConfig = errors.New("backtrack: invalid configuration")

	// ErrNilPattern indicates NewEngine was given a nil AST root.
	ErrNilPattern = errors.New("backtrack: nil pattern root")
)

// LimitError reports which budget a call exhausted.
type LimitError struct {
	What  string // "depth" or "step"
	Limit int
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("backtrack: %s limit %d exceeded", e.What, e.Limit)
}

// Unwrap makes errors.Is(err, ErrResourceExhausted) hold for every limit
// error.
func (e *LimitError) Unwrap() error {
	return ErrResourceExhausted
}

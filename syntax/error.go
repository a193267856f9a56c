package syntax

import "fmt"

// ErrorKind classifies pattern parse failures.
type ErrorKind int

const (
	// ErrUnbalancedParenthesis indicates a '(' without a matching ')',
	// or a stray ')'.
	ErrUnbalancedParenthesis ErrorKind = iota + 1

	// ErrUnterminatedCharClass indicates a '[' without a matching ']'.
	ErrUnterminatedCharClass

	// ErrDanglingQuantifier indicates a '*', '+' or '?' with no
	// preceding atom.
	ErrDanglingQuantifier

	// ErrInvalidCharClassRange indicates a class range whose second
	// endpoint precedes the first in code-point order, such as [z-a].
	ErrInvalidCharClassRange

	// ErrTrailingEscape indicates a pattern ending in a bare backslash.
	ErrTrailingEscape

	// ErrEmptyCharClass indicates a class with no members, '[]' or '[^]'.
	ErrEmptyCharClass
)

// String returns the kind's name, e.g. "UnbalancedParenthesis".
func (k ErrorKind) String() string {
	switch k {
	case ErrUnbalancedParenthesis:
		return "UnbalancedParenthesis"
	case ErrUnterminatedCharClass:
		return "UnterminatedCharClass"
	case ErrDanglingQuantifier:
		return "DanglingQuantifier"
	case ErrInvalidCharClassRange:
		return "InvalidCharClassRange"
	case ErrTrailingEscape:
		return "TrailingEscape"
	case ErrEmptyCharClass:
		return "EmptyCharClass"
	}
	return "Unknown"
}

// ParseError reports a malformed pattern. Pos is the byte offset in
// Pattern where the problem was detected, so callers can point at the
// offending character.
type ParseError struct {
	Kind    ErrorKind
	Pattern string
	Pos     int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax: %s at offset %d in %q", e.Kind, e.Pos, e.Pattern)
}

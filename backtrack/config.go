package backtrack

import "fmt"

// Config controls matching resource limits and the Dot policy.
//
// A well-formed pattern always terminates, but nested unbounded
// quantifiers such as (a*)*b can explore exponentially many expansions
// before concluding "no match". The limits below turn that worst case
// into a reported error instead of an unbounded search or an uncontrolled
// stack overflow.
//
// Example:
//
//	config := backtrack.DefaultConfig()
//	config.MaxSteps = 100_000 // tight budget for untrusted patterns
//	engine, err := backtrack.NewEngine(root, config)
type Config struct {
	// MaxDepth bounds the depth of the live cursor tree, which grows
	// with pattern nesting times the repetitions explored on the
	// current backtracking path. Deep quantifiers against long inputs
	// can drive it proportional to input length.
	// Default: 10000.
	MaxDepth int

	// MaxSteps bounds the total number of enumeration steps one engine
	// call may take. 0 disables the budget.
	// Default: 50000000.
	MaxSteps int

	// DotMatchesNewline selects whether '.' matches a line terminator.
	// Default: true ('.' matches every character).
	DotMatchesNewline bool
}

// DefaultConfig returns a configuration with sensible defaults: limits
// generous enough for moderate pathological patterns (the exhaustive
// no-match exploration of (a*)*b over twenty 'a's fits comfortably) while
// still guaranteeing termination with a diagnosable error.
func DefaultConfig() Config {
	return Config{
		MaxDepth:          10000,
		MaxSteps:          50000000,
		DotMatchesNewline: true,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: MaxDepth must be >= 1, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: MaxSteps must be >= 0, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}

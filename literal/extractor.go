// Package literal extracts the literal prefixes of a pattern AST for
// prefilter construction.
//
// A Seq is a set of strings together with two properties:
//
//   - complete: every match of the pattern starts with one of the members,
//     so a search may restrict itself to positions where a member occurs.
//   - exact: every member is an entire match. Exactness matters during
//     extraction: crossing an exact set with a following node extends the
//     members in place, while an inexact set can no longer grow.
//
// Extraction is conservative. When a node cannot contribute (a negated or
// large class, '.', or a cap being hit), the result degrades to an
// incomplete set or to the empty-string member, both of which disable
// filtering rather than risking a skipped match.
package literal

import "github.com/coregx/backrex/syntax"

// Seq is a set of literal prefixes plus the properties a prefilter needs.
type Seq struct {
	lits     []string
	exact    bool
	complete bool
}

// Literals returns the member strings. The slice is shared and must not
// be modified.
func (s *Seq) Literals() []string { return s.lits }

// IsComplete reports whether every match starts with one of the members.
func (s *Seq) IsComplete() bool { return s.complete }

// IsExact reports whether every member is an entire match.
func (s *Seq) IsExact() bool { return s.exact }

// IsEmpty reports whether the set has no members.
func (s *Seq) IsEmpty() bool { return len(s.lits) == 0 }

// HasEmptyString reports whether "" is a member. An empty-string prefix
// makes every position a candidate, so such a set cannot filter.
func (s *Seq) HasEmptyString() bool {
	for _, l := range s.lits {
		if l == "" {
			return true
		}
	}
	return false
}

// Config caps extraction so pathological patterns cannot blow up compile
// time or memory.
type Config struct {
	// MaxLiterals bounds the member count. Alternations and classes
	// multiply members; past this the cross product is abandoned.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen bounds each member's length in bytes.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize bounds how many runes a character class may expand
	// to; larger classes contribute nothing.
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extraction caps.
func DefaultConfig() Config {
	return Config{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix sets from pattern ASTs.
type Extractor struct {
	config Config
}

// New creates an extractor; zero config fields fall back to defaults.
func New(config Config) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxClassSize <= 0 {
		config.MaxClassSize = def.MaxClassSize
	}
	return &Extractor{config: config}
}

// Prefixes returns the prefix set of n.
func (e *Extractor) Prefixes(n syntax.Node) *Seq {
	return e.prefixes(n)
}

func (e *Extractor) prefixes(n syntax.Node) *Seq {
	switch n := n.(type) {
	case *syntax.Literal:
		return &Seq{lits: []string{string(n.R)}, exact: true, complete: true}

	case *syntax.Dot:
		return &Seq{}

	case *syntax.CharClass:
		return e.classPrefixes(n)

	case *syntax.Group:
		return e.prefixes(n.Child)

	case *syntax.Sequence:
		return e.seqPrefixes(n.Children)

	case *syntax.Alternation:
		return e.union(e.prefixes(n.Left), e.prefixes(n.Right))

	case *syntax.Star, *syntax.Question:
		// May match the empty string, so the only prefix every match
		// shares is "".
		return &Seq{lits: []string{""}, complete: true}

	case *syntax.Plus:
		// At least one repetition: the inner prefixes hold, but the
		// members are no longer entire matches.
		inner := e.prefixes(n.Inner)
		return &Seq{lits: inner.lits, complete: inner.complete}
	}
	return &Seq{}
}

// seqPrefixes folds the children left to right, extending the members
// while the accumulated set stays exact. The first child that stops the
// extension freezes the set; it remains a valid prefix set.
func (e *Extractor) seqPrefixes(children []syntax.Node) *Seq {
	cur := &Seq{lits: []string{""}, exact: true, complete: true}
	for _, child := range children {
		next, ok := e.cross(cur, e.prefixes(child))
		if !ok {
			cur.exact = false
			return cur
		}
		cur = next
		if !cur.exact {
			return cur
		}
	}
	return cur
}

// cross concatenates every member of a with every member of b. It reports
// ok == false when the product cannot be formed within the caps or b is
// incomplete; the caller then keeps a as a frozen prefix set.
func (e *Extractor) cross(a, b *Seq) (*Seq, bool) {
	if !b.complete || len(b.lits) == 0 {
		return nil, false
	}
	if len(a.lits)*len(b.lits) > e.config.MaxLiterals {
		return nil, false
	}
	out := make([]string, 0, len(a.lits)*len(b.lits))
	for _, pre := range a.lits {
		for _, suf := range b.lits {
			lit := pre + suf
			if len(lit) > e.config.MaxLiteralLen {
				return nil, false
			}
			out = append(out, lit)
		}
	}
	return &Seq{lits: dedup(out), exact: b.exact, complete: true}, true
}

// union merges two alternative prefix sets.
func (e *Extractor) union(a, b *Seq) *Seq {
	if !a.complete || !b.complete {
		return &Seq{}
	}
	merged := dedup(append(append([]string{}, a.lits...), b.lits...))
	if len(merged) > e.config.MaxLiterals {
		return &Seq{}
	}
	return &Seq{lits: merged, exact: a.exact && b.exact, complete: true}
}

// classPrefixes expands a small positive class to its member runes.
func (e *Extractor) classPrefixes(c *syntax.CharClass) *Seq {
	if c.Negated {
		return &Seq{}
	}
	var lits []string
	for _, rg := range c.Ranges {
		for r := rg.Lo; r <= rg.Hi; r++ {
			lits = append(lits, string(r))
			if len(lits) > e.config.MaxClassSize {
				return &Seq{}
			}
		}
	}
	return &Seq{lits: dedup(lits), exact: true, complete: true}
}

func dedup(lits []string) []string {
	seen := make(map[string]struct{}, len(lits))
	out := lits[:0]
	for _, l := range lits {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

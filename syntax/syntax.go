// Package syntax parses regular-expression patterns into an abstract
// syntax tree.
//
// The accepted syntax is deliberately small: literal characters, the '.'
// wildcard, bracket character classes ([abc], [a-z], [^a-c0], mixtures of
// singles and ranges), grouping with parentheses, alternation '|', and the
// quantifiers '*', '+' and '?'. A backslash escapes the following
// character, inside and outside classes. There are no anchors, bounded
// repetitions, captures or backreferences.
//
// Parse either returns a fully formed AST or a *ParseError carrying the
// error kind and the byte offset of the offending character; no partial
// tree is ever exposed. The returned tree is immutable: nodes hold no
// reference to their parent or to any text being matched, so a parsed
// pattern is safe for concurrent read-only use.
package syntax

import (
	"strings"
)

// Node is one node of the pattern AST. Nodes form a tree; every composite
// node exclusively owns its non-nil children and nothing mutates after
// Parse returns.
type Node interface {
	// String returns a compact rendition of the subtree for debugging.
	String() string
}

// Literal matches exactly one character.
type Literal struct {
	R rune
}

// Dot matches any single character. Whether that includes a line
// terminator is an engine policy, not a property of the tree.
type Dot struct{}

// ClassRange is one inclusive member range of a character class.
// A single character is a range with Lo == Hi.
type ClassRange struct {
	Lo rune
	Hi rune
}

// CharClass matches one character against a set of ranges, optionally
// negated.
type CharClass struct {
	Negated bool
	Ranges  []ClassRange
}

// Matches reports whether the class matches r, honoring negation.
func (c *CharClass) Matches(r rune) bool {
	in := false
	for _, rg := range c.Ranges {
		if rg.Lo <= r && r <= rg.Hi {
			in = true
			break
		}
	}
	return in != c.Negated
}

// Group is a transparent wrapper around a parenthesized subpattern. It
// exists so a following quantifier attaches to the whole parenthesized
// alternation; it has no matching behavior of its own.
type Group struct {
	Child Node
}

// Sequence is concatenation. An empty Sequence matches only the empty
// string; it is the parse of the empty pattern.
type Sequence struct {
	Children []Node
}

// Alternation is a two-way choice. The left branch is preferred.
type Alternation struct {
	Left  Node
	Right Node
}

// Star repeats Inner zero or more times.
type Star struct {
	Inner Node
}

// Plus repeats Inner one or more times.
type Plus struct {
	Inner Node
}

// Question repeats Inner zero or one time.
type Question struct {
	Inner Node
}

func (l *Literal) String() string {
	if strings.ContainsRune(`\.+*?()|[]`, l.R) {
		return `\` + string(l.R)
	}
	return string(l.R)
}

func (d *Dot) String() string { return "." }

func (c *CharClass) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Negated {
		b.WriteByte('^')
	}
	for _, rg := range c.Ranges {
		b.WriteRune(rg.Lo)
		if rg.Hi != rg.Lo {
			b.WriteByte('-')
			b.WriteRune(rg.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func (g *Group) String() string { return "(" + g.Child.String() + ")" }

func (s *Sequence) String() string {
	var b strings.Builder
	for _, child := range s.Children {
		b.WriteString(child.String())
	}
	return b.String()
}

func (a *Alternation) String() string { return a.Left.String() + "|" + a.Right.String() }

func (s *Star) String() string { return s.Inner.String() + "*" }

func (p *Plus) String() string { return p.Inner.String() + "+" }

func (q *Question) String() string { return q.Inner.String() + "?" }

// Package backtrack evaluates a parsed pattern AST against input text by
// lazy enumeration of end offsets.
//
// Every AST node maps to a cursor that produces, on demand, each offset at
// which the node can stop consuming input from a fixed start offset. A
// caller that stops pulling early does no further work, so the cross
// product of choices across a sequence is walked, never materialized. The
// enumeration order is part of the engine's contract:
//
//   - Literal, Dot and CharClass yield at most one offset (one rune).
//   - Sequence nests its children's enumerations; exhausting a suffix
//     resumes the previous child, which is the whole of backtracking.
//   - Alternation yields every left expansion before any right one.
//   - Star, Plus and Question are shortest-first: the zero-repetition
//     offset precedes any attempt at the inner node. A repetition step
//     that consumes nothing is never taken, so enumerations stay finite
//     even when the inner node matches the empty string.
//
// Cursors are pure functions of (node, text, offset): a fresh cursor
// restarts the same enumeration. Matching holds all state in the cursors
// and the per-call machine, never on the AST, so a compiled Engine is
// immutable and safe for concurrent use.
package backtrack

import (
	"unicode/utf8"

	"github.com/coregx/backrex/syntax"
)

// Span is a half-open match interval: text[Start:End].
type Span struct {
	Start int
	End   int
}

// CandidateFunc returns the next plausible match start at or after the
// given offset, or -1 when no later start can match. Search uses it to
// skip starts a prefilter has ruled out; it must never exclude a true
// match start.
type CandidateFunc func(at int) int

// Engine evaluates one compiled pattern AST. It holds no per-call state.
type Engine struct {
	root   syntax.Node
	config Config
}

// NewEngine creates an engine for the given AST root.
func NewEngine(root syntax.Node, config Config) (*Engine, error) {
	if root == nil {
		return nil, ErrNilPattern
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{root: root, config: config}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Matches reports whether the pattern matches text in its entirety. It
// stops pulling candidate ends as soon as one equals len(text).
func (e *Engine) Matches(text string) (bool, error) {
	m := newMachine(text, e.config)
	c := m.cursor(e.root, 0, 0)
	for {
		end, ok := c.next()
		if !ok {
			break
		}
		if end == len(text) {
			return true, nil
		}
	}
	return false, m.err
}

// Search returns the leftmost match at or after from: the smallest start
// offset with any expansion wins, regardless of whether a later start
// would match more text, and the first offset enumerated there is the
// reported end. Start offsets advance rune by rune, so a match never
// begins inside a UTF-8 sequence. candidates may be nil, in which case
// every offset is tried. The resource budget covers the whole sweep.
func (e *Engine) Search(text string, from int, candidates CandidateFunc) (Span, bool, error) {
	if from < 0 {
		from = 0
	}
	m := newMachine(text, e.config)
	start := from
	for start <= len(text) {
		if candidates != nil {
			next := candidates(start)
			if next < 0 {
				break
			}
			if next > start {
				start = next
			}
			if start > len(text) {
				break
			}
		}
		c := m.cursor(e.root, start, 0)
		if end, ok := c.next(); ok {
			return Span{Start: start, End: end}, true, nil
		}
		if m.err != nil {
			return Span{}, false, m.err
		}
		if start < len(text) {
			_, w := utf8.DecodeRuneInString(text[start:])
			start += w
		} else {
			start++
		}
	}
	return Span{}, false, m.err
}

// machine carries the per-call matching state: the input, the budgets and
// the sticky resource error. Once err is set every cursor reports
// exhaustion, so an aborted search unwinds without further work.
type machine struct {
	text     string
	maxDepth int
	maxSteps int
	dotNL    bool
	steps    int
	err      error
}

func newMachine(text string, config Config) *machine {
	return &machine{
		text:     text,
		maxDepth: config.MaxDepth,
		maxSteps: config.MaxSteps,
		dotNL:    config.DotMatchesNewline,
	}
}

// step consumes one unit of the step budget.
func (m *machine) step() bool {
	if m.err != nil {
		return false
	}
	if m.maxSteps > 0 {
		m.steps++
		if m.steps > m.maxSteps {
			m.err = &LimitError{What: "step", Limit: m.maxSteps}
			return false
		}
	}
	return true
}

// cursor builds the cursor enumerating node n at byte offset pos. depth
// tracks the nesting of live cursors; exceeding MaxDepth aborts the call
// instead of overflowing the goroutine stack.
func (m *machine) cursor(n syntax.Node, pos, depth int) cursor {
	if depth > m.maxDepth {
		if m.err == nil {
			m.err = &LimitError{What: "depth", Limit: m.maxDepth}
		}
		return exhausted{}
	}
	switch n := n.(type) {
	case *syntax.Literal, *syntax.Dot, *syntax.CharClass:
		return &charCursor{m: m, node: n, pos: pos}
	case *syntax.Group:
		// Transparent: grouping exists for quantifier scoping only.
		return m.cursor(n.Child, pos, depth)
	case *syntax.Sequence:
		return &seqCursor{m: m, nodes: n.Children, start: pos, depth: depth}
	case *syntax.Alternation:
		return &altCursor{m: m, node: n, pos: pos, depth: depth}
	case *syntax.Star:
		return &starCursor{m: m, inner: n.Inner, pos: pos, depth: depth}
	case *syntax.Plus:
		return &plusCursor{m: m, inner: n.Inner, pos: pos, depth: depth}
	case *syntax.Question:
		return &questionCursor{m: m, inner: n.Inner, pos: pos, depth: depth}
	}
	return exhausted{}
}

// cursor enumerates the end offsets of one node at one start offset.
// next returns the following offset in contract order; ok is false once
// the enumeration is exhausted (or the machine's budget is).
type cursor interface {
	next() (end int, ok bool)
}

// exhausted is the empty enumeration.
type exhausted struct{}

func (exhausted) next() (int, bool) { return 0, false }

// charCursor is the shared base case: Literal, Dot and CharClass consume
// exactly one rune or nothing, which is what terminates all recursion.
type charCursor struct {
	m    *machine
	node syntax.Node
	pos  int
	done bool
}

func (c *charCursor) next() (int, bool) {
	if c.done || !c.m.step() {
		return 0, false
	}
	c.done = true
	r, width := utf8.DecodeRuneInString(c.m.text[c.pos:])
	if width == 0 {
		return 0, false // end of input
	}
	ok := false
	switch n := c.node.(type) {
	case *syntax.Literal:
		ok = r == n.R
	case *syntax.Dot:
		ok = c.m.dotNL || r != '\n'
	case *syntax.CharClass:
		ok = n.Matches(r)
	}
	if !ok {
		return 0, false
	}
	return c.pos + width, true
}

// seqCursor walks the nested cross product of its children's enumerations.
// stack[i] enumerates nodes[i] at the offset most recently produced by
// stack[i-1]; popping an exhausted child and re-pulling its predecessor is
// the backtracking step.
type seqCursor struct {
	m     *machine
	nodes []syntax.Node
	start int
	depth int
	stack []cursor
	began bool
	done  bool
}

func (c *seqCursor) next() (int, bool) {
	if c.done {
		return 0, false
	}
	if len(c.nodes) == 0 {
		// The empty sequence matches exactly the empty prefix.
		c.done = true
		if !c.m.step() {
			return 0, false
		}
		return c.start, true
	}
	if !c.began {
		c.began = true
		c.stack = append(c.stack, c.m.cursor(c.nodes[0], c.start, c.depth+1))
	}
	for len(c.stack) > 0 {
		if c.m.err != nil {
			return 0, false
		}
		end, ok := c.stack[len(c.stack)-1].next()
		if !ok {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		if len(c.stack) == len(c.nodes) {
			return end, true
		}
		c.stack = append(c.stack, c.m.cursor(c.nodes[len(c.stack)], end, c.depth+1))
	}
	c.done = true
	return 0, false
}

// altCursor yields every left expansion before any right expansion:
// first alternative wins.
type altCursor struct {
	m       *machine
	node    *syntax.Alternation
	pos     int
	depth   int
	cur     cursor
	onRight bool
}

func (c *altCursor) next() (int, bool) {
	if c.cur == nil {
		c.cur = c.m.cursor(c.node.Left, c.pos, c.depth+1)
	}
	for {
		if c.m.err != nil {
			return 0, false
		}
		if end, ok := c.cur.next(); ok {
			return end, true
		}
		if c.onRight {
			return 0, false
		}
		c.onRight = true
		c.cur = c.m.cursor(c.node.Right, c.pos, c.depth+1)
	}
}

// starCursor yields its own start offset first (zero repetitions), then,
// for every inner expansion that consumed at least one byte, the full Star
// enumeration continued from that offset. Inner expansions that consume
// nothing are skipped: taking a zero-width repetition step again at the
// same offset would recurse forever.
type starCursor struct {
	m           *machine
	inner       syntax.Node
	pos         int
	depth       int
	emittedZero bool
	innerCur    cursor
	tail        cursor
	done        bool
}

func (c *starCursor) next() (int, bool) {
	if c.done || c.m.err != nil {
		return 0, false
	}
	if !c.emittedZero {
		c.emittedZero = true
		if !c.m.step() {
			return 0, false
		}
		return c.pos, true
	}
	if c.innerCur == nil {
		c.innerCur = c.m.cursor(c.inner, c.pos, c.depth+1)
	}
	for {
		if c.m.err != nil {
			return 0, false
		}
		if c.tail != nil {
			if end, ok := c.tail.next(); ok {
				return end, true
			}
			c.tail = nil
		}
		end, ok := c.innerCur.next()
		if !ok {
			c.done = true
			return 0, false
		}
		if end == c.pos {
			continue // zero-width repetition step
		}
		c.tail = c.m.star(end, c.depth+1, c.inner)
	}
}

// star builds a starCursor, honoring the depth limit: repetition chains
// deepen with every repetition actually explored on the current path.
func (m *machine) star(pos, depth int, inner syntax.Node) cursor {
	if depth > m.maxDepth {
		if m.err == nil {
			m.err = &LimitError{What: "depth", Limit: m.maxDepth}
		}
		return exhausted{}
	}
	return &starCursor{m: m, inner: inner, pos: pos, depth: depth}
}

// plusCursor is Sequence(inner, Star(inner)): at least one repetition.
type plusCursor struct {
	m        *machine
	inner    syntax.Node
	pos      int
	depth    int
	innerCur cursor
	tail     cursor
}

func (c *plusCursor) next() (int, bool) {
	if c.innerCur == nil {
		c.innerCur = c.m.cursor(c.inner, c.pos, c.depth+1)
	}
	for {
		if c.m.err != nil {
			return 0, false
		}
		if c.tail != nil {
			if end, ok := c.tail.next(); ok {
				return end, true
			}
			c.tail = nil
		}
		end, ok := c.innerCur.next()
		if !ok {
			return 0, false
		}
		c.tail = c.m.star(end, c.depth+1, c.inner)
	}
}

// questionCursor yields the zero-width option first, then the inner
// expansions, consistent with Star's shortest-first ordering.
type questionCursor struct {
	m           *machine
	inner       syntax.Node
	pos         int
	depth       int
	emittedZero bool
	innerCur    cursor
}

func (c *questionCursor) next() (int, bool) {
	if c.m.err != nil {
		return 0, false
	}
	if !c.emittedZero {
		c.emittedZero = true
		if !c.m.step() {
			return 0, false
		}
		return c.pos, true
	}
	if c.innerCur == nil {
		c.innerCur = c.m.cursor(c.inner, c.pos, c.depth+1)
	}
	return c.innerCur.next()
}

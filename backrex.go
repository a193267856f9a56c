// Package backrex is a backtracking regular-expression engine built on a
// lazily enumerated AST.
//
// A pattern is compiled once into an immutable tree of nodes — literals,
// '.', bracket character classes, groups, alternation '|' and the
// quantifiers '*', '+', '?'. Matching asks each node to enumerate, on
// demand and in a fixed documented order, every offset at which it can
// stop consuming input; backtracking falls out of that enumeration
// instead of explicit state bookkeeping.
//
// Quantifiers prefer the SHORTEST expansion: 'a*' tries zero repetitions
// before one. Most regex dialects are greedy instead; the ordering here
// is deliberate and determines which match Search and FindAll report.
// With pattern "a+", Search("xxaaxx") reports the span (2, 3): leftmost
// start, then the first (shortest) expansion found there.
//
// Basic usage:
//
//	re, err := backrex.Compile("(ab)+c")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, _ := re.Matches("ababc") // true
//	m, _ := re.Search("xx ababc yy")
//	fmt.Println(m.Start(), m.End())
//
// Compile errors carry the kind and byte offset of the offending
// character (see package syntax). Matching a well-formed pattern never
// fails except by resource budget: pathological patterns such as (a*)*b
// can explore exponentially many expansions, and the engine aborts with
// an error satisfying errors.Is(err, backtrack.ErrResourceExhausted)
// rather than running unbounded — a caller can always distinguish
// "definitely does not match" from "search aborted".
//
// When every match must begin with one of a small set of literals, the
// search loop consults a prefilter (single-byte scan, substring scan, or
// an Aho-Corasick automaton) to skip impossible start offsets. Prefilters
// never change results, only speed.
//
// A compiled Regex is immutable and safe for concurrent use by multiple
// goroutines.
package backrex

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/backrex/backtrack"
	"github.com/coregx/backrex/literal"
	"github.com/coregx/backrex/prefilter"
	"github.com/coregx/backrex/syntax"
)

// Regex is a compiled pattern: the parsed AST, its matching engine and an
// optional prefix prefilter. It is immutable after Compile.
type Regex struct {
	pattern string
	engine  *backtrack.Engine
	filter  prefilter.Prefilter
}

// Compile compiles a pattern with the default configuration.
//
// Example:
//
//	re, err := backrex.Compile("[a-c]+")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, backtrack.DefaultConfig())
}

// MustCompile is Compile for patterns known to be valid; it panics on a
// malformed pattern.
//
// Example:
//
//	var hexRegex = backrex.MustCompile("[0-9a-f]+")
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("backrex: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom resource limits and
// Dot policy.
//
// Example:
//
//	config := backrex.DefaultConfig()
//	config.MaxSteps = 100_000 // tight budget for untrusted patterns
//	re, err := backrex.CompileWithConfig("(a|b)*c", config)
func CompileWithConfig(pattern string, config backtrack.Config) (*Regex, error) {
	root, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	engine, err := backtrack.NewEngine(root, config)
	if err != nil {
		return nil, err
	}
	seq := literal.New(literal.DefaultConfig()).Prefixes(root)
	return &Regex{
		pattern: pattern,
		engine:  engine,
		filter:  prefilter.FromSeq(seq),
	}, nil
}

// DefaultConfig returns the default matching configuration; customize and
// pass to CompileWithConfig.
func DefaultConfig() backtrack.Config {
	return backtrack.DefaultConfig()
}

// QuoteMeta returns a pattern that matches the literal text: every
// metacharacter understood by Compile is escaped.
//
// Example:
//
//	re := backrex.MustCompile(backrex.QuoteMeta("1+1"))
//	ok, _ := re.Matches("1+1") // true
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]^-`
	if !strings.ContainsAny(s, special) {
		return s
	}
	var b strings.Builder
	b.Grow(2 * len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// String returns the source text used to compile the pattern.
func (r *Regex) String() string {
	return r.pattern
}

// Matches reports whether the pattern matches text in its entirety.
//
// A non-nil error means the search was aborted by the resource budget
// before an answer was determined, never "does not match".
func (r *Regex) Matches(text string) (bool, error) {
	return r.engine.Matches(text)
}

// Search returns the leftmost match in text, or nil if there is none.
// The earliest start offset with any expansion wins; the reported end is
// the first offset enumerated there, which under shortest-first
// quantifiers is the shortest expansion.
//
// Example:
//
//	re := backrex.MustCompile("a+")
//	m, _ := re.Search("xxaaxx")
//	// m.Start() == 2, m.End() == 3
func (r *Regex) Search(text string) (*Match, error) {
	span, ok, err := r.engine.Search(text, 0, r.candidates(text))
	if err != nil || !ok {
		return nil, err
	}
	return newMatch(span.Start, span.End, text), nil
}

// FindAll returns the non-overlapping matches of the pattern in text, in
// order. If n > 0 it returns at most n matches; n <= 0 means all. After a
// match the scan resumes at its end; a zero-length match advances one
// rune instead, so the scan always makes progress and zero-length matches
// are still reported.
func (r *Regex) FindAll(text string, n int) ([]*Match, error) {
	var matches []*Match
	err := r.scan(text, n, func(start, end int) {
		matches = append(matches, newMatch(start, end, text))
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// FindAllString is FindAll returning the matched substrings.
func (r *Regex) FindAllString(text string, n int) ([]string, error) {
	var out []string
	err := r.scan(text, n, func(start, end int) {
		out = append(out, text[start:end])
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of non-overlapping matches in text, without
// building a result slice. If n > 0 it counts at most n matches.
func (r *Regex) Count(text string, n int) (int, error) {
	count := 0
	err := r.scan(text, n, func(int, int) {
		count++
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Split slices text into the substrings between matches of the pattern.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last is the unsplit remainder.
//	n == 0: nil.
//	n < 0: all substrings.
func (r *Regex) Split(text string, n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	var spans [][2]int
	if err := r.scan(text, -1, func(start, end int) {
		spans = append(spans, [2]int{start, end})
	}); err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return []string{text}, nil
	}
	result := make([]string, 0, len(spans)+1)
	last := 0
	for _, span := range spans {
		if n > 0 && len(result) >= n-1 {
			break
		}
		result = append(result, text[last:span[0]])
		last = span[1]
	}
	result = append(result, text[last:])
	return result, nil
}

// ReplaceAllLiteral returns text with every match replaced by repl,
// substituted literally.
func (r *Regex) ReplaceAllLiteral(text, repl string) (string, error) {
	var spans [][2]int
	if err := r.scan(text, -1, func(start, end int) {
		spans = append(spans, [2]int{start, end})
	}); err != nil {
		return "", err
	}
	if len(spans) == 0 {
		return text, nil
	}
	var b strings.Builder
	b.Grow(len(text) + (len(repl)+1)*len(spans))
	last := 0
	for _, span := range spans {
		b.WriteString(text[last:span[0]])
		b.WriteString(repl)
		last = span[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// scan is the shared non-overlap driver under FindAll, Count, Split and
// ReplaceAllLiteral. The resource budget is re-armed for each match, so
// it bounds the cost of finding each match rather than the whole scan.
func (r *Regex) scan(text string, n int, emit func(start, end int)) error {
	if n == 0 {
		return nil
	}
	candidates := r.candidates(text)
	count := 0
	pos := 0
	for pos <= len(text) {
		span, ok, err := r.engine.Search(text, pos, candidates)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		emit(span.Start, span.End)
		count++
		if n > 0 && count >= n {
			break
		}
		if span.End > span.Start {
			pos = span.End
		} else {
			pos = span.End + runeWidthAt(text, span.End)
		}
	}
	return nil
}

// candidates adapts the prefilter, if any, to the engine's candidate
// callback over this call's text.
func (r *Regex) candidates(text string) backtrack.CandidateFunc {
	if r.filter == nil {
		return nil
	}
	haystack := []byte(text)
	return func(at int) int {
		return r.filter.NextCandidate(haystack, at)
	}
}

// runeWidthAt returns the byte width of the rune at pos, or 1 at the end
// of text so callers always advance.
func runeWidthAt(text string, pos int) int {
	if pos >= len(text) {
		return 1
	}
	_, w := utf8.DecodeRuneInString(text[pos:])
	return w
}

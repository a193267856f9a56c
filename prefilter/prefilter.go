// Package prefilter finds candidate match starts for the search loop.
//
// A prefilter scans for the literal prefixes every match must begin with
// and hands back only positions where one occurs, so the engine skips
// start offsets that cannot possibly match. It is a pure acceleration:
// prefilters are built only from complete prefix sets, so a skipped
// position can never begin a match and results are identical with and
// without one.
//
// Strategy selection follows the shape of the prefix set:
//   - one single-byte literal → strings.IndexByte
//   - one longer literal      → strings.Index
//   - several literals        → an Aho-Corasick automaton
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/backrex/literal"
)

// Prefilter reports candidate match start positions.
type Prefilter interface {
	// NextCandidate returns the smallest byte offset >= at where a
	// match could begin, or -1 if there is none.
	NextCandidate(haystack []byte, at int) int
}

// FromSeq builds the best prefilter for a prefix set, or nil when the set
// cannot filter (incomplete, empty, or containing the empty string).
func FromSeq(seq *literal.Seq) Prefilter {
	if seq == nil || !seq.IsComplete() || seq.IsEmpty() || seq.HasEmptyString() {
		return nil
	}
	lits := seq.Literals()
	if len(lits) == 1 {
		lit := lits[0]
		if len(lit) == 1 {
			return &byteFinder{b: lit[0]}
		}
		return &substringFinder{lit: []byte(lit)}
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil // fall back to scanning every position
	}
	return &multiFinder{auto: auto}
}

// byteFinder scans for a single byte.
type byteFinder struct {
	b byte
}

func (f *byteFinder) NextCandidate(haystack []byte, at int) int {
	if at < 0 {
		at = 0
	}
	if at >= len(haystack) {
		return -1
	}
	i := bytes.IndexByte(haystack[at:], f.b)
	if i < 0 {
		return -1
	}
	return at + i
}

// substringFinder scans for a single literal.
type substringFinder struct {
	lit []byte
}

func (f *substringFinder) NextCandidate(haystack []byte, at int) int {
	if at < 0 {
		at = 0
	}
	if at >= len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[at:], f.lit)
	if i < 0 {
		return -1
	}
	return at + i
}

// multiFinder scans for any of several literals with an Aho-Corasick
// automaton.
type multiFinder struct {
	auto *ahocorasick.Automaton
}

func (f *multiFinder) NextCandidate(haystack []byte, at int) int {
	if at < 0 {
		at = 0
	}
	if at >= len(haystack) {
		return -1
	}
	m := f.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}

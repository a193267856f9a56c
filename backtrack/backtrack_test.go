package backtrack

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/backrex/syntax"
)

func mustParse(t *testing.T, pattern string) syntax.Node {
	t.Helper()
	node, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return node
}

func newTestEngine(t *testing.T, pattern string, config Config) *Engine {
	t.Helper()
	e, err := NewEngine(mustParse(t, pattern), config)
	if err != nil {
		t.Fatalf("NewEngine(%q): %v", pattern, err)
	}
	return e
}

func TestMatches(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"abc", "ab", false},
		{"abc", "abcd", false},
		{"", "", true},
		{"", "a", false},
		{"a*", "", true},
		{"a*", "aaa", true},
		{"a*", "aab", false},
		{"a+", "", false},
		{"a+", "a", true},
		{"a+", "aaaa", true},
		{"a?", "", true},
		{"a?", "a", true},
		{"a?", "aa", false},
		{".", "a", true},
		{".", "", false},
		{".", "ab", false},
		{"a.c", "abc", true},
		{"a.c", "ac", false},
		{"a|b", "a", true},
		{"a|b", "b", true},
		{"a|b", "c", false},
		{"ab|cd", "ab", true},
		{"ab|cd", "cd", true},
		{"ab|cd", "ad", false},
		{"(ab)+", "ab", true},
		{"(ab)+", "abab", true},
		{"(ab)+", "aba", false},
		{"(ab)+", "", false},
		{"(a|b)*c", "c", true},
		{"(a|b)*c", "abbac", true},
		{"(a|b)*c", "abd", false},
		{"[abc]", "b", true},
		{"[abc]", "d", false},
		{"[a-c]+", "cab", true},
		{"[a-c]+", "cad", false},
		{"[^a]", "b", true},
		{"[^a]", "a", false},
		{"[^a-c]+", "xyz", true},
		{"[^a-c]+", "xbz", false},
		{"a?b+c*", "bb", true},
		{"a?b+c*", "abcc", true},
		{"a?b+c*", "ac", false},
		// A suffix match must not count as a full match.
		{"bc", "abc", false},
		// Multibyte input: '.' consumes a whole rune.
		{"a.c", "aéc", true},
		{"é+", "ééé", true},
		// Nested quantifiers over an empty-capable inner node terminate.
		{"(a*)*", "aaa", true},
		{"(a*)*b", "aaab", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			e := newTestEngine(t, tt.pattern, DefaultConfig())
			got, err := e.Matches(tt.text)
			if err != nil {
				t.Fatalf("Matches(%q): unexpected error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSearchLeftmostShortest(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		start   int
		end     int
	}{
		// Leftmost start wins.
		{"ab", "xxabxx", 2, 4},
		{"a", "xa", 1, 2},
		// The first expansion at the winning start is the shortest one:
		// quantifiers enumerate zero repetitions first.
		{"a+", "xxaaxx", 2, 3},
		{"a*", "xaa", 0, 0},
		{"ab?", "xab", 1, 2},
		// The first alternative is preferred even when the second would
		// match more text.
		{"a|ab", "ab", 0, 1},
		{"ab|a", "ab", 0, 2},
		// A required suffix forces the quantifier to grow.
		{"a*b", "xaab", 1, 4},
		{"a+b", "aaab", 0, 4},
		// Zero-length match at the very start.
		{"x*", "abc", 0, 0},
		// Empty pattern matches everywhere; leftmost is offset 0.
		{"", "abc", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			e := newTestEngine(t, tt.pattern, DefaultConfig())
			span, ok, err := e.Search(tt.text, 0, nil)
			if err != nil {
				t.Fatalf("Search(%q): unexpected error: %v", tt.text, err)
			}
			if !ok {
				t.Fatalf("Search(%q): no match, want (%d, %d)", tt.text, tt.start, tt.end)
			}
			if span.Start != tt.start || span.End != tt.end {
				t.Errorf("Search(%q) = (%d, %d), want (%d, %d)",
					tt.text, span.Start, span.End, tt.start, tt.end)
			}
		})
	}
}

// The sweep must advance one rune at a time: a start offset inside a
// UTF-8 sequence decodes as RuneError, which '.' and a negated class
// would happily accept, splitting a character.
func TestSearchAdvancesByRune(t *testing.T) {
	e := newTestEngine(t, "[^é]x", DefaultConfig())
	span, ok, err := e.Search("éx", 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("Search = (%d, %d), want no match: no two-rune window of %q fits", span.Start, span.End, "éx")
	}

	e = newTestEngine(t, ".x", DefaultConfig())
	span, ok, err = e.Search("éx", 0, nil)
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	if span.Start != 0 || span.End != 3 {
		t.Errorf("Search = (%d, %d), want (0, 3)", span.Start, span.End)
	}

	e = newTestEngine(t, "x", DefaultConfig())
	span, ok, err = e.Search("ééx", 0, nil)
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	if span.Start != 4 || span.End != 5 {
		t.Errorf("Search = (%d, %d), want (4, 5)", span.Start, span.End)
	}
}

func TestSearchFrom(t *testing.T) {
	e := newTestEngine(t, "a", DefaultConfig())

	span, ok, err := e.Search("abca", 1, nil)
	if err != nil || !ok {
		t.Fatalf("Search from 1: ok = %v, err = %v", ok, err)
	}
	if span.Start != 3 || span.End != 4 {
		t.Errorf("Search from 1 = (%d, %d), want (3, 4)", span.Start, span.End)
	}

	if _, ok, err := e.Search("abca", 4, nil); err != nil || ok {
		t.Errorf("Search from 4: ok = %v, err = %v, want no match", ok, err)
	}
}

func TestSearchNoMatch(t *testing.T) {
	e := newTestEngine(t, "ab+", DefaultConfig())
	span, ok, err := e.Search("xyz", 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("Search = (%d, %d), want no match", span.Start, span.End)
	}
}

func TestSearchCandidates(t *testing.T) {
	e := newTestEngine(t, "ab", DefaultConfig())
	text := "xxxxabxx"

	var asked []int
	candidates := func(at int) int {
		asked = append(asked, at)
		i := strings.IndexByte(text[at:], 'a')
		if i < 0 {
			return -1
		}
		return at + i
	}

	span, ok, err := e.Search(text, 0, candidates)
	if err != nil || !ok {
		t.Fatalf("ok = %v, err = %v", ok, err)
	}
	if span.Start != 4 || span.End != 6 {
		t.Errorf("Search = (%d, %d), want (4, 6)", span.Start, span.End)
	}
	// The first probe jumps the scan from 0 straight to 4.
	if len(asked) == 0 || asked[0] != 0 {
		t.Fatalf("candidate probes = %v, want first probe at 0", asked)
	}

	// A candidate function that rules everything out stops the sweep.
	none := func(int) int { return -1 }
	if _, ok, err := e.Search(text, 0, none); err != nil || ok {
		t.Errorf("with empty candidates: ok = %v, err = %v, want no match", ok, err)
	}
}

func TestStepLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxSteps = 1000

	e := newTestEngine(t, "(a*)*b", config)
	text := strings.Repeat("a", 40)

	ok, err := e.Matches(text)
	if ok {
		t.Fatal("Matches = true, want abort")
	}
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("err = %v, want ErrResourceExhausted", err)
	}
	var lerr *LimitError
	if !errors.As(err, &lerr) {
		t.Fatalf("err = %v, want *LimitError", err)
	}
	if lerr.What != "step" || lerr.Limit != 1000 {
		t.Errorf("LimitError = %+v, want step limit 1000", lerr)
	}
}

func TestDepthLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxDepth = 5

	e := newTestEngine(t, "a*", config)

	// Within the limit: every repetition deepens the chain by one.
	ok, err := e.Matches("aaa")
	if err != nil || !ok {
		t.Fatalf("Matches(aaa): ok = %v, err = %v", ok, err)
	}

	// Past it: the engine aborts instead of recursing without bound.
	ok, err = e.Matches(strings.Repeat("a", 20))
	if ok {
		t.Fatal("Matches = true, want abort")
	}
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("err = %v, want ErrResourceExhausted", err)
	}
	var lerr *LimitError
	if !errors.As(err, &lerr) || lerr.What != "depth" {
		t.Errorf("err = %v, want depth LimitError", err)
	}
}

// The classic exponential pattern must terminate cleanly, not hang, when
// the answer is "no match": the empty-repetition guard keeps each
// enumeration finite and the default budget covers this size.
func TestPathologicalPatternTerminates(t *testing.T) {
	e := newTestEngine(t, "(a*)*b", DefaultConfig())
	ok, err := e.Matches(strings.Repeat("a", 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Matches = true, want false")
	}
}

func TestDotNewlinePolicy(t *testing.T) {
	e := newTestEngine(t, "a.b", DefaultConfig())
	ok, err := e.Matches("a\nb")
	if err != nil || !ok {
		t.Errorf("default policy: ok = %v, err = %v, want match", ok, err)
	}

	config := DefaultConfig()
	config.DotMatchesNewline = false
	e = newTestEngine(t, "a.b", config)
	ok, err = e.Matches("a\nb")
	if err != nil || ok {
		t.Errorf("DotMatchesNewline=false: ok = %v, err = %v, want no match", ok, err)
	}
	if ok, _ := e.Matches("axb"); !ok {
		t.Error("DotMatchesNewline=false must still match non-newline runes")
	}
}

func TestNewEngineNilRoot(t *testing.T) {
	if _, err := NewEngine(nil, DefaultConfig()); !errors.Is(err, ErrNilPattern) {
		t.Errorf("err = %v, want ErrNilPattern", err)
	}
}

// A compiled engine holds no per-call state and must be usable from many
// goroutines at once.
func TestConcurrentUse(t *testing.T) {
	e := newTestEngine(t, "(a|b)+c", DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ok, err := e.Matches("ababc"); err != nil || !ok {
					t.Errorf("Matches: ok = %v, err = %v", ok, err)
					return
				}
				span, ok, err := e.Search("xx abbc yy", 0, nil)
				if err != nil || !ok || span.Start != 3 {
					t.Errorf("Search: span = %+v, ok = %v, err = %v", span, ok, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

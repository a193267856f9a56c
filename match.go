package backrex

// Match is one successful match with its position in the input text.
//
// Offsets are byte offsets; the matched text is text[Start():End()].
// A zero-length match has Start() == End().
type Match struct {
	start int
	end   int
	text  string
}

func newMatch(start, end int, text string) *Match {
	return &Match{start: start, end: end, text: text}
}

// Start returns the inclusive start offset of the match.
func (m *Match) Start() int {
	return m.start
}

// End returns the exclusive end offset of the match.
func (m *Match) End() int {
	return m.end
}

// String returns the matched substring.
func (m *Match) String() string {
	return m.text[m.start:m.end]
}

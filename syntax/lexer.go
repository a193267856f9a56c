package syntax

import "unicode/utf8"

// lexer scans a pattern one token at a time; single-rune lookahead is
// enough for every construct in the grammar. It is modal: inside a bracket
// class the usual metacharacters lose their meaning, '-' and ']' gain one,
// and '^' is special only immediately after '['. Outside a class, '^',
// '-' and ']' are ordinary literals.
type lexer struct {
	pattern   string
	pos       int
	inClass   bool
	classOpen bool // next token is the first inside a class
}

func newLexer(pattern string) *lexer {
	return &lexer{pattern: pattern}
}

// next returns the following token, advancing past whatever it consumed.
func (l *lexer) next() (Token, error) {
	start := l.pos
	if l.pos >= len(l.pattern) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}
	r, w := utf8.DecodeRuneInString(l.pattern[l.pos:])
	l.pos += w

	if l.inClass {
		first := l.classOpen
		l.classOpen = false
		switch r {
		case '^':
			if first {
				return Token{Kind: TokenCaret, Pos: start}, nil
			}
		case ']':
			l.inClass = false
			return Token{Kind: TokenRBracket, Pos: start}, nil
		case '-':
			return Token{Kind: TokenDash, Pos: start}, nil
		case '\\':
			return l.escaped(start)
		}
		return Token{Kind: TokenLiteral, R: r, Pos: start}, nil
	}

	switch r {
	case '.':
		return Token{Kind: TokenDot, Pos: start}, nil
	case '|':
		return Token{Kind: TokenPipe, Pos: start}, nil
	case '*':
		return Token{Kind: TokenStar, Pos: start}, nil
	case '+':
		return Token{Kind: TokenPlus, Pos: start}, nil
	case '?':
		return Token{Kind: TokenQuestion, Pos: start}, nil
	case '(':
		return Token{Kind: TokenLParen, Pos: start}, nil
	case ')':
		return Token{Kind: TokenRParen, Pos: start}, nil
	case '[':
		l.inClass = true
		l.classOpen = true
		return Token{Kind: TokenLBracket, Pos: start}, nil
	case '\\':
		return l.escaped(start)
	}
	return Token{Kind: TokenLiteral, R: r, Pos: start}, nil
}

// escaped consumes the character after a backslash and returns it as a
// literal. start is the offset of the backslash itself.
func (l *lexer) escaped(start int) (Token, error) {
	if l.pos >= len(l.pattern) {
		return Token{}, &ParseError{Kind: ErrTrailingEscape, Pattern: l.pattern, Pos: start}
	}
	r, w := utf8.DecodeRuneInString(l.pattern[l.pos:])
	l.pos += w
	return Token{Kind: TokenLiteral, R: r, Pos: start}, nil
}

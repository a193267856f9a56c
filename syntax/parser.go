package syntax

// The parser is a recursive descent over the grammar below, one parse
// function per production. Binding grows downward: an alternation is the
// loosest construct, a quantifier binds to exactly one atom.
//
//	Alternation := Sequence ('|' Sequence)*
//	Sequence    := Factor*
//	Factor      := Atom Quantifier?
//	Atom        := Literal | '.' | CharClass | '(' Alternation ')'
//	Quantifier  := '*' | '+' | '?'
//	CharClass   := '[' '^'? ClassItem+ ']'
//	ClassItem   := char | char '-' char

// Parse compiles pattern into an AST. The empty pattern is valid and
// parses to an empty Sequence, which matches only the empty string.
// Malformed patterns fail with a *ParseError; no partial tree is returned.
func Parse(pattern string) (Node, error) {
	p := &parser{lex: newLexer(pattern), pattern: pattern}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenEOF {
		// Everything except a stray ')' has been consumed by now.
		return nil, p.errorAt(ErrUnbalancedParenthesis, p.tok.Pos)
	}
	return node, nil
}

type parser struct {
	lex     *lexer
	pattern string
	tok     Token // single token of lookahead
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorAt(kind ErrorKind, pos int) error {
	return &ParseError{Kind: kind, Pattern: p.pattern, Pos: pos}
}

func (p *parser) parseAlternation() (Node, error) {
	left, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenPipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		left = &Alternation{Left: left, Right: right}
	}
	return left, nil
}

// parseSequence collects factors until '|', ')' or the end of the pattern.
// A single factor is returned unwrapped.
func (p *parser) parseSequence() (Node, error) {
	var children []Node
	for {
		switch p.tok.Kind {
		case TokenEOF, TokenPipe, TokenRParen:
			if len(children) == 1 {
				return children[0], nil
			}
			return &Sequence{Children: children}, nil
		}
		factor, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		children = append(children, factor)
	}
}

func (p *parser) parseFactor() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	var quantified Node
	switch p.tok.Kind {
	case TokenStar:
		quantified = &Star{Inner: atom}
	case TokenPlus:
		quantified = &Plus{Inner: atom}
	case TokenQuestion:
		quantified = &Question{Inner: atom}
	default:
		return atom, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return quantified, nil
}

func (p *parser) parseAtom() (Node, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenLiteral:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{R: tok.R}, nil

	case TokenDot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Dot{}, nil

	case TokenLBracket:
		return p.parseCharClass()

	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenRParen {
			return nil, p.errorAt(ErrUnbalancedParenthesis, tok.Pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Group{Child: child}, nil

	case TokenStar, TokenPlus, TokenQuestion:
		// A quantifier in atom position has nothing to repeat: the
		// pattern starts with one, or one follows '(', '|' or another
		// quantifier.
		return nil, p.errorAt(ErrDanglingQuantifier, tok.Pos)
	}

	// Unreachable for well-formed token streams: the sequence loop owns
	// EOF, '|' and ')', and class tokens never escape class mode.
	return nil, p.errorAt(ErrUnbalancedParenthesis, tok.Pos)
}

// parseCharClass parses '[' '^'? ClassItem+ ']'; the opening bracket is
// the current token.
func (p *parser) parseCharClass() (Node, error) {
	open := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	class := &CharClass{}
	if p.tok.Kind == TokenCaret {
		class.Negated = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for p.tok.Kind != TokenRBracket {
		if p.tok.Kind == TokenEOF {
			return nil, p.errorAt(ErrUnterminatedCharClass, open)
		}
		lo, loPos := p.classChar()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenDash {
			class.Ranges = append(class.Ranges, ClassRange{Lo: lo, Hi: lo})
			continue
		}
		// A dash is a range only when an endpoint follows; in '[a-]'
		// it is a plain member.
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.Kind {
		case TokenRBracket:
			class.Ranges = append(class.Ranges, ClassRange{Lo: lo, Hi: lo}, ClassRange{Lo: '-', Hi: '-'})
		case TokenEOF:
			return nil, p.errorAt(ErrUnterminatedCharClass, open)
		default:
			hi, _ := p.classChar()
			if hi < lo {
				return nil, p.errorAt(ErrInvalidCharClassRange, loPos)
			}
			class.Ranges = append(class.Ranges, ClassRange{Lo: lo, Hi: hi})
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if len(class.Ranges) == 0 {
		return nil, p.errorAt(ErrEmptyCharClass, open)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return class, nil
}

// classChar reads the current token as a class member character.
func (p *parser) classChar() (rune, int) {
	if p.tok.Kind == TokenDash {
		return '-', p.tok.Pos
	}
	return p.tok.R, p.tok.Pos
}

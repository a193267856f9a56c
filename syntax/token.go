package syntax

// TokenKind classifies the next lexical unit of a pattern.
type TokenKind int

const (
	// TokenEOF marks the end of the pattern. The parser treats it as
	// the universal terminator for alternation and sequence loops.
	TokenEOF TokenKind = iota

	// TokenLiteral is an ordinary character, including characters that
	// are metacharacters only in another mode and escaped characters.
	TokenLiteral

	TokenDot
	TokenPipe
	TokenStar
	TokenPlus
	TokenQuestion
	TokenLParen
	TokenRParen

	// TokenLBracket opens a character class; the tokens below occur
	// only inside one.
	TokenLBracket
	TokenCaret
	TokenDash
	TokenRBracket
)

// Token is one lexical unit. Tokens are ephemeral: the parser consumes
// each immediately and none survive into the AST.
type Token struct {
	Kind TokenKind
	R    rune // payload for TokenLiteral
	Pos  int  // byte offset of the token in the pattern
}

package scanner

import (
	"strconv"
)

type TokenType uint8

const (
	TokenNone TokenType = iota
	TokenBracket
	TokenOperator
	TokenNull
	TokenBool
	TokenString
	TokenNumber
	TokenEOF
)

// NumKind tells which payload field of a number token is set.
type NumKind uint8

const (
	NumInt NumKind = iota
	NumFloat
)

// Token is one lexical unit. Start and End are a half-open byte span of the
// original input, also for strings whose payload had escapes decoded.
type Token struct {
	Type  TokenType
	Start int
	End   int

	// Text is the bracket or operator for structural tokens and the decoded
	// payload for strings. For strings, Owned is false when Text is a
	// substring of the input (no escapes) and true when it was decoded.
	Text  string
	Owned bool

	Bool  bool
	Num   NumKind
	Int   int64
	Float float64
}

// Is reports whether t is the bracket or operator text.
func (t Token) Is(text string) bool {
	return (t.Type == TokenBracket || t.Type == TokenOperator) && t.Text == text
}

func (t Token) String() string {
	switch t.Type {
	case TokenBracket, TokenOperator:
		return strconv.Quote(t.Text)
	case TokenNull:
		return "null"
	case TokenBool:
		return strconv.FormatBool(t.Bool)
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenEOF:
		return "end of input"
	}
	return "nothing"
}

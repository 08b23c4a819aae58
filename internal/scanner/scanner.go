package scanner

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const bom = "\uFEFF"

// Tokenizer produces one token per call from a JSON text. It holds no heap
// state of its own, so copying it is a complete snapshot of the scan.
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer returns a tokenizer positioned at the start of input, past a
// leading byte-order mark if there is one.
func NewTokenizer(input string) Tokenizer {
	t := Tokenizer{input: input}
	if strings.HasPrefix(input, bom) {
		t.pos = len(bom)
	}
	return t
}

// NewTokenizerAt returns a tokenizer that resumes scanning input at byte
// offset pos. Offsets in tokens and errors stay relative to the whole input.
func NewTokenizerAt(input string, pos int) Tokenizer {
	if pos == 0 {
		return NewTokenizer(input)
	}
	return Tokenizer{input: input, pos: pos}
}

// Offset is the byte offset of the cursor.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// Input returns the text being scanned.
func (t *Tokenizer) Input() string {
	return t.input
}

// Rest is the unscanned remainder of the input.
func (t *Tokenizer) Rest() string {
	return t.input[t.pos:]
}

// Peek returns the next token without consuming it.
func (t *Tokenizer) Peek() (Token, error) {
	c := *t
	return c.Next()
}

// Expect consumes one token and fails unless it is the bracket or operator text.
func (t *Tokenizer) Expect(text string) error {
	tok, err := t.Next()
	if err != nil {
		return err
	}
	if !tok.Is(text) {
		return Mismatch(ErrUnexpectedToken, strconv.Quote(text), tok)
	}
	return nil
}

// Next consumes and returns the next token.
func (t *Tokenizer) Next() (Token, error) {
	t.skipWhitespace()
	start := t.pos
	if start >= len(t.input) {
		return Token{Type: TokenEOF, Start: start, End: start}, nil
	}

	c := t.input[start]
	switch c {
	case '[', ']', '{', '}':
		t.pos++
		return Token{Type: TokenBracket, Start: start, End: t.pos, Text: t.input[start:t.pos]}, nil
	case ',', ':':
		t.pos++
		return Token{Type: TokenOperator, Start: start, End: t.pos, Text: t.input[start:t.pos]}, nil
	case 't':
		return t.boolToken(start, "rue", true)
	case 'f':
		return t.boolToken(start, "alse", false)
	case 'n':
		t.pos++
		if err := t.literal("ull"); err != nil {
			return Token{}, err
		}
		return Token{Type: TokenNull, Start: start, End: t.pos}, nil
	case '"':
		return t.stringToken(start)
	}
	if c == '-' || isDigit(c) {
		return t.numberToken(start)
	}

	r, _ := utf8.DecodeRuneInString(t.input[start:])
	return Token{}, &SyntaxError{Kind: ErrUnsupportedCharacter, Offset: start, Found: r}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
}

func (t *Tokenizer) boolToken(start int, rest string, val bool) (Token, error) {
	t.pos++
	if err := t.literal(rest); err != nil {
		return Token{}, err
	}
	return Token{Type: TokenBool, Start: start, End: t.pos, Bool: val}, nil
}

// literal matches the remainder of true, false or null one code point at a time.
func (t *Tokenizer) literal(rest string) error {
	for i := 0; i < len(rest); i++ {
		if t.pos >= len(t.input) {
			return &SyntaxError{Kind: ErrUnexpectedEOF, Offset: t.pos}
		}
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if r != rune(rest[i]) {
			return &SyntaxError{Kind: ErrLiteralMismatch, Offset: t.pos, Expected: rune(rest[i]), Found: r}
		}
		t.pos += size
	}
	return nil
}

// numberToken consumes every byte that may appear in a number and lets the
// integer and float parsers judge the lexeme.
func (t *Tokenizer) numberToken(start int) (Token, error) {
	exponent := false
	i := start + 1
	for i < len(t.input) && isNumber(t.input[i]) {
		if c := t.input[i]; c == 'e' || c == 'E' {
			exponent = true
		}
		i++
	}
	t.pos = i

	lexeme := t.input[start:i]
	tok := Token{Type: TokenNumber, Start: start, End: i}
	if !exponent {
		if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			tok.Num = NumInt
			tok.Int = n
			return tok, nil
		}
	}
	if f, err := strconv.ParseFloat(lexeme, 64); err == nil {
		tok.Num = NumFloat
		tok.Float = f
		return tok, nil
	}
	return Token{}, &SyntaxError{Kind: ErrInvalidNumber, Offset: start, Lexeme: lexeme}
}

package scanner

import (
	"unicode/utf16"
	"unicode/utf8"
)

// stringToken scans a string literal whose opening quote is at start. Until a
// backslash shows up nothing is copied and the token borrows the input.
func (t *Tokenizer) stringToken(start int) (Token, error) {
	s := t.input
	i := skipPlain(s, start+1)
	if i >= len(s) {
		return Token{}, unterminated(start)
	}
	if s[i] == '"' {
		t.pos = i + 1
		return Token{Type: TokenString, Start: start, End: t.pos, Text: s[start+1 : i]}, nil
	}
	return t.escapedString(start, i)
}

// escapedString continues a string scan at the first backslash, at index i.
func (t *Tokenizer) escapedString(start, i int) (Token, error) {
	s := t.input
	scratch := getScratch()
	defer putScratch(scratch)

	b := append((*scratch)[:0], s[start+1:i]...)
	for {
		var err error
		if b, i, err = t.escape(b, start, i); err != nil {
			return Token{}, err
		}

		j := skipPlain(s, i)
		b = append(b, s[i:j]...)
		i = j
		if i >= len(s) {
			return Token{}, unterminated(start)
		}
		if s[i] == '"' {
			*scratch = b
			t.pos = i + 1
			return Token{Type: TokenString, Start: start, End: t.pos, Text: string(b), Owned: true}, nil
		}
	}
}

// escape decodes the escape sequence whose backslash is at index i, appends
// the result to b and returns the index just past the sequence.
func (t *Tokenizer) escape(b []byte, start, i int) ([]byte, int, error) {
	s := t.input
	i++
	if i >= len(s) {
		return b, i, unterminated(start)
	}

	switch c := s[i]; c {
	case '"', '\\', '/':
		return append(b, c), i + 1, nil
	case 'b':
		return append(b, '\b'), i + 1, nil
	case 'f':
		return append(b, '\f'), i + 1, nil
	case 'n':
		return append(b, '\n'), i + 1, nil
	case 'r':
		return append(b, '\r'), i + 1, nil
	case 't':
		return append(b, '\t'), i + 1, nil
	case 'u', 'U':
		width := 4
		if c == 'U' {
			width = 8
		}
		v, next, err := t.hex(start, i+1, width)
		if err != nil {
			return b, next, err
		}
		if c == 'u' && v >= 0xD800 && v <= 0xDBFF {
			if lo, after, ok := t.lowSurrogate(next); ok {
				return utf8.AppendRune(b, utf16.DecodeRune(rune(v), rune(lo))), after, nil
			}
		}
		if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
			return b, next, &SyntaxError{Kind: ErrInvalidEscapeValue, Offset: i, Value: v}
		}
		return utf8.AppendRune(b, rune(v)), next, nil
	default:
		r, _ := utf8.DecodeRuneInString(s[i:])
		return b, i, &SyntaxError{Kind: ErrInvalidEscape, Offset: i, Found: r}
	}
}

// hex parses width hex digits starting at index i.
func (t *Tokenizer) hex(start, i, width int) (uint32, int, error) {
	s := t.input
	var v uint32
	for k := 0; k < width; k, i = k+1, i+1 {
		if i >= len(s) {
			return 0, i, unterminated(start)
		}
		if !isHex(s[i]) {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return 0, i, &SyntaxError{Kind: ErrInvalidHexEscape, Offset: i, Found: r}
		}
		v = v<<4 | hexValue(s[i])
	}
	return v, i, nil
}

// lowSurrogate reports whether a \uDC00-\uDFFF escape starts at index i.
func (t *Tokenizer) lowSurrogate(i int) (uint32, int, bool) {
	s := t.input
	if i+6 > len(s) || s[i] != '\\' || s[i+1] != 'u' {
		return 0, i, false
	}
	var v uint32
	for k := i + 2; k < i+6; k++ {
		if !isHex(s[k]) {
			return 0, i, false
		}
		v = v<<4 | hexValue(s[k])
	}
	if v < 0xDC00 || v > 0xDFFF {
		return 0, i, false
	}
	return v, i + 6, true
}

func unterminated(start int) error {
	return &SyntaxError{Kind: ErrUnterminatedString, Offset: start}
}

package scanner

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	tz := NewTokenizer(input)
	var out []Token
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out
		}
	}
}

func TestTokenizer_Structural(t *testing.T) {
	toks := tokenize(t, ` [ { } ] , : `)
	require.Len(t, toks, 7)

	want := []struct {
		typ   TokenType
		text  string
		start int
	}{
		{TokenBracket, "[", 1},
		{TokenBracket, "{", 3},
		{TokenBracket, "}", 5},
		{TokenBracket, "]", 7},
		{TokenOperator, ",", 9},
		{TokenOperator, ":", 11},
	}
	for i, w := range want {
		assert.Equal(t, w.typ, toks[i].Type, "token %d", i)
		assert.Equal(t, w.text, toks[i].Text, "token %d", i)
		assert.Equal(t, w.start, toks[i].Start, "token %d", i)
		assert.Equal(t, w.start+1, toks[i].End, "token %d", i)
	}
	assert.Equal(t, TokenEOF, toks[6].Type)
	assert.Equal(t, 13, toks[6].Start)
}

func TestTokenizer_Literals(t *testing.T) {
	toks := tokenize(t, "true false null")
	require.Len(t, toks, 4)

	assert.Equal(t, TokenBool, toks[0].Type)
	assert.True(t, toks[0].Bool)
	assert.Equal(t, 0, toks[0].Start)
	assert.Equal(t, 4, toks[0].End)

	assert.Equal(t, TokenBool, toks[1].Type)
	assert.False(t, toks[1].Bool)
	assert.Equal(t, 5, toks[1].Start)
	assert.Equal(t, 10, toks[1].End)

	assert.Equal(t, TokenNull, toks[2].Type)
	assert.Equal(t, 11, toks[2].Start)
	assert.Equal(t, 15, toks[2].End)
}

func TestTokenizer_LiteralErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     error
		offset   int
		expected rune
		found    rune
	}{
		{"truncated true", "tru", ErrUnexpectedEOF, 3, 0, 0},
		{"truncated null", "n", ErrUnexpectedEOF, 1, 0, 0},
		{"wrong char in true", "trxe", ErrLiteralMismatch, 2, 'u', 'x'},
		{"wrong char in false", "fals3", ErrLiteralMismatch, 4, 'e', '3'},
		{"wrong char in null", "nul!", ErrLiteralMismatch, 3, 'l', '!'},
		{"non-ascii in literal", "nülL", ErrLiteralMismatch, 1, 'u', 'ü'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := NewTokenizer(tt.input)
			_, err := tz.Next()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.offset, se.Offset)
			assert.Equal(t, tt.expected, se.Expected)
			assert.Equal(t, tt.found, se.Found)
		})
	}
}

func TestTokenizer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		kind  NumKind
		i     int64
		f     float64
	}{
		{"0", NumInt, 0, 0},
		{"42", NumInt, 42, 0},
		{"-0", NumInt, 0, 0},
		{"-123", NumInt, -123, 0},
		{"9223372036854775807", NumInt, 9223372036854775807, 0},
		{"-9223372036854775808", NumInt, -9223372036854775808, 0},
		{"9223372036854775808", NumFloat, 0, 9223372036854775808},
		{"42.0", NumFloat, 0, 42},
		{"4.2e1", NumFloat, 0, 42},
		{"1E2", NumFloat, 0, 100},
		{"1e+2", NumFloat, 0, 100},
		{"-1.5e-3", NumFloat, 0, -0.0015},
		{"3.14", NumFloat, 0, 3.14},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tz := NewTokenizer(tt.input)
			tok, err := tz.Next()
			require.NoError(t, err)
			require.Equal(t, TokenNumber, tok.Type)
			assert.Equal(t, tt.kind, tok.Num)
			assert.Equal(t, 0, tok.Start)
			assert.Equal(t, len(tt.input), tok.End)
			if tt.kind == NumInt {
				assert.Equal(t, tt.i, tok.Int)
			} else {
				assert.InDelta(t, tt.f, tok.Float, 1e-12)
			}
		})
	}
}

func TestTokenizer_InvalidNumbers(t *testing.T) {
	for _, input := range []string{"-", "1.2.3", "1e", "--1", "1e999", "1-2", "0.e+"} {
		t.Run(input, func(t *testing.T) {
			tz := NewTokenizer(input)
			_, err := tz.Next()
			require.ErrorIs(t, err, ErrInvalidNumber)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, input, se.Lexeme)
			assert.Equal(t, 0, se.Offset)
		})
	}
}

func TestTokenizer_NumberStopsAtDelimiter(t *testing.T) {
	toks := tokenize(t, "[1,-2.5]")
	require.Len(t, toks, 6)
	assert.Equal(t, int64(1), toks[1].Int)
	assert.Equal(t, 2, toks[1].End)
	assert.Equal(t, -2.5, toks[3].Float)
	assert.Equal(t, 3, toks[3].Start)
	assert.Equal(t, 7, toks[3].End)
}

func TestTokenizer_UnsupportedCharacter(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		found  rune
	}{
		{"@", 0, '@'},
		{"  +1", 2, '+'},
		{"[1, x]", 4, 'x'},
		{"é", 0, 'é'},
		{"/* comment */", 0, '/'},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tz := NewTokenizer(tt.input)
			var err error
			for err == nil {
				var tok Token
				tok, err = tz.Next()
				if tok.Type == TokenEOF {
					break
				}
			}
			require.ErrorIs(t, err, ErrUnsupportedCharacter)
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.offset, se.Offset)
			assert.Equal(t, tt.found, se.Found)
		})
	}
}

func TestTokenizer_PeekDoesNotConsume(t *testing.T) {
	tz := NewTokenizer(`  "a" 1`)

	p1, err := tz.Peek()
	require.NoError(t, err)
	p2, err := tz.Peek()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, 0, tz.Offset())

	n, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, p1, n)
	assert.Equal(t, 5, tz.Offset())

	n, err = tz.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenNumber, n.Type)
	assert.Equal(t, 7, tz.Offset())
}

func TestTokenizer_ByteOrderMark(t *testing.T) {
	tz := NewTokenizer("\uFEFF 1")
	tok, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), tok.Int)
	assert.Equal(t, 4, tok.Start)

	// Only a leading mark is skipped.
	tz = NewTokenizer("1 \uFEFF")
	_, err = tz.Next()
	require.NoError(t, err)
	_, err = tz.Next()
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)
}

func TestTokenizer_Expect(t *testing.T) {
	tz := NewTokenizer(`{ : , ] 1`)
	require.NoError(t, tz.Expect("{"))
	require.NoError(t, tz.Expect(":"))
	require.NoError(t, tz.Expect(","))

	err := tz.Expect("}")
	require.ErrorIs(t, err, ErrUnexpectedToken)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 6, se.Offset)
	assert.Contains(t, se.Error(), `expected "}"`)
	assert.Contains(t, se.Error(), `found "]"`)

	err = tz.Expect(",")
	require.ErrorIs(t, err, ErrUnexpectedToken)
	assert.Contains(t, err.Error(), "found number")
}

func TestTokenizer_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		owned bool
	}{
		{"empty", `""`, "", false},
		{"plain", `"hello"`, "hello", false},
		{"unicode", `"héllo 世界"`, "héllo 世界", false},
		{"raw control chars kept", "\"a\nb\tc\"", "a\nb\tc", false},
		{"long plain", `"` + "abcdefghijklmnopqrstuvwxyz0123456789" + `"`, "abcdefghijklmnopqrstuvwxyz0123456789", false},
		{"simple escapes", `"\"\\\/\b\f\n\r\t"`, "\"\\/\b\f\n\r\t", true},
		{"unicode escape", `"\u0041\n\t\""`, "A\n\t\"", true},
		{"escape after text", `"abc\ndef"`, "abc\ndef", true},
		{"long escape", `"\U0001F600"`, "\U0001F600", true},
		{"surrogate pair", `"\ud83d\ude00!"`, "\U0001F600!", true},
		{"non-ascii after escape", `"\t世界"`, "\t世界", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := NewTokenizer(tt.input)
			tok, err := tz.Next()
			require.NoError(t, err)
			require.Equal(t, TokenString, tok.Type)
			assert.Equal(t, tt.want, tok.Text)
			assert.Equal(t, tt.owned, tok.Owned)
			assert.Equal(t, 0, tok.Start)
			assert.Equal(t, len(tt.input), tok.End)
		})
	}
}

func TestTokenizer_BorrowedStringAliasesInput(t *testing.T) {
	input := `  "zero copy"`
	tz := NewTokenizer(input)
	tok, err := tz.Next()
	require.NoError(t, err)
	require.False(t, tok.Owned)

	want := unsafe.Pointer(unsafe.StringData(input[3:]))
	assert.Equal(t, want, unsafe.Pointer(unsafe.StringData(tok.Text)))
}

func TestTokenizer_StringErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   error
		offset int
	}{
		{"unterminated", `"abc`, ErrUnterminatedString, 0},
		{"unterminated after escape", ` "ab\n`, ErrUnterminatedString, 1},
		{"eof inside escape", `"ab\`, ErrUnterminatedString, 0},
		{"eof inside hex", `"\u00`, ErrUnterminatedString, 0},
		{"bad escape", `"\q"`, ErrInvalidEscape, 2},
		{"bad hex", `"\u00G1"`, ErrInvalidHexEscape, 5},
		{"lone high surrogate", `"\uD800"`, ErrInvalidEscapeValue, 2},
		{"lone low surrogate", `"\uDC00"`, ErrInvalidEscapeValue, 2},
		{"out of range", `"\U00110000"`, ErrInvalidEscapeValue, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := NewTokenizer(tt.input)
			_, err := tz.Next()
			require.ErrorIs(t, err, tt.kind)
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.offset, se.Offset)
		})
	}
}

func TestSyntaxError_Message(t *testing.T) {
	err := &SyntaxError{Kind: ErrLiteralMismatch, Offset: 2, Expected: 'u', Found: 'x'}
	assert.Equal(t, `pulljson: literal mismatch at offset 2: expected 'u', found 'x'`, err.Error())

	err = &SyntaxError{Kind: ErrInvalidNumber, Offset: 0, Lexeme: "1.2.3"}
	assert.Equal(t, `pulljson: invalid number at offset 0: "1.2.3"`, err.Error())

	err = &SyntaxError{Kind: ErrInvalidEscapeValue, Offset: 3, Value: 0xd800}
	assert.Equal(t, `pulljson: invalid escape value at offset 3: 0xd800`, err.Error())
}

package scanner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedCharacter = errors.New("pulljson: unsupported character")
	ErrLiteralMismatch      = errors.New("pulljson: literal mismatch")
	ErrUnexpectedEOF        = errors.New("pulljson: unexpected end of input")
	ErrUnterminatedString   = errors.New("pulljson: unterminated string")
	ErrInvalidEscape        = errors.New("pulljson: invalid escape")
	ErrInvalidHexEscape     = errors.New("pulljson: invalid hex escape")
	ErrInvalidEscapeValue   = errors.New("pulljson: invalid escape value")
	ErrInvalidNumber        = errors.New("pulljson: invalid number")
	ErrUnexpectedToken      = errors.New("pulljson: unexpected token")
	ErrKeyMustBeString      = errors.New("pulljson: key must be a string")
	ErrNotObjectOrArray     = errors.New("pulljson: expected object or array")
	ErrEnumShape            = errors.New("pulljson: enum must be a single-entry object")
	ErrInvalidValue         = errors.New("pulljson: invalid value")
)

// SyntaxError describes malformed input at a byte offset. Kind is one of the
// sentinel errors above and is what errors.Is matches against.
type SyntaxError struct {
	Kind   error
	Offset int

	// Expected and Found are set for literal mismatches and bad escapes.
	Expected rune
	Found    rune

	// Want and Got describe structural mismatches.
	Want string
	Got  string

	// Lexeme is the rejected number text.
	Lexeme string

	// Value is the hex escape value that is not a code point.
	Value uint32
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	fmt.Fprintf(&b, " at offset %d", e.Offset)

	switch e.Kind {
	case ErrLiteralMismatch:
		fmt.Fprintf(&b, ": expected %q, found %q", e.Expected, e.Found)
	case ErrUnsupportedCharacter, ErrInvalidEscape, ErrInvalidHexEscape:
		fmt.Fprintf(&b, ": %q", e.Found)
	case ErrInvalidEscapeValue:
		fmt.Fprintf(&b, ": %#x", e.Value)
	case ErrInvalidNumber:
		fmt.Fprintf(&b, ": %q", e.Lexeme)
	default:
		if e.Want != "" {
			fmt.Fprintf(&b, ": expected %s", e.Want)
		}
		if e.Got != "" {
			fmt.Fprintf(&b, ", found %s", e.Got)
		}
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

// Mismatch builds the error for a token that does not fit where it was read.
func Mismatch(kind error, want string, got Token) *SyntaxError {
	return &SyntaxError{Kind: kind, Offset: got.Start, Want: want, Got: got.String()}
}

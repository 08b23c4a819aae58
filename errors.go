package pulljson

import (
	"errors"
	"fmt"

	"github.com/biggeezerdevelopment/pulljson/internal/scanner"
)

// Syntax errors raised while reading input. They arrive wrapped in a
// *SyntaxError carrying the byte offset.
var (
	ErrUnsupportedCharacter = scanner.ErrUnsupportedCharacter
	ErrLiteralMismatch      = scanner.ErrLiteralMismatch
	ErrUnexpectedEOF        = scanner.ErrUnexpectedEOF
	ErrUnterminatedString   = scanner.ErrUnterminatedString
	ErrInvalidEscape        = scanner.ErrInvalidEscape
	ErrInvalidHexEscape     = scanner.ErrInvalidHexEscape
	ErrInvalidEscapeValue   = scanner.ErrInvalidEscapeValue
	ErrInvalidNumber        = scanner.ErrInvalidNumber
	ErrUnexpectedToken      = scanner.ErrUnexpectedToken
	ErrKeyMustBeString      = scanner.ErrKeyMustBeString
	ErrNotObjectOrArray     = scanner.ErrNotObjectOrArray
	ErrEnumShape            = scanner.ErrEnumShape
	ErrInvalidValue         = scanner.ErrInvalidValue
)

var (
	ErrCustom           = errors.New("pulljson: custom error")
	ErrInvalidType      = errors.New("pulljson: invalid type")
	ErrNumberOutOfRange = errors.New("pulljson: number out of range")
	ErrUnsupportedType  = errors.New("pulljson: unsupported type")
	ErrUnsupportedValue = errors.New("pulljson: unsupported value")
	ErrDepthExceeded    = errors.New("pulljson: maximum nesting depth exceeded")
	ErrTrailingData     = errors.New("pulljson: trailing data after top-level value")
	ErrInvalidUTF8      = errors.New("pulljson: invalid UTF-8")
	ErrInvalidUnmarshal = errors.New("pulljson: unmarshal requires a non-nil pointer")
)

// SyntaxError reports malformed input at a byte offset. It unwraps to one of
// the sentinel errors, so errors.Is works on it directly.
type SyntaxError = scanner.SyntaxError

// Custom builds a binding-defined error that matches ErrCustom.
func Custom(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCustom, fmt.Sprintf(format, args...))
}

func invalidType(got, want string) error {
	if want == "" {
		return fmt.Errorf("%w: unexpected %s", ErrInvalidType, got)
	}
	return fmt.Errorf("%w: cannot unmarshal %s into %s", ErrInvalidType, got, want)
}

// errorOffset returns the byte offset carried by err, or -1.
func errorOffset(err error) int {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Offset
	}
	return -1
}

package scanner

// Byte classes used by the tokenizer. A byte may belong to several classes.
const (
	classSpace  uint8 = 1 << iota // space, tab, newline, carriage return
	classNumber                   // bytes consumed by the number scan: 0-9 . e E + -
	classDigit                    // 0-9
	classHex                      // 0-9 a-f A-F
	classBracket                  // [ ] { }
	classOperator                 // , :
	classPlain                    // neither '"' nor '\\': may be skipped inside strings
)

// charClass is the lookup table for the classes above, indexed by byte.
var charClass = func() (t [256]uint8) {
	for i := range t {
		if i != '"' && i != '\\' {
			t[i] |= classPlain
		}
	}
	for _, c := range []byte(" \t\n\r") {
		t[c] |= classSpace
	}
	for _, c := range []byte("0123456789.eE+-") {
		t[c] |= classNumber
	}
	for _, c := range []byte("0123456789") {
		t[c] |= classDigit | classHex
	}
	for _, c := range []byte("abcdefABCDEF") {
		t[c] |= classHex
	}
	for _, c := range []byte("[]{}") {
		t[c] |= classBracket
	}
	for _, c := range []byte(",:") {
		t[c] |= classOperator
	}
	return t
}()

func isSpace(c byte) bool  { return charClass[c]&classSpace != 0 }
func isNumber(c byte) bool { return charClass[c]&classNumber != 0 }
func isDigit(c byte) bool  { return charClass[c]&classDigit != 0 }
func isHex(c byte) bool    { return charClass[c]&classHex != 0 }
func isPlain(c byte) bool  { return charClass[c]&classPlain != 0 }

func hexValue(c byte) uint32 {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0')
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10
	default:
		return uint32(c-'A') + 10
	}
}

package scanner

const (
	lsb = 0x0101010101010101
	msb = 0x8080808080808080

	quoteWord     = lsb * uint64('"')
	backslashWord = lsb * uint64('\\')
)

// skipPlain returns the index of the first '"' or '\\' at or after i, or
// len(s) when there is none. Both bytes are ASCII, so they never occur inside
// a multi-byte UTF-8 sequence and the byte walk agrees with a code point walk.
func skipPlain(s string, i int) int {
	if useWide {
		return skipPlainWide(s, i)
	}
	return skipPlainBytes(s, i)
}

func skipPlainBytes(s string, i int) int {
	for i < len(s) && isPlain(s[i]) {
		i++
	}
	return i
}

func skipPlainWide(s string, i int) int {
	for i+8 <= len(s) {
		w := load64(s, i)
		if hasZeroByte(w^quoteWord) || hasZeroByte(w^backslashWord) {
			break
		}
		i += 8
	}
	return skipPlainBytes(s, i)
}

// load64 reads s[i:i+8] little-endian. The compiler merges the byte loads.
func load64(s string, i int) uint64 {
	_ = s[i+7]
	return uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
		uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
}

func hasZeroByte(w uint64) bool {
	return (w-lsb)&^w&msb != 0
}

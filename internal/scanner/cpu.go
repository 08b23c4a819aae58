package scanner

import (
	"golang.org/x/sys/cpu"
)

// useWide selects the word-at-a-time string skip. It is only worth it where
// unaligned 64-bit loads are cheap.
var useWide = hasWideLoads()

func hasWideLoads() bool {
	return cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
}

// WideLoads reports whether the tokenizer skips string runs eight bytes at a time.
func WideLoads() bool {
	return useWide
}

package scanner

import "sync"

// scratchPool holds buffers used while decoding escaped strings. The decoded
// text is copied out into its own string, so a buffer never outlives a scan.
var scratchPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 64)
		return &b
	},
}

func getScratch() *[]byte {
	return scratchPool.Get().(*[]byte)
}

func putScratch(b *[]byte) {
	if cap(*b) > 64*1024 { // Don't pool very large buffers
		return
	}
	*b = (*b)[:0]
	scratchPool.Put(b)
}

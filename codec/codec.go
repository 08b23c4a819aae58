// Package codec adapts pulljson to a generic encode/decode contract for
// callers that store or ship values as bytes.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

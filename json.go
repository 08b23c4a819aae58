// Package pulljson is a JSON text codec built around a pull-based decoder.
//
// Decoding never builds an intermediate tree. The tokenizer hands one token at
// a time to the decoder, which drives a Visitor supplied by the binding. Types
// bind themselves by implementing Decodable and Encodable; everything else is
// bound through reflection with the usual json struct tags.
//
// Strings without escapes are passed to VisitStr as substrings of the input.
// The reflection binding clones them unless Config.BorrowStrings is set.
package pulljson

import (
	"io"
	"unsafe"
)

// Marshal renders v as JSON text.
func Marshal(v any) ([]byte, error) {
	var c Config
	return c.Marshal(v)
}

// Unmarshal decodes data into v, which must be a Decodable or a non-nil
// pointer.
func Unmarshal(data []byte, v any) error {
	var c Config
	return c.Unmarshal(data, v)
}

// UnmarshalString is Unmarshal for string input.
func UnmarshalString(s string, v any) error {
	var c Config
	return c.UnmarshalString(s, v)
}

// Valid reports whether data holds exactly one well-formed JSON value.
func Valid(data []byte) bool {
	var c Config
	return c.Valid(data)
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Decoder reads whitespace-separated JSON values from a reader. The reader
// is drained on the first call to Decode; input is never parsed
// incrementally.
type Decoder struct {
	r    io.Reader
	cfg  Config
	data string
	off  int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the next value into v. It returns io.EOF once only
// whitespace remains.
func (d *Decoder) Decode(v any) error {
	if d.r != nil {
		data, err := io.ReadAll(d.r)
		if err != nil {
			return err
		}
		d.r = nil
		d.data = string(data)
	}

	if !d.more() {
		return io.EOF
	}
	end, err := d.cfg.decode(d.data, d.off, v, false)
	if err != nil {
		return err
	}
	d.off = end
	return nil
}

// More reports whether another value follows.
func (d *Decoder) More() bool {
	if d.r != nil {
		return true
	}
	return d.more()
}

func (d *Decoder) more() bool {
	for i := d.off; i < len(d.data); i++ {
		switch d.data[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return true
		}
	}
	return false
}

// InputOffset is the byte offset just past the last decoded value.
func (d *Decoder) InputOffset() int {
	return d.off
}

// Encoder writes one JSON value per line.
type Encoder struct {
	w   io.Writer
	cfg Config
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(v any) error {
	enc := newEncoder(&e.cfg)
	defer enc.release()

	if err := encodable(v).EncodeTo(enc); err != nil {
		e.cfg.logger().Debug("pulljson: encode failed", Fields{"error": err.Error()})
		return err
	}
	enc.buf = append(enc.buf, '\n')

	_, err := e.w.Write(enc.buf)
	return err
}

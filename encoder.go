package pulljson

import (
	"fmt"
	"math"
	"strconv"
	"sync"
)

type encoder struct {
	buf []byte
	cfg *Config
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &encoder{
			buf: make([]byte, 0, 4096),
		}
	},
}

func newEncoder(cfg *Config) *encoder {
	e := encoderPool.Get().(*encoder)
	e.buf = e.buf[:0]
	e.cfg = cfg
	return e
}

func (e *encoder) release() {
	if cap(e.buf) > 64*1024 {
		e.buf = make([]byte, 0, 4096)
	}
	e.cfg = nil
	encoderPool.Put(e)
}

func (e *encoder) marshal(v any) ([]byte, error) {
	if err := encodable(v).EncodeTo(e); err != nil {
		e.cfg.logger().Debug("pulljson: encode failed", Fields{
			"error":  err.Error(),
			"offset": len(e.buf),
		})
		return nil, err
	}

	result := make([]byte, len(e.buf))
	copy(result, e.buf)
	return result, nil
}

func (e *encoder) EncodeBool(b bool) error {
	if b {
		e.buf = append(e.buf, "true"...)
	} else {
		e.buf = append(e.buf, "false"...)
	}
	return nil
}

func (e *encoder) EncodeInt(n int64) error {
	e.buf = strconv.AppendInt(e.buf, n, 10)
	return nil
}

func (e *encoder) EncodeUint(n uint64) error {
	e.buf = strconv.AppendUint(e.buf, n, 10)
	return nil
}

func (e *encoder) EncodeFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	e.buf = strconv.AppendFloat(e.buf, f, 'g', -1, 64)
	return nil
}

func (e *encoder) EncodeChar(r rune) error {
	e.buf = appendString(e.buf, string(r))
	return nil
}

func (e *encoder) EncodeString(s string) error {
	e.buf = appendString(e.buf, s)
	return nil
}

// Bytes are written as an array of numbers.
func (e *encoder) EncodeBytes(b []byte) error {
	e.buf = append(e.buf, '[')
	for i, c := range b {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.buf = strconv.AppendUint(e.buf, uint64(c), 10)
	}
	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) EncodeUnit() error {
	e.buf = append(e.buf, "null"...)
	return nil
}

func (e *encoder) EncodeNone() error {
	e.buf = append(e.buf, "null"...)
	return nil
}

func (e *encoder) EncodeSome(v Encodable) error {
	return v.EncodeTo(e)
}

// Enum variants are always written as a single-entry object keyed by the
// variant name.
func (e *encoder) openVariant(variant string) {
	e.buf = append(e.buf, '{')
	e.buf = appendString(e.buf, variant)
	e.buf = append(e.buf, ':')
}

func (e *encoder) EncodeUnitVariant(_, variant string) error {
	e.openVariant(variant)
	e.buf = append(e.buf, "null}"...)
	return nil
}

func (e *encoder) EncodeNewtypeVariant(_, variant string, v Encodable) error {
	e.openVariant(variant)
	if err := v.EncodeTo(e); err != nil {
		return err
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) EncodeSeq(int) (SeqEncoder, error) {
	e.buf = append(e.buf, '[')
	return &seqWriter{e: e, first: true, close: "]"}, nil
}

func (e *encoder) EncodeTupleVariant(_, variant string, _ int) (SeqEncoder, error) {
	e.openVariant(variant)
	e.buf = append(e.buf, '[')
	return &seqWriter{e: e, first: true, close: "]}"}, nil
}

func (e *encoder) EncodeMap(int) (MapEncoder, error) {
	e.buf = append(e.buf, '{')
	return &mapWriter{e: e, first: true}, nil
}

func (e *encoder) EncodeStruct(string, int) (StructEncoder, error) {
	e.buf = append(e.buf, '{')
	return &structWriter{e: e, first: true, close: "}"}, nil
}

func (e *encoder) EncodeStructVariant(_, variant string, _ int) (StructEncoder, error) {
	e.openVariant(variant)
	e.buf = append(e.buf, '{')
	return &structWriter{e: e, first: true, close: "}}"}, nil
}

type seqWriter struct {
	e     *encoder
	first bool
	close string
}

func (w *seqWriter) Element(v Encodable) error {
	if !w.first {
		w.e.buf = append(w.e.buf, ',')
	}
	w.first = false
	return v.EncodeTo(w.e)
}

func (w *seqWriter) End() error {
	w.e.buf = append(w.e.buf, w.close...)
	return nil
}

type mapWriter struct {
	e     *encoder
	first bool
}

func (w *mapWriter) Key(k Encodable) error {
	if !w.first {
		w.e.buf = append(w.e.buf, ',')
	}
	w.first = false
	if err := k.EncodeTo(keyWriter{e: w.e}); err != nil {
		return err
	}
	w.e.buf = append(w.e.buf, ':')
	return nil
}

func (w *mapWriter) Value(v Encodable) error {
	return v.EncodeTo(w.e)
}

func (w *mapWriter) End() error {
	w.e.buf = append(w.e.buf, '}')
	return nil
}

type structWriter struct {
	e     *encoder
	first bool
	close string
}

func (w *structWriter) Field(key string, v Encodable) error {
	if !w.first {
		w.e.buf = append(w.e.buf, ',')
	}
	w.first = false
	w.e.buf = appendString(w.e.buf, key)
	w.e.buf = append(w.e.buf, ':')
	return v.EncodeTo(w.e)
}

func (w *structWriter) End() error {
	w.e.buf = append(w.e.buf, w.close...)
	return nil
}

// keyWriter renders an object key. Strings are written as they are and
// integers as quoted decimal text; anything else is not a valid key.
type keyWriter struct {
	e *encoder
}

func (k keyWriter) EncodeString(s string) error { return k.e.EncodeString(s) }
func (k keyWriter) EncodeChar(r rune) error     { return k.e.EncodeChar(r) }

func (k keyWriter) EncodeSome(v Encodable) error {
	return v.EncodeTo(k)
}

func (k keyWriter) EncodeInt(n int64) error {
	k.e.buf = append(k.e.buf, '"')
	k.e.buf = strconv.AppendInt(k.e.buf, n, 10)
	k.e.buf = append(k.e.buf, '"')
	return nil
}

func (k keyWriter) EncodeUint(n uint64) error {
	k.e.buf = append(k.e.buf, '"')
	k.e.buf = strconv.AppendUint(k.e.buf, n, 10)
	k.e.buf = append(k.e.buf, '"')
	return nil
}

func badKey(kind string) error {
	return fmt.Errorf("%w: got %s", ErrKeyMustBeString, kind)
}

func (keyWriter) EncodeBool(bool) error                  { return badKey("bool") }
func (keyWriter) EncodeFloat(float64) error              { return badKey("float") }
func (keyWriter) EncodeBytes([]byte) error               { return badKey("bytes") }
func (keyWriter) EncodeUnit() error                      { return badKey("null") }
func (keyWriter) EncodeNone() error                      { return badKey("null") }
func (keyWriter) EncodeUnitVariant(string, string) error { return badKey("enum") }
func (keyWriter) EncodeSeq(int) (SeqEncoder, error)      { return nil, badKey("array") }
func (keyWriter) EncodeMap(int) (MapEncoder, error)      { return nil, badKey("object") }

func (keyWriter) EncodeStruct(string, int) (StructEncoder, error) {
	return nil, badKey("struct")
}

func (keyWriter) EncodeNewtypeVariant(string, string, Encodable) error {
	return badKey("enum")
}

func (keyWriter) EncodeTupleVariant(string, string, int) (SeqEncoder, error) {
	return nil, badKey("enum")
}

func (keyWriter) EncodeStructVariant(string, string, int) (StructEncoder, error) {
	return nil, badKey("enum")
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a quoted JSON string, escaping quotes,
// backslashes and control characters.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

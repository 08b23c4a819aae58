package pulljson

import (
	"io"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Config controls decoding and encoding. The zero value is ready to use and
// behaves like the package-level functions.
type Config struct {
	// MaxDepth bounds how many arrays, objects and enum wrappers may be open
	// at once. Zero means unbounded.
	MaxDepth int

	// AllowTrailingData accepts input that continues after the top-level value.
	AllowTrailingData bool

	// BorrowStrings lets the reflection and generic bindings keep strings that
	// alias the input instead of cloning them. Only safe when the input
	// outlives the result and is never modified.
	BorrowStrings bool

	// ValidateUTF8 rejects input that is not valid UTF-8 before scanning.
	ValidateUTF8 bool

	// Logger receives diagnostics. Nil disables logging.
	Logger Logger
}

func (c *Config) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}

// Unmarshal decodes data into v, which must be a Decodable or a non-nil
// pointer. data is read without copying.
func (c Config) Unmarshal(data []byte, v any) error {
	return c.UnmarshalString(bytesToString(data), v)
}

// UnmarshalString is Unmarshal for string input.
func (c Config) UnmarshalString(s string, v any) error {
	_, err := c.decode(s, 0, v, !c.AllowTrailingData)
	return err
}

// Marshal renders v as JSON text.
func (c Config) Marshal(v any) ([]byte, error) {
	e := newEncoder(&c)
	defer e.release()

	return e.marshal(v)
}

// Valid reports whether data holds exactly one well-formed JSON value.
func (c Config) Valid(data []byte) bool {
	_, err := c.decode(bytesToString(data), 0, Ignore{}, !c.AllowTrailingData)
	return err == nil
}

func (c Config) NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, cfg: c}
}

func (c Config) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, cfg: c}
}

// decode binds one value starting at byte offset pos and returns the offset
// just past it. When strict is set only whitespace may follow the value.
func (c *Config) decode(input string, pos int, v any, strict bool) (int, error) {
	if c.ValidateUTF8 && !utf8.ValidString(input[pos:]) {
		return pos, ErrInvalidUTF8
	}

	d := newDecoder(input, pos, c)
	defer d.release()

	err := d.bind(v)
	if err == nil && strict {
		err = d.finish()
	}
	if err != nil {
		c.logger().Debug("pulljson: decode failed", Fields{
			"error":  err.Error(),
			"offset": errorOffset(err),
		})
		return d.tok.Offset(), err
	}
	return d.tok.Offset(), nil
}

func (d *decoder) bind(v any) error {
	if dec, ok := v.(Decodable); ok {
		return dec.DecodeFrom(d)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidUnmarshal
	}
	return decodeValue(d, rv.Elem(), d.cfg.BorrowStrings)
}

// finish fails unless only whitespace remains.
func (d *decoder) finish() error {
	input := d.tok.Input()
	rest := strings.TrimLeft(d.tok.Rest(), " \t\r\n")
	if rest == "" {
		return nil
	}
	return &SyntaxError{Kind: ErrTrailingData, Offset: len(input) - len(rest)}
}

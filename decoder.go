package pulljson

import (
	"strconv"
	"strings"
	"sync"

	"github.com/biggeezerdevelopment/pulljson/internal/scanner"
)

// decoder drives a Visitor straight from the token stream. Nothing is
// buffered between tokens, so every value is handed to the binding as soon
// as it is scanned.
type decoder struct {
	tok   scanner.Tokenizer
	cfg   *Config
	depth int
}

var decoderPool = sync.Pool{
	New: func() interface{} {
		return &decoder{}
	},
}

func newDecoder(input string, pos int, cfg *Config) *decoder {
	d := decoderPool.Get().(*decoder)
	d.tok = scanner.NewTokenizerAt(input, pos)
	d.cfg = cfg
	d.depth = 0
	return d
}

func (d *decoder) release() {
	d.tok = scanner.Tokenizer{}
	d.cfg = nil
	decoderPool.Put(d)
}

func (d *decoder) DecodeAny(v Visitor) error {
	tok, err := d.tok.Next()
	if err != nil {
		return err
	}
	return d.visit(tok, v)
}

func (d *decoder) visit(tok scanner.Token, v Visitor) error {
	switch tok.Type {
	case scanner.TokenBool:
		return v.VisitBool(tok.Bool)
	case scanner.TokenNull:
		return v.VisitUnit()
	case scanner.TokenNumber:
		if tok.Num == scanner.NumInt {
			return v.VisitInt(tok.Int)
		}
		return v.VisitFloat(tok.Float)
	case scanner.TokenString:
		if tok.Owned {
			return v.VisitString(tok.Text)
		}
		return v.VisitStr(tok.Text)
	case scanner.TokenBracket:
		switch tok.Text {
		case "[":
			return d.nested(tok, "]", func() (bool, error) {
				a := &seqAccess{d: d, first: true}
				err := v.VisitSeq(a)
				return a.done, err
			})
		case "{":
			return d.nested(tok, "}", func() (bool, error) {
				a := &mapAccess{d: d, first: true}
				err := v.VisitMap(a)
				return a.done, err
			})
		}
	case scanner.TokenEOF:
		return &SyntaxError{Kind: ErrUnexpectedEOF, Offset: tok.Start}
	}
	return scanner.Mismatch(ErrInvalidValue, "a value", tok)
}

// nested runs a visit over an opened array or object. A binding that stops
// reading before the closing bracket must have read every element; the
// bracket is then consumed here.
func (d *decoder) nested(open scanner.Token, close string, run func() (bool, error)) error {
	if err := d.enter(open); err != nil {
		return err
	}
	done, err := run()
	d.depth--
	if err != nil || done {
		return err
	}
	return d.tok.Expect(close)
}

func (d *decoder) enter(open scanner.Token) error {
	d.depth++
	if d.cfg.MaxDepth > 0 && d.depth > d.cfg.MaxDepth {
		d.cfg.logger().Warn("pulljson: nesting depth exceeded", Fields{
			"max_depth": d.cfg.MaxDepth,
			"offset":    open.Start,
		})
		return &SyntaxError{Kind: ErrDepthExceeded, Offset: open.Start}
	}
	return nil
}

// consume advances past the next token only when it is the given bracket or
// operator.
func (d *decoder) consume(text string) (bool, error) {
	next := d.tok
	tok, err := next.Next()
	if err != nil {
		return false, err
	}
	if !tok.Is(text) {
		return false, nil
	}
	d.tok = next
	return true, nil
}

func (d *decoder) DecodeInt(_ int, v Visitor) error  { return d.DecodeAny(v) }
func (d *decoder) DecodeUint(_ int, v Visitor) error { return d.DecodeAny(v) }
func (d *decoder) DecodeBytes(v Visitor) error       { return d.DecodeAny(v) }

func (d *decoder) DecodeOption(v Visitor) error {
	next := d.tok
	tok, err := next.Next()
	if err != nil {
		return err
	}
	if tok.Type == scanner.TokenNull {
		d.tok = next
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

func (d *decoder) DecodeStruct(_ string, _ []string, v Visitor) error {
	tok, err := d.tok.Peek()
	if err != nil {
		return err
	}
	if !tok.Is("{") && !tok.Is("[") {
		return scanner.Mismatch(ErrNotObjectOrArray, "object or array", tok)
	}
	return d.DecodeAny(v)
}

func (d *decoder) DecodeEnum(_ string, _ []string, v Visitor) error {
	tok, err := d.tok.Next()
	if err != nil {
		return err
	}
	if !tok.Is("{") {
		return scanner.Mismatch(ErrEnumShape, strconv.Quote("{"), tok)
	}
	if err := d.enter(tok); err != nil {
		return err
	}
	a := &enumAccess{d: d}
	err = v.VisitEnum(a)
	d.depth--
	if err == nil && !a.closed {
		return &SyntaxError{Kind: ErrEnumShape, Offset: d.tok.Offset()}
	}
	return err
}

type seqAccess struct {
	d     *decoder
	first bool
	done  bool
}

func (a *seqAccess) NextElement(elem Decodable) (bool, error) {
	if a.done {
		return false, nil
	}
	end, err := a.d.consume("]")
	if err != nil {
		return false, err
	}
	if end {
		a.done = true
		return false, nil
	}
	if a.first {
		a.first = false
	} else if err := a.d.tok.Expect(","); err != nil {
		return false, err
	}
	return true, elem.DecodeFrom(a.d)
}

type mapAccess struct {
	d     *decoder
	first bool
	done  bool
}

func (a *mapAccess) NextKey(key Decodable) (bool, error) {
	if a.done {
		return false, nil
	}
	end, err := a.d.consume("}")
	if err != nil {
		return false, err
	}
	if end {
		a.done = true
		return false, nil
	}
	if a.first {
		a.first = false
	} else if err := a.d.tok.Expect(","); err != nil {
		return false, err
	}
	return true, key.DecodeFrom(mapKey{d: a.d})
}

func (a *mapAccess) NextValue(val Decodable) error {
	if err := a.d.tok.Expect(":"); err != nil {
		return err
	}
	return val.DecodeFrom(a.d)
}

// mapKey decodes an object key. Keys are always strings; integer requests
// parse the key text and fall back to the text itself when it is not a
// number of the requested width.
type mapKey struct {
	d *decoder
}

func (k mapKey) key() (scanner.Token, error) {
	tok, err := k.d.tok.Next()
	if err != nil {
		return tok, err
	}
	if tok.Type != scanner.TokenString {
		return tok, scanner.Mismatch(ErrKeyMustBeString, "string", tok)
	}
	return tok, nil
}

func (k mapKey) DecodeAny(v Visitor) error {
	tok, err := k.key()
	if err != nil {
		return err
	}
	if tok.Owned {
		return v.VisitString(tok.Text)
	}
	return v.VisitStr(tok.Text)
}

func (k mapKey) DecodeInt(bits int, v Visitor) error {
	tok, err := k.key()
	if err != nil {
		return err
	}
	if n, err := strconv.ParseInt(tok.Text, 10, bits); err == nil {
		return v.VisitInt(n)
	}
	return k.fallback(tok, v)
}

func (k mapKey) DecodeUint(bits int, v Visitor) error {
	tok, err := k.key()
	if err != nil {
		return err
	}
	if n, err := strconv.ParseUint(tok.Text, 10, bits); err == nil {
		return v.VisitUint(n)
	}
	return k.fallback(tok, v)
}

func (k mapKey) fallback(tok scanner.Token, v Visitor) error {
	k.d.cfg.logger().Debug("pulljson: integer key kept as string", Fields{
		"key":    tok.Text,
		"offset": tok.Start,
	})
	if tok.Owned {
		return v.VisitString(tok.Text)
	}
	return v.VisitString(strings.Clone(tok.Text))
}

// Keys are never null.
func (k mapKey) DecodeOption(v Visitor) error { return v.VisitSome(k) }

func (k mapKey) DecodeBytes(v Visitor) error { return k.d.DecodeBytes(v) }

func (k mapKey) DecodeStruct(_ string, _ []string, v Visitor) error { return k.DecodeAny(v) }

func (k mapKey) DecodeEnum(name string, variants []string, v Visitor) error {
	return k.d.DecodeEnum(name, variants, v)
}

// enumAccess reads {"variant": payload}. The opening brace has been consumed
// by DecodeEnum and each variant method consumes the closing one.
type enumAccess struct {
	d      *decoder
	closed bool
}

func (a *enumAccess) Variant(name Decodable) (VariantAccess, error) {
	if err := name.DecodeFrom(mapKey{d: a.d}); err != nil {
		return nil, err
	}
	if err := a.d.tok.Expect(":"); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *enumAccess) UnitVariant() error {
	tok, err := a.d.tok.Next()
	if err != nil {
		return err
	}
	if tok.Type != scanner.TokenNull {
		return scanner.Mismatch(ErrUnexpectedToken, "null", tok)
	}
	return a.close()
}

func (a *enumAccess) NewtypeVariant(v Decodable) error {
	if err := v.DecodeFrom(a.d); err != nil {
		return err
	}
	return a.close()
}

func (a *enumAccess) TupleVariant(_ int, v Visitor) error {
	tok, err := a.d.tok.Peek()
	if err != nil {
		return err
	}
	if !tok.Is("[") {
		return scanner.Mismatch(ErrUnexpectedToken, strconv.Quote("["), tok)
	}
	if err := a.d.DecodeAny(v); err != nil {
		return err
	}
	return a.close()
}

func (a *enumAccess) StructVariant(fields []string, v Visitor) error {
	if err := a.d.DecodeStruct("", fields, v); err != nil {
		return err
	}
	return a.close()
}

func (a *enumAccess) close() error {
	if err := a.d.tok.Expect("}"); err != nil {
		return err
	}
	a.closed = true
	return nil
}

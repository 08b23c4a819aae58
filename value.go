package pulljson

import (
	"bytes"
	"strings"
)

// anyVisitor builds the generic tree: map[string]any, []any, int64, float64,
// string, bool and nil.
type anyVisitor struct {
	out    *any
	borrow bool
}

func (a *anyVisitor) VisitBool(b bool) error {
	*a.out = b
	return nil
}

func (a *anyVisitor) VisitInt(n int64) error {
	*a.out = n
	return nil
}

func (a *anyVisitor) VisitUint(n uint64) error {
	*a.out = n
	return nil
}

func (a *anyVisitor) VisitFloat(f float64) error {
	*a.out = f
	return nil
}

func (a *anyVisitor) VisitChar(r rune) error {
	*a.out = string(r)
	return nil
}

func (a *anyVisitor) VisitString(s string) error {
	*a.out = s
	return nil
}

func (a *anyVisitor) VisitUnit() error {
	*a.out = nil
	return nil
}

func (a *anyVisitor) VisitNone() error {
	*a.out = nil
	return nil
}

func (a *anyVisitor) VisitStr(s string) error {
	if !a.borrow {
		s = strings.Clone(s)
	}
	*a.out = s
	return nil
}

func (a *anyVisitor) VisitBytes(b []byte) error {
	*a.out = bytes.Clone(b)
	return nil
}

func (a *anyVisitor) VisitSome(d Deserializer) error {
	return d.DecodeAny(a)
}

func (a *anyVisitor) VisitSeq(s SeqAccess) error {
	arr := make([]any, 0)
	for {
		var elem any
		ok, err := s.NextElement(anyValue{p: &elem, borrow: a.borrow})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		arr = append(arr, elem)
	}
	*a.out = arr
	return nil
}

func (a *anyVisitor) VisitMap(m MapAccess) error {
	obj := make(map[string]any)
	for {
		var key string
		ok, err := m.NextKey(stringValue{p: &key, borrow: a.borrow})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		var val any
		if err := m.NextValue(anyValue{p: &val, borrow: a.borrow}); err != nil {
			return err
		}
		obj[key] = val
	}
	*a.out = obj
	return nil
}

func (a *anyVisitor) VisitEnum(EnumAccess) error {
	return invalidType("enum", "interface {}")
}

type anyValue struct {
	p      *any
	borrow bool
}

func (v anyValue) DecodeFrom(d Deserializer) error {
	return d.DecodeAny(&anyVisitor{out: v.p, borrow: v.borrow})
}

type stringValue struct {
	p      *string
	borrow bool
}

func (v stringValue) DecodeFrom(d Deserializer) error {
	return d.DecodeAny(&stringVisitor{p: v.p, borrow: v.borrow})
}

type stringVisitor struct {
	BaseVisitor
	p      *string
	borrow bool
}

func (v *stringVisitor) VisitStr(s string) error {
	if !v.borrow {
		s = strings.Clone(s)
	}
	*v.p = s
	return nil
}

func (v *stringVisitor) VisitString(s string) error {
	*v.p = s
	return nil
}

// Ignore consumes one value of any shape and discards it.
type Ignore struct{}

func (Ignore) DecodeFrom(d Deserializer) error {
	return d.DecodeAny(ignoreVisitor{})
}

type ignoreVisitor struct{}

func (ignoreVisitor) VisitBool(bool) error     { return nil }
func (ignoreVisitor) VisitInt(int64) error     { return nil }
func (ignoreVisitor) VisitUint(uint64) error   { return nil }
func (ignoreVisitor) VisitFloat(float64) error { return nil }
func (ignoreVisitor) VisitChar(rune) error     { return nil }
func (ignoreVisitor) VisitStr(string) error    { return nil }
func (ignoreVisitor) VisitString(string) error { return nil }
func (ignoreVisitor) VisitBytes([]byte) error  { return nil }
func (ignoreVisitor) VisitUnit() error         { return nil }
func (ignoreVisitor) VisitNone() error         { return nil }

func (ignoreVisitor) VisitSome(d Deserializer) error {
	return d.DecodeAny(ignoreVisitor{})
}

func (ignoreVisitor) VisitSeq(a SeqAccess) error {
	for {
		ok, err := a.NextElement(Ignore{})
		if err != nil || !ok {
			return err
		}
	}
}

func (ignoreVisitor) VisitMap(a MapAccess) error {
	for {
		ok, err := a.NextKey(Ignore{})
		if err != nil || !ok {
			return err
		}
		if err := a.NextValue(Ignore{}); err != nil {
			return err
		}
	}
}

func (ignoreVisitor) VisitEnum(a EnumAccess) error {
	va, err := a.Variant(Ignore{})
	if err != nil {
		return err
	}
	return va.NewtypeVariant(Ignore{})
}

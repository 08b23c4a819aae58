package pulljson

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	decodableType = reflect.TypeOf((*Decodable)(nil)).Elem()
	encodableType = reflect.TypeOf((*Encodable)(nil)).Elem()
)

// reflectValue binds a Go value through reflection. For decoding v must be
// settable.
type reflectValue struct {
	v      reflect.Value
	borrow bool
}

func (r reflectValue) EncodeTo(s Serializer) error     { return encodeValue(s, r.v) }
func (r reflectValue) DecodeFrom(d Deserializer) error { return decodeValue(d, r.v, r.borrow) }

func encodable(v any) Encodable {
	if enc, ok := v.(Encodable); ok {
		return enc
	}
	return reflectValue{v: reflect.ValueOf(v)}
}

// From returns an Encodable for v, for use inside hand-written bindings.
func From(v any) Encodable {
	return encodable(v)
}

// Into returns a Decodable that stores into p, which must be a non-nil
// pointer. Decoded strings never alias the input.
func Into(p any) Decodable {
	if dec, ok := p.(Decodable); ok {
		return dec
	}
	return DecodeFunc(func(d Deserializer) error {
		rv := reflect.ValueOf(p)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return ErrInvalidUnmarshal
		}
		return decodeValue(d, rv.Elem(), false)
	})
}

type field struct {
	name      string
	index     int
	omitEmpty bool
}

// structFields lists the exported fields of t that take part in encoding,
// named by their json tag when there is one.
func structFields(t reflect.Type) []field {
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}

		f := field{name: name, index: i}
		for opts != "" {
			var opt string
			opt, opts, _ = strings.Cut(opts, ",")
			if opt == "omitempty" {
				f.omitEmpty = true
			}
		}
		fields = append(fields, f)
	}
	return fields
}

func fieldNames(fields []field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// lookupField matches exactly first, then case-insensitively.
func lookupField(fields []field, name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return field{}, false
}

func encodeValue(s Serializer, v reflect.Value) error {
	if !v.IsValid() {
		return s.EncodeNone()
	}

	if v.Type().Implements(encodableType) {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			return s.EncodeNone()
		}
		return v.Interface().(Encodable).EncodeTo(s)
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(encodableType) {
		return v.Addr().Interface().(Encodable).EncodeTo(s)
	}

	switch v.Kind() {
	case reflect.Bool:
		return s.EncodeBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return s.EncodeInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return s.EncodeUint(v.Uint())
	case reflect.Float32:
		return s.EncodeFloat(widenFloat32(v.Float()))
	case reflect.Float64:
		return s.EncodeFloat(v.Float())
	case reflect.String:
		return s.EncodeString(v.String())
	case reflect.Pointer:
		if v.IsNil() {
			return s.EncodeNone()
		}
		return s.EncodeSome(reflectValue{v: v.Elem()})
	case reflect.Interface:
		if v.IsNil() {
			return s.EncodeNone()
		}
		return encodeValue(s, v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return s.EncodeNone()
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return s.EncodeBytes(v.Bytes())
		}
		return encodeSeq(s, v)
	case reflect.Array:
		return encodeSeq(s, v)
	case reflect.Map:
		return encodeMap(s, v)
	case reflect.Struct:
		return encodeStruct(s, v)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
}

// widenFloat32 converts through the shortest float32 text so that 0.1
// stays 0.1 instead of 0.10000000149011612.
func widenFloat32(f float64) float64 {
	w, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
	if err != nil {
		return f
	}
	return w
}

func encodeSeq(s Serializer, v reflect.Value) error {
	n := v.Len()
	seq, err := s.EncodeSeq(n)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := seq.Element(reflectValue{v: v.Index(i)}); err != nil {
			return err
		}
	}
	return seq.End()
}

func encodeMap(s Serializer, v reflect.Value) error {
	if v.IsNil() {
		return s.EncodeNone()
	}
	if !validKeyKind(v.Type().Key().Kind()) {
		return fmt.Errorf("%w: map key %s", ErrUnsupportedType, v.Type().Key())
	}

	m, err := s.EncodeMap(v.Len())
	if err != nil {
		return err
	}
	iter := v.MapRange()
	for iter.Next() {
		if err := m.Key(reflectValue{v: iter.Key()}); err != nil {
			return err
		}
		if err := m.Value(reflectValue{v: iter.Value()}); err != nil {
			return err
		}
	}
	return m.End()
}

func encodeStruct(s Serializer, v reflect.Value) error {
	typ := v.Type()
	fields := structFields(typ)

	st, err := s.EncodeStruct(typ.Name(), len(fields))
	if err != nil {
		return err
	}
	for _, f := range fields {
		fv := v.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := st.Field(f.name, reflectValue{v: fv}); err != nil {
			return err
		}
	}
	return st.End()
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func validKeyKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func decodeValue(d Deserializer, v reflect.Value, borrow bool) error {
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(decodableType) {
		return v.Addr().Interface().(Decodable).DecodeFrom(d)
	}

	vis := &valueVisitor{v: v, borrow: borrow}
	switch v.Kind() {
	case reflect.Pointer:
		return d.DecodeOption(&optionVisitor{v: v, borrow: borrow})
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
		}
		var x any
		if err := d.DecodeAny(&anyVisitor{out: &x, borrow: borrow}); err != nil {
			return err
		}
		if x == nil {
			v.SetZero()
		} else {
			v.Set(reflect.ValueOf(x))
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.DecodeInt(v.Type().Bits(), vis)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return d.DecodeUint(v.Type().Bits(), vis)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return d.DecodeBytes(vis)
		}
	case reflect.Struct:
		vis.fields = structFields(v.Type())
		return d.DecodeStruct(v.Type().Name(), fieldNames(vis.fields), vis)
	case reflect.Map:
		if !validKeyKind(v.Type().Key().Kind()) {
			return fmt.Errorf("%w: map key %s", ErrUnsupportedType, v.Type().Key())
		}
	case reflect.Bool, reflect.Float32, reflect.Float64, reflect.String, reflect.Array:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
	}
	return d.DecodeAny(vis)
}

// valueVisitor stores whatever it is visited with into v, converting where
// the Go type allows it without loss.
type valueVisitor struct {
	v      reflect.Value
	borrow bool
	fields []field
}

func (vv *valueVisitor) mismatch(got string) error {
	return invalidType(got, vv.v.Type().String())
}

func (vv *valueVisitor) outOfRange(n any) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrNumberOutOfRange, n, vv.v.Type())
}

func (vv *valueVisitor) VisitBool(b bool) error {
	if vv.v.Kind() != reflect.Bool {
		return vv.mismatch("bool")
	}
	vv.v.SetBool(b)
	return nil
}

func (vv *valueVisitor) VisitInt(n int64) error {
	switch vv.v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if vv.v.OverflowInt(n) {
			return vv.outOfRange(n)
		}
		vv.v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n < 0 || vv.v.OverflowUint(uint64(n)) {
			return vv.outOfRange(n)
		}
		vv.v.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		vv.v.SetFloat(float64(n))
	default:
		return vv.mismatch("number")
	}
	return nil
}

func (vv *valueVisitor) VisitUint(n uint64) error {
	switch vv.v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || vv.v.OverflowInt(int64(n)) {
			return vv.outOfRange(n)
		}
		vv.v.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if vv.v.OverflowUint(n) {
			return vv.outOfRange(n)
		}
		vv.v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		vv.v.SetFloat(float64(n))
	default:
		return vv.mismatch("number")
	}
	return nil
}

func (vv *valueVisitor) VisitFloat(f float64) error {
	switch vv.v.Kind() {
	case reflect.Float32, reflect.Float64:
		if vv.v.OverflowFloat(f) {
			return vv.outOfRange(f)
		}
		vv.v.SetFloat(f)
		return nil
	}
	return vv.mismatch("float")
}

func (vv *valueVisitor) VisitChar(r rune) error {
	return vv.VisitString(string(r))
}

func (vv *valueVisitor) VisitStr(s string) error {
	if !vv.borrow {
		s = strings.Clone(s)
	}
	return vv.VisitString(s)
}

func (vv *valueVisitor) VisitString(s string) error {
	if vv.v.Kind() != reflect.String {
		return vv.mismatch("string")
	}
	vv.v.SetString(s)
	return nil
}

func (vv *valueVisitor) VisitBytes(b []byte) error {
	if vv.v.Kind() != reflect.Slice || vv.v.Type().Elem().Kind() != reflect.Uint8 {
		return vv.mismatch("bytes")
	}
	vv.v.SetBytes(bytes.Clone(b))
	return nil
}

func (vv *valueVisitor) VisitUnit() error {
	vv.v.SetZero()
	return nil
}

func (vv *valueVisitor) VisitNone() error {
	vv.v.SetZero()
	return nil
}

func (vv *valueVisitor) VisitSome(d Deserializer) error {
	return decodeValue(d, vv.v, vv.borrow)
}

func (vv *valueVisitor) VisitSeq(a SeqAccess) error {
	v := vv.v
	switch v.Kind() {
	case reflect.Slice:
		s := reflect.MakeSlice(v.Type(), 0, 0)
		for {
			elem := reflect.New(v.Type().Elem()).Elem()
			ok, err := a.NextElement(reflectValue{v: elem, borrow: vv.borrow})
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			s = reflect.Append(s, elem)
		}
		v.Set(s)
		return nil

	case reflect.Array:
		i := 0
		for ; ; i++ {
			var elem Decodable = Ignore{}
			if i < v.Len() {
				elem = reflectValue{v: v.Index(i), borrow: vv.borrow}
			}
			ok, err := a.NextElement(elem)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		for ; i < v.Len(); i++ {
			v.Index(i).SetZero()
		}
		return nil

	case reflect.Struct:
		// Positional form: elements fill the fields in declaration order.
		for i := 0; ; i++ {
			var elem Decodable = Ignore{}
			if i < len(vv.fields) {
				elem = reflectValue{v: v.Field(vv.fields[i].index), borrow: vv.borrow}
			}
			ok, err := a.NextElement(elem)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	}
	return vv.mismatch("array")
}

func (vv *valueVisitor) VisitMap(a MapAccess) error {
	v := vv.v
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}
		for {
			key := reflect.New(v.Type().Key()).Elem()
			ok, err := a.NextKey(reflectValue{v: key, borrow: vv.borrow})
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := a.NextValue(reflectValue{v: elem, borrow: vv.borrow}); err != nil {
				return err
			}
			v.SetMapIndex(key, elem)
		}

	case reflect.Struct:
		for {
			// The name is only used for the lookup, so it may alias the input.
			var name string
			ok, err := a.NextKey(stringValue{p: &name, borrow: true})
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			var val Decodable = Ignore{}
			if f, found := lookupField(vv.fields, name); found {
				val = reflectValue{v: v.Field(f.index), borrow: vv.borrow}
			}
			if err := a.NextValue(val); err != nil {
				return err
			}
		}
	}
	return vv.mismatch("object")
}

func (vv *valueVisitor) VisitEnum(EnumAccess) error {
	return vv.mismatch("enum")
}

// optionVisitor treats a pointer as an optional value: null clears it and
// anything else is decoded into a freshly allocated or existing target.
type optionVisitor struct {
	BaseVisitor
	v      reflect.Value
	borrow bool
}

func (o *optionVisitor) VisitNone() error {
	o.v.SetZero()
	return nil
}

func (o *optionVisitor) VisitUnit() error {
	return o.VisitNone()
}

func (o *optionVisitor) VisitSome(d Deserializer) error {
	if o.v.IsNil() {
		o.v.Set(reflect.New(o.v.Type().Elem()))
	}
	return decodeValue(d, o.v.Elem(), o.borrow)
}

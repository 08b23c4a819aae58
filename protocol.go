package pulljson

// Visitor receives exactly one value from a Deserializer. Strings arrive
// through VisitStr when they alias the decode input and through VisitString
// when escapes forced a fresh copy.
type Visitor interface {
	VisitBool(b bool) error
	VisitInt(n int64) error
	VisitUint(n uint64) error
	VisitFloat(f float64) error
	VisitChar(r rune) error
	VisitStr(s string) error
	VisitString(s string) error
	VisitBytes(b []byte) error
	VisitUnit() error
	VisitNone() error
	VisitSome(d Deserializer) error
	VisitSeq(a SeqAccess) error
	VisitMap(a MapAccess) error
	VisitEnum(a EnumAccess) error
}

// Deserializer pulls one value from its input and hands it to a Visitor. The
// hints tell the deserializer what the binding expects; a self-describing
// format such as JSON is free to ignore most of them.
type Deserializer interface {
	DecodeAny(v Visitor) error
	DecodeInt(bits int, v Visitor) error
	DecodeUint(bits int, v Visitor) error
	DecodeOption(v Visitor) error
	DecodeBytes(v Visitor) error
	DecodeStruct(name string, fields []string, v Visitor) error
	DecodeEnum(name string, variants []string, v Visitor) error
}

// Decodable is implemented by types that know how to read themselves.
type Decodable interface {
	DecodeFrom(d Deserializer) error
}

// SeqAccess yields the elements of an array. NextElement reports false once
// the closing bracket has been consumed.
type SeqAccess interface {
	NextElement(elem Decodable) (bool, error)
}

// MapAccess yields the entries of an object. Every NextKey that reports true
// must be followed by exactly one NextValue.
type MapAccess interface {
	NextKey(key Decodable) (bool, error)
	NextValue(val Decodable) error
}

// EnumAccess reads the variant name of an externally tagged enum.
type EnumAccess interface {
	Variant(name Decodable) (VariantAccess, error)
}

// VariantAccess reads the payload of the variant chosen through EnumAccess.
// Exactly one of its methods must be called.
type VariantAccess interface {
	UnitVariant() error
	NewtypeVariant(v Decodable) error
	TupleVariant(n int, v Visitor) error
	StructVariant(fields []string, v Visitor) error
}

// Serializer renders data-model calls.
type Serializer interface {
	EncodeBool(b bool) error
	EncodeInt(n int64) error
	EncodeUint(n uint64) error
	EncodeFloat(f float64) error
	EncodeChar(r rune) error
	EncodeString(s string) error
	EncodeBytes(b []byte) error
	EncodeUnit() error
	EncodeNone() error
	EncodeSome(v Encodable) error
	EncodeUnitVariant(name, variant string) error
	EncodeNewtypeVariant(name, variant string, v Encodable) error
	EncodeSeq(n int) (SeqEncoder, error)
	EncodeTupleVariant(name, variant string, n int) (SeqEncoder, error)
	EncodeMap(n int) (MapEncoder, error)
	EncodeStruct(name string, n int) (StructEncoder, error)
	EncodeStructVariant(name, variant string, n int) (StructEncoder, error)
}

// Encodable is implemented by types that know how to write themselves.
type Encodable interface {
	EncodeTo(s Serializer) error
}

type SeqEncoder interface {
	Element(v Encodable) error
	End() error
}

type MapEncoder interface {
	Key(k Encodable) error
	Value(v Encodable) error
	End() error
}

type StructEncoder interface {
	Field(key string, v Encodable) error
	End() error
}

// DecodeFunc adapts a function to Decodable.
type DecodeFunc func(d Deserializer) error

func (f DecodeFunc) DecodeFrom(d Deserializer) error { return f(d) }

// EncodeFunc adapts a function to Encodable.
type EncodeFunc func(s Serializer) error

func (f EncodeFunc) EncodeTo(s Serializer) error { return f(s) }

// BaseVisitor rejects every value. Embed it and override the methods for the
// shapes a binding accepts.
type BaseVisitor struct{}

func (BaseVisitor) VisitBool(bool) error         { return invalidType("bool", "") }
func (BaseVisitor) VisitInt(int64) error         { return invalidType("integer", "") }
func (BaseVisitor) VisitUint(uint64) error       { return invalidType("unsigned integer", "") }
func (BaseVisitor) VisitFloat(float64) error     { return invalidType("float", "") }
func (BaseVisitor) VisitChar(rune) error         { return invalidType("char", "") }
func (BaseVisitor) VisitStr(string) error        { return invalidType("string", "") }
func (BaseVisitor) VisitString(string) error     { return invalidType("string", "") }
func (BaseVisitor) VisitBytes([]byte) error      { return invalidType("bytes", "") }
func (BaseVisitor) VisitUnit() error             { return invalidType("null", "") }
func (BaseVisitor) VisitNone() error             { return invalidType("null", "") }
func (BaseVisitor) VisitSome(Deserializer) error { return invalidType("optional value", "") }
func (BaseVisitor) VisitSeq(SeqAccess) error     { return invalidType("array", "") }
func (BaseVisitor) VisitMap(MapAccess) error     { return invalidType("object", "") }
func (BaseVisitor) VisitEnum(EnumAccess) error   { return invalidType("enum", "") }

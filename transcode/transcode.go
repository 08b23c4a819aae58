// Package transcode converts JSON text to and from MessagePack, CBOR and
// google.protobuf.Value. The JSON side is decoded with pulljson's generic
// binding, so objects become map[string]any, integers int64 and other
// numbers float64 before they are handed to the target encoder.
package transcode

import (
	"fmt"
	"reflect"

	"github.com/biggeezerdevelopment/pulljson"
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/types/known/structpb"
)

// Transcoder carries the pulljson settings used for the JSON side. The zero
// value is ready to use.
type Transcoder struct {
	JSON pulljson.Config

	// DeterministicCBOR selects RFC 8949 core deterministic encoding, which
	// sorts map keys, instead of the preferred unsorted encoding.
	DeterministicCBOR bool
}

var (
	cborDec     cbor.DecMode
	cborEnc     cbor.EncMode
	cborDetEnc  cbor.EncMode
	defaultConv Transcoder
)

func init() {
	var err error
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	if cborEnc, err = cbor.PreferredUnsortedEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if cborDetEnc, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
}

func (t Transcoder) decodeJSON(data []byte) (any, error) {
	var v any
	if err := t.JSON.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("transcode: decode json: %w", err)
	}
	return v, nil
}

func (t Transcoder) encodeJSON(v any) ([]byte, error) {
	b, err := t.JSON.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("transcode: encode json: %w", err)
	}
	return b, nil
}

// ToMsgpack converts one JSON value to MessagePack.
func (t Transcoder) ToMsgpack(data []byte) ([]byte, error) {
	v, err := t.decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(v)
}

// FromMsgpack converts one MessagePack value to JSON text. Binary strings
// come out as arrays of byte values.
func (t Transcoder) FromMsgpack(b []byte) ([]byte, error) {
	var v any
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("transcode: decode msgpack: %w", err)
	}
	return t.encodeJSON(v)
}

// ToCBOR converts one JSON value to CBOR.
func (t Transcoder) ToCBOR(data []byte) ([]byte, error) {
	v, err := t.decodeJSON(data)
	if err != nil {
		return nil, err
	}
	if t.DeterministicCBOR {
		return cborDetEnc.Marshal(v)
	}
	return cborEnc.Marshal(v)
}

// FromCBOR converts one CBOR value to JSON text. Maps must have text keys.
func (t Transcoder) FromCBOR(b []byte) ([]byte, error) {
	var v any
	if err := cborDec.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("transcode: decode cbor: %w", err)
	}
	return t.encodeJSON(v)
}

// ToProto converts one JSON value to a google.protobuf.Value. Protobuf
// numbers are doubles, so integers beyond 2^53 lose precision.
func (t Transcoder) ToProto(data []byte) (*structpb.Value, error) {
	v, err := t.decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return structpb.NewValue(v)
}

// FromProto converts a google.protobuf.Value to JSON text.
func (t Transcoder) FromProto(v *structpb.Value) ([]byte, error) {
	return t.encodeJSON(v.AsInterface())
}

func ToMsgpack(data []byte) ([]byte, error)        { return defaultConv.ToMsgpack(data) }
func FromMsgpack(b []byte) ([]byte, error)         { return defaultConv.FromMsgpack(b) }
func ToCBOR(data []byte) ([]byte, error)           { return defaultConv.ToCBOR(data) }
func FromCBOR(b []byte) ([]byte, error)            { return defaultConv.FromCBOR(b) }
func ToProto(data []byte) (*structpb.Value, error) { return defaultConv.ToProto(data) }
func FromProto(v *structpb.Value) ([]byte, error)  { return defaultConv.FromProto(v) }

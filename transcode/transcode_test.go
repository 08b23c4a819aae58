package transcode

import (
	"math"
	"testing"

	"github.com/biggeezerdevelopment/pulljson"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var documents = []string{
	`null`,
	`true`,
	`-12`,
	`2.5`,
	`"esc\"aped"`,
	`[]`,
	`{}`,
	`[1,"two",false,null,{"k":[]}]`,
	`{"id":42,"name":"ada","tags":["x","y"],"score":0.25,"parent":null}`,
}

func TestMsgpack_RoundTrip(t *testing.T) {
	for _, doc := range documents {
		t.Run(doc, func(t *testing.T) {
			mp, err := ToMsgpack([]byte(doc))
			require.NoError(t, err)

			back, err := FromMsgpack(mp)
			require.NoError(t, err)
			assert.JSONEq(t, doc, string(back))
		})
	}
}

func TestMsgpack_Types(t *testing.T) {
	mp, err := ToMsgpack([]byte(`{"n":-3,"f":1.5,"s":"x"}`))
	require.NoError(t, err)

	var got struct {
		N int64   `msgpack:"n"`
		F float64 `msgpack:"f"`
		S string  `msgpack:"s"`
	}
	require.NoError(t, msgpack.Unmarshal(mp, &got))
	assert.Equal(t, int64(-3), got.N)
	assert.Equal(t, 1.5, got.F)
	assert.Equal(t, "x", got.S)
}

func TestFromMsgpack_Binary(t *testing.T) {
	mp, err := msgpack.Marshal(map[string]any{"raw": []byte{1, 2}})
	require.NoError(t, err)

	out, err := FromMsgpack(mp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":[1,2]}`, string(out))
}

func TestCBOR_RoundTrip(t *testing.T) {
	for _, det := range []bool{false, true} {
		tc := Transcoder{DeterministicCBOR: det}
		for _, doc := range documents {
			t.Run(doc, func(t *testing.T) {
				cb, err := tc.ToCBOR([]byte(doc))
				require.NoError(t, err)

				back, err := tc.FromCBOR(cb)
				require.NoError(t, err)
				assert.JSONEq(t, doc, string(back))
			})
		}
	}
}

func TestCBOR_DeterministicSortsKeys(t *testing.T) {
	tc := Transcoder{DeterministicCBOR: true}
	a, err := tc.ToCBOR([]byte(`{"b":1,"a":2,"c":{"z":0,"y":1}}`))
	require.NoError(t, err)
	b, err := tc.ToCBOR([]byte(`{"c":{"y":1,"z":0},"a":2,"b":1}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromCBOR_NonTextKeys(t *testing.T) {
	cb, err := cbor.Marshal(map[int]string{1: "one"})
	require.NoError(t, err)

	_, err = FromCBOR(cb)
	assert.Error(t, err)
}

func TestProto_RoundTrip(t *testing.T) {
	for _, doc := range documents {
		t.Run(doc, func(t *testing.T) {
			pv, err := ToProto([]byte(doc))
			require.NoError(t, err)

			wire, err := proto.Marshal(pv)
			require.NoError(t, err)
			var decoded structpb.Value
			require.NoError(t, proto.Unmarshal(wire, &decoded))

			back, err := FromProto(&decoded)
			require.NoError(t, err)
			assert.JSONEq(t, doc, string(back))
		})
	}
}

func TestProto_Kinds(t *testing.T) {
	pv, err := ToProto([]byte(`{"n":7,"list":[true]}`))
	require.NoError(t, err)

	fields := pv.GetStructValue().GetFields()
	assert.Equal(t, 7.0, fields["n"].GetNumberValue())
	assert.True(t, fields["list"].GetListValue().GetValues()[0].GetBoolValue())
}

func TestInvalidJSON(t *testing.T) {
	_, err := ToMsgpack([]byte(`{"a":`))
	assert.ErrorIs(t, err, pulljson.ErrUnexpectedEOF)

	_, err = ToCBOR([]byte(`[1,]`))
	assert.ErrorIs(t, err, pulljson.ErrInvalidValue)

	_, err = ToProto([]byte(`1 2`))
	assert.ErrorIs(t, err, pulljson.ErrTrailingData)

	tc := Transcoder{JSON: pulljson.Config{AllowTrailingData: true}}
	_, err = tc.ToProto([]byte(`1 2`))
	assert.NoError(t, err)
}

func TestNonFiniteFloatsFromBinaryFormats(t *testing.T) {
	cb, err := cbor.Marshal(map[string]float64{"x": math.Inf(1)})
	require.NoError(t, err)

	_, err = FromCBOR(cb)
	assert.ErrorIs(t, err, pulljson.ErrUnsupportedValue)
}

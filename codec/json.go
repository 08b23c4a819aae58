package codec

import "github.com/biggeezerdevelopment/pulljson"

// JSON is a Codec backed by pulljson. The zero value uses the default
// pulljson.Config.
type JSON[V any] struct {
	Config pulljson.Config
}

var _ Codec[struct{}] = JSON[struct{}]{}

func (c JSON[V]) Encode(v V) ([]byte, error) { return c.Config.Marshal(v) }
func (c JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.Config.Unmarshal(b, &v)
	return v, err
}

package codec

import "github.com/unkn0wn-root/jsonable"

// JSON adapts a jsonable.Converter to Codec. The zero value uses
// jsonable.Default[V]().
type JSON[V any] struct {
	Converter jsonable.Converter[V]
}

var _ Codec[struct{}] = JSON[struct{}]{}

func (c JSON[V]) conv() jsonable.Converter[V] {
	if c.Converter != nil {
		return c.Converter
	}
	return jsonable.Default[V]()
}

func (c JSON[V]) Encode(v V) ([]byte, error) { return c.conv().ToJSONBytes(v) }
func (c JSON[V]) Decode(b []byte) (V, error) { return c.conv().FromJSONBytes(b) }
func (JSON[V]) ContentType() string         { return ContentTypeJSON }

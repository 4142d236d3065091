package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a Codec that serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Msgpack does not read `json` tags; use `msgpack:"fieldName"` tags if you
// need the same field names in both formats.
type Msgpack[V any] struct{}

func (Msgpack[V]) ContentType() string { return ContentTypeMsgpack }

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	return b, structural(err)
}

func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	if err := msgpack.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, structural(err)
	}
	return v, nil
}

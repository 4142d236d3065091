// Package codec puts JSON and the other serialization formats behind one
// generic Codec[V] surface. Every error a codec returns is a *jsonable.Error,
// so callers match on the same two kinds regardless of the format.
package codec

import "github.com/unkn0wn-root/jsonable"

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// ContentTyper is implemented by codecs that know their MIME type.
// kv uses it to tag stored entries with their format.
type ContentTyper interface {
	ContentType() string
}

const (
	ContentTypeJSON     = "application/json"
	ContentTypeMsgpack  = "application/msgpack"
	ContentTypeCBOR     = "application/cbor"
	ContentTypeProtobuf = "application/x-protobuf"
)

// structural wraps err unless it already carries a kind.
func structural(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := jsonable.KindOf(err); ok {
		return err
	}
	return jsonable.Structural(err)
}

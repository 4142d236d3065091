package codec

import (
	"fmt"

	"github.com/unkn0wn-root/jsonable"
)

// Limit wraps another codec to enforce a maximum allowed payload size
// at Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized inputs coming from a shared
// store or untrusted source.
type Limit[V any] struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec[V]
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Decode. Oversize payloads fail with a structural error
	// wrapping jsonable.ErrPayloadTooLarge without invoking Inner.
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

// ContentType forwards to Inner when it reports one.
func (c Limit[V]) ContentType() string {
	if ct, ok := c.Inner.(ContentTyper); ok {
		return ct.ContentType()
	}
	return ""
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, jsonable.Structural(fmt.Errorf("%w: %d > %d", jsonable.ErrPayloadTooLarge, len(b), c.MaxDecode))
	}
	return c.Inner.Decode(b)
}

package codec

import (
	"bytes"
	"io"

	"github.com/unkn0wn-root/jsonable"
)

// EncodeTo encodes v with c and writes the bytes to w. A failed or short write
// is a transport error; bytes already written are not rolled back.
func EncodeTo[V any](c Codec[V], v V, w io.Writer) error {
	if w == nil {
		return jsonable.Transport(jsonable.ErrNilWriter)
	}
	b, err := c.Encode(v)
	if err != nil {
		return structural(err)
	}
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return jsonable.Transport(err)
	}
	return nil
}

// DecodeFrom reads r to EOF and decodes the bytes with c.
func DecodeFrom[V any](c Codec[V], r io.Reader) (V, error) {
	var zero V
	if r == nil {
		return zero, jsonable.Transport(jsonable.ErrNilReader)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return zero, jsonable.Transport(err)
	}
	v, err := c.Decode(buf.Bytes())
	if err != nil {
		return zero, structural(err)
	}
	return v, nil
}

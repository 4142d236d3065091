package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("jsonable: corrupt entry")
	magic4     = [...]byte{'J', 'S', 'N', 'B'}
)

// Format identifies the codec that produced a payload.
type Format byte

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatMsgpack
	FormatCBOR
	FormatProtobuf
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames a payload:
//
//	magic(4) | ver(1) | format(1) | xxhash64(payload, be) | vlen(u32 be) | payload(vlen)
func Encode(f Format, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(f))

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], xxhash.Sum64(payload))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode validates a frame and returns its format and payload. The payload
// aliases b. Trailing bytes, a bad checksum, or a bad header are ErrCorrupt.
func Decode(b []byte) (Format, []byte, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return FormatUnknown, nil, ErrCorrupt
	}
	f := Format(b[5])
	off := 6

	sum := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // overflow-safe, rejects trailing bytes
		return FormatUnknown, nil, ErrCorrupt
	}

	payload := b[off : off+vlen]
	if xxhash.Sum64(payload) != sum {
		return FormatUnknown, nil, errors.Wrap(ErrCorrupt, "checksum mismatch")
	}
	return f, payload, nil
}

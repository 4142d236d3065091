package codec

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Protobuf encodes proto messages in the binary wire format.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *mypb.User { return &mypb.User{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (Protobuf[T]) ContentType() string { return ContentTypeProtobuf }

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	b, err := proto.Marshal(v)
	return b, structural(err)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	if err := proto.Unmarshal(b, m); err != nil {
		var zero T
		return zero, structural(err)
	}
	return m, nil
}

// ProtoJSON encodes proto messages as canonical proto3 JSON (json_name,
// well-known types). protojson output whitespace is not stable across
// releases; never compare it byte-for-byte.
type ProtoJSON[T proto.Message] struct {
	new func() T
	mo  protojson.MarshalOptions
	uo  protojson.UnmarshalOptions
}

// NewProtoJSON builds a compact ProtoJSON codec. Unknown fields are rejected on decode.
func NewProtoJSON[T proto.Message](ctor func() T) ProtoJSON[T] {
	return ProtoJSON[T]{new: ctor}
}

func (ProtoJSON[T]) ContentType() string { return ContentTypeJSON }

// Pretty returns a copy that indents output with two spaces.
func (c ProtoJSON[T]) Pretty() ProtoJSON[T] {
	c.mo.Multiline = true
	c.mo.Indent = "  "
	return c
}

// DiscardUnknown returns a copy that ignores unknown fields on decode.
func (c ProtoJSON[T]) DiscardUnknown() ProtoJSON[T] {
	c.uo.DiscardUnknown = true
	return c
}

func (c ProtoJSON[T]) Encode(v T) ([]byte, error) {
	b, err := c.mo.Marshal(v)
	return b, structural(err)
}

func (c ProtoJSON[T]) Decode(b []byte) (T, error) {
	m := c.new()
	if err := c.uo.Unmarshal(b, m); err != nil {
		var zero T
		return zero, structural(err)
	}
	return m, nil
}

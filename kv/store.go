// Package kv persists values as framed documents in a provider.Provider.
//
// Keys:
//
//	doc:<ns>:<key>
//
// Every entry is framed by internal/wire (magic, version, format, checksum,
// length). Provider failures are transport errors; encoding, decoding and
// frame failures are structural errors (see jsonable.Kind).
package kv

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/unkn0wn-root/jsonable"
	"github.com/unkn0wn-root/jsonable/codec"
	"github.com/unkn0wn-root/jsonable/internal/wire"
	pr "github.com/unkn0wn-root/jsonable/provider"
)

var ErrFormatMismatch = errors.New("kv: stored format differs from codec format")

type SetCostFunc func(key string, raw []byte) int64

// Options configure a Store. Namespace and Provider are required.
type Options[V any] struct {
	Namespace string // logical namespace to avoid collisions. e.g. "user", "order"
	Provider  pr.Provider
	Codec     codec.Codec[V] // nil => codec.JSON[V]{}

	Logger      jsonable.Logger // if nil, NopLogger is used
	DefaultTTL  time.Duration   // used when Put gets ttl == 0; 0 => no expiry
	ComputeCost SetCostFunc     // default: len(raw)
}

// Store reads and writes V values under one namespace.
// Safe for concurrent use when the provider is.
type Store[V any] struct {
	ns         string
	provider   pr.Provider
	codec      codec.Codec[V]
	format     wire.Format
	log        jsonable.Logger
	defaultTTL time.Duration
	cost       SetCostFunc
}

func New[V any](opts Options[V]) (*Store[V], error) {
	if opts.Provider == nil {
		return nil, errors.New("kv: provider is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("kv: namespace is required")
	}

	s := &Store[V]{
		ns:         opts.Namespace,
		provider:   opts.Provider,
		codec:      opts.Codec,
		log:        opts.Logger,
		defaultTTL: opts.DefaultTTL,
		cost:       opts.ComputeCost,
	}
	if s.codec == nil {
		s.codec = codec.JSON[V]{}
	}
	if s.log == nil {
		s.log = jsonable.NopLogger{}
	}
	if s.cost == nil {
		s.cost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	}
	s.format = formatOf(s.codec)
	return s, nil
}

func formatOf(c any) wire.Format {
	ct, ok := c.(codec.ContentTyper)
	if !ok {
		return wire.FormatUnknown
	}
	switch ct.ContentType() {
	case codec.ContentTypeJSON:
		return wire.FormatJSON
	case codec.ContentTypeMsgpack:
		return wire.FormatMsgpack
	case codec.ContentTypeCBOR:
		return wire.FormatCBOR
	case codec.ContentTypeProtobuf:
		return wire.FormatProtobuf
	default:
		return wire.FormatUnknown
	}
}

// Put encodes v and stores it under key. ttl == 0 uses Options.DefaultTTL.
// It returns ok=false when the provider rejected the write under pressure.
func (s *Store[V]) Put(ctx context.Context, key string, v V, ttl time.Duration) (bool, error) {
	payload, err := s.codec.Encode(v)
	if err != nil {
		return false, asStructural(err)
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	k := s.docKey(key)
	raw := wire.Encode(s.format, payload)
	ok, err := s.provider.Set(ctx, k, raw, s.cost(k, raw), ttl)
	if err != nil {
		return false, jsonable.Transport(err)
	}
	if !ok {
		s.log.Debug("put rejected by provider (pressure)", jsonable.Fields{"key": key})
	}
	return ok, nil
}

// Get returns (v, true, nil) on hit and (zero, false, nil) on miss.
//
// Entries with a broken frame are deleted and reported as a miss. An intact
// entry that cannot be decoded, or was written by a codec of another format,
// is left in place and returned as a structural error.
func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	k := s.docKey(key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil {
		return zero, false, jsonable.Transport(err)
	}
	if !ok {
		return zero, false, nil
	}
	f, payload, err := wire.Decode(raw)
	if err != nil {
		_ = s.provider.Del(ctx, k) // self-heal corrupt
		s.log.Warn("dropped corrupt entry", jsonable.Fields{"key": key, "err": err})
		return zero, false, nil
	}
	if f != s.format && f != wire.FormatUnknown && s.format != wire.FormatUnknown {
		return zero, false, jsonable.Structural(errors.Wrapf(ErrFormatMismatch, "key %q: stored %d, codec %d", key, f, s.format))
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return zero, false, asStructural(err)
	}
	return v, true, nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store[V]) Delete(ctx context.Context, key string) error {
	if err := s.provider.Del(ctx, s.docKey(key)); err != nil {
		return jsonable.Transport(err)
	}
	return nil
}

// Close closes the provider.
func (s *Store[V]) Close(ctx context.Context) error {
	if err := s.provider.Close(ctx); err != nil {
		return jsonable.Transport(err)
	}
	return nil
}

func (s *Store[V]) docKey(userKey string) string {
	// isolate by namespace
	return "doc:" + s.ns + ":" + userKey
}

func asStructural(err error) error {
	if _, ok := jsonable.KindOf(err); ok {
		return err
	}
	return jsonable.Structural(err)
}

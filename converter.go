package jsonable

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/unkn0wn-root/jsonable/engine"
)

// validate is shared by all converters; it caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

const (
	opToJSON         = "to_json"
	opToJSONPretty   = "to_json_pretty"
	opToJSONWriter   = "to_json_writer"
	opFromJSON       = "from_json"
	opFromJSONReader = "from_json_reader"
)

type converter[T any] struct {
	typeName  string
	engine    engine.Engine
	indent    string
	maxDecode int64
	checkTags bool
	strictUTF bool
	log       Logger
	hooks     Hooks
}

var _ Converter[struct{}] = (*converter[struct{}])(nil)

func newConverter[T any](opts Options) (*converter[T], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	c := &converter[T]{
		typeName:  t.String(),
		maxDecode: opts.MaxDecode,
		checkTags: !opts.SkipValidation && holdsStructs(t, map[reflect.Type]bool{}),
		strictUTF: !opts.AllowInvalidUTF8,
	}

	// defaults
	c.engine = coalesce[engine.Engine](opts.Engine, engine.Default())
	c.indent = coalesce(opts.Indent, defaultIndent)
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return c, nil
}

// holdsStructs reports whether values of t can carry structs with `validate`
// tags: structs, pointers to them, and slices, arrays or maps of either.
func holdsStructs(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		return holdsStructs(t.Elem(), seen)
	default:
		return false
	}
}

func (c *converter[T]) ToJSON(v T) (string, error) {
	b, err := c.encode(opToJSON, v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *converter[T]) ToJSONBytes(v T) ([]byte, error) {
	return c.encode(opToJSON, v)
}

func (c *converter[T]) ToJSONPretty(v T) (string, error) {
	b, err := c.engine.MarshalIndent(v, "", c.indent)
	if err != nil {
		return "", c.encodeFailed(opToJSONPretty, Structural(err))
	}
	return string(b), nil
}

func (c *converter[T]) ToJSONWriter(v T, w io.Writer) error {
	if w == nil {
		return c.encodeFailed(opToJSONWriter, Transport(ErrNilWriter))
	}
	b, err := c.encode(opToJSONWriter, v)
	if err != nil {
		return err
	}
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return c.encodeFailed(opToJSONWriter, Transport(err))
	}
	return nil
}

func (c *converter[T]) FromJSON(s string) (T, error) {
	return c.decode(opFromJSON, []byte(s))
}

func (c *converter[T]) FromJSONBytes(b []byte) (T, error) {
	return c.decode(opFromJSON, b)
}

func (c *converter[T]) FromJSONReader(r io.Reader) (T, error) {
	var zero T
	if r == nil {
		return zero, c.decodeFailed(opFromJSONReader, Transport(ErrNilReader))
	}
	if c.maxDecode > 0 {
		// read one byte past the limit so oversize input is detected without buffering it all
		r = io.LimitReader(r, c.maxDecode+1)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return zero, c.decodeFailed(opFromJSONReader, Transport(err))
	}
	return c.decode(opFromJSONReader, buf.Bytes())
}

func (c *converter[T]) encode(op string, v T) ([]byte, error) {
	b, err := c.engine.Marshal(v)
	if err != nil {
		return nil, c.encodeFailed(op, Structural(err))
	}
	return b, nil
}

func (c *converter[T]) decode(op string, b []byte) (T, error) {
	var v T
	if n := int64(len(b)); c.maxDecode > 0 && n > c.maxDecode {
		c.hooks.PayloadRejected(c.typeName, n, c.maxDecode)
		c.log.Warn("payload rejected (too large)", Fields{"type": c.typeName, "op": op, "size": n, "limit": c.maxDecode})
		return v, c.decodeFailed(op, Structural(fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, n, c.maxDecode)))
	}
	if c.strictUTF && !utf8.Valid(b) {
		return v, c.decodeFailed(op, Structural(fmt.Errorf("%w at byte %d", ErrInvalidUTF8, firstInvalidUTF8(b))))
	}
	if err := c.engine.Unmarshal(b, &v); err != nil {
		var zero T
		return zero, c.decodeFailed(op, Structural(err))
	}
	if err := c.check(v); err != nil {
		var zero T
		return zero, c.decodeFailed(op, Structural(err))
	}
	return v, nil
}

// check runs `validate` struct tags on decoded structs, including every
// element of decoded slices, arrays and maps; this is how a missing required
// field surfaces as a structural failure.
func (c *converter[T]) check(v T) error {
	if !c.checkTags {
		return nil
	}
	return checkValue(reflect.ValueOf(v))
}

func checkValue(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return checkValue(rv.Elem())
	case reflect.Struct:
		return validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := checkValue(rv.Index(i)); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := checkValue(iter.Value()); err != nil {
				return errors.Wrapf(err, "key %v", iter.Key())
			}
		}
	}
	return nil
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func (c *converter[T]) encodeFailed(op string, err *Error) *Error {
	c.hooks.EncodeFailed(c.typeName, op, err)
	c.log.Debug("encode failed", Fields{"type": c.typeName, "op": op, "kind": err.Kind.String(), "err": err.Err})
	return err
}

func (c *converter[T]) decodeFailed(op string, err *Error) *Error {
	c.hooks.DecodeFailed(c.typeName, op, err)
	c.log.Debug("decode failed", Fields{"type": c.typeName, "op": op, "kind": err.Kind.String(), "err": err.Err})
	return err
}

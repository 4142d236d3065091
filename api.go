package jsonable

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/unkn0wn-root/jsonable/engine"
)

// Converter is the conversion surface for values of type T.
// Every method is all-or-nothing: on error the zero T is returned.
type Converter[T any] interface {
	// ToJSON returns the compact encoding of v.
	ToJSON(v T) (string, error)
	// ToJSONPretty returns v indented with Options.Indent, one field per line.
	ToJSONPretty(v T) (string, error)
	// ToJSONBytes is ToJSON without the string copy.
	ToJSONBytes(v T) ([]byte, error)
	// ToJSONWriter writes the compact encoding of v to w. No trailing newline.
	ToJSONWriter(v T, w io.Writer) error

	// FromJSON decodes s. Input that is not valid UTF-8 fails with
	// ErrInvalidUTF8 unless Options.AllowInvalidUTF8 is set, in which case
	// bad bytes inside strings decode as U+FFFD.
	FromJSON(s string) (T, error)
	FromJSONBytes(b []byte) (T, error)
	// FromJSONReader reads r to EOF and decodes the bytes like FromJSON. r is not closed.
	FromJSONReader(r io.Reader) (T, error)
}

// Options tune a Converter. The zero value is ready to use.
type Options struct {
	Engine           engine.Engine // nil => goccy/go-json
	Indent           string        // pretty indent; "" => two spaces. Spaces and tabs only.
	MaxDecode        int64         // max bytes accepted by the From* methods; <= 0 disables
	SkipValidation   bool          // default false => `validate` struct tags are checked after decode
	AllowInvalidUTF8 bool          // default false => non-UTF-8 input fails with ErrInvalidUTF8
	Logger           Logger        // if nil, NopLogger is used
	Hooks            Hooks         // if nil, NopHooks is used
}

// New builds a Converter for T.
func New[T any](opts Options) (Converter[T], error) {
	return newConverter[T](opts)
}

func (o Options) validate() error {
	if strings.Trim(o.Indent, " \t") != "" {
		return errors.Newf("jsonable: indent must contain only spaces or tabs, got %q", o.Indent)
	}
	return nil
}

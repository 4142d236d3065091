package jsonable

import (
	"github.com/cockroachdb/errors"
)

// Kind tells where a failure came from.
type Kind uint8

const (
	// KindTransport marks failures reading from or writing to a stream.
	KindTransport Kind = iota + 1
	// KindStructural marks failures to encode or decode a value.
	KindStructural
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "IO error"
	case KindStructural:
		return "Json error"
	default:
		return "unknown error"
	}
}

var (
	// ErrTransport and ErrStructural match any *Error of the same kind with errors.Is.
	ErrTransport  = &Error{Kind: KindTransport}
	ErrStructural = &Error{Kind: KindStructural}

	ErrPayloadTooLarge = errors.New("payload too large")
	ErrNilWriter       = errors.New("nil writer")
	ErrNilReader       = errors.New("nil reader")
	ErrInvalidUTF8     = errors.New("invalid UTF-8")
)

// Error is the single error type returned by conversions. Err is the
// original cause and is never nil for errors built by Transport/Structural.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a kind marker (an *Error without a cause) of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Transport wraps an I/O failure. Returns nil for a nil err.
func Transport(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransport, Err: err}
}

// Structural wraps an encode/decode failure. Returns nil for a nil err.
func Structural(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStructural, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}

func IsTransport(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindTransport
}

func IsStructural(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindStructural
}

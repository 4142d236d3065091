// Package engine adapts third-party JSON libraries to the small surface
// jsonable needs. Every engine produces the encoding/json text layout:
// struct fields in declaration order and no whitespace in compact form.
//
// Goccy and Std are built in. The sonic and json-iterator engines live in
// engine/sonic and engine/jsoniter so their dependencies are only linked
// when imported; importing either package registers it with ByName.
package engine

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Engine encodes and decodes JSON. Implementations must be safe for concurrent use.
type Engine interface {
	Name() string
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

const (
	NameGoccy    = "goccy"
	NameStd      = "std"
	NameJsoniter = "jsoniter"
	NameSonic    = "sonic"
)

var ErrUnknownEngine = errors.New("engine: unknown name")

var (
	mu       sync.RWMutex
	registry = map[string]Engine{}
)

func init() {
	Register(Goccy{})
	Register(Std{})
}

// Register makes e available through ByName and All. It panics if e is nil
// or its name is empty or already taken.
func Register(e Engine) {
	if e == nil {
		panic("engine: Register of nil engine")
	}
	name := e.Name()
	if name == "" {
		panic("engine: Register of engine with empty name")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for " + name)
	}
	registry[name] = e
}

// Default is the engine used when none is configured.
func Default() Engine { return Goccy{} }

// ByName returns the engine registered under name. "" yields Default.
func ByName(name string) (Engine, error) {
	if name == "" {
		return Default(), nil
	}
	mu.RLock()
	e, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", name)
	}
	return e, nil
}

// All lists every registered engine, sorted by name.
func All() []Engine {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Engine, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

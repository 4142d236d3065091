// Package jsoniter registers a json-iterator engine. Import it for side
// effects to make engine.ByName("jsoniter") available, or use Engine directly.
package jsoniter

import (
	"bytes"
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/unkn0wn-root/jsonable/engine"
)

// Engine uses json-iterator configured for full encoding/json compatibility
// (sorted map keys, HTML escaping, std number handling).
type Engine struct{}

var (
	_ engine.Engine = Engine{}

	api = jsoniter.ConfigCompatibleWithStandardLibrary
)

func init() { engine.Register(Engine{}) }

func (Engine) Name() string                  { return engine.NameJsoniter }
func (Engine) Marshal(v any) ([]byte, error) { return api.Marshal(v) }

// MarshalIndent: json-iterator only indents with spaces and panics on a
// non-empty prefix, so anything else is re-indented after a compact marshal.
func (Engine) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	if prefix == "" && strings.Trim(indent, " ") == "" {
		return api.MarshalIndent(v, prefix, indent)
	}
	b, err := api.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Engine) Unmarshal(b []byte, v any) error { return api.Unmarshal(b, v) }

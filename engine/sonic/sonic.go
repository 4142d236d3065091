// Package sonic registers a bytedance/sonic engine. Import it for side
// effects to make engine.ByName("sonic") available, or use Engine directly.
package sonic

import (
	"github.com/bytedance/sonic"

	"github.com/unkn0wn-root/jsonable/engine"
)

// Engine uses sonic with ConfigStd so output matches encoding/json.
// On platforms sonic's JIT does not support, sonic falls back to encoding/json.
type Engine struct{}

var (
	_ engine.Engine = Engine{}

	api = sonic.ConfigStd
)

func init() { engine.Register(Engine{}) }

func (Engine) Name() string                  { return engine.NameSonic }
func (Engine) Marshal(v any) ([]byte, error) { return api.Marshal(v) }
func (Engine) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}
func (Engine) Unmarshal(b []byte, v any) error { return api.Unmarshal(b, v) }

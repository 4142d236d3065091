package engine

import "encoding/json"

// Std uses encoding/json. It is the reference the other engines are checked against.
type Std struct{}

var _ Engine = Std{}

func (Std) Name() string                  { return NameStd }
func (Std) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (Std) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}
func (Std) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }

package engine

import "github.com/goccy/go-json"

// Goccy is backed by github.com/goccy/go-json, a drop-in faster encoding/json.
// The zero value is ready to use.
type Goccy struct{}

var _ Engine = Goccy{}

func (Goccy) Name() string                  { return NameGoccy }
func (Goccy) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (Goccy) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}
func (Goccy) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }

package jsonable

// Hooks are lightweight callbacks for failed conversions.
// Implementations MUST be cheap and non-blocking; wrap slow sinks
// with hooks/async.
type Hooks interface {
	// Encoding typeName failed.
	// op ∈ {"to_json", "to_json_pretty", "to_json_writer"}
	EncodeFailed(typeName, op string, err *Error)

	// Decoding into typeName failed.
	// op ∈ {"from_json", "from_json_reader"}
	DecodeFailed(typeName, op string, err *Error)

	// A payload bigger than Options.MaxDecode was refused before parsing.
	PayloadRejected(typeName string, size, limit int64)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) EncodeFailed(string, string, *Error)  {}
func (NopHooks) DecodeFailed(string, string, *Error)  {}
func (NopHooks) PayloadRejected(string, int64, int64) {}

// Package jsonable gives any Go type that a JSON engine can encode and decode a
// uniform set of conversions, without per-type code:
//
//	s, err := jsonable.ToJSON(person)             // compact text
//	s, err  = jsonable.ToJSONPretty(person)       // two-space indent
//	err     = jsonable.ToJSONWriter(person, w)    // into an io.Writer
//	p, err := jsonable.FromJSON[Person](s)        // from text
//	p, err  = jsonable.FromJSONReader[Person](r)  // from an io.Reader
//
// Components:
//   - Converter[T]: the conversion surface. New builds one from Options;
//     the package-level functions use a default converter per type.
//   - Error: every failure is an *Error of kind KindTransport (reading or
//     writing a caller-supplied stream failed) or KindStructural (the engine
//     could not encode/decode, or a `validate:"required"` field is missing).
//     The original cause stays reachable through errors.As / errors.Is.
//   - engine.Engine: the JSON library doing the actual work (goccy/go-json by
//     default; encoding/json is built in, json-iterator and sonic live in
//     engine/jsoniter and engine/sonic).
//
// Sinks and sources belong to the caller. A converter never closes them, and
// bytes written before a failed write are not rolled back.
package jsonable

package jsonable

import "io"

// Default returns a converter for T with zero Options.
func Default[T any]() Converter[T] {
	c, _ := newConverter[T](Options{}) // zero Options always validate
	return c
}

// ToJSON encodes v in compact form with the default converter.
//
//	type Person struct {
//		Name string `json:"name"`
//		Age  int    `json:"age"`
//	}
//
//	s, _ := jsonable.ToJSON(Person{Name: "Paul", Age: 63})
//	// s == `{"name":"Paul","age":63}`
func ToJSON[T any](v T) (string, error) { return Default[T]().ToJSON(v) }

// ToJSONPretty encodes v with two-space indentation.
func ToJSONPretty[T any](v T) (string, error) { return Default[T]().ToJSONPretty(v) }

// ToJSONWriter writes the compact form of v to w.
func ToJSONWriter[T any](v T, w io.Writer) error { return Default[T]().ToJSONWriter(v, w) }

// FromJSON decodes s into a T.
//
//	p, err := jsonable.FromJSON[Person](`{"name":"Paul","age":63}`)
func FromJSON[T any](s string) (T, error) { return Default[T]().FromJSON(s) }

// FromJSONReader reads r to EOF and decodes the result into a T.
func FromJSONReader[T any](r io.Reader) (T, error) { return Default[T]().FromJSONReader(r) }

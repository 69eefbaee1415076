package decode

import (
	"fmt"

	"github.com/tarmac-project/wmi/variant"
)

// Shape is the closed set of conversion paths a Decoder can take.
type Shape uint8

const (
	// ShapeRaw returns the variant.Value unchanged.
	ShapeRaw Shape = iota
	// ShapeScalar coerces numeric and boolean values.
	ShapeScalar
	// ShapeString materializes narrow (UTF-8) strings.
	ShapeString
	// ShapeWString materializes wide (UTF-16) strings.
	ShapeWString
	// ShapeScalarArray copies homogeneous numeric or boolean arrays.
	ShapeScalarArray
	// ShapeStringArray copies string arrays, normalizing every element.
	ShapeStringArray
)

func (s Shape) String() string {
	switch s {
	case ShapeRaw:
		return "raw"
	case ShapeScalar:
		return "scalar"
	case ShapeString:
		return "string"
	case ShapeWString:
		return "wstring"
	case ShapeScalarArray:
		return "scalar-array"
	case ShapeStringArray:
		return "string-array"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// Decoder converts a variant.Value into a T. Decoders are immutable and
// safe for concurrent use. The zero Decoder never produces a value.
type Decoder[T any] struct {
	shape Shape
	fn    func(variant.Value) (T, bool)
}

// Shape returns the conversion path taken by d.
func (d Decoder[T]) Shape() Shape { return d.shape }

// Decode converts v. The boolean result is false when v cannot be
// represented as T; the returned T is then its zero value.
func (d Decoder[T]) Decode(v variant.Value) (T, bool) {
	if d.fn == nil {
		var zero T
		return zero, false
	}
	return d.fn(v)
}

// Map derives a Decoder that converts the output of d with fn. The shape
// of d is kept.
func Map[T, U any](d Decoder[T], fn func(T) U) Decoder[U] {
	return Decoder[U]{shape: d.shape, fn: func(v variant.Value) (U, bool) {
		t, ok := d.Decode(v)
		if !ok {
			var zero U
			return zero, false
		}
		return fn(t), true
	}}
}

// Raw passes values through untouched so callers can branch on the kind.
var Raw = Decoder[variant.Value]{
	shape: ShapeRaw,
	fn:    func(v variant.Value) (variant.Value, bool) { return v, true },
}

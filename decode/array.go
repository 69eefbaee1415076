package decode

import (
	"github.com/tarmac-project/wmi/variant"
)

// elements returns the items of v when v is an attached array whose
// element kind passes accept.
func elements(v variant.Value, accept func(variant.Kind) bool) ([]variant.Value, bool) {
	if v.Kind() != variant.KindArray || !v.Attached() || !accept(v.ElemKind()) {
		return nil, false
	}
	out := make([]variant.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out, true
}

// Array builds an all-or-nothing Decoder for arrays whose element kind is
// exactly elem. Every element is converted with d; one failure discards the
// whole result.
func Array[T any](elem variant.Kind, d Decoder[T]) Decoder[[]T] {
	return Decoder[[]T]{shape: ShapeScalarArray, fn: func(v variant.Value) ([]T, bool) {
		items, ok := elements(v, func(k variant.Kind) bool { return k == elem })
		if !ok {
			return nil, false
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			t, ok := d.Decode(item)
			if !ok {
				return nil, false
			}
			out = append(out, t)
		}
		return out, true
	}}
}

// TextArray builds a Decoder for arrays of narrow or wide strings. The
// raw string handles are taken first and then each is normalized and
// materialized with fn; normalization of a string handle cannot fail.
func TextArray[T any](fn func(string) T) Decoder[[]T] {
	return Decoder[[]T]{shape: ShapeStringArray, fn: func(v variant.Value) ([]T, bool) {
		items, ok := elements(v, variant.Kind.IsText)
		if !ok {
			return nil, false
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			s, _ := text(item)
			out = append(out, fn(s))
		}
		return out, true
	}}
}

// Array decoders.
var (
	Bools = Array(variant.KindBool, Bool)

	Int8s  = Array(variant.KindInt8, Int8)
	Int16s = Array(variant.KindInt16, Int16)
	Int32s = Array(variant.KindInt32, Int32)
	Int64s = Array(variant.KindInt64, Int64)

	Uint8s  = Array(variant.KindUint8, Uint8)
	Uint16s = Array(variant.KindUint16, Uint16)
	Uint32s = Array(variant.KindUint32, Uint32)
	Uint64s = Array(variant.KindUint64, Uint64)

	Float32s = Array(variant.KindFloat32, Float32)
	Float64s = Array(variant.KindFloat64, Float64)

	Strings  = TextArray(func(s string) string { return s })
	WStrings = TextArray(variant.EncodeWide)
)

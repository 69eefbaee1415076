package decode

import (
	"strconv"

	"github.com/tarmac-project/wmi/variant"
)

// text normalizes v into the encoding-agnostic form shared by the narrow
// and wide string shapes. Numbers and booleans are formatted the way the
// service formats them when it changes a value to a string.
func text(v variant.Value) (string, bool) {
	switch k := v.Kind(); {
	case k == variant.KindString:
		return v.AsString()
	case k == variant.KindWString:
		w, _ := v.AsWString()
		return w.String(), true
	case k == variant.KindBool:
		if b, _ := v.AsBool(); b {
			return "True", true
		}
		return "False", true
	case k.IsSigned():
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10), true
	case k.IsUnsigned():
		u, _ := v.AsUint()
		return strconv.FormatUint(u, 10), true
	case k == variant.KindFloat32:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 32), true
	case k == variant.KindFloat64:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	return "", false
}

// Text builds a Decoder that normalizes the value to text and then
// materializes it with fn. Both String and WString are built this way.
func Text[T any](shape Shape, fn func(string) T) Decoder[T] {
	return Decoder[T]{shape: shape, fn: func(v variant.Value) (T, bool) {
		s, ok := text(v)
		if !ok {
			var zero T
			return zero, false
		}
		return fn(s), true
	}}
}

var (
	// String decodes into a narrow Go string.
	String = Text(ShapeString, func(s string) string { return s })

	// WString decodes into UTF-16 code units.
	WString = Text(ShapeWString, variant.EncodeWide)
)

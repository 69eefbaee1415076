package decode

import (
	"math"
	"strconv"

	"github.com/tarmac-project/wmi/variant"
)

type numClass uint8

const (
	classSigned numClass = iota
	classUnsigned
	classFloat
)

// number is the widened form of any scalar Value.
type number struct {
	class numClass
	i     int64
	u     uint64
	f     float64
}

func numeric(v variant.Value) (number, bool) {
	switch k := v.Kind(); {
	case k == variant.KindBool:
		b, _ := v.AsBool()
		if b {
			return number{class: classSigned, i: 1}, true
		}
		return number{class: classSigned}, true
	case k.IsSigned():
		i, _ := v.AsInt()
		return number{class: classSigned, i: i}, true
	case k.IsUnsigned():
		u, _ := v.AsUint()
		return number{class: classUnsigned, u: u}, true
	case k.IsFloat():
		f, _ := v.AsFloat()
		return number{class: classFloat, f: f}, true
	}
	return number{}, false
}

func (n number) signed(bits int) (int64, bool) {
	hi := int64(1)<<(bits-1) - 1
	lo := -hi - 1
	switch n.class {
	case classSigned:
		if n.i < lo || n.i > hi {
			return 0, false
		}
		return n.i, true
	case classUnsigned:
		if n.u > uint64(hi) {
			return 0, false
		}
		return int64(n.u), true
	}
	f := math.RoundToEven(n.f)
	limit := math.Ldexp(1, bits-1)
	if math.IsNaN(f) || f < -limit || f >= limit {
		return 0, false
	}
	return int64(f), true
}

func (n number) unsigned(bits int) (uint64, bool) {
	hi := uint64(1)<<bits - 1
	switch n.class {
	case classSigned:
		if n.i < 0 || uint64(n.i) > hi {
			return 0, false
		}
		return uint64(n.i), true
	case classUnsigned:
		if n.u > hi {
			return 0, false
		}
		return n.u, true
	}
	f := math.RoundToEven(n.f)
	if math.IsNaN(f) || f < 0 || f >= math.Ldexp(1, bits) {
		return 0, false
	}
	return uint64(f), true
}

func (n number) float(bits int) (float64, bool) {
	var f float64
	switch n.class {
	case classSigned:
		f = float64(n.i)
	case classUnsigned:
		f = float64(n.u)
	default:
		f = n.f
	}
	if bits == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return f, true
}

func (n number) bool() bool {
	switch n.class {
	case classSigned:
		return n.i != 0
	case classUnsigned:
		return n.u != 0
	}
	return n.f != 0
}

// Scalar builds a scalar-shaped Decoder around fn.
func Scalar[T any](fn func(variant.Value) (T, bool)) Decoder[T] {
	return Decoder[T]{shape: ShapeScalar, fn: fn}
}

func signedDecoder[T ~int | ~int8 | ~int16 | ~int32 | ~int64](bits int) Decoder[T] {
	return Scalar(func(v variant.Value) (T, bool) {
		n, ok := numeric(v)
		if !ok {
			return 0, false
		}
		i, ok := n.signed(bits)
		return T(i), ok
	})
}

func unsignedDecoder[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) Decoder[T] {
	return Scalar(func(v variant.Value) (T, bool) {
		n, ok := numeric(v)
		if !ok {
			return 0, false
		}
		u, ok := n.unsigned(bits)
		return T(u), ok
	})
}

func floatDecoder[T ~float32 | ~float64](bits int) Decoder[T] {
	return Scalar(func(v variant.Value) (T, bool) {
		n, ok := numeric(v)
		if !ok {
			return 0, false
		}
		f, ok := n.float(bits)
		return T(f), ok
	})
}

// Scalar decoders. Integer targets accept any numeric or boolean value that
// fits; floats are rounded half to even first.
var (
	Bool = Scalar(func(v variant.Value) (bool, bool) {
		n, ok := numeric(v)
		if !ok {
			return false, false
		}
		return n.bool(), true
	})

	Int8  = signedDecoder[int8](8)
	Int16 = signedDecoder[int16](16)
	Int32 = signedDecoder[int32](32)
	Int64 = signedDecoder[int64](64)
	Int   = signedDecoder[int](strconv.IntSize)

	Uint8  = unsignedDecoder[uint8](8)
	Uint16 = unsignedDecoder[uint16](16)
	Uint32 = unsignedDecoder[uint32](32)
	Uint64 = unsignedDecoder[uint64](64)
	Uint   = unsignedDecoder[uint](strconv.IntSize)

	Float32 = floatDecoder[float32](32)
	Float64 = floatDecoder[float64](64)
)

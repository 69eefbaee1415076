package variant

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the runtime type held by a Value.
type Kind uint8

const (
	// KindEmpty is the zero Value; returned for absent fields.
	KindEmpty Kind = iota
	// KindNull marks a field that exists but carries no value.
	KindNull
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	// KindString is a narrow (UTF-8) string.
	KindString
	// KindWString is a wide (UTF-16) string.
	KindWString
	// KindArray is a homogeneous array of one of the scalar or string kinds.
	KindArray
)

var kindNames = [...]string{
	KindEmpty:   "empty",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindWString: "wstring",
	KindArray:   "array",
}

var (
	// ErrMixedArray is returned when array elements do not share the declared element kind.
	ErrMixedArray = errors.New("array elements must share one kind")

	// ErrNestedArray is returned when an array element kind is itself an array or empty.
	ErrNestedArray = errors.New("array elements must be scalars or strings")

	// ErrUnknownKind is returned when parsing a kind name that does not exist.
	ErrUnknownKind = errors.New("unknown value kind")
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), nil
		}
	}
	return KindEmpty, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool { return k >= KindInt8 && k <= KindInt64 }

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool { return k >= KindUint8 && k <= KindUint64 }

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// IsScalar reports whether k is a boolean or numeric kind.
func (k Kind) IsScalar() bool { return k >= KindBool && k <= KindFloat64 }

// IsText reports whether k is one of the string kinds.
func (k Kind) IsText() bool { return k == KindString || k == KindWString }

// Value is a dynamically typed field value. The zero Value is Empty.
// Values are immutable once constructed.
type Value struct {
	kind Kind
	elem Kind

	b bool
	i int64
	u uint64
	f float64
	s string
	w WString

	items    []Value
	attached bool
}

// Empty returns the Value reported for absent fields.
func Empty() Value { return Value{} }

// Null returns a present-but-null Value.
func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value       { return Value{kind: KindBool, b: b} }
func Int8(n int8) Value       { return Value{kind: KindInt8, i: int64(n)} }
func Int16(n int16) Value     { return Value{kind: KindInt16, i: int64(n)} }
func Int32(n int32) Value     { return Value{kind: KindInt32, i: int64(n)} }
func Int64(n int64) Value     { return Value{kind: KindInt64, i: n} }
func Uint8(n uint8) Value     { return Value{kind: KindUint8, u: uint64(n)} }
func Uint16(n uint16) Value   { return Value{kind: KindUint16, u: uint64(n)} }
func Uint32(n uint32) Value   { return Value{kind: KindUint32, u: uint64(n)} }
func Uint64(n uint64) Value   { return Value{kind: KindUint64, u: n} }
func Float32(f float32) Value { return Value{kind: KindFloat32, f: float64(f)} }
func Float64(f float64) Value { return Value{kind: KindFloat64, f: f} }

// String returns a narrow string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Wide returns a wide string Value holding s encoded as UTF-16.
func Wide(s string) Value { return Value{kind: KindWString, w: EncodeWide(s)} }

// FromWString returns a wide string Value holding a copy of w.
func FromWString(w WString) Value {
	return Value{kind: KindWString, w: append(WString(nil), w...)}
}

// Array returns an array Value of the given element kind. Every element
// must be of kind elem.
func Array(elem Kind, items ...Value) (Value, error) {
	if !elem.IsScalar() && !elem.IsText() {
		return Value{}, fmt.Errorf("%w: %s", ErrNestedArray, elem)
	}
	for i, item := range items {
		if item.kind != elem {
			return Value{}, fmt.Errorf("%w: element %d is %s, want %s", ErrMixedArray, i, item.kind, elem)
		}
	}
	return Value{
		kind:     KindArray,
		elem:     elem,
		items:    append(make([]Value, 0, len(items)), items...),
		attached: true,
	}, nil
}

// ArrayOf builds an array Value by applying ctor to every element. The
// element kind is the kind ctor gives the zero T; elements of any other
// kind fail with ErrMixedArray.
func ArrayOf[T any](ctor func(T) Value, elems ...T) (Value, error) {
	var zero T
	items := make([]Value, 0, len(elems))
	for _, e := range elems {
		items = append(items, ctor(e))
	}
	return Array(ctor(zero).kind, items...)
}

// MustArrayOf is ArrayOf for element constructors known to be homogeneous.
// It panics on error.
func MustArrayOf[T any](ctor func(T) Value, elems ...T) Value {
	v, err := ArrayOf(ctor, elems...)
	if err != nil {
		panic(err)
	}
	return v
}

// Unattached returns an array Value whose element storage is unavailable,
// as reported by a provider that could not hand over the array buffer.
func Unattached(elem Kind) Value { return Value{kind: KindArray, elem: elem} }

// Kind returns the runtime kind of v.
func (v Value) Kind() Kind { return v.kind }

// ElemKind returns the element kind of an array Value, or KindEmpty.
func (v Value) ElemKind() Kind {
	if v.kind != KindArray {
		return KindEmpty
	}
	return v.elem
}

// IsEmpty reports whether v carries no value (Empty or Null).
func (v Value) IsEmpty() bool { return v.kind == KindEmpty || v.kind == KindNull }

// Attached reports whether an array Value has usable element storage.
func (v Value) Attached() bool { return v.kind == KindArray && v.attached }

// Len returns the number of elements of an attached array, otherwise 0.
func (v Value) Len() int {
	if !v.Attached() {
		return 0
	}
	return len(v.items)
}

// Index returns element i of an array Value. It returns Empty when i is
// out of range or v is not an attached array.
func (v Value) Index(i int) Value {
	if i < 0 || i >= v.Len() {
		return Value{}
	}
	return v.items[i]
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the value of a signed integer kind.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind.IsSigned() }

// AsUint returns the value of an unsigned integer kind.
func (v Value) AsUint() (uint64, bool) { return v.u, v.kind.IsUnsigned() }

// AsFloat returns the value of a floating point kind.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind.IsFloat() }

// AsString returns the narrow string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsWString returns a copy of the wide string held by v.
func (v Value) AsWString() (WString, bool) {
	if v.kind != KindWString {
		return nil, false
	}
	return append(WString(nil), v.w...), true
}

// Equal reports whether v and o hold the same kind and data.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch {
	case v.kind == KindBool:
		return v.b == o.b
	case v.kind.IsSigned():
		return v.i == o.i
	case v.kind.IsUnsigned():
		return v.u == o.u
	case v.kind.IsFloat():
		return v.f == o.f
	case v.kind == KindString:
		return v.s == o.s
	case v.kind == KindWString:
		if len(v.w) != len(o.w) {
			return false
		}
		for i := range v.w {
			if v.w[i] != o.w[i] {
				return false
			}
		}
		return true
	case v.kind == KindArray:
		if v.elem != o.elem || v.attached != o.attached || len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// String formats v for diagnostics.
func (v Value) String() string {
	switch {
	case v.kind == KindEmpty, v.kind == KindNull:
		return v.kind.String()
	case v.kind == KindBool:
		return fmt.Sprintf("bool(%t)", v.b)
	case v.kind.IsSigned():
		return fmt.Sprintf("%s(%d)", v.kind, v.i)
	case v.kind.IsUnsigned():
		return fmt.Sprintf("%s(%d)", v.kind, v.u)
	case v.kind.IsFloat():
		return fmt.Sprintf("%s(%g)", v.kind, v.f)
	case v.kind == KindString:
		return fmt.Sprintf("string(%q)", v.s)
	case v.kind == KindWString:
		return fmt.Sprintf("wstring(%q)", v.w.String())
	}
	if !v.attached {
		return fmt.Sprintf("array<%s>(unattached)", v.elem)
	}
	parts := make([]string, len(v.items))
	for i, item := range v.items {
		parts[i] = item.String()
	}
	return fmt.Sprintf("array<%s>[%s]", v.elem, strings.Join(parts, " "))
}

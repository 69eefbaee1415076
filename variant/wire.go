package variant

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// Wire field names of the protobuf form of a Value.
const (
	wireKind  = "kind"
	wireValue = "value"
	wireElem  = "elem"
	wireItems = "items"
)

// ErrWireFormat indicates a protobuf value that does not describe a Value.
var ErrWireFormat = errors.New("invalid wire value")

// ToProto converts v into its protobuf wire form: a struct carrying the kind
// name and the payload. 64-bit integers travel as decimal strings so they
// survive the double-precision number type.
func ToProto(v Value) *structpb.Value {
	fields := map[string]*structpb.Value{
		wireKind: structpb.NewStringValue(v.kind.String()),
	}
	switch {
	case v.kind == KindEmpty, v.kind == KindNull:
	case v.kind == KindArray:
		fields[wireElem] = structpb.NewStringValue(v.elem.String())
		if v.attached {
			items := make([]*structpb.Value, len(v.items))
			for i, item := range v.items {
				items[i] = scalarToProto(item)
			}
			fields[wireItems] = structpb.NewListValue(&structpb.ListValue{Values: items})
		}
	default:
		fields[wireValue] = scalarToProto(v)
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func scalarToProto(v Value) *structpb.Value {
	switch v.kind {
	case KindBool:
		return structpb.NewBoolValue(v.b)
	case KindInt8, KindInt16, KindInt32:
		return structpb.NewNumberValue(float64(v.i))
	case KindInt64:
		return structpb.NewStringValue(strconv.FormatInt(v.i, 10))
	case KindUint8, KindUint16, KindUint32:
		return structpb.NewNumberValue(float64(v.u))
	case KindUint64:
		return structpb.NewStringValue(strconv.FormatUint(v.u, 10))
	case KindFloat32, KindFloat64:
		return structpb.NewNumberValue(v.f)
	case KindString:
		return structpb.NewStringValue(v.s)
	case KindWString:
		return structpb.NewStringValue(v.w.String())
	}
	return structpb.NewNullValue()
}

// FromProto converts the wire form produced by ToProto back into a Value.
func FromProto(pv *structpb.Value) (Value, error) {
	st := pv.GetStructValue()
	if st == nil {
		return Value{}, fmt.Errorf("%w: expected struct", ErrWireFormat)
	}
	fields := st.GetFields()

	kind, err := ParseKind(fields[wireKind].GetStringValue())
	if err != nil {
		return Value{}, errors.Join(ErrWireFormat, err)
	}

	switch kind {
	case KindEmpty:
		return Empty(), nil
	case KindNull:
		return Null(), nil
	case KindArray:
		elem, err := ParseKind(fields[wireElem].GetStringValue())
		if err != nil {
			return Value{}, errors.Join(ErrWireFormat, err)
		}
		list, ok := fields[wireItems]
		if !ok {
			return Unattached(elem), nil
		}
		raw := list.GetListValue().GetValues()
		items := make([]Value, len(raw))
		for i, item := range raw {
			if items[i], err = scalarFromProto(elem, item); err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return Array(elem, items...)
	}
	return scalarFromProto(kind, fields[wireValue])
}

func scalarFromProto(kind Kind, pv *structpb.Value) (Value, error) {
	switch {
	case kind == KindBool:
		b, ok := pv.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s needs a bool", ErrWireFormat, kind)
		}
		return Bool(b.BoolValue), nil
	case kind.IsSigned():
		n, err := wireInt(pv, kind)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: kind, i: n}, nil
	case kind.IsUnsigned():
		n, err := wireUint(pv, kind)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: kind, u: n}, nil
	case kind == KindFloat32:
		return Float32(float32(pv.GetNumberValue())), nil
	case kind == KindFloat64:
		return Float64(pv.GetNumberValue()), nil
	case kind == KindString:
		return String(pv.GetStringValue()), nil
	case kind == KindWString:
		return Wide(pv.GetStringValue()), nil
	}
	return Value{}, fmt.Errorf("%w: %s is not a scalar kind", ErrWireFormat, kind)
}

var intBits = map[Kind]int{
	KindInt8: 8, KindInt16: 16, KindInt32: 32, KindInt64: 64,
	KindUint8: 8, KindUint16: 16, KindUint32: 32, KindUint64: 64,
}

func wireInt(pv *structpb.Value, kind Kind) (int64, error) {
	bits := intBits[kind]
	switch x := pv.GetKind().(type) {
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(x.StringValue, 10, bits)
		if err != nil {
			return 0, errors.Join(ErrWireFormat, err)
		}
		return n, nil
	case *structpb.Value_NumberValue:
		f := x.NumberValue
		limit := math.Ldexp(1, bits-1)
		if f != math.Trunc(f) || f < -limit || f >= limit {
			return 0, fmt.Errorf("%w: %v does not fit %s", ErrWireFormat, f, kind)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("%w: %s needs a number", ErrWireFormat, kind)
}

func wireUint(pv *structpb.Value, kind Kind) (uint64, error) {
	bits := intBits[kind]
	switch x := pv.GetKind().(type) {
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(x.StringValue, 10, bits)
		if err != nil {
			return 0, errors.Join(ErrWireFormat, err)
		}
		return n, nil
	case *structpb.Value_NumberValue:
		f := x.NumberValue
		if f != math.Trunc(f) || f < 0 || f >= math.Ldexp(1, bits) {
			return 0, fmt.Errorf("%w: %v does not fit %s", ErrWireFormat, f, kind)
		}
		return uint64(f), nil
	}
	return 0, fmt.Errorf("%w: %s needs a number", ErrWireFormat, kind)
}

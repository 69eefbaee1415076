package variant

import (
	"errors"
	"math"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestWireRoundTrip(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name  string
		value Value
	}{
		{"empty", Empty()},
		{"null", Null()},
		{"bool", Bool(true)},
		{"int8 min", Int8(math.MinInt8)},
		{"int64 max", Int64(math.MaxInt64)},
		{"uint64 max", Uint64(math.MaxUint64)},
		{"float32", Float32(1.5)},
		{"wide", Wide("Ünïcode")},
		{"int array", MustArrayOf(Int64, math.MinInt64, 0, math.MaxInt64)},
		{"string array", MustArrayOf(String, "a", "b")},
		{"unattached", Unattached(KindUint32)},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Push through the binary encoding to match what crosses the host boundary.
			b, err := proto.Marshal(ToProto(tc.value))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var pv structpb.Value
			if err := proto.Unmarshal(b, &pv); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			got, err := FromProto(&pv)
			if err != nil {
				t.Fatalf("FromProto returned error: %v", err)
			}
			if !got.Equal(tc.value) {
				t.Fatalf("round trip mismatch: want %s got %s", tc.value, got)
			}
		})
	}
}

func TestFromProtoInvalid(t *testing.T) {
	t.Parallel()

	mk := func(fields map[string]any) *structpb.Value {
		st, err := structpb.NewStruct(fields)
		if err != nil {
			t.Fatalf("NewStruct: %v", err)
		}
		return structpb.NewStructValue(st)
	}

	tt := []struct {
		name string
		pv   *structpb.Value
	}{
		{"not a struct", structpb.NewStringValue("int32")},
		{"unknown kind", mk(map[string]any{"kind": "decimal"})},
		{"int8 overflow", mk(map[string]any{"kind": "int8", "value": 300})},
		{"fractional int", mk(map[string]any{"kind": "int32", "value": 1.5})},
		{"negative uint", mk(map[string]any{"kind": "uint16", "value": -1})},
		{"bool from number", mk(map[string]any{"kind": "bool", "value": 1})},
		{"bad int64 text", mk(map[string]any{"kind": "int64", "value": "12x"})},
		{"mixed array", mk(map[string]any{"kind": "array", "elem": "bool", "items": []any{true, "no"}})},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := FromProto(tc.pv); !errors.Is(err, ErrWireFormat) {
				t.Fatalf("expected ErrWireFormat, got %v", err)
			}
		})
	}
}

package decode

import (
	"math"
	"slices"
	"testing"

	"github.com/tarmac-project/wmi/variant"
)

func TestScalarDecoders(t *testing.T) {
	t.Parallel()

	type result struct {
		value any
		ok    bool
	}
	run := func(v variant.Value) map[string]result {
		out := map[string]result{}
		b, ok := Bool.Decode(v)
		out["bool"] = result{b, ok}
		i8, ok := Int8.Decode(v)
		out["int8"] = result{i8, ok}
		i32, ok := Int32.Decode(v)
		out["int32"] = result{i32, ok}
		i64, ok := Int64.Decode(v)
		out["int64"] = result{i64, ok}
		u8, ok := Uint8.Decode(v)
		out["uint8"] = result{u8, ok}
		u64, ok := Uint64.Decode(v)
		out["uint64"] = result{u64, ok}
		f32, ok := Float32.Decode(v)
		out["float32"] = result{f32, ok}
		f64, ok := Float64.Decode(v)
		out["float64"] = result{f64, ok}
		return out
	}

	tt := []struct {
		name  string
		value variant.Value
		want  map[string]result
	}{
		{
			name:  "small int32",
			value: variant.Int32(42),
			want: map[string]result{
				"bool": {true, true}, "int8": {int8(42), true}, "int32": {int32(42), true},
				"int64": {int64(42), true}, "uint8": {uint8(42), true}, "uint64": {uint64(42), true},
				"float32": {float32(42), true}, "float64": {float64(42), true},
			},
		},
		{
			name:  "negative int16",
			value: variant.Int16(-300),
			want: map[string]result{
				"bool": {true, true}, "int8": {int8(0), false}, "int32": {int32(-300), true},
				"int64": {int64(-300), true}, "uint8": {uint8(0), false}, "uint64": {uint64(0), false},
				"float32": {float32(-300), true}, "float64": {float64(-300), true},
			},
		},
		{
			name:  "uint64 max",
			value: variant.Uint64(math.MaxUint64),
			want: map[string]result{
				"bool": {true, true}, "int8": {int8(0), false}, "int32": {int32(0), false},
				"int64": {int64(0), false}, "uint8": {uint8(0), false}, "uint64": {uint64(math.MaxUint64), true},
				"float32": {float32(math.MaxUint64), true}, "float64": {float64(math.MaxUint64), true},
			},
		},
		{
			name:  "bool true",
			value: variant.Bool(true),
			want: map[string]result{
				"bool": {true, true}, "int8": {int8(1), true}, "int32": {int32(1), true},
				"int64": {int64(1), true}, "uint8": {uint8(1), true}, "uint64": {uint64(1), true},
				"float32": {float32(1), true}, "float64": {float64(1), true},
			},
		},
		{
			name:  "float rounds half to even",
			value: variant.Float64(2.5),
			want: map[string]result{
				"bool": {true, true}, "int8": {int8(2), true}, "int32": {int32(2), true},
				"int64": {int64(2), true}, "uint8": {uint8(2), true}, "uint64": {uint64(2), true},
				"float32": {float32(2.5), true}, "float64": {float64(2.5), true},
			},
		},
		{
			name:  "float too large for float32",
			value: variant.Float64(1e300),
			want: map[string]result{
				"bool": {true, true}, "int8": {int8(0), false}, "int32": {int32(0), false},
				"int64": {int64(0), false}, "uint8": {uint8(0), false}, "uint64": {uint64(0), false},
				"float32": {float32(0), false}, "float64": {float64(1e300), true},
			},
		},
		{
			name:  "zero",
			value: variant.Uint8(0),
			want: map[string]result{
				"bool": {false, true}, "int8": {int8(0), true}, "int32": {int32(0), true},
				"int64": {int64(0), true}, "uint8": {uint8(0), true}, "uint64": {uint64(0), true},
				"float32": {float32(0), true}, "float64": {float64(0), true},
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := run(tc.value)
			for target, want := range tc.want {
				if got[target] != want {
					t.Errorf("%s -> %s: want %v got %v", tc.value, target, want, got[target])
				}
			}
		})
	}
}

func TestScalarRejectsNonNumeric(t *testing.T) {
	t.Parallel()

	inputs := []variant.Value{
		variant.Empty(),
		variant.Null(),
		variant.String("true"),
		variant.String("42"),
		variant.Wide("42"),
		variant.MustArrayOf(variant.Int32, 1),
	}

	for _, v := range inputs {
		if b, ok := Bool.Decode(v); ok || b {
			t.Errorf("Bool.Decode(%s) = %t, %t; want absent", v, b, ok)
		}
		if n, ok := Int32.Decode(v); ok || n != 0 {
			t.Errorf("Int32.Decode(%s) = %d, %t; want absent", v, n, ok)
		}
		if f, ok := Float64.Decode(v); ok || f != 0 {
			t.Errorf("Float64.Decode(%s) = %g, %t; want absent", v, f, ok)
		}
	}
}

func TestFloatToIntegerLimits(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name string
		f    float64
		ok   bool
	}{
		{"nan", math.NaN(), false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
		{"int64 lower bound", -9223372036854775808, true},
		{"two to the 63", 9223372036854775808, false},
		{"rounds to minus zero", -0.4, true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := Int64.Decode(variant.Float64(tc.f)); ok != tc.ok {
				t.Fatalf("Int64.Decode(%g) ok = %t, want %t", tc.f, ok, tc.ok)
			}
		})
	}

	if _, ok := Uint64.Decode(variant.Float64(-0.4)); !ok {
		t.Fatalf("expected -0.4 to round to an unsigned zero")
	}
	if _, ok := Uint64.Decode(variant.Float64(-1)); ok {
		t.Fatalf("expected negative float to be rejected for unsigned target")
	}
}

func TestStringDecoders(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name  string
		value variant.Value
		want  string
		ok    bool
	}{
		{"narrow", variant.String("Win32_Process"), "Win32_Process", true},
		{"wide", variant.Wide("Win32_Process"), "Win32_Process", true},
		{"wide non ascii", variant.Wide("Grüße"), "Grüße", true},
		{"int", variant.Int32(-7), "-7", true},
		{"uint64", variant.Uint64(math.MaxUint64), "18446744073709551615", true},
		{"float", variant.Float64(0.25), "0.25", true},
		{"bool", variant.Bool(false), "False", true},
		{"empty", variant.Empty(), "", false},
		{"null", variant.Null(), "", false},
		{"array", variant.MustArrayOf(variant.String, "a"), "", false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := String.Decode(tc.value)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("String.Decode(%s) = %q, %t; want %q, %t", tc.value, got, ok, tc.want, tc.ok)
			}

			wide, ok := WString.Decode(tc.value)
			if ok != tc.ok || wide.String() != tc.want {
				t.Fatalf("WString.Decode(%s) = %q, %t; want %q, %t", tc.value, wide.String(), ok, tc.want, tc.ok)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "root\\cimv2", "SELECT * FROM Win32_OperatingSystem", "~!@#$%^&*()_+"} {
		wide, ok := WString.Decode(variant.String(s))
		if !ok {
			t.Fatalf("WString.Decode(%q) failed", s)
		}
		narrow, ok := String.Decode(variant.FromWString(wide))
		if !ok || narrow != s {
			t.Fatalf("narrow -> wide -> narrow of %q produced %q, %t", s, narrow, ok)
		}

		back, ok := WString.Decode(variant.String(narrow))
		if !ok || !slices.Equal(back, wide) {
			t.Fatalf("wide -> narrow -> wide of %q produced %v", s, back)
		}
	}
}

func TestArrayDecoders(t *testing.T) {
	t.Parallel()

	t.Run("matching kind", func(t *testing.T) {
		t.Parallel()
		got, ok := Int32s.Decode(variant.MustArrayOf(variant.Int32, 3, 1, 2))
		if !ok || !slices.Equal(got, []int32{3, 1, 2}) {
			t.Fatalf("Int32s.Decode = %v, %t", got, ok)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		t.Parallel()
		got, ok := Float64s.Decode(variant.MustArrayOf[float64](variant.Float64))
		if !ok || got == nil || len(got) != 0 {
			t.Fatalf("Float64s.Decode(empty) = %v, %t", got, ok)
		}
	})

	t.Run("kind mismatch", func(t *testing.T) {
		t.Parallel()
		got, ok := Int64s.Decode(variant.MustArrayOf(variant.Int32, 1, 2))
		if ok || got != nil {
			t.Fatalf("expected absent for int32 array as int64s, got %v", got)
		}
	})

	t.Run("not an array", func(t *testing.T) {
		t.Parallel()
		if got, ok := Uint16s.Decode(variant.Uint16(1)); ok || got != nil {
			t.Fatalf("expected absent for scalar, got %v", got)
		}
	})

	t.Run("unattached", func(t *testing.T) {
		t.Parallel()
		if got, ok := Bools.Decode(variant.Unattached(variant.KindBool)); ok || got != nil {
			t.Fatalf("expected absent for unattached array, got %v", got)
		}
	})

	t.Run("strings from narrow and wide", func(t *testing.T) {
		t.Parallel()
		narrow, ok := Strings.Decode(variant.MustArrayOf(variant.String, "a", "ß"))
		if !ok || !slices.Equal(narrow, []string{"a", "ß"}) {
			t.Fatalf("Strings.Decode(narrow) = %v, %t", narrow, ok)
		}
		wide, ok := Strings.Decode(variant.MustArrayOf(variant.Wide, "x", "y", "z"))
		if !ok || !slices.Equal(wide, []string{"x", "y", "z"}) {
			t.Fatalf("Strings.Decode(wide) = %v, %t", wide, ok)
		}
	})

	t.Run("wstrings", func(t *testing.T) {
		t.Parallel()
		got, ok := WStrings.Decode(variant.MustArrayOf(variant.String, "C:", "D:"))
		if !ok || len(got) != 2 || got[0].String() != "C:" || got[1].String() != "D:" {
			t.Fatalf("WStrings.Decode = %v, %t", got, ok)
		}
	})

	t.Run("strings reject numeric arrays", func(t *testing.T) {
		t.Parallel()
		if got, ok := Strings.Decode(variant.MustArrayOf(variant.Int32, 1)); ok || got != nil {
			t.Fatalf("expected absent for int32 array as strings, got %v", got)
		}
	})
}

func TestRaw(t *testing.T) {
	t.Parallel()

	for _, v := range []variant.Value{variant.Empty(), variant.Null(), variant.Int8(3), variant.Unattached(variant.KindString)} {
		got, ok := Raw.Decode(v)
		if !ok || !got.Equal(v) {
			t.Fatalf("Raw.Decode(%s) = %s, %t", v, got, ok)
		}
	}
}

func TestMapAndZeroDecoder(t *testing.T) {
	t.Parallel()

	type state uint16
	running := Map(Uint16, func(u uint16) state { return state(u) })
	if running.Shape() != ShapeScalar {
		t.Fatalf("expected mapped decoder to keep scalar shape, got %s", running.Shape())
	}
	if got, ok := running.Decode(variant.Int32(5)); !ok || got != 5 {
		t.Fatalf("mapped decode = %d, %t", got, ok)
	}
	if _, ok := running.Decode(variant.String("5")); ok {
		t.Fatalf("expected mapped decoder to propagate absence")
	}

	var zero Decoder[int]
	if _, ok := zero.Decode(variant.Int32(1)); ok {
		t.Fatalf("expected zero decoder to produce no value")
	}
}

func TestShapes(t *testing.T) {
	t.Parallel()

	tt := []struct {
		got  Shape
		want Shape
	}{
		{Bool.Shape(), ShapeScalar},
		{Float32.Shape(), ShapeScalar},
		{String.Shape(), ShapeString},
		{WString.Shape(), ShapeWString},
		{Uint8s.Shape(), ShapeScalarArray},
		{WStrings.Shape(), ShapeStringArray},
		{Raw.Shape(), ShapeRaw},
	}
	for _, tc := range tt {
		if tc.got != tc.want {
			t.Errorf("expected shape %s, got %s", tc.want, tc.got)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	scalar := variant.Uint32(4096)
	str := variant.Wide("Microsoft Windows 11 Pro")
	arr := variant.MustArrayOf(variant.Int32, 1, 2, 3, 4, 5, 6, 7, 8)

	b.Run("Scalar", func(b *testing.B) {
		b.ReportAllocs()
		for range b.N {
			_, _ = Uint64.Decode(scalar)
		}
	})
	b.Run("String", func(b *testing.B) {
		b.ReportAllocs()
		for range b.N {
			_, _ = String.Decode(str)
		}
	})
	b.Run("Array", func(b *testing.B) {
		b.ReportAllocs()
		for range b.N {
			_, _ = Int32s.Decode(arr)
		}
	})
}

/*
Package decode turns variant.Value fields into static Go types.

Every Decoder carries one Shape, and the shape alone decides how a value is
converted:

  - ShapeScalar (Bool, Int8..Int64, Uint8..Uint64, Int, Uint, Float32,
    Float64): coercing conversion between numeric and boolean kinds.
    Overflow, negative-to-unsigned and non-numeric kinds yield no value.
  - ShapeString and ShapeWString (String, WString): the value is normalized
    to text once, then materialized narrow or wide.
  - ShapeScalarArray (Bools, Int32s, Float64s, ...): the array element kind
    must match exactly; the result is all or nothing.
  - ShapeStringArray (Strings, WStrings): string handle arrays, normalized
    element by element.
  - ShapeRaw (Raw): the value itself.

Decoding never panics and never reports an error. A false second result
means "no value" and is the only failure signal.

	pid, ok := decode.Uint32.Decode(v)
	names, ok := decode.Strings.Decode(v)

Custom decoders for named types can be derived with Map, or built with
Scalar, Text, Array and TextArray.
*/
package decode

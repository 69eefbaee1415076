/*
Package variant defines Value, the dynamically typed field value returned by
the management service for every property of a query result.

A Value is a tagged union: Empty (absent field), Null, Bool, signed and
unsigned integers of 8 to 64 bits, 32 and 64 bit floats, narrow (UTF-8) and
wide (UTF-16) strings, and homogeneous arrays of any of these. Array
constructors refuse mixed element kinds, so an array Value always has one
element kind.

Values are produced by providers and consumed by the decode package; they
are not meant to be inspected kind by kind in application code, although the
As* accessors allow it.

ToProto and FromProto give the protobuf form used on the host call wire and
in fixture files.
*/
package variant

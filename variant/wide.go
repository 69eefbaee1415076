package variant

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// utf16le matches the in-memory layout of wide strings handed out by the
// management service.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// WString is a wide string held as UTF-16 code units.
type WString []uint16

// EncodeWide converts a UTF-8 string into UTF-16 code units. Invalid UTF-8
// sequences become U+FFFD.
func EncodeWide(s string) WString {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil
	}
	w := make(WString, len(b)/2)
	for i := range w {
		w[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return w
}

// String decodes w into UTF-8. Unpaired surrogates become U+FFFD.
func (w WString) String() string {
	buf := make([]byte, 2*len(w))
	for i, unit := range w {
		binary.LittleEndian.PutUint16(buf[2*i:], unit)
	}
	out, err := utf16le.NewDecoder().Bytes(buf)
	if err != nil {
		return ""
	}
	return string(out)
}

package wmi

import (
	"runtime"

	"github.com/tarmac-project/wmi/decode"
	"github.com/tarmac-project/wmi/variant"
)

// Record is one materialized result row. It holds its own reference on the
// session connection, so it stays readable after the Session and
// ResultSet that produced it are closed.
type Record struct {
	row     Row
	lease   *lease
	cleanup runtime.Cleanup
}

func newRecord(l *lease, row Row) *Record {
	r := &Record{row: row, lease: l}
	r.cleanup = runtime.AddCleanup(r, releaseLease, l)
	return r
}

// Value returns the raw named field. Missing fields and closed records
// yield variant.Empty().
func (r *Record) Value(name string) variant.Value {
	if r == nil || !r.lease.alive() {
		return variant.Empty()
	}
	// r owns the lease; it must stay reachable until the read returns.
	defer runtime.KeepAlive(r)
	return r.row.Get(name)
}

// Lookup is Value with an explicit presence flag. Unlike Get it tells a
// missing field apart from one that does not decode. Null fields are
// present.
func (r *Record) Lookup(name string) (variant.Value, bool) {
	v := r.Value(name)
	return v, v.Kind() != variant.KindEmpty
}

// Equal reports whether r and other identify the same object, ignoring
// origin and qualifiers. Two nil records are equal.
func (r *Record) Equal(other *Record) bool {
	switch {
	case r == nil || other == nil:
		return r == other
	case r == other:
		return true
	case !r.lease.alive() || !other.lease.alive():
		return false
	}
	defer runtime.KeepAlive(other)
	defer runtime.KeepAlive(r)
	return r.row.Equal(other.row, CompareIgnoreOrigin|CompareIgnoreQualifiers)
}

// Clone returns an independent handle on the same row.
func (r *Record) Clone() (*Record, error) {
	if r == nil {
		return nil, ErrSessionClosed
	}
	defer runtime.KeepAlive(r)
	l, err := r.lease.clone()
	if err != nil {
		return nil, err
	}
	return newRecord(l, r.row), nil
}

// Close releases the record's reference. Closing twice is a no-op.
func (r *Record) Close() error {
	if r == nil {
		return nil
	}
	r.cleanup.Stop()
	return r.lease.release()
}

// Get decodes the named field of r with dec. It reports false when the
// field is missing or cannot be decoded; use Record.Lookup to tell the two
// apart.
func Get[T any](r *Record, name string, dec decode.Decoder[T]) (T, bool) {
	return dec.Decode(r.Value(name))
}

package wmi

import (
	"errors"
	"fmt"
	"iter"
	"runtime"
	"slices"

	"github.com/tarmac-project/wmi/decode"
)

// ResultSet is the fully drained output of one query, in cursor order. Its
// length is fixed.
type ResultSet struct {
	records []*Record
	lease   *lease
	cleanup runtime.Cleanup
}

// newResultSet takes ownership of l and gives every row its own lease.
func newResultSet(l *lease, rows []Row) *ResultSet {
	rs := &ResultSet{records: make([]*Record, 0, len(rows)), lease: l}
	for _, row := range rows {
		// l is held, so acquire cannot fail here.
		rl, _ := l.core.acquire()
		rs.records = append(rs.records, newRecord(rl, row))
	}
	rs.cleanup = runtime.AddCleanup(rs, releaseLease, l)
	return rs
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// At returns the record at index. Unlike GetAt, an index outside the set
// is an error matching ErrOutOfRange. The record is owned by rs and reads
// empty after rs.Close; Clone it to keep it longer.
func (rs *ResultSet) At(index int) (*Record, error) {
	if index < 0 || index >= rs.Len() {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, index, rs.Len())
	}
	return rs.records[index], nil
}

// Records returns the records in order. The slice is a copy; the records
// are owned by rs and read empty after rs.Close. Clone them to keep them.
func (rs *ResultSet) Records() []*Record {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.records)
}

// All iterates over the records in order. Yielded records are valid until
// rs.Close; Clone to keep one.
func (rs *ResultSet) All() iter.Seq2[int, *Record] {
	if rs == nil {
		return func(func(int, *Record) bool) {}
	}
	return slices.All(rs.records)
}

// Close releases the set and every record it created. Records obtained
// through Record.Clone are not affected.
func (rs *ResultSet) Close() error {
	if rs == nil {
		return nil
	}
	var errs []error
	for _, r := range rs.records {
		errs = append(errs, r.Close())
	}
	rs.cleanup.Stop()
	errs = append(errs, rs.lease.release())
	return errors.Join(errs...)
}

// First decodes the named field from the first record that yields a value.
// On multi-row results this is order-sensitive: it is the first match, not
// the only one.
func First[T any](rs *ResultSet, name string, dec decode.Decoder[T]) (T, bool) {
	for _, r := range rs.All() {
		if v, ok := Get(r, name, dec); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// GetAt decodes the named field of the record at index. An index outside
// the set yields false, not an error.
func GetAt[T any](rs *ResultSet, name string, index int, dec decode.Decoder[T]) (T, bool) {
	r, err := rs.At(index)
	if err != nil {
		var zero T
		return zero, false
	}
	return Get(r, name, dec)
}

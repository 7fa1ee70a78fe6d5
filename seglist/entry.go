package seglist

import "github.com/nanodb/reactorkit/seglist/packed"

// Entry is a read-only projection of one element returned by lookup
// or iteration: which segment it lives in, its byte offset inside
// that segment's packed array, its dual-typed value, and (when known)
// its logical offset in the whole list.
type Entry struct {
	List   *List
	seg    *segment
	Offset int
	Value  packed.Value
	Index  int64 // logical offset from head, or -1 if not computed
}

// Int64 returns the entry's value as an integer, if it is one.
func (e Entry) Int64() (int64, bool) {
	return e.Value.Int64()
}

// String renders the entry's value as a string.
func (e Entry) String() string {
	return e.Value.String()
}

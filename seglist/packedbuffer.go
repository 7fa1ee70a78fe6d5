package seglist

import "github.com/nanodb/reactorkit/seglist/packed"

// AppendPackedBuffer takes ownership of buf and links it as a single
// new RAW segment at the tail, bypassing the fill policy entirely --
// the same way quicklistAppendPlainNode grafts an externally-built
// node onto the chain without re-splitting it. Use this when buf is
// already known to be a well-formed packed buffer produced elsewhere
// (e.g. replicated from another list).
func (l *List) AppendPackedBuffer(buf []byte) {
	arr := packed.FromRawBuffer(buf)
	s := &segment{arr: arr, encoding: EncodingRaw}
	s.syncRaw()
	l.linkSegment(s, Tail)
	l.count += int(s.count)
	l.rebalanceCompression()
}

// AppendValuesFromPackedBuffer decodes every value out of buf and
// pushes them one at a time onto the tail, same as repeated PushTail
// calls -- unlike AppendPackedBuffer, the values are re-chunked under
// the list's current fill policy rather than kept as one segment.
func (l *List) AppendValuesFromPackedBuffer(buf []byte) {
	arr := packed.FromRawBuffer(buf)
	arr.Iterate(func(_ int, v packed.Value) bool {
		l.PushTail(v)
		return true
	})
}

// CreateFromPackedBuffer builds a new List with the given fill policy
// and compression depth, seeded entirely from buf's decoded values.
func CreateFromPackedBuffer(fill, depth int, buf []byte) *List {
	l := New(fill, depth)
	l.AppendValuesFromPackedBuffer(buf)
	return l
}

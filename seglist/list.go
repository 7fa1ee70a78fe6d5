// Package seglist implements a segmented list: a doubly-linked chain
// of bounded, optionally compressed packed-array segments realizing a
// space-efficient ordered sequence, grounded on the teacher's
// small-leaf-package style (one concern per file, Options/errors.go
// per package, zerolog for debug tracing).
package seglist

import (
	"github.com/rs/zerolog"

	"github.com/nanodb/reactorkit/seglist/packed"
)

// Where selects which end of the list an operation targets.
type Where int

const (
	Head Where = iota
	Tail
)

// List is a doubly-linked chain of segments with an aggregate element
// count, a fill policy, and a compression window.
type List struct {
	*zerolog.Logger

	head, tail *segment
	count      int // total element count across all segments
	segCount   int // number of segments

	fill     int
	compress uint16
}

// New returns a List with the given fill policy and compression
// depth. fill >= 0 caps each segment's element count; fill < 0 looks
// up a byte-size ceiling (see SetFill). depth == 0 disables
// compression.
func New(fill, depth int) *List {
	return NewWithOptions(Options{Fill: fill, CompressDepth: depth})
}

// NewWithOptions is New with a full Options value, e.g. to attach a
// logger.
func NewWithOptions(opts Options) *List {
	l := &List{
		fill:     normalizeFill(opts.Fill),
		compress: clampDepth(opts.CompressDepth),
	}
	if opts.Logger != nil {
		l.Logger = opts.Logger
	} else {
		nop := zerolog.Nop()
		l.Logger = &nop
	}
	return l
}

// Create returns a List with the package defaults (fill -2, no
// compression), mirroring quicklistCreate.
func Create() *List {
	return NewWithOptions(DefaultOptions)
}

func clampDepth(depth int) uint16 {
	if depth < 0 {
		return 0
	}
	return uint16(depth)
}

// Release drops the list's segments. There is nothing else to free in
// a Go implementation, but the method is kept for parity with the
// explicit-lifecycle public surface the spec names.
func (l *List) Release() {
	l.head, l.tail = nil, nil
	l.count, l.segCount = 0, 0
}

// SetFill changes the per-segment fill policy for segments created
// from now on; it does not retroactively resize existing segments.
func (l *List) SetFill(fill int) {
	l.fill = normalizeFill(fill)
}

// SetCompressDepth changes the compression window and immediately
// rebalances every segment to match it.
func (l *List) SetCompressDepth(depth int) {
	l.compress = clampDepth(depth)
	l.rebalanceCompression()
}

// SetOptions is SetFill and SetCompressDepth together.
func (l *List) SetOptions(fill, depth int) {
	l.fill = normalizeFill(fill)
	l.compress = clampDepth(depth)
	l.rebalanceCompression()
}

// Count returns the total number of elements in the list.
func (l *List) Count() int {
	return l.count
}

// SegmentCount returns the number of segments currently chained.
func (l *List) SegmentCount() int {
	return l.segCount
}

// Fill returns the list's current fill policy.
func (l *List) Fill() int {
	return l.fill
}

// CompressDepth returns the list's current compression window depth.
func (l *List) CompressDepth() int {
	return int(l.compress)
}

// SegmentInfo is a read-only snapshot of one segment, for
// introspection and tests -- the generalized form of the spec's
// getCompressed surface.
type SegmentInfo struct {
	Index    int
	Encoding Encoding
	Count    int
	ByteSize int

	// CompressedSize is the on-the-wire size of the segment's
	// compression envelope, valid iff Encoding == EncodingCompressed.
	CompressedSize int
}

// Segments returns a snapshot of every segment from head to tail.
func (l *List) Segments() []SegmentInfo {
	out := make([]SegmentInfo, 0, l.segCount)
	i := 0
	for s := l.head; s != nil; s = s.next {
		compressed, _ := s.CompressedSize()
		out = append(out, SegmentInfo{
			Index:          i,
			Encoding:       s.encoding,
			Count:          int(s.count),
			ByteSize:       s.size,
			CompressedSize: compressed,
		})
		i++
	}
	return out
}

// linkSegment links a freshly created segment at the given end of the
// chain.
func (l *List) linkSegment(s *segment, where Where) {
	if where == Head {
		s.next = l.head
		if l.head != nil {
			l.head.prev = s
		}
		l.head = s
	} else {
		s.prev = l.tail
		if l.tail != nil {
			l.tail.next = s
		}
		l.tail = s
	}
	if l.tail == nil {
		l.tail = s
	}
	if l.head == nil {
		l.head = s
	}
	l.segCount++
}

// unlinkSegment removes s from the chain. It does not adjust count or
// segCount's relation to l.count; callers update l.count separately.
func (l *List) unlinkSegment(s *segment) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		l.head = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		l.tail = s.prev
	}
	l.segCount--
}

// replaceSegment links news to each other in order and splices them
// into the chain in place of old, a leaf operation used by the split
// engine.
func (l *List) replaceSegment(old *segment, news []*segment) {
	for i := 1; i < len(news); i++ {
		news[i-1].next = news[i]
		news[i].prev = news[i-1]
	}
	first, last := news[0], news[len(news)-1]

	first.prev = old.prev
	if old.prev != nil {
		old.prev.next = first
	} else {
		l.head = first
	}

	last.next = old.next
	if old.next != nil {
		old.next.prev = last
	} else {
		l.tail = last
	}

	l.segCount += len(news) - 1
}

// collectValues returns every value in seg, in order, decompressing
// it transiently if needed.
func (l *List) collectValues(seg *segment) []packed.Value {
	l.decompressForWrite(seg)
	values := make([]packed.Value, 0, seg.count)
	seg.arr.Iterate(func(_ int, v packed.Value) bool {
		values = append(values, v)
		return true
	})
	return values
}

// packValues greedily chunks values into the minimum number of raw
// segments that each satisfy the fill policy.
func (l *List) packValues(values []packed.Value) []*segment {
	var segs []*segment
	cur := newSegment()
	for _, v := range values {
		if cur.count > 0 && !cur.admits(l.fill, v) {
			cur.syncRaw()
			segs = append(segs, cur)
			cur = newSegment()
		}
		cur.arr.AppendTail(v)
		cur.syncRaw()
	}
	cur.syncRaw()
	segs = append(segs, cur)
	return segs
}

// offsetIndex returns the logical (0-based) index of offset within
// arr, or arr.Count() if offset is the end-of-segment sentinel (-1).
func offsetIndex(arr *packed.Array, offset int) int {
	if offset < 0 {
		return arr.Count()
	}
	idx := 0
	o, ok := arr.First()
	for ok && o != offset {
		idx++
		o, ok = arr.Next(o)
	}
	return idx
}

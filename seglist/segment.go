package seglist

import "github.com/nanodb/reactorkit/seglist/packed"

// Encoding is the on-segment representation: RAW means the packed
// array is directly addressable, COMPRESSED means it's wrapped in a
// compression envelope and must be decompressed before being read or
// written.
type Encoding uint8

const (
	EncodingRaw Encoding = iota
	EncodingCompressed
)

// String renders Encoding the way dir.Dir hand-writes its String
// method rather than going through a generator.
func (e Encoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingCompressed:
		return "compressed"
	default:
		return "?"
	}
}

// safetyLimit caps the byte size any single insertion may push a
// count-limited segment to, so one oversized element can't make a
// segment unbounded.
const safetyLimit = 8 * 1024

// fillByteLimits maps a negative fill value to its byte-size ceiling.
var fillByteLimits = map[int]int{
	-1: 4096,
	-2: 8192,
	-3: 16384,
	-4: 32768,
	-5: 65536,
}

func byteLimitForFill(fill int) int {
	if fill >= 0 {
		return safetyLimit
	}
	if limit, ok := fillByteLimits[fill]; ok {
		return limit
	}
	return fillByteLimits[-2]
}

// normalizeFill folds any negative fill outside the known lookup
// table toward -2, per spec §3.2.
func normalizeFill(fill int) int {
	if fill >= 0 {
		return fill
	}
	if _, ok := fillByteLimits[fill]; ok {
		return fill
	}
	return -2
}

// segment is one node of the doubly-linked chain: a bounded,
// optionally compressed packed array.
type segment struct {
	prev, next *segment

	arr  *packed.Array // valid iff encoding == EncodingRaw
	blob []byte        // compressed bytes, valid iff encoding == EncodingCompressed

	size  int    // logical (uncompressed) byte size, maintained in both encodings
	count uint16 // element count, maintained in both encodings

	encoding          Encoding
	recompress        bool // transiently decompressed; recompress when released
	attemptedCompress bool // last compression attempt didn't shrink the buffer
}

func newSegment() *segment {
	return &segment{arr: packed.New(), encoding: EncodingRaw}
}

// syncRaw refreshes size/count from the live packed array. Call after
// any direct mutation of seg.arr.
func (s *segment) syncRaw() {
	s.size = s.arr.Size()
	s.count = uint16(s.arr.Count())
}

func (s *segment) isEmpty() bool {
	return s.count == 0
}

// canAdmit reports whether v can be added to a segment with the given
// count/logical-size under fill, without requiring the segment to be
// decompressed first (size and count are tracked in both encodings).
func canAdmit(fill int, count, logicalSize int, v packed.Value) bool {
	predicted := logicalSize + packed.EncodedSize(v)
	if fill >= 0 {
		return count < fill && predicted <= safetyLimit
	}
	return predicted <= byteLimitForFill(fill)
}

func (s *segment) admits(fill int, v packed.Value) bool {
	return canAdmit(fill, int(s.count), s.size, v)
}

package seglist

import "github.com/nanodb/reactorkit/seglist/packed"

// combinedFits reports whether a and b's contents would fit in one
// segment under the fill policy, were they merged.
func combinedFits(fill int, a, b *segment) bool {
	if fill >= 0 {
		return int(a.count)+int(b.count) <= fill
	}
	return a.size+b.size <= byteLimitForFill(fill)
}

// mergeInto appends src's elements onto dst. src is left untouched
// (its own packed array keeps holding the same values) so that an
// iterator already positioned inside src can keep reading it after it
// has been unlinked from the chain.
func mergeInto(dst, src *segment) {
	src.arr.Iterate(func(_ int, v packed.Value) bool {
		dst.arr.AppendTail(v)
		return true
	})
	dst.syncRaw()
}

// attemptMerge opportunistically merges seg with an adjacent RAW
// segment into the earlier of the two, if their combined contents
// would still satisfy the fill policy. Only one merge is attempted
// per call, preferring the earlier neighbor.
func (l *List) attemptMerge(seg *segment) {
	if p := seg.prev; p != nil && p.encoding == EncodingRaw && combinedFits(l.fill, p, seg) {
		mergeInto(p, seg)
		l.unlinkSegment(seg)
		l.rebalanceCompression()
		return
	}
	if n := seg.next; n != nil && n.encoding == EncodingRaw && combinedFits(l.fill, seg, n) {
		mergeInto(seg, n)
		l.unlinkSegment(n)
		l.rebalanceCompression()
	}
}

// DelEntry removes the element at e from its segment, keeping it
// (the iterator that produced e) positioned on the element that
// logically follows the deleted one in the iterator's direction, or
// past the segment's end if there is none.
func (it *Iterator) DelEntry(e Entry) error {
	if it.released {
		return ErrReleased
	}
	seg := e.seg
	l := it.list

	var afterOffset int
	var hasAfter bool
	if it.dir == Forward {
		afterOffset, hasAfter = seg.arr.Next(e.Offset)
	} else {
		afterOffset, hasAfter = seg.arr.Prev(e.Offset)
	}

	nextOff, ok := seg.arr.Delete(e.Offset)
	if !ok {
		return ErrOutOfRange
	}
	if it.dir == Forward {
		// the entry that followed e has shifted down into e's offset
		afterOffset = nextOff
	}
	seg.syncRaw()
	l.count--

	if it.cur == seg {
		if hasAfter {
			it.offset = afterOffset
		} else {
			if it.dir == Forward {
				it.cur = seg.next
			} else {
				it.cur = seg.prev
			}
			it.offset = -1
		}
	}

	if seg.isEmpty() {
		l.unlinkSegment(seg)
		l.rebalanceCompression()
		return nil
	}

	l.attemptMerge(seg)
	return nil
}

// ReplaceAtIndex overwrites the element at logical index i with v,
// returning false if i is out of range.
func (l *List) ReplaceAtIndex(i int64, v packed.Value) bool {
	norm, ok := l.normalizeIndex(i)
	if !ok {
		return false
	}
	seg, localIdx := l.segmentAt(norm)
	if seg == nil {
		return false
	}

	l.decompressForWrite(seg)
	off, ok := seg.arr.First()
	for idx := 0; idx < localIdx && ok; idx++ {
		off, ok = seg.arr.Next(off)
	}
	if !ok {
		l.recompressSegment(seg)
		return false
	}

	if _, ok := seg.arr.Replace(off, v); !ok {
		l.recompressSegment(seg)
		return false
	}
	seg.syncRaw()
	l.recompressSegment(seg)
	return true
}

// DelRange removes elements [start, stop] inclusive (negative indices
// count from the tail) and returns the number of elements removed.
func (l *List) DelRange(start, stop int64) int {
	if l.count == 0 {
		return 0
	}
	n := int64(l.count)

	lo := start
	if lo < 0 {
		lo += n
		if lo < 0 {
			lo = 0
		}
	}
	if lo >= n {
		return 0
	}

	hi := stop
	if hi < 0 {
		hi += n
		if hi < 0 {
			return 0
		}
	}
	if hi >= n {
		hi = n - 1
	}

	if lo > hi {
		return 0
	}

	removed := 0
	var touched []*segment

	var cum int64
	s := l.head
	for s != nil {
		segStart := cum
		segEnd := cum + int64(s.count) - 1
		next := s.next
		cum += int64(s.count)

		if segEnd < lo || segStart > hi {
			s = next
			continue
		}

		if segStart >= lo && segEnd <= hi {
			// segment wholly inside the range: drop it entirely.
			removed += int(s.count)
			l.unlinkSegment(s)
			s = next
			continue
		}

		// partial overlap: rewrite the segment's packed buffer.
		l.decompressForWrite(s)
		keepFrom := int64(0)
		if lo > segStart {
			keepFrom = lo - segStart
		}
		keepTo := int64(s.count) - 1
		if hi < segEnd {
			keepTo = hi - segStart
		}

		values := l.collectValues(s)
		kept := make([]packed.Value, 0, len(values))
		for idx, v := range values {
			if int64(idx) >= keepFrom && int64(idx) <= keepTo {
				removed++
				continue
			}
			kept = append(kept, v)
		}

		newArr := newSegment()
		for _, v := range kept {
			newArr.arr.AppendTail(v)
		}
		newArr.syncRaw()
		l.replaceSegment(s, []*segment{newArr})
		if newArr.isEmpty() {
			l.unlinkSegment(newArr)
		} else {
			touched = append(touched, newArr)
		}
		s = next
	}

	l.count -= removed
	for _, s := range touched {
		// an earlier merge in this loop may already have folded s into
		// its neighbor and unlinked it
		if (s.prev == nil && l.head != s) || (s.prev != nil && s.prev.next != s) {
			continue
		}
		l.attemptMerge(s)
	}
	l.rebalanceCompression()
	return removed
}

package seglist

import "github.com/nanodb/reactorkit/seglist/packed"

// PushHead prepends v to the list.
func (l *List) PushHead(v packed.Value) {
	l.Push(v, Head)
}

// PushTail appends v to the list.
func (l *List) PushTail(v packed.Value) {
	l.Push(v, Tail)
}

// Push adds v at the given end of the list, appending to the current
// end segment if its fill policy allows, else allocating a new one.
func (l *List) Push(v packed.Value, where Where) {
	var target *segment
	if where == Head {
		target = l.head
	} else {
		target = l.tail
	}

	// head/tail segments are always RAW, by the compression-window
	// invariant, so no decompress-on-access is needed here.
	if target != nil && target.admits(l.fill, v) {
		if where == Head {
			target.arr.AppendHead(v)
		} else {
			target.arr.AppendTail(v)
		}
		target.syncRaw()
		l.count++
		return
	}

	seg := newSegment()
	seg.arr.AppendTail(v)
	seg.syncRaw()
	l.linkSegment(seg, where)
	l.count++
	l.rebalanceCompression()
}

// InsertBefore splices v immediately before e in list order.
func (l *List) InsertBefore(e Entry, v packed.Value) {
	l.insert(e, v, false)
}

// InsertAfter splices v immediately after e in list order.
func (l *List) InsertAfter(e Entry, v packed.Value) {
	l.insert(e, v, true)
}

func (l *List) insert(e Entry, v packed.Value, after bool) {
	seg := e.seg
	l.decompressForWrite(seg)

	firstOff, _ := seg.arr.First()
	lastOff, _ := seg.arr.Last()
	atStart := e.Offset == firstOff
	atEnd := e.Offset == lastOff

	insertOffset := e.Offset
	if after {
		if next, ok := seg.arr.Next(e.Offset); ok {
			insertOffset = next
		} else {
			insertOffset = -1
		}
	}

	switch {
	case seg.admits(l.fill, v):
		seg.arr.InsertBefore(insertOffset, v)
		seg.syncRaw()
		l.count++

	case after && atEnd && seg.next != nil && canAdmit(l.fill, int(seg.next.count), seg.next.size, v):
		l.decompressForWrite(seg.next)
		seg.next.arr.AppendHead(v)
		seg.next.syncRaw()
		l.count++
		l.recompressSegment(seg.next)

	case !after && atStart && seg.prev != nil && canAdmit(l.fill, int(seg.prev.count), seg.prev.size, v):
		l.decompressForWrite(seg.prev)
		seg.prev.arr.AppendTail(v)
		seg.prev.syncRaw()
		l.count++
		l.recompressSegment(seg.prev)

	default:
		l.splitAndInsert(seg, insertOffset, v)
		l.count++
	}

	l.recompressSegment(seg)
	l.rebalanceCompression()
}

// splitAndInsert breaks seg into one or more new raw segments so the
// inserted value (spliced at insertOffset, -1 meaning end-of-segment)
// lands in a segment that admits it.
func (l *List) splitAndInsert(seg *segment, insertOffset int, v packed.Value) {
	values := l.collectValues(seg)
	idx := offsetIndex(seg.arr, insertOffset)

	merged := make([]packed.Value, 0, len(values)+1)
	merged = append(merged, values[:idx]...)
	merged = append(merged, v)
	merged = append(merged, values[idx:]...)

	news := l.packValues(merged)
	l.replaceSegment(seg, news)
}

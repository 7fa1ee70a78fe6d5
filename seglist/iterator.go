package seglist

// Direction is the traversal order of an Iterator.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Iterator is a cursor over a List that tolerates structural mutation
// through itself (DelEntry, ReplaceAtIndex) but not through any other
// path -- any other mutation invalidates it silently, per spec.
type Iterator struct {
	list     *List
	cur      *segment
	offset   int // -1 means "not yet positioned in cur"
	dir      Direction
	released bool
}

// GetIterator returns an iterator starting at the list's head
// (Forward) or tail (Reverse).
func (l *List) GetIterator(dir Direction) *Iterator {
	it := &Iterator{list: l, dir: dir, offset: -1}
	if dir == Forward {
		it.cur = l.head
	} else {
		it.cur = l.tail
	}
	return it
}

// GetIteratorAtIdx returns an iterator positioned so that its first
// Next() call returns the element at logical index i.
func (l *List) GetIteratorAtIdx(dir Direction, i int64) (*Iterator, bool) {
	e, ok := l.Index(i)
	if !ok {
		return nil, false
	}
	l.decompressForWrite(e.seg)
	return &Iterator{list: l, dir: dir, cur: e.seg, offset: e.Offset}, true
}

// Rewind repositions it to the head, iterating forward.
func (l *List) Rewind(it *Iterator) {
	it.dir = Forward
	it.cur = l.head
	it.offset = -1
	it.released = false
}

// RewindTail repositions it to the tail, iterating in reverse.
func (l *List) RewindTail(it *Iterator) {
	it.dir = Reverse
	it.cur = l.tail
	it.offset = -1
	it.released = false
}

// Release marks it as no longer usable. Any segment it left
// transiently decompressed is recompressed.
func (it *Iterator) Release() {
	if it.released {
		return
	}
	if it.cur != nil {
		it.list.recompressSegment(it.cur)
	}
	it.released = true
	it.cur = nil
}

// Next advances the iterator and returns the next entry, or
// ok=false once exhausted.
func (it *Iterator) Next() (Entry, bool) {
	if it.released {
		return Entry{}, false
	}
	for it.cur != nil {
		if it.offset == -1 {
			it.list.decompressForWrite(it.cur)
			var ok bool
			if it.dir == Forward {
				it.offset, ok = it.cur.arr.First()
			} else {
				it.offset, ok = it.cur.arr.Last()
			}
			if !ok {
				it.moveToNeighborSegment()
				continue
			}
		}

		v, ok := it.cur.arr.Get(it.offset)
		if !ok {
			it.moveToNeighborSegment()
			continue
		}

		e := Entry{List: it.list, seg: it.cur, Offset: it.offset, Value: v, Index: -1}
		it.advanceCursor()
		return e, true
	}
	return Entry{}, false
}

// advanceCursor moves the cursor to the position the following
// Next() call should read, crossing into the neighboring segment
// (recompressing the one being left) if this was the last position.
func (it *Iterator) advanceCursor() {
	var next int
	var ok bool
	if it.dir == Forward {
		next, ok = it.cur.arr.Next(it.offset)
	} else {
		next, ok = it.cur.arr.Prev(it.offset)
	}
	if ok {
		it.offset = next
		return
	}
	it.moveToNeighborSegment()
}

func (it *Iterator) moveToNeighborSegment() {
	it.list.recompressSegment(it.cur)
	if it.dir == Forward {
		it.cur = it.cur.next
	} else {
		it.cur = it.cur.prev
	}
	it.offset = -1
}

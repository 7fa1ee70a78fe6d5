package seglist

import "github.com/nanodb/reactorkit/seglist/packed"

// Pop removes and returns the element at the given end of the list.
func (l *List) Pop(where Where) (packed.Value, bool) {
	return l.PopCustom(where, func(v packed.Value) packed.Value {
		if !v.IsInt {
			v.Bytes = append([]byte(nil), v.Bytes...)
		}
		return v
	})
}

// PopCustom removes the element at the given end and returns xform
// applied to it, letting callers take ownership of the raw bytes
// before the segment they lived in is possibly freed.
func (l *List) PopCustom(where Where, xform func(packed.Value) packed.Value) (packed.Value, bool) {
	var seg *segment
	if where == Head {
		seg = l.head
	} else {
		seg = l.tail
	}
	if seg == nil {
		return packed.Value{}, false
	}

	var off int
	var ok bool
	if where == Head {
		off, ok = seg.arr.First()
	} else {
		off, ok = seg.arr.Last()
	}
	if !ok {
		return packed.Value{}, false
	}

	v, ok := seg.arr.Get(off)
	if !ok {
		return packed.Value{}, false
	}
	result := xform(v)

	if _, ok := seg.arr.Delete(off); !ok {
		return packed.Value{}, false
	}
	seg.syncRaw()
	l.count--

	if seg.isEmpty() {
		l.unlinkSegment(seg)
		l.rebalanceCompression()
	} else {
		l.attemptMerge(seg)
	}
	return result, true
}

// Rotate moves the tail element to the head, a single step of
// quicklist's rotate primitive.
func (l *List) Rotate() {
	if l.count <= 1 {
		return
	}
	v, ok := l.Pop(Tail)
	if !ok {
		return
	}
	l.Push(v, Head)
}

// Dup returns a deep copy of l: independent segments holding copies of
// every value, sharing the same fill and compression policy.
func (l *List) Dup() *List {
	out := NewWithOptions(Options{Fill: l.fill, CompressDepth: int(l.compress), Logger: l.Logger})
	for s := l.head; s != nil; s = s.next {
		for _, v := range l.collectValues(s) {
			out.PushTail(v)
		}
	}
	return out
}

// Equal reports whether l and other hold the same sequence of values,
// regardless of how each is split into segments.
func (l *List) Equal(other *List) bool {
	if l.count != other.count {
		return false
	}
	ai := l.GetIterator(Forward)
	bi := other.GetIterator(Forward)
	defer ai.Release()
	defer bi.Release()
	for {
		ea, aok := ai.Next()
		eb, bok := bi.Next()
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if !packed.Compare(ea.Value.Raw(), eb.Value.Raw()) {
			return false
		}
	}
}

// Compare is Equal under the name quicklistCompare uses.
func (l *List) Compare(other *List) bool {
	return l.Equal(other)
}

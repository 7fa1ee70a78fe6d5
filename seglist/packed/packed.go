// Package packed implements the narrow packed-array collaborator that
// seglist.Segment treats as an opaque buffer: append at either end,
// delete, replace, iterate, and report size/count.
//
// The wire format itself is not part of the specification this module
// implements (it is declared an external collaborator); this is a
// minimal, self-contained implementation sufficient to drive seglist,
// framed with the same big-endian binary.Msb helper used elsewhere in
// this codebase.
package packed

import (
	"bytes"

	"github.com/nanodb/reactorkit/binary"
)

var bin = binary.Msb

const (
	tagInt   = 0x00
	tagBytes = 0x01

	intEntrySize = 1 + 8 // tag + int64
	lenPrefix    = 4     // uint32 length prefix for byte entries
)

// Array is a sequence of dual-typed entries packed into one []byte.
// Entries are addressed by their byte offset within buf; -1 denotes
// "no such entry" (used for head/tail sentinels).
type Array struct {
	buf   []byte
	count int
}

// New returns an empty packed array.
func New() *Array {
	return &Array{}
}

// FromBytes reconstructs an Array from a previously exported buffer
// and its known element count (e.g. after decompression).
func FromBytes(buf []byte, count int) *Array {
	return &Array{buf: buf, count: count}
}

// FromRawBuffer reconstructs an Array from a buffer whose element
// count is not known up front -- e.g. a buffer handed in by a caller
// that only has the packed bytes, not the side-channel count a
// decompression round trip carries. It walks the buffer once to
// recover the count.
func FromRawBuffer(buf []byte) *Array {
	a := &Array{buf: buf}
	a.Iterate(func(int, Value) bool {
		a.count++
		return true
	})
	return a
}

// Bytes returns the raw backing buffer. Callers must not retain it
// across a mutating call.
func (a *Array) Bytes() []byte {
	return a.buf
}

// Size returns the buffer size in bytes.
func (a *Array) Size() int {
	return len(a.buf)
}

// Count returns the number of entries.
func (a *Array) Count() int {
	return a.count
}

// encodedSize returns the number of bytes v would occupy once packed.
func encodedSize(v Value) int {
	if v.IsInt {
		return intEntrySize
	}
	return 1 + lenPrefix + len(v.Bytes)
}

// AppendedSize returns the buffer size that would result from
// appending v, without mutating the array. Used by the fill policy to
// decide whether an insertion is admissible before committing it.
func (a *Array) AppendedSize(v Value) int {
	return len(a.buf) + encodedSize(v)
}

// EncodedSize returns the number of bytes v occupies once packed,
// without requiring an Array to compute against.
func EncodedSize(v Value) int {
	return encodedSize(v)
}

func appendEntry(dst []byte, v Value) []byte {
	if v.IsInt {
		dst = append(dst, tagInt)
		var b [8]byte
		bin.PutUint64(b[:], uint64(v.Int))
		return append(dst, b[:]...)
	}
	dst = append(dst, tagBytes)
	var b [lenPrefix]byte
	bin.PutUint32(b[:], uint32(len(v.Bytes)))
	dst = append(dst, b[:]...)
	return append(dst, v.Bytes...)
}

// AppendTail appends v at the end of the array.
func (a *Array) AppendTail(v Value) {
	a.buf = appendEntry(a.buf, v)
	a.count++
}

// AppendHead prepends v at the start of the array.
func (a *Array) AppendHead(v Value) {
	enc := appendEntry(nil, v)
	buf := make([]byte, 0, len(enc)+len(a.buf))
	buf = append(buf, enc...)
	buf = append(buf, a.buf...)
	a.buf = buf
	a.count++
}

// decode reads the entry starting at offset, returning its value and
// total encoded size. ok is false if offset is out of range.
func (a *Array) decode(offset int) (v Value, size int, ok bool) {
	if offset < 0 || offset >= len(a.buf) {
		return Value{}, 0, false
	}
	switch a.buf[offset] {
	case tagInt:
		if offset+intEntrySize > len(a.buf) {
			return Value{}, 0, false
		}
		n := int64(bin.Uint64(a.buf[offset+1 : offset+intEntrySize]))
		return Value{IsInt: true, Int: n}, intEntrySize, true
	case tagBytes:
		if offset+1+lenPrefix > len(a.buf) {
			return Value{}, 0, false
		}
		n := int(bin.Uint32(a.buf[offset+1 : offset+1+lenPrefix]))
		start := offset + 1 + lenPrefix
		if start+n > len(a.buf) {
			return Value{}, 0, false
		}
		return Value{Bytes: a.buf[start : start+n]}, 1 + lenPrefix + n, true
	default:
		return Value{}, 0, false
	}
}

// Get returns the entry at offset.
func (a *Array) Get(offset int) (Value, bool) {
	v, _, ok := a.decode(offset)
	return v, ok
}

// First returns the offset of the first entry, or ok=false if empty.
func (a *Array) First() (int, bool) {
	if len(a.buf) == 0 {
		return -1, false
	}
	return 0, true
}

// Last returns the offset of the last entry, or ok=false if empty.
func (a *Array) Last() (int, bool) {
	off, ok := a.First()
	if !ok {
		return -1, false
	}
	for {
		_, size, _ := a.decode(off)
		next := off + size
		if next >= len(a.buf) {
			return off, true
		}
		off = next
	}
}

// Next returns the offset right after the entry at offset.
func (a *Array) Next(offset int) (int, bool) {
	_, size, ok := a.decode(offset)
	if !ok {
		return -1, false
	}
	next := offset + size
	if next >= len(a.buf) {
		return -1, false
	}
	return next, true
}

// Prev returns the offset of the entry right before the entry at offset.
func (a *Array) Prev(offset int) (int, bool) {
	if offset <= 0 {
		return -1, false
	}
	cur, ok := a.First()
	if !ok {
		return -1, false
	}
	prev := -1
	for cur < offset {
		prev = cur
		_, size, ok := a.decode(cur)
		if !ok {
			return -1, false
		}
		cur += size
	}
	if prev == -1 {
		return -1, false
	}
	return prev, true
}

// Delete removes the entry at offset, returning the offset that now
// logically follows it (the entry that used to come right after), or
// -1 if the deleted entry was last.
func (a *Array) Delete(offset int) (nextOffset int, ok bool) {
	_, size, ok := a.decode(offset)
	if !ok {
		return -1, false
	}
	a.buf = append(a.buf[:offset], a.buf[offset+size:]...)
	a.count--
	if offset >= len(a.buf) {
		return -1, true
	}
	return offset, true
}

// Replace overwrites the entry at offset with v, returning the offset
// of the (possibly relocated) entry.
func (a *Array) Replace(offset int, v Value) (newOffset int, ok bool) {
	_, size, ok := a.decode(offset)
	if !ok {
		return -1, false
	}
	enc := appendEntry(nil, v)
	tail := append([]byte(nil), a.buf[offset+size:]...)
	a.buf = append(a.buf[:offset], enc...)
	a.buf = append(a.buf, tail...)
	return offset, true
}

// InsertBefore splices v into the array immediately before offset.
// offset may be -1 to mean "at the end".
func (a *Array) InsertBefore(offset int, v Value) (newOffset int) {
	enc := appendEntry(nil, v)
	if offset < 0 || offset >= len(a.buf) {
		a.buf = append(a.buf, enc...)
		a.count++
		return len(a.buf) - len(enc)
	}
	tail := append([]byte(nil), a.buf[offset:]...)
	a.buf = append(a.buf[:offset], enc...)
	a.buf = append(a.buf, tail...)
	a.count++
	return offset
}

// Iterate calls fn for every entry in forward order with its offset,
// until fn returns false or entries are exhausted.
func (a *Array) Iterate(fn func(offset int, v Value) bool) {
	off, ok := a.First()
	for ok {
		v, size, dok := a.decode(off)
		if !dok {
			return
		}
		if !fn(off, v) {
			return
		}
		next := off + size
		if next >= len(a.buf) {
			return
		}
		off = next
	}
}

// Compare reports whether the two raw packed buffers are byte-identical.
func Compare(a, b []byte) bool {
	return bytes.Equal(a, b)
}

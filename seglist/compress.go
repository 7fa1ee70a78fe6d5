package seglist

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/nanodb/reactorkit/seglist/packed"
)

// compressMargin is the byte saving compression must exceed before
// it's worth paying the decompress-on-access cost; at or below this,
// the segment is left RAW.
const compressMargin = 8

// toRaw restores a COMPRESSED segment to RAW. It does not touch the
// recompress flag: rebalanceCompression calls it directly so the
// result sticks, while decompressForWrite wraps it and sets the flag
// itself for transient access.
func (l *List) toRaw(s *segment) {
	if s.encoding != EncodingCompressed {
		return
	}
	raw, err := s2.Decode(nil, s.blob)
	if err != nil {
		panic(fmt.Sprintf("seglist: corrupt compressed segment: %v", err))
	}
	s.arr = packed.FromBytes(raw, int(s.count))
	s.blob = nil
	s.size = len(raw)
	s.encoding = EncodingRaw
}

// decompressForWrite transiently restores s to RAW so a caller can
// read or mutate it, marking it for recompression once the caller is
// done (recompressSegment).
func (l *List) decompressForWrite(s *segment) {
	wasCompressed := s.encoding == EncodingCompressed
	l.toRaw(s)
	if wasCompressed {
		s.recompress = true
	}
}

// recompressSegment re-applies compression policy to a segment
// previously handed to decompressForWrite, if it's still owed one.
func (l *List) recompressSegment(s *segment) {
	if !s.recompress {
		return
	}
	s.recompress = false
	l.compressSegment(s)
}

// compressSegment attempts to replace a RAW segment's buffer with a
// compressed envelope. No-op if the segment is already compressed, or
// if compressing wouldn't shrink it by more than compressMargin bytes
// (the attemptedCompress flag records that case for instrumentation).
func (l *List) compressSegment(s *segment) {
	if s.encoding != EncodingRaw {
		return
	}
	raw := s.arr.Bytes()
	if len(raw) == 0 {
		return
	}
	compressed := s2.Encode(nil, raw)
	if len(compressed) >= len(raw)-compressMargin {
		s.attemptedCompress = true
		return
	}

	s.blob = compressed
	s.size = len(raw)
	s.arr = nil
	s.encoding = EncodingCompressed
	s.attemptedCompress = false

	if l.Logger != nil {
		l.Debug().Int("raw_bytes", len(raw)).Int("compressed_bytes", len(compressed)).
			Msg("seglist: segment compressed")
	}
}

// CompressedSize reports the on-the-wire size of a compressed
// segment without fully decompressing it, mirroring
// quicklistGetLzf's role for test/instrumentation use.
func (s *segment) CompressedSize() (int, bool) {
	if s.encoding != EncodingCompressed {
		return 0, false
	}
	return len(s.blob), true
}

// rebalanceCompression walks the whole chain and makes every
// segment's encoding match the position rule: segments within
// compress of either end are RAW, interior segments are COMPRESSED.
// compress == 0 disables compression entirely.
func (l *List) rebalanceCompression() {
	if l.compress == 0 {
		for s := l.head; s != nil; s = s.next {
			l.toRaw(s)
			s.recompress = false
		}
		return
	}

	n := l.segCount
	i := 0
	for s := l.head; s != nil; s = s.next {
		band := i
		if n-1-i < band {
			band = n - 1 - i
		}
		if band < int(l.compress) {
			l.toRaw(s)
			s.recompress = false
		} else {
			l.compressSegment(s)
		}
		i++
	}
}

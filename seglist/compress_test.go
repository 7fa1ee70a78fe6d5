package seglist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nanodb/reactorkit/seglist/packed"
)

func fillList(l *List, n int) {
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}
	for i := 0; i < n; i++ {
		l.PushTail(packed.BytesValue(payload))
	}
}

func TestCompressionWindowLeavesEdgesRaw(t *testing.T) {
	l := New(4, 1)
	fillList(l, 40) // many segments given fill 4

	segs := l.Segments()
	require.True(t, len(segs) >= 5)

	require.Equal(t, EncodingRaw, segs[0].Encoding)
	require.Equal(t, EncodingRaw, segs[len(segs)-1].Encoding)

	foundCompressed := false
	for _, s := range segs[1 : len(segs)-1] {
		if s.Encoding == EncodingCompressed {
			foundCompressed = true
		}
	}
	require.True(t, foundCompressed)
}

func TestSetCompressDepthZeroDisables(t *testing.T) {
	l := New(4, 1)
	fillList(l, 40)

	l.SetCompressDepth(0)
	for _, s := range l.Segments() {
		require.Equal(t, EncodingRaw, s.Encoding)
	}
}

func TestCompressedSegmentReportsCompressedSize(t *testing.T) {
	l := New(4, 1)
	fillList(l, 40)

	found := false
	for _, s := range l.Segments() {
		if s.Encoding != EncodingCompressed {
			continue
		}
		found = true
		require.Greater(t, s.CompressedSize, 0)
	}
	require.True(t, found)
}

func TestDecompressOnAccessRoundTrips(t *testing.T) {
	l := New(2, 1)
	for i := int64(0); i < 10; i++ {
		l.PushTail(packed.IntValue(i))
	}

	before := intSlice(l)
	e, ok := l.Index(5)
	require.True(t, ok)
	n, _ := e.Int64()
	require.Equal(t, int64(5), n)
	require.Equal(t, before, intSlice(l))
}

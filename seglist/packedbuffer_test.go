package seglist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nanodb/reactorkit/seglist/packed"
)

func buildBuffer(values ...packed.Value) []byte {
	arr := packed.New()
	for _, v := range values {
		arr.AppendTail(v)
	}
	return arr.Bytes()
}

func TestAppendPackedBufferLinksOneSegment(t *testing.T) {
	l := Create()
	l.PushTail(packed.IntValue(1))

	before := l.SegmentCount()
	l.AppendPackedBuffer(buildBuffer(packed.IntValue(2), packed.IntValue(3)))

	require.Equal(t, before+1, l.SegmentCount())
	require.Equal(t, 3, l.Count())
	require.Equal(t, []int64{1, 2, 3}, intSlice(l))
}

func TestAppendValuesFromPackedBufferRespectsFill(t *testing.T) {
	l := New(2, 0)
	l.AppendValuesFromPackedBuffer(buildBuffer(
		packed.IntValue(1), packed.IntValue(2), packed.IntValue(3),
	))

	require.Equal(t, 3, l.Count())
	require.Greater(t, l.SegmentCount(), 1, "fill of 2 must split 3 values across segments")
	require.Equal(t, []int64{1, 2, 3}, intSlice(l))
}

func TestCreateFromPackedBuffer(t *testing.T) {
	buf := buildBuffer(packed.IntValue(10), packed.BytesValue([]byte("hi")))
	l := CreateFromPackedBuffer(-2, 1, buf)

	require.Equal(t, 2, l.Count())
	require.Equal(t, -2, l.Fill())
	require.Equal(t, 1, l.CompressDepth())

	it := l.GetIterator(Forward)
	defer it.Release()
	e, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, int64(10), func() int64 { n, _ := e.Int64(); return n }())
}

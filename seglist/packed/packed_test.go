package packed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndIterate(t *testing.T) {
	a := New()
	a.AppendTail(IntValue(1))
	a.AppendTail(BytesValue([]byte("two")))
	a.AppendHead(IntValue(0))

	var got []string
	a.Iterate(func(_ int, v Value) bool {
		got = append(got, v.String())
		return true
	})
	require.Equal(t, []string{"0", "1", "two"}, got)
	require.Equal(t, 3, a.Count())
}

func TestBytesValueDetectsCanonicalIntegers(t *testing.T) {
	v := BytesValue([]byte("42"))
	require.True(t, v.IsInt)
	n, ok := v.Int64()
	require.True(t, ok)
	require.Equal(t, int64(42), n)

	// leading zero must not be folded into an integer: it wouldn't
	// round-trip back to the same bytes.
	v2 := BytesValue([]byte("007"))
	require.False(t, v2.IsInt)
	require.Equal(t, "007", v2.String())
}

func TestDeleteReplaceAndNavigation(t *testing.T) {
	a := New()
	a.AppendTail(IntValue(10))
	a.AppendTail(IntValue(20))
	a.AppendTail(IntValue(30))

	off, ok := a.First()
	require.True(t, ok)
	off, ok = a.Next(off)
	require.True(t, ok)
	v, ok := a.Get(off)
	require.True(t, ok)
	require.Equal(t, int64(20), v.Int)

	newOff, ok := a.Replace(off, IntValue(99))
	require.True(t, ok)
	v, _ = a.Get(newOff)
	require.Equal(t, int64(99), v.Int)

	next, ok := a.Delete(newOff)
	require.True(t, ok)
	v, ok = a.Get(next)
	require.True(t, ok)
	require.Equal(t, int64(30), v.Int)
	require.Equal(t, 2, a.Count())
}

func TestInsertBeforeAndLast(t *testing.T) {
	a := New()
	a.AppendTail(IntValue(1))
	a.AppendTail(IntValue(3))

	off, _ := a.Last()
	a.InsertBefore(off, IntValue(2))

	var got []int64
	a.Iterate(func(_ int, v Value) bool {
		got = append(got, v.Int)
		return true
	})
	require.Equal(t, []int64{1, 2, 3}, got)

	last, ok := a.Last()
	require.True(t, ok)
	v, _ := a.Get(last)
	require.Equal(t, int64(3), v.Int)
}

//go:build unix

package evloop

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestGetFileEventsAndDelete(t *testing.T) {
	l, err := CreateEventLoop(8)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	require.Equal(t, None, l.GetFileEvents(3))

	err = l.CreateFileEvent(3, Readable, func(*Loop, int, any, Mask) {}, nil)
	require.NoError(t, err)
	require.Equal(t, Readable, l.GetFileEvents(3))
	require.Equal(t, 3, l.maxFd)

	l.DeleteFileEvent(3, Readable)
	require.Equal(t, None, l.GetFileEvents(3))
	require.Equal(t, -1, l.maxFd)
}

func TestMaxFdTracksHighestRegisteredDescriptor(t *testing.T) {
	l, err := CreateEventLoop(16)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	require.NoError(t, l.CreateFileEvent(2, Readable, func(*Loop, int, any, Mask) {}, nil))
	require.NoError(t, l.CreateFileEvent(7, Readable, func(*Loop, int, any, Mask) {}, nil))
	require.Equal(t, 7, l.maxFd)

	l.DeleteFileEvent(7, Readable)
	require.Equal(t, 2, l.maxFd)
}

func TestRateLimitSkipDropsExcessDispatch(t *testing.T) {
	l, err := CreateEventLoop(8)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	calls := 0
	err = l.CreateFileEvent(1, Readable, func(*Loop, int, any, Mask) {
		calls++
	}, nil)
	require.NoError(t, err)

	l.SetRateLimit(1, rate.NewLimiter(0, 1), true) // one token, never refills
	l.fired = []FiredEvent{{Fd: 1, Mask: Readable}}

	l.dispatchFileEvents()
	l.dispatchFileEvents()

	require.Equal(t, 1, calls)
}

func TestResizeSetSizeRejectsShrinkBelowMaxFd(t *testing.T) {
	l, err := CreateEventLoop(16)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	require.NoError(t, l.CreateFileEvent(10, Readable, func(*Loop, int, any, Mask) {}, nil))
	require.ErrorIs(t, l.ResizeSetSize(5), ErrBadFd)
}

//go:build unix

package evloop

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestTimerFiresOnce(t *testing.T) {
	l, err := CreateEventLoop(64)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	fired := 0
	finalized := false
	l.CreateTimeEvent(10, func(l *Loop, id int64, data any) (time.Duration, bool) {
		fired++
		l.Stop()
		return 0, false
	}, nil, func(l *Loop, id int64, data any) {
		finalized = true
	})

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		l.ProcessEvents(AllEvents | DontWait)
		if fired > 0 {
			time.Sleep(5 * time.Millisecond)
			l.ProcessEvents(AllEvents | DontWait) // sweep the deleted sentinel
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	require.Equal(t, 1, fired)
	require.True(t, finalized)
	require.Nil(t, l.timeHead)
}

func TestTimerRearm(t *testing.T) {
	l, err := CreateEventLoop(64)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	var fired int
	l.CreateTimeEvent(5, func(l *Loop, id int64, data any) (time.Duration, bool) {
		fired++
		if fired >= 3 {
			return 0, false
		}
		return 5 * time.Millisecond, true
	}, nil, nil)

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) && fired < 3 {
		l.ProcessEvents(AllEvents | DontWait)
		time.Sleep(3 * time.Millisecond)
	}

	require.Equal(t, 3, fired)
}

func TestPipeEcho(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	l, err := CreateEventLoop(64)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	rfd := int(r.Fd())
	wfd := int(w.Fd())

	var got byte
	err = l.CreateFileEvent(rfd, Readable, func(l *Loop, fd int, data any, mask Mask) {
		buf := make([]byte, 1)
		unix.Read(fd, buf)
		got = buf[0]
		l.Stop()
	}, nil)
	require.NoError(t, err)

	err = l.CreateFileEvent(wfd, Writable, func(l *Loop, fd int, data any, mask Mask) {
		unix.Write(fd, []byte("X"))
		l.DeleteFileEvent(fd, Writable)
	}, nil)
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for !l.stopped && time.Now().Before(deadline) {
		l.ProcessEvents(AllEvents)
	}

	require.Equal(t, byte('X'), got)
}

func TestBarrierFiresOnlyOne(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = w.Write([]byte("x"))
	require.NoError(t, err)

	l, err := CreateEventLoop(64)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	fd := int(r.Fd())
	var reads, writes int
	err = l.CreateFileEvent(fd, Readable|Barrier, func(l *Loop, fd int, data any, mask Mask) {
		reads++
	}, nil)
	require.NoError(t, err)
	// same descriptor is not genuinely writable (it's read-only), so
	// force the writable bit by hand to exercise the barrier branch.
	l.events[fd].mask |= Writable
	l.events[fd].writeProc = func(l *Loop, fd int, data any, mask Mask) {
		writes++
	}

	l.fired = []FiredEvent{{Fd: fd, Mask: Readable | Writable}}
	l.dispatchFileEvents()

	require.Equal(t, 0, reads)
	require.Equal(t, 1, writes)
}

func TestGetSetApiNameAndResize(t *testing.T) {
	l, err := CreateEventLoop(4)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	require.NotEmpty(t, l.GetApiName())
	require.Equal(t, 4, l.GetSetSize())

	require.NoError(t, l.ResizeSetSize(16))
	require.Equal(t, 16, l.GetSetSize())
}

func TestCreateFileEventRejectsOutOfRange(t *testing.T) {
	l, err := CreateEventLoop(4)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	err = l.CreateFileEvent(10, Readable, func(*Loop, int, any, Mask) {}, nil)
	require.ErrorIs(t, err, ErrBadFd)
}

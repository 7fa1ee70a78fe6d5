package evloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeleteTimeEventDefersFinalizer(t *testing.T) {
	l, err := CreateEventLoop(8)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	finalized := 0
	id := l.CreateTimeEvent(1000, func(l *Loop, id int64, data any) (time.Duration, bool) {
		t.Fatal("proc should never run: timer is deleted before it can fire")
		return 0, false
	}, nil, func(l *Loop, id int64, data any) {
		finalized++
	})

	require.NoError(t, l.DeleteTimeEvent(id))
	require.Equal(t, 0, finalized, "finalizer must not run synchronously with DeleteTimeEvent")

	l.processTimeEvents()
	require.Equal(t, 1, finalized)
	require.Nil(t, l.timeHead)
}

func TestDeleteTimeEventUnknownID(t *testing.T) {
	l, err := CreateEventLoop(8)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	require.ErrorIs(t, l.DeleteTimeEvent(999), ErrNoTimeEvent)
}

func TestClockSkewForcesImmediateFire(t *testing.T) {
	l, err := CreateEventLoop(8)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	now := time.Now()
	l.clock = func() time.Time { return now }
	l.lastTime = now

	fired := 0
	l.CreateTimeEvent(10_000, func(l *Loop, id int64, data any) (time.Duration, bool) {
		fired++
		return 0, false
	}, nil, nil)

	// wall clock regresses
	l.clock = func() time.Time { return now.Add(-time.Hour) }
	l.processTimeEvents()

	require.Equal(t, 1, fired)
}

func TestCreateTimeEventAssignsMonotonicIDs(t *testing.T) {
	l, err := CreateEventLoop(8)
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	noop := func(l *Loop, id int64, data any) (time.Duration, bool) { return 0, false }
	a := l.CreateTimeEvent(1000, noop, nil, nil)
	b := l.CreateTimeEvent(1000, noop, nil, nil)
	require.Less(t, a, b)
}

// Package evloop implements a single-threaded reactor: a readiness
// multiplexer over file descriptors plus an unsorted list of timed
// callbacks, the scheduling backbone the rest of a data-store kernel
// would be built on. Grounded on redis's ae.c/ae_epoll.c, built the
// way the teacher builds its stateful types (embedded *zerolog.Logger,
// Options/DefaultOptions, a per-package errors.go).
package evloop

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Flags select which kind of events ProcessEvents considers, and how
// it should behave while waiting for them.
type Flags int

const (
	FileEvents     Flags = 1
	TimeEvents     Flags = 2
	AllEvents      Flags = FileEvents | TimeEvents
	DontWait       Flags = 4
	CallAfterSleep Flags = 8
)

// BeforeSleepProc runs immediately before or after the loop blocks in
// its backend's Poll.
type BeforeSleepProc func(l *Loop)

// Loop is a single-threaded event dispatcher: a file-descriptor
// registration table backed by a Backend, and an unsorted chain of
// timers.
type Loop struct {
	*zerolog.Logger

	backend Backend
	setSize int
	maxFd   int

	events []fileEvent
	fired  []FiredEvent

	timeHead    *timeEvent
	nextTimerID int64
	lastTime    time.Time

	stopped bool

	beforeSleep BeforeSleepProc
	afterSleep  BeforeSleepProc

	clock func() time.Time
}

// CreateEventLoop allocates a Loop able to track up to setSize file
// descriptors, on the platform's preferred backend.
func CreateEventLoop(setSize int) (*Loop, error) {
	return NewWithOptions(Options{SetSize: setSize})
}

// NewWithOptions is CreateEventLoop with a full Options value, e.g. to
// pick a specific backend or attach a logger.
func NewWithOptions(opts Options) (*Loop, error) {
	setSize := opts.SetSize
	if setSize <= 0 {
		setSize = DefaultOptions.SetSize
	}

	backend, err := newBackend(setSize, opts.Backend)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		backend:  backend,
		setSize:  setSize,
		maxFd:    -1,
		events:   make([]fileEvent, setSize),
		fired:    make([]FiredEvent, 0, setSize),
		lastTime: time.Now(),
		clock:    time.Now,
	}
	if opts.Logger != nil {
		l.Logger = opts.Logger
	} else {
		nop := zerolog.Nop()
		l.Logger = &nop
	}
	return l, nil
}

func (l *Loop) now() time.Time {
	if l.clock != nil {
		return l.clock()
	}
	return time.Now()
}

func (l *Loop) logger() *zerolog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

// DeleteEventLoop releases the loop's backend and runs every pending
// timer's finalizer, mirroring aeDeleteEventLoop's teardown order.
func (l *Loop) DeleteEventLoop() error {
	for te := l.timeHead; te != nil; te = te.next {
		if te.finalizer != nil {
			te.finalizer(l, te.id, te.data)
		}
	}
	l.timeHead = nil
	return l.backend.Close()
}

// Stop requests the loop exit Main after the current turn completes.
func (l *Loop) Stop() {
	l.stopped = true
}

// GetApiName returns the backend's name, e.g. "epoll" or "select".
func (l *Loop) GetApiName() string {
	return l.backend.Name()
}

// SetBeforeSleepProc installs a hook run immediately before the loop
// blocks in its backend's Poll.
func (l *Loop) SetBeforeSleepProc(proc BeforeSleepProc) {
	l.beforeSleep = proc
}

// SetAfterSleepProc installs a hook run immediately after the loop
// wakes from its backend's Poll, when ProcessEvents is called with
// CallAfterSleep.
func (l *Loop) SetAfterSleepProc(proc BeforeSleepProc) {
	l.afterSleep = proc
}

// GetSetSize returns the number of descriptors the loop can track.
func (l *Loop) GetSetSize() int {
	return l.setSize
}

// ResizeSetSize grows or shrinks the descriptor table. It fails
// without effect if any currently registered descriptor would fall
// outside the new size.
func (l *Loop) ResizeSetSize(n int) error {
	if n <= l.maxFd {
		return ErrBadFd
	}
	if err := l.backend.Resize(n); err != nil {
		return err
	}
	events := make([]fileEvent, n)
	copy(events, l.events)
	l.events = events
	l.setSize = n
	return nil
}

// ProcessEvents runs one turn of the dispatcher: it waits for file
// and/or timer readiness per flags, dispatches fired file callbacks
// honoring the Barrier rule, then runs expired timers. It returns the
// number of callbacks invoked.
func (l *Loop) ProcessEvents(flags Flags) int {
	if flags&(FileEvents|TimeEvents) == 0 {
		return 0
	}

	processed := 0

	hasRegistrations := l.maxFd >= 0
	waitForTimers := flags&TimeEvents != 0 && flags&DontWait == 0
	if hasRegistrations || waitForTimers {
		timeout, block := l.pollTimeout(flags)

		if l.beforeSleep != nil {
			l.beforeSleep(l)
		}

		fired, err := l.backend.Poll(timeout, block)
		if err == nil {
			l.fired = fired
		} else {
			l.logger().Debug().Err(err).Msg("evloop: backend poll failed")
			l.fired = nil
		}

		if flags&CallAfterSleep != 0 && l.afterSleep != nil {
			l.afterSleep(l)
		}

		if flags&FileEvents != 0 {
			processed += l.dispatchFileEvents()
		}
	}

	if flags&TimeEvents != 0 {
		processed += l.processTimeEvents()
	}

	return processed
}

// pollTimeout computes the backend Poll call's timeout and whether it
// should block indefinitely.
func (l *Loop) pollTimeout(flags Flags) (timeout time.Duration, block bool) {
	if flags&DontWait != 0 {
		return 0, false
	}

	if flags&TimeEvents == 0 {
		return 0, true
	}

	deadline, ok := l.nearestDeadline()
	if !ok {
		if flags&FileEvents != 0 {
			return 0, true
		}
		return 0, false
	}

	d := deadline.Sub(l.now())
	if d < 0 {
		d = 0
	}
	return d, false
}

// dispatchFileEvents runs the read/write callbacks for every fired
// descriptor, applying the Barrier rule and each descriptor's
// optional rate limit. Per the Barrier resolution recorded in
// DESIGN.md, when both ends fire on a barrier-marked descriptor only
// the write callback runs this turn; the read callback follows on a
// later turn if the descriptor is still readable (P5).
func (l *Loop) dispatchFileEvents() int {
	processed := 0
	for _, fe := range l.fired {
		if fe.Fd < 0 || fe.Fd >= l.setSize {
			continue
		}
		reg := &l.events[fe.Fd]
		if reg.mask == None {
			continue
		}

		readable := fe.Mask&Readable != 0 && reg.mask&Readable != 0
		writable := fe.Mask&Writable != 0 && reg.mask&Writable != 0
		barrier := reg.mask&Barrier != 0

		if barrier && readable && writable {
			if reg.writeProc != nil && l.allowDispatch(reg) {
				reg.writeProc(l, fe.Fd, reg.data, Writable)
				processed++
			}
			continue
		}

		if readable && reg.readProc != nil && l.allowDispatch(reg) {
			reg.readProc(l, fe.Fd, reg.data, Readable)
			processed++
		}

		// re-check: the read callback may have self-unregistered fd.
		reg = &l.events[fe.Fd]
		if writable && reg.mask&Writable != 0 && reg.writeProc != nil && l.allowDispatch(reg) {
			reg.writeProc(l, fe.Fd, reg.data, Writable)
			processed++
		}
	}
	return processed
}

// allowDispatch applies reg's optional rate limit, if any.
func (l *Loop) allowDispatch(reg *fileEvent) bool {
	if reg.limiter == nil {
		return true
	}
	if reg.limitSkip {
		return reg.limiter.Allow()
	}
	reg.limiter.Wait(context.Background())
	return true
}

// Main runs turns until Stop is called.
func (l *Loop) Main() {
	l.stopped = false
	for !l.stopped {
		if l.beforeSleep != nil {
			l.beforeSleep(l)
		}
		l.ProcessEvents(AllEvents | CallAfterSleep)
	}
}

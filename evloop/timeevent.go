package evloop

import "time"

// TimeProc is invoked when a timer's deadline has passed. Returning
// again=false deletes the timer (the NO_MORE sentinel); returning
// true reschedules it for now+next.
type TimeProc func(l *Loop, id int64, data any) (next time.Duration, again bool)

// FinalizerProc runs once, the turn after a timer is deleted (whether
// by its own TimeProc or by DeleteTimeEvent).
type FinalizerProc func(l *Loop, id int64, data any)

type timeEvent struct {
	id        int64
	deadline  time.Time
	proc      TimeProc
	finalizer FinalizerProc
	data      any
	deleted   bool

	prev, next *timeEvent
}

// CreateTimeEvent schedules proc to run after ms elapse, returning
// the new timer's id.
func (l *Loop) CreateTimeEvent(ms int64, proc TimeProc, data any, finalizer FinalizerProc) int64 {
	l.nextTimerID++
	id := l.nextTimerID

	te := &timeEvent{
		id:        id,
		deadline:  l.now().Add(time.Duration(ms) * time.Millisecond),
		proc:      proc,
		finalizer: finalizer,
		data:      data,
	}

	te.next = l.timeHead
	if l.timeHead != nil {
		l.timeHead.prev = te
	}
	l.timeHead = te
	return id
}

// DeleteTimeEvent marks id for removal. Actual unlinking and
// finalizer invocation happen on the next ProcessEvents pass.
func (l *Loop) DeleteTimeEvent(id int64) error {
	for te := l.timeHead; te != nil; te = te.next {
		if te.id == id {
			te.deleted = true
			return nil
		}
	}
	return ErrNoTimeEvent
}

// nearestDeadline scans live timers for the earliest deadline.
func (l *Loop) nearestDeadline() (time.Time, bool) {
	var nearest time.Time
	found := false
	for te := l.timeHead; te != nil; te = te.next {
		if te.deleted {
			continue
		}
		if !found || te.deadline.Before(nearest) {
			nearest = te.deadline
			found = true
		}
	}
	return nearest, found
}

// processTimeEvents runs every expired, non-deleted timer whose id is
// within the snapshot taken at the start of this turn (so timers
// created by a callback this turn don't fire until the next one), and
// sweeps deleted timers, running their finalizers.
func (l *Loop) processTimeEvents() int {
	if l.timeHead == nil {
		return 0
	}

	now := l.now()
	if now.Before(l.lastTime) {
		for te := l.timeHead; te != nil; te = te.next {
			te.deadline = now
		}
		l.logger().Debug().Msg("evloop: clock skew detected, forcing all timers to fire")
	}
	l.lastTime = now

	snapshot := l.nextTimerID
	processed := 0

	te := l.timeHead
	for te != nil {
		nextTE := te.next

		if te.deleted {
			if te.finalizer != nil {
				te.finalizer(l, te.id, te.data)
			}
			l.unlinkTimeEvent(te)
			te = nextTE
			continue
		}

		if te.id <= snapshot && !now.Before(te.deadline) {
			processed++
			next, again := te.proc(l, te.id, te.data)
			if again {
				te.deadline = l.now().Add(next)
			} else {
				te.deleted = true
			}
		}
		te = nextTE
	}
	return processed
}

func (l *Loop) unlinkTimeEvent(te *timeEvent) {
	if te.prev != nil {
		te.prev.next = te.next
	} else {
		l.timeHead = te.next
	}
	if te.next != nil {
		te.next.prev = te.prev
	}
}

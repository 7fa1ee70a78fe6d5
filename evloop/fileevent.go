package evloop

import "golang.org/x/time/rate"

// Mask is a set of file-registration bits.
type Mask uint8

const (
	None     Mask = 0
	Readable Mask = 1
	Writable Mask = 2
	Barrier  Mask = 4
)

// String hand-writes Mask's rendering rather than going through a
// generator, the same precedent dir.Dir sets for small enum types.
func (m Mask) String() string {
	if m == None {
		return "none"
	}
	s := ""
	if m&Readable != 0 {
		s += "r"
	}
	if m&Writable != 0 {
		s += "w"
	}
	if m&Barrier != 0 {
		s += "b"
	}
	return s
}

// FileProc handles a readiness event on fd.
type FileProc func(l *Loop, fd int, data any, mask Mask)

// fileEvent is one descriptor's registration.
type fileEvent struct {
	mask      Mask
	readProc  FileProc
	writeProc FileProc
	data      any

	limiter   *rate.Limiter
	limitSkip bool
}

// CreateFileEvent registers proc for the bits set in mask on fd,
// merging with any existing registration. READABLE stores proc into
// the read slot, WRITABLE into the write slot (call twice with
// different masks to use distinct callbacks for each).
func (l *Loop) CreateFileEvent(fd int, mask Mask, proc FileProc, data any) error {
	if fd < 0 || fd >= l.setSize {
		return ErrBadFd
	}

	fe := &l.events[fd]
	if mask&Readable != 0 {
		fe.readProc = proc
	}
	if mask&Writable != 0 {
		fe.writeProc = proc
	}
	fe.data = data

	if err := l.backend.Add(fd, fe.mask|mask); err != nil {
		return err
	}
	fe.mask |= mask

	if fd > l.maxFd {
		l.maxFd = fd
	}
	return nil
}

// DeleteFileEvent clears the bits in mask from fd's registration.
func (l *Loop) DeleteFileEvent(fd int, mask Mask) {
	if fd < 0 || fd >= l.setSize {
		return
	}
	fe := &l.events[fd]
	if fe.mask == None {
		return
	}

	l.backend.Del(fd, mask)
	fe.mask &^= mask
	if mask&Readable != 0 {
		fe.readProc = nil
	}
	if mask&Writable != 0 {
		fe.writeProc = nil
	}

	if fe.mask == None && fd == l.maxFd {
		j := fd - 1
		for j >= 0 && l.events[j].mask == None {
			j--
		}
		l.maxFd = j
	}
}

// GetFileEvents returns the mask currently registered for fd, or
// None if fd is unregistered or out of range.
func (l *Loop) GetFileEvents(fd int) Mask {
	if fd < 0 || fd >= l.setSize {
		return None
	}
	return l.events[fd].mask
}

// SetRateLimit attaches an optional rate limiter to fd's dispatch: if
// skip is true, a fired callback is silently dropped when the limit
// is exceeded; else dispatch blocks until a token is available.
func (l *Loop) SetRateLimit(fd int, limiter *rate.Limiter, skip bool) {
	if fd < 0 || fd >= l.setSize {
		return
	}
	l.events[fd].limiter = limiter
	l.events[fd].limitSkip = skip
}

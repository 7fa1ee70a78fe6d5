//go:build unix

package evloop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// selectBackend is the portable "stateless scan" poller: it rebuilds
// its poll set from the registration table on every Poll call rather
// than maintaining kernel-side state, the same role ae_select.c plays
// as the fallback to the preferred readiness multiplexer.
type selectBackend struct {
	masks map[int]Mask
}

func newSelectBackend(setSize int) (Backend, error) {
	return &selectBackend{masks: make(map[int]Mask, setSize)}, nil
}

func (b *selectBackend) Add(fd int, mask Mask) error {
	b.masks[fd] = b.masks[fd] | mask
	return nil
}

func (b *selectBackend) Del(fd int, mask Mask) {
	remaining := b.masks[fd] &^ mask
	if remaining == None {
		delete(b.masks, fd)
		return
	}
	b.masks[fd] = remaining
}

func (b *selectBackend) Poll(timeout time.Duration, block bool) ([]FiredEvent, error) {
	if len(b.masks) == 0 && !block {
		time.Sleep(timeout)
		return nil, nil
	}

	fds := make([]unix.PollFd, 0, len(b.masks))
	for fd, mask := range b.masks {
		var events int16
		if mask&Readable != 0 {
			events |= unix.POLLIN
		}
		if mask&Writable != 0 {
			events |= unix.POLLOUT
		}
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: events})
	}

	ms := -1
	if !block {
		ms = int(timeout / time.Millisecond)
	}

	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: poll: %v", ErrBackend, err)
	}
	if n == 0 {
		return nil, nil
	}

	fired := make([]FiredEvent, 0, n)
	for _, pfd := range fds {
		var got Mask
		if pfd.Revents&unix.POLLIN != 0 {
			got |= Readable
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			got |= Writable
		}
		if pfd.Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			got |= Writable
		}
		if got != None {
			fired = append(fired, FiredEvent{Fd: int(pfd.Fd), Mask: got})
		}
	}
	return fired, nil
}

func (b *selectBackend) Resize(n int) error {
	return nil
}

func (b *selectBackend) Close() error {
	return nil
}

func (b *selectBackend) Name() string {
	return "select"
}

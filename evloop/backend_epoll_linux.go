//go:build linux

package evloop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// epollBackend wraps epoll_create1/epoll_ctl/epoll_wait, mirroring
// ae_epoll.c's aeApiState.
type epollBackend struct {
	epfd   int
	events []unix.EpollEvent
	masks  map[int]Mask // fd -> mask currently registered with the kernel
}

func newEpollBackend(setSize int) (Backend, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("%w: epoll_create1: %v", ErrBackend, err)
	}
	return &epollBackend{
		epfd:   epfd,
		events: make([]unix.EpollEvent, setSize),
		masks:  make(map[int]Mask, setSize),
	}, nil
}

func maskToEpoll(mask Mask) uint32 {
	var events uint32
	if mask&Readable != 0 {
		events |= unix.EPOLLIN
	}
	if mask&Writable != 0 {
		events |= unix.EPOLLOUT
	}
	return events
}

func (b *epollBackend) Add(fd int, mask Mask) error {
	old := b.masks[fd]
	merged := old | mask
	op := unix.EPOLL_CTL_MOD
	if old == None {
		op = unix.EPOLL_CTL_ADD
	}

	ev := unix.EpollEvent{Events: maskToEpoll(merged), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, op, fd, &ev); err != nil {
		return fmt.Errorf("%w: epoll_ctl: %v", ErrBackend, err)
	}
	b.masks[fd] = merged
	return nil
}

func (b *epollBackend) Del(fd int, mask Mask) {
	remaining := b.masks[fd] &^ mask
	if remaining == None {
		unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, &unix.EpollEvent{})
		delete(b.masks, fd)
		return
	}
	ev := unix.EpollEvent{Events: maskToEpoll(remaining), Fd: int32(fd)}
	unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
	b.masks[fd] = remaining
}

func (b *epollBackend) Poll(timeout time.Duration, block bool) ([]FiredEvent, error) {
	ms := -1
	if !block {
		ms = int(timeout / time.Millisecond)
	}

	n, err := unix.EpollWait(b.epfd, b.events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: epoll_wait: %v", ErrBackend, err)
	}

	fired := make([]FiredEvent, 0, n)
	for i := 0; i < n; i++ {
		e := b.events[i]
		var mask Mask
		if e.Events&unix.EPOLLIN != 0 {
			mask |= Readable
		}
		if e.Events&unix.EPOLLOUT != 0 {
			mask |= Writable
		}
		if e.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			mask |= Writable
		}
		fired = append(fired, FiredEvent{Fd: int(e.Fd), Mask: mask})
	}
	return fired, nil
}

func (b *epollBackend) Resize(n int) error {
	b.events = make([]unix.EpollEvent, n)
	return nil
}

func (b *epollBackend) Close() error {
	return unix.Close(b.epfd)
}

func (b *epollBackend) Name() string {
	return "epoll"
}

const defaultBackendName = "epoll"

func newPlatformBackend(setSize int) (Backend, error) {
	return newEpollBackend(setSize)
}

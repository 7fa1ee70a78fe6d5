//go:build unix

package evloop

import (
	"time"

	"golang.org/x/sys/unix"
)

// Wait is a one-shot convenience poll on a single descriptor,
// independent of any Loop: it blocks up to timeout for fd to become
// ready for the bits in mask, returning the mask that actually fired.
func Wait(fd int, mask Mask, timeout time.Duration) (Mask, error) {
	var events int16
	if mask&Readable != 0 {
		events |= unix.POLLIN
	}
	if mask&Writable != 0 {
		events |= unix.POLLOUT
	}

	pfd := []unix.PollFd{{Fd: int32(fd), Events: events}}
	ms := int(timeout / time.Millisecond)

	n, err := unix.Poll(pfd, ms)
	if err != nil {
		return None, err
	}
	if n == 0 {
		return None, nil
	}

	var fired Mask
	if pfd[0].Revents&unix.POLLIN != 0 {
		fired |= Readable
	}
	if pfd[0].Revents&unix.POLLOUT != 0 {
		fired |= Writable
	}
	if pfd[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
		fired |= Writable
	}
	return fired, nil
}

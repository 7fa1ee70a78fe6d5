package evloop

import (
	"fmt"
	"time"
)

// FiredEvent is one descriptor reported ready by a Backend's Poll.
type FiredEvent struct {
	Fd   int
	Mask Mask
}

// Backend is the OS-readiness-multiplexer capability set: create is
// the platform constructor, everything else is this interface. Loop
// owns the Backend; nothing here holds a reference back to Loop.
type Backend interface {
	// Add merges mask into fd's currently registered mask, issuing an
	// ADD or MODIFY against the kernel depending on whether fd was
	// previously registered.
	Add(fd int, mask Mask) error

	// Del clears the bits in mask from fd's registration, issuing a
	// MODIFY if a nonzero mask remains, else a DELETE.
	Del(fd int, mask Mask)

	// Poll blocks for up to timeout (indefinitely if block is true and
	// timeout is ignored) and returns the descriptors that became
	// ready. Error and hang-up readiness are folded into Writable.
	Poll(timeout time.Duration, block bool) ([]FiredEvent, error)

	// Resize grows or shrinks the backend's internal tables to track
	// up to n descriptors.
	Resize(n int) error

	// Close releases the backend's kernel resources.
	Close() error

	// Name identifies the backend, e.g. "epoll" or "select".
	Name() string
}

func newBackend(setSize int, name string) (Backend, error) {
	switch name {
	case "", defaultBackendName:
		return newPlatformBackend(setSize)
	case "select":
		return newSelectBackend(setSize)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackend, name)
	}
}

package evloop

import "errors"

var (
	ErrFull        = errors.New("evloop: file descriptor table full")
	ErrBadFd       = errors.New("evloop: file descriptor out of range")
	ErrNoEvent     = errors.New("evloop: no such file event registered")
	ErrNoTimeEvent = errors.New("evloop: no such time event registered")
	ErrStopped     = errors.New("evloop: loop already stopped")
	ErrBackend     = errors.New("evloop: backend operation failed")
)

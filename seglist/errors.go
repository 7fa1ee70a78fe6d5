package seglist

import "errors"

var (
	ErrOutOfRange = errors.New("seglist: index out of range")
	ErrEmpty      = errors.New("seglist: list is empty")
	ErrReleased   = errors.New("seglist: iterator already released")
	ErrInvalid    = errors.New("seglist: invalid range")
)

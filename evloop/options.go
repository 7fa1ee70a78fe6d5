package evloop

import "github.com/rs/zerolog"

// Options configures a Loop at construction time.
type Options struct {
	Logger *zerolog.Logger // if nil, logging is disabled

	SetSize int    // max number of file descriptors tracked; see ResizeSetSize
	Backend string // "epoll", "select", or "" for the platform default
}

// DefaultOptions mirrors redis's default event-loop sizing.
var DefaultOptions = Options{
	SetSize: 1024,
}

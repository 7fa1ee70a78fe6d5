package seglist

import "github.com/rs/zerolog"

// Options configures a List at construction time.
type Options struct {
	Logger *zerolog.Logger // if nil, logging is disabled

	Fill          int // per-segment fill policy; see SetFill
	CompressDepth int // segments left raw at each end; see SetCompressDepth
}

// DefaultOptions mirrors the original quicklist defaults: a -2 fill
// (8KiB per segment) and compression disabled.
var DefaultOptions = Options{
	Fill:          -2,
	CompressDepth: 0,
}

/*
 * a reactor-driven command queue: reads line commands from stdin
 * through evloop and applies them to a seglist.List
 */
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/nanodb/reactorkit/evloop"
	"github.com/nanodb/reactorkit/seglist"
	"github.com/nanodb/reactorkit/seglist/packed"
)

var (
	opt_fill     = flag.Int("fill", -2, "per-segment fill policy (negative = byte-size class)")
	opt_compress = flag.Int("compress", 0, "segments kept raw at each end")
)

func main() {
	flag.Parse()

	seglistLogger := log.Logger.With().Str("component", "seglist").Logger()
	list := seglist.NewWithOptions(seglist.Options{
		Logger:        &seglistLogger,
		Fill:          *opt_fill,
		CompressDepth: *opt_compress,
	})

	loop, err := evloop.CreateEventLoop(16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evloop: %v\n", err)
		os.Exit(1)
	}
	defer loop.DeleteEventLoop()

	q := &queue{list: list}

	err = loop.CreateFileEvent(int(os.Stdin.Fd()), evloop.Readable, q.onReadable, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evloop: %v\n", err)
		os.Exit(1)
	}

	loop.CreateTimeEvent(2000, func(l *evloop.Loop, id int64, data any) (time.Duration, bool) {
		q.report()
		return 2 * time.Second, true
	}, nil, nil)

	fmt.Println("commands: push <v> | pushhead <v> | pop | rotate | count | quit")
	loop.Main()
	q.report()
}

type queue struct {
	list *seglist.List
	buf  bytes.Buffer
}

func (q *queue) onReadable(l *evloop.Loop, fd int, data any, mask evloop.Mask) {
	chunk := make([]byte, 4096)
	n, err := unix.Read(fd, chunk)
	if n > 0 {
		q.buf.Write(chunk[:n])
		q.drainLines(l)
	}
	if err != nil || n == 0 {
		l.Stop()
	}
}

func (q *queue) drainLines(l *evloop.Loop) {
	for {
		line, err := q.buf.ReadString('\n')
		if err != nil {
			// incomplete line: put it back for the next read
			q.buf.WriteString(line)
			return
		}
		q.exec(l, strings.TrimSpace(line))
	}
}

func (q *queue) exec(l *evloop.Loop, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "push", "pushtail":
		if v, ok := parseArg(fields); ok {
			q.list.PushTail(v)
		}
	case "pushhead":
		if v, ok := parseArg(fields); ok {
			q.list.PushHead(v)
		}
	case "pop":
		if v, ok := q.list.Pop(seglist.Tail); ok {
			fmt.Printf("pop: %s\n", v.String())
		} else {
			fmt.Println("pop: empty")
		}
	case "rotate":
		q.list.Rotate()
	case "count":
		fmt.Printf("count: %d across %d segments\n", q.list.Count(), q.list.SegmentCount())
	case "quit":
		l.Stop()
	default:
		fmt.Printf("unknown command: %s\n", fields[0])
	}
}

func parseArg(fields []string) (packed.Value, bool) {
	if len(fields) < 2 {
		return packed.Value{}, false
	}
	if n, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
		return packed.IntValue(n), true
	}
	return packed.BytesValue([]byte(fields[1])), true
}

func (q *queue) report() {
	it := q.list.GetIterator(seglist.Forward)
	defer it.Release()

	var sb strings.Builder
	sb.WriteString("[")
	first := true
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			sb.WriteString(" ")
		}
		first = false
		sb.WriteString(e.String())
	}
	sb.WriteString("]")

	log.Info().
		Int("count", q.list.Count()).
		Int("segments", q.list.SegmentCount()).
		Str("values", sb.String()).
		Msg("queue state")
}

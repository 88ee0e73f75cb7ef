package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dshills/mouseproc/internal/router"
)

// maxRecordSize bounds one event log line.
const maxRecordSize = 1 << 20

// ReplayClock is the router clock during a replay. It reads the time of
// the record being processed, so double-click detection follows the log.
type ReplayClock struct {
	mu     sync.Mutex
	base   time.Time
	offset time.Duration
}

// NewReplayClock creates a clock starting at base.
func NewReplayClock(base time.Time) *ReplayClock {
	return &ReplayClock{base: base}
}

// Now returns base plus the current record offset.
func (c *ReplayClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base.Add(c.offset)
}

// Set moves the clock to offset. Offsets may go backwards.
func (c *ReplayClock) Set(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = offset
}

// ReplayStats counts what a replay did with its input.
type ReplayStats struct {
	Lines       int
	Events      int
	Disconnects int
	Malformed   int
	UnknownConn int
}

// Replayer feeds an event log through a router.
type Replayer struct {
	scene  *Scene
	router *router.Router
	clock  *ReplayClock
	logger *Logger
}

// NewReplayer creates a replayer routing the scene's events to invoker.
func NewReplayer(scene *Scene, invoker router.Invoker, logger *Logger) *Replayer {
	if logger == nil {
		logger = NullLogger
	}
	clock := NewReplayClock(time.Unix(0, 0))
	return &Replayer{
		scene: scene,
		router: router.New(scene.World, invoker,
			router.WithClock(clock.Now),
			router.WithLogger(logger.WithComponent("router")),
		),
		clock:  clock,
		logger: logger.WithComponent("replay"),
	}
}

// Router returns the router events are fed through.
func (r *Replayer) Router() *router.Router {
	return r.router
}

// Replay reads JSON lines from rd until EOF or ctx is cancelled. Blank
// lines and lines starting with '#' are skipped. Bad records and records
// for unknown connections are logged and skipped.
func (r *Replayer) Replay(ctx context.Context, rd io.Reader) (ReplayStats, error) {
	var stats ReplayStats

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		rec, err := DecodeRecord(line)
		if err != nil {
			stats.Malformed++
			r.logger.Warn("skipping record", "error", &RecordError{Line: stats.Lines, Err: err})
			continue
		}

		conn, ok := r.scene.Connection(rec.Conn)
		if !ok {
			stats.UnknownConn++
			r.logger.Warn("skipping record", "error", &RecordError{
				Line: stats.Lines,
				Err:  fmt.Errorf("%w: %s", ErrUnknownConnection, rec.Conn),
			})
			continue
		}

		r.clock.Set(rec.At)
		if rec.Event == nil {
			stats.Disconnects++
			r.router.Disconnect(conn)
			continue
		}

		ev := rec.Event
		if stat, ok := ev.(router.StatClick); ok {
			stat.Ref = r.scene.StatRef(stat.Ref)
			ev = stat
		}
		stats.Events++
		r.router.Handle(conn, ev)
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("reading events: %w", err)
	}
	return stats, nil
}

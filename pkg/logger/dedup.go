package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultFlushDelay = 2 * time.Second

// Deduplicator collapses identical consecutive messages into one line with a
// repeat count. Pending output is written after flushDelay of quiet, or on
// Flush.
type Deduplicator struct {
	mu         sync.Mutex
	log        *slog.Logger
	level      slog.Level
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
}

// NewDeduplicator wraps log; messages are emitted at level.
func NewDeduplicator(log *slog.Logger, level slog.Level) *Deduplicator {
	return &Deduplicator{
		log:        log,
		level:      level,
		flushDelay: defaultFlushDelay,
	}
}

func (d *Deduplicator) flush() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		d.log.Log(context.Background(), d.level, d.lastMsg)
	} else {
		d.log.Log(context.Background(), d.level, fmt.Sprintf("%s (%d)", d.lastMsg, d.count))
	}
	d.count = 0
	d.lastMsg = ""
}

func (d *Deduplicator) schedule() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.flushDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.flush()
	})
}

// Logf records a formatted message.
func (d *Deduplicator) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()

	if msg == d.lastMsg {
		d.count++
		d.schedule()
		return
	}

	d.flush()
	d.lastMsg = msg
	d.count = 1
	d.schedule()
}

// Flush writes any pending message immediately. A CLI run ends well before
// the flush delay, so callers flush before returning.
func (d *Deduplicator) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flush()
}

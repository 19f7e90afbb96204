package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Collapser folds runs of identical log lines into one line with a repeat
// count. Cache hits and tier escalations produce long identical runs under
// load; this keeps the log readable without losing the signal.
type Collapser struct {
	delay  time.Duration
	printf func(format string, args ...any)

	mu      sync.Mutex
	lastMsg string
	count   int
	timer   *time.Timer
}

func NewCollapser(delay time.Duration) *Collapser {
	return &Collapser{delay: delay, printf: log.Printf}
}

var std = NewCollapser(2 * time.Second)

// Dedup logs through the package-level collapser.
func Dedup(format string, args ...any) {
	std.Log(format, args...)
}

// Log records a message. A repeat of the previous message only bumps the
// counter; anything new flushes the pending run first. Pending runs also
// flush after the collapser's delay passes without further repeats.
func (c *Collapser) Log(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if msg != c.lastMsg {
		c.flush()
		c.lastMsg = msg
		c.count = 0
	}
	c.count++
	c.rearm()
}

func (c *Collapser) rearm() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.flush()
		c.lastMsg = ""
	})
}

// flush emits the pending run. Callers hold c.mu.
func (c *Collapser) flush() {
	switch {
	case c.count == 0:
	case c.count == 1:
		c.printf("%s", c.lastMsg)
	default:
		c.printf("%s (%d)", c.lastMsg, c.count)
	}
	c.count = 0
}

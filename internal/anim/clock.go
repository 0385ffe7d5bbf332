package anim

import (
	"sort"
	"sync"
	"time"
)

// Clock abstracts delayed execution so tests can drive time by hand.
// Schedule returns a stop function reporting whether the timer was halted
// before it fired.
type Clock interface {
	Schedule(d time.Duration, fn func()) (stop func() bool)
}

type realClock struct{}

// RealClock schedules on the runtime timer heap.
func RealClock() Clock { return realClock{} }

func (realClock) Schedule(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// ManualClock is a deterministic clock for tests. Nothing fires until
// Advance moves the clock past an entry's due time.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	entries []*manualEntry
}

type manualEntry struct {
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
}

func NewManualClock() *ManualClock { return &ManualClock{} }

func (c *ManualClock) Schedule(d time.Duration, fn func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	e := &manualEntry{due: c.now + d, seq: c.seq, fn: fn}
	c.entries = append(c.entries, e)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e.stopped {
			return false
		}
		e.stopped = true
		return true
	}
}

// Advance moves the clock forward and fires every due entry in due-time
// order, ties broken by scheduling order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	due := make([]*manualEntry, 0)
	rest := c.entries[:0]
	for _, e := range c.entries {
		if !e.stopped && e.due <= c.now {
			due = append(due, e)
		} else if !e.stopped {
			rest = append(rest, e)
		}
	}
	c.entries = rest
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, e := range due {
		e.fn()
	}
}

package testing

import (
	"sort"
	"time"

	"github.com/desertthunder/cafecloud/internal/clock"
)

// ManualClock is a [clock.Clock] driven by Advance. Callbacks run synchronously on the caller.
type ManualClock struct {
	now   time.Duration
	next  clock.Token
	tasks map[clock.Token]*manualTask
}

type manualTask struct {
	tok      clock.Token
	due      time.Duration
	interval time.Duration
	fn       func()
}

var _ clock.Clock = (*ManualClock)(nil)

func NewManualClock() *ManualClock {
	return &ManualClock{tasks: make(map[clock.Token]*manualTask)}
}

func (c *ManualClock) ScheduleOnce(delay time.Duration, fn func()) clock.Token {
	return c.add(delay, 0, fn)
}

func (c *ManualClock) SchedulePeriodic(interval time.Duration, fn func()) clock.Token {
	return c.add(interval, interval, fn)
}

func (c *ManualClock) Cancel(tok clock.Token) {
	delete(c.tasks, tok)
}

// Pending reports how many callbacks are scheduled.
func (c *ManualClock) Pending() int {
	return len(c.tasks)
}

// Now is the elapsed virtual time.
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance moves virtual time forward by d, running due callbacks in due-time order.
// Periodic callbacks are re-armed before they run so they may cancel themselves.
func (c *ManualClock) Advance(d time.Duration) {
	end := c.now + d
	for {
		t := c.earliest(end)
		if t == nil {
			break
		}
		c.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			delete(c.tasks, t.tok)
		}
		t.fn()
	}
	c.now = end
}

// Fire captures the callback of tok without removing it, for tests that deliver stale callbacks
// by hand.
func (c *ManualClock) Fire(tok clock.Token) func() {
	if t, ok := c.tasks[tok]; ok {
		return t.fn
	}
	return nil
}

// Tokens lists scheduled tokens in ascending order.
func (c *ManualClock) Tokens() []clock.Token {
	toks := make([]clock.Token, 0, len(c.tasks))
	for tok := range c.tasks {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i] < toks[j] })
	return toks
}

func (c *ManualClock) add(delay, interval time.Duration, fn func()) clock.Token {
	c.next++
	c.tasks[c.next] = &manualTask{tok: c.next, due: c.now + delay, interval: interval, fn: fn}
	return c.next
}

func (c *ManualClock) earliest(end time.Duration) *manualTask {
	var found *manualTask
	for _, t := range c.tasks {
		if t.due > end {
			continue
		}
		if found == nil || t.due < found.due || (t.due == found.due && t.tok < found.tok) {
			found = t
		}
	}
	return found
}

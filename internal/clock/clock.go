// Package clock provides the scheduling capability consumed by the timer and a loop that runs
// every scheduled callback on a single goroutine.
//
// Callbacks never run on timer goroutines. [Loop] posts them to a queue that exactly one
// consumer drains, either [Loop.Run] or a UI event loop reading [Loop.Callbacks]. A callback whose
// token was cancelled before it reached the front of the queue is dropped.
package clock

import (
	"context"
	"sync"
	"time"
)

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint64

// Clock schedules callbacks. Implementations must deliver callbacks serially.
type Clock interface {
	SchedulePeriodic(interval time.Duration, fn func()) Token
	ScheduleOnce(delay time.Duration, fn func()) Token
	Cancel(Token)
}

type task struct {
	timer *time.Timer
	stop  chan struct{}
}

// Loop is a [Clock] backed by the runtime timers whose callbacks are serialised through one queue.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once

	mu    sync.Mutex
	next  Token
	tasks map[Token]*task
}

var _ Clock = (*Loop)(nil)

// NewLoop creates a loop with the given queue capacity (64 when size <= 0).
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
		tasks: make(map[Token]*task),
	}
}

// ScheduleOnce runs fn on the loop after delay.
func (l *Loop) ScheduleOnce(delay time.Duration, fn func()) Token {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	tok := l.next
	t := &task{}
	t.timer = time.AfterFunc(delay, func() {
		l.post(func() {
			if l.claim(tok) {
				fn()
			}
		}, nil)
	})
	l.tasks[tok] = t
	return tok
}

// SchedulePeriodic runs fn on the loop every interval until cancelled.
func (l *Loop) SchedulePeriodic(interval time.Duration, fn func()) Token {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	tok := l.next
	t := &task{stop: make(chan struct{})}
	l.tasks[tok] = t

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.post(func() {
					if l.active(tok) {
						fn()
					}
				}, t.stop)
			}
		}
	}()
	return tok
}

// Cancel stops a scheduled callback. Cancelling an unknown or fired token is a no-op.
func (l *Loop) Cancel(tok Token) {
	l.mu.Lock()
	t, ok := l.tasks[tok]
	delete(l.tasks, tok)
	l.mu.Unlock()

	if !ok {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stop != nil {
		close(t.stop)
	}
}

// Next waits for the next queued callback.
func (l *Loop) Next(ctx context.Context) (func(), bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-l.done:
		return nil, false
	case fn := <-l.queue:
		return fn, true
	}
}

// Run executes queued callbacks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		fn, ok := l.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return nil
		}
		fn()
	}
}

// Close cancels every pending callback and releases blocked producers.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		tokens := make([]Token, 0, len(l.tasks))
		for tok := range l.tasks {
			tokens = append(tokens, tok)
		}
		l.mu.Unlock()

		for _, tok := range tokens {
			l.Cancel(tok)
		}
		close(l.done)
	})
}

// Pending reports the number of scheduled, uncancelled callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) post(fn func(), stop <-chan struct{}) {
	select {
	case l.queue <- fn:
	case <-l.done:
	case <-stop:
	}
}

// claim removes a one-shot token, reporting whether it was still scheduled.
func (l *Loop) claim(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.tasks[tok]; !ok {
		return false
	}
	delete(l.tasks, tok)
	return true
}

func (l *Loop) active(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.tasks[tok]
	return ok
}

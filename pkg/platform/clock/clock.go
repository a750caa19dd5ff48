// Package clock abstracts wall time and repeating timers so loops driven by a
// fixed cadence can be fast-forwarded in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs fn every period until the returned cancel is called.
// Cancel blocks until an in-flight tick has returned and is safe to call
// more than once.
type Scheduler interface {
	Clock
	Every(period time.Duration, fn func(now time.Time)) (cancel func())
}

// Real is the wall-clock Scheduler.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Every starts a ticker goroutine. Ticks that arrive while fn is still running
// are coalesced by the ticker, giving best-effort cadence.
func (Real) Every(period time.Duration, fn func(now time.Time)) func() {
	ticker := time.NewTicker(period)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(stop)
			<-done
		})
	}
}

// Fake is a manually advanced Scheduler. Callbacks run synchronously inside
// Advance, in due-time order.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*fakeTask
}

type fakeTask struct {
	period    time.Duration
	next      time.Time
	fn        func(time.Time)
	cancelled bool
}

// NewFake returns a Fake starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Every(period time.Duration, fn func(now time.Time)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTask{period: period, next: f.now.Add(period), fn: fn}
	f.tasks = append(f.tasks, t)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		t.cancelled = true
	}
}

// Advance moves time forward by d, firing every tick that falls due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		var due *fakeTask
		for _, t := range f.tasks {
			if t.cancelled || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = due.next
		due.next = due.next.Add(due.period)
		now := f.now
		fn := due.fn
		f.mu.Unlock()

		fn(now)
	}
}

// Active returns the number of uncancelled repeating tasks.
func (f *Fake) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

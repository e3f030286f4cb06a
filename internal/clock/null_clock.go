package clock

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

// NullClock is a Clock with virtual time, advanced explicitly by tests via
// Advance or TickUntilTimersExpireAsync instead of real sleeps. This is the
// "nulled" variant spec.md §4.1 calls for: it lets tests exercise
// TimeoutAsync, Repeat, and KeepAlive deterministically, including the
// infinite-loop/watchdog scenario in spec.md §8 which would otherwise take
// real wall-clock seconds.
type NullClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*nullTimer
	nextID  int
}

type nullTimer struct {
	id      int
	deadline time.Time
	c        chan time.Time
	fired    bool
	repeat   time.Duration // zero for one-shot
	stopped  bool
}

// NewNull creates a NullClock starting at the Unix epoch.
func NewNull() *NullClock {
	return &NullClock{now: time.Unix(0, 0)}
}

func (n *NullClock) Now() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.now
}

func (n *NullClock) WaitAsync(ctx context.Context, d time.Duration) error {
	timer := n.newTimer(d)
	defer timer.stop()
	select {
	case <-timer.c():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *NullClock) Repeat(d time.Duration, fn func()) (cancel func()) {
	n.mu.Lock()
	t := n.scheduleLocked(d, d)
	n.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case _, ok := <-t.c:
				if !ok {
					return
				}
				fn()
			case <-done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() {
			close(done)
			n.mu.Lock()
			t.stopped = true
			n.mu.Unlock()
		})
	}
}

func (n *NullClock) KeepAlive(d time.Duration, onTimeout func()) *Watchdog {
	var mu sync.Mutex
	cancelled := false
	var fired sync.Once
	var current *nullTimer

	// watch starts one goroutine per timer generation; it only calls
	// onTimeout if its own generation is still the current one and the
	// watchdog has not been cancelled, so a superseded generation (one
	// that lost a race with Alive) is a silent no-op.
	watch := func(t *nullTimer) {
		go func() {
			if _, ok := <-t.c; !ok {
				return
			}
			mu.Lock()
			isCurrent := !cancelled && current == t
			mu.Unlock()
			if isCurrent {
				fired.Do(onTimeout)
			}
		}()
	}

	n.mu.Lock()
	current = n.scheduleLocked(d, 0)
	n.mu.Unlock()
	watch(current)

	return &Watchdog{
		alive: func() {
			mu.Lock()
			if cancelled {
				mu.Unlock()
				return
			}
			mu.Unlock()

			n.mu.Lock()
			current.stopped = true
			fresh := n.scheduleLocked(d, 0)
			n.mu.Unlock()

			mu.Lock()
			current = fresh
			mu.Unlock()
			watch(fresh)
		},
		cancel: func() {
			mu.Lock()
			if cancelled {
				mu.Unlock()
				return
			}
			cancelled = true
			t := current
			mu.Unlock()

			n.mu.Lock()
			t.stopped = true
			n.mu.Unlock()
		},
	}
}

// Advance moves virtual time forward by d, firing (in deadline order) every
// timer whose deadline is now at or before the new time.
func (n *NullClock) Advance(d time.Duration) {
	n.mu.Lock()
	n.now = n.now.Add(d)
	due := n.dueLocked()
	n.mu.Unlock()

	for _, t := range due {
		n.fireLocked(t)
	}
}

// TickUntilTimersExpireAsync advances virtual time directly to the next
// pending timer's deadline and fires it, repeating until no timers remain.
// It is the virtual-time equivalent of "let everything that is scheduled
// actually run", used by tests that don't want to compute exact deadlines.
func (n *NullClock) TickUntilTimersExpireAsync(ctx context.Context) error {
	for {
		n.mu.Lock()
		next := n.nextPendingLocked()
		if next == nil {
			n.mu.Unlock()
			return nil
		}
		if next.deadline.After(n.now) {
			n.now = next.deadline
		}
		due := n.dueLocked()
		n.mu.Unlock()

		if len(due) == 0 {
			return nil
		}
		for _, t := range due {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			n.fireLocked(t)
			// Yield so the timer's consumer can run before the next deadline
			// is reached. Waiters then observe their timers in deadline
			// order unless the Go scheduler delays a consumer past these
			// yields; the scheduler gives no hard guarantee.
			for i := 0; i < 3 || len(t.c) > 0; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
					runtime.Gosched()
				}
			}
		}
	}
}

func (n *NullClock) scheduleLocked(delay, repeat time.Duration) *nullTimer {
	n.nextID++
	t := &nullTimer{
		id:       n.nextID,
		deadline: n.now.Add(delay),
		c:        make(chan time.Time, 1),
		repeat:   repeat,
	}
	n.pending = append(n.pending, t)
	return t
}

func (n *NullClock) dueLocked() []*nullTimer {
	sort.Slice(n.pending, func(i, j int) bool { return n.pending[i].deadline.Before(n.pending[j].deadline) })

	var due []*nullTimer
	var remaining []*nullTimer
	for _, t := range n.pending {
		if t.stopped {
			continue
		}
		if !t.deadline.After(n.now) {
			due = append(due, t)
			if t.repeat > 0 {
				t.deadline = t.deadline.Add(t.repeat)
				remaining = append(remaining, t)
			}
		} else {
			remaining = append(remaining, t)
		}
	}
	n.pending = remaining
	return due
}

func (n *NullClock) nextPendingLocked() *nullTimer {
	var next *nullTimer
	for _, t := range n.pending {
		if t.stopped {
			continue
		}
		if next == nil || t.deadline.Before(next.deadline) {
			next = t
		}
	}
	return next
}

func (n *NullClock) fireLocked(t *nullTimer) {
	select {
	case t.c <- n.Now():
	default:
	}
}

type nullInternalTimer struct {
	n *NullClock
	t *nullTimer
}

func (nt nullInternalTimer) c() <-chan time.Time { return nt.t.c }
func (nt nullInternalTimer) stop() {
	nt.n.mu.Lock()
	nt.t.stopped = true
	nt.n.mu.Unlock()
}

func (n *NullClock) newTimer(d time.Duration) internalTimer {
	n.mu.Lock()
	t := n.scheduleLocked(d, 0)
	n.mu.Unlock()
	return nullInternalTimer{n: n, t: t}
}

var _ Clock = (*NullClock)(nil)

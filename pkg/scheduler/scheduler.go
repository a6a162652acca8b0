package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Scheduler defers work without blocking the caller. The notification
// sequencer uses it for the delayed stages of the success sequence; tests
// substitute Fake to run stages deterministically.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Timers schedules on real time.AfterFunc timers. Fired functions run on
// their own goroutine; there is no cancellation once scheduled.
type Timers struct{}

func New() Timers { return Timers{} }

func (Timers) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Fake records scheduled work and runs it only when advanced, keyed by
// cumulative delay from creation.
type Fake struct {
	mu      sync.Mutex
	now     time.Duration
	pending []fakeEntry
}

type fakeEntry struct {
	at time.Duration
	fn func()
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) After(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fakeEntry{at: f.now + d, fn: fn})
}

// Advance moves the fake clock forward and fires every entry that becomes
// due, in due order. The clock sits at each entry's due time while it runs,
// so work scheduled by a fired callback lands inside the same advance when
// its delay fits the remaining window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		e, ok := f.popDue(target)
		if !ok {
			break
		}
		f.mu.Lock()
		f.now = e.at
		f.mu.Unlock()
		e.fn()
	}

	f.mu.Lock()
	f.now = target
	f.mu.Unlock()
}

// Pending reports how many entries have not fired yet.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Fake) popDue(target time.Duration) (fakeEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sort.SliceStable(f.pending, func(i, j int) bool { return f.pending[i].at < f.pending[j].at })
	for i, e := range f.pending {
		if e.at <= target {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return e, true
		}
	}
	return fakeEntry{}, false
}

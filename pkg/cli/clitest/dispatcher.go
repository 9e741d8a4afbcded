package clitest

import (
	"sync"
	"testing"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
	"github.com/Solvosoft/fletbatteries/pkg/testutil"
)

// FakeDispatcher is a tk.Dispatcher for tests that drive widgets directly.
// The test goroutine plays the role of the UI goroutine: functions passed to
// Do are queued until the test runs them with RunNext, and timers fire when
// the test advances a fake clock with Advance.
type FakeDispatcher struct {
	doCh chan func()

	mutex  sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	d        *FakeDispatcher
	deadline time.Duration
	seq      int
	f        func()
}

var _ tk.Dispatcher = (*FakeDispatcher)(nil)

// NewFakeDispatcher creates a new FakeDispatcher.
func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{doCh: make(chan func(), 1024)}
}

// Do queues f. It can be called from any goroutine.
func (d *FakeDispatcher) Do(f func()) { d.doCh <- f }

// AfterFunc schedules f to run when the fake clock has advanced by dur.
func (d *FakeDispatcher) AfterFunc(dur time.Duration, f func()) tk.Timer {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.seq++
	t := &fakeTimer{d, d.now + dur, d.seq, f}
	d.timers = append(d.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.d.mutex.Lock()
	defer t.d.mutex.Unlock()
	for i, t2 := range t.d.timers {
		if t2 == t {
			t.d.timers = append(t.d.timers[:i], t.d.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the fake clock forward by dur, firing the timers that become
// due in the order of their deadlines.
func (d *FakeDispatcher) Advance(dur time.Duration) {
	d.mutex.Lock()
	target := d.now + dur
	d.mutex.Unlock()
	for {
		d.mutex.Lock()
		next := -1
		for i, t := range d.timers {
			if t.deadline <= target && (next == -1 || t.deadline < d.timers[next].deadline ||
				t.deadline == d.timers[next].deadline && t.seq < d.timers[next].seq) {
				next = i
			}
		}
		if next == -1 {
			d.now = target
			d.mutex.Unlock()
			return
		}
		t := d.timers[next]
		d.timers = append(d.timers[:next], d.timers[next+1:]...)
		d.now = t.deadline
		d.mutex.Unlock()
		t.f()
	}
}

// PendingTimers returns the number of timers that have not fired or been
// stopped.
func (d *FakeDispatcher) PendingTimers() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.timers)
}

// RunNext waits for a function passed to Do and runs it. It aborts the test
// if none arrives within 1s.
func (d *FakeDispatcher) RunNext(t testing.TB) {
	t.Helper()
	select {
	case f := <-d.doCh:
		f()
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatal("no function passed to Do within timeout")
	}
}

// RunPending runs the functions already passed to Do without waiting, and
// returns how many it ran.
func (d *FakeDispatcher) RunPending() int {
	n := 0
	for {
		select {
		case f := <-d.doCh:
			f()
			n++
		default:
			return n
		}
	}
}

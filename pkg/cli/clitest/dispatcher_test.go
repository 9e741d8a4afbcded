package clitest

import (
	"reflect"
	"testing"
	"time"
)

func TestFakeDispatcher_Timers(t *testing.T) {
	d := NewFakeDispatcher()
	var fired []string
	d.AfterFunc(20*time.Millisecond, func() { fired = append(fired, "b") })
	d.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })
	stopped := d.AfterFunc(15*time.Millisecond, func() { fired = append(fired, "x") })
	d.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "c") })

	if !stopped.Stop() {
		t.Errorf("Stop -> false for a pending timer")
	}
	d.Advance(20 * time.Millisecond)
	if want := []string{"a", "b"}; !reflect.DeepEqual(fired, want) {
		t.Errorf("fired %v, want %v", fired, want)
	}
	if n := d.PendingTimers(); n != 1 {
		t.Errorf("PendingTimers -> %d, want 1", n)
	}
	d.Advance(10 * time.Millisecond)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(fired, want) {
		t.Errorf("fired %v, want %v", fired, want)
	}
	if stopped.Stop() {
		t.Errorf("Stop -> true for a stopped timer")
	}
}

func TestFakeDispatcher_TimerScheduledByTimer(t *testing.T) {
	d := NewFakeDispatcher()
	fired := 0
	d.AfterFunc(10*time.Millisecond, func() {
		d.AfterFunc(10*time.Millisecond, func() { fired++ })
	})
	d.Advance(25 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestFakeDispatcher_Do(t *testing.T) {
	d := NewFakeDispatcher()
	ran := 0
	go d.Do(func() { ran++ })
	d.RunNext(t)
	d.Do(func() { ran++ })
	d.Do(func() { ran++ })
	if n := d.RunPending(); n != 2 {
		t.Errorf("RunPending -> %d, want 2", n)
	}
	if ran != 3 {
		t.Errorf("ran %d functions, want 3", ran)
	}
}

package tk

import "time"

// Dispatcher runs functions on the goroutine that renders widgets and handles
// events. Widgets that start background work use it to bring results back, so
// that their state is only mutated serially.
type Dispatcher interface {
	// Do schedules f to run on the UI goroutine. It never blocks.
	Do(f func())
	// AfterFunc schedules f to run on the UI goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending function scheduled with Dispatcher.AfterFunc.
type Timer interface {
	// Stop prevents the function from running. It returns false if the
	// function has already run or the timer has already been stopped. When
	// called on the UI goroutine, a true result guarantees the function will
	// never run.
	Stop() bool
}

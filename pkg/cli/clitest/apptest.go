package clitest

import (
	"testing"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli"
	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/testutil"
)

// Fixture is a test fixture of a running cli.App.
type Fixture struct {
	App   cli.App
	TTY   TTYCtrl
	errCh <-chan error
}

// Setup sets up a test fixture. It contains an App whose TTY is a FakeTTY,
// running in a separate goroutine.
func Setup(fns ...func(*cli.AppSpec, TTYCtrl)) *Fixture {
	tty, ttyCtrl := NewFakeTTY()
	spec := cli.AppSpec{}
	for _, fn := range fns {
		fn(&spec, ttyCtrl)
	}
	spec.TTY = tty
	app := cli.NewApp(spec)
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run() }()
	return &Fixture{app, ttyCtrl, errCh}
}

// WithSpec takes a function that operates on *cli.AppSpec, and wraps it into a
// form suitable for passing to Setup.
func WithSpec(f func(*cli.AppSpec)) func(*cli.AppSpec, TTYCtrl) {
	return func(spec *cli.AppSpec, _ TTYCtrl) { f(spec) }
}

// WithTTY takes a function that operates on TTYCtrl, and wraps it to a form
// suitable for passing to Setup.
func WithTTY(f func(TTYCtrl)) func(*cli.AppSpec, TTYCtrl) {
	return func(_ *cli.AppSpec, tty TTYCtrl) { f(tty) }
}

// Wait waits for Run to finish, and returns its return value. It panics if
// Run does not return within 1s.
func (f *Fixture) Wait() error {
	select {
	case err := <-f.errCh:
		return err
	case <-time.After(testutil.Scaled(time.Second)):
		panic("App.Run did not return")
	}
}

// Stop stops the App and waits for Run to return.
func (f *Fixture) Stop() {
	f.App.Quit(nil)
	f.Wait()
}

// TestTTY is a shorthand for f.TTY.TestBuffer, building the wanted buffer
// with the given width.
func (f *Fixture) TestTTY(t *testing.T, b *term.BufferBuilder) {
	t.Helper()
	f.TTY.TestBuffer(t, b.Buffer())
}

// Package clitest provides utilities for testing cli.App and the widgets it
// hosts.
package clitest

import (
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli"
	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/testutil"
)

const (
	// Maximum number of buffer updates FakeTTY expect to see.
	fakeTTYBufferUpdates = 4096
	// Maximum number of events FakeTTY produces.
	fakeTTYEvents = 4096
	// Maximum number of signals FakeTTY produces.
	fakeTTYSignals = 4096
)

// An implementation of the cli.TTY interface that is useful in tests.
type fakeTTY struct {
	setup func() (func(), error)
	// Channel that ReadEvent reads from. Can be used to inject additional
	// events.
	eventCh chan term.Event
	// Whether eventCh has been closed.
	eventChClosed bool
	// Mutex for synchronizing writing and closing eventCh.
	eventChMutex sync.Mutex
	// Channel for publishing updates of the buffer.
	bufCh chan *term.Buffer
	// Records history of the buffer.
	bufs []*term.Buffer
	// Mutex for guarding bufs.
	bufMutex sync.RWMutex
	// Channel that NotifySignals returns. Can be used to inject signals.
	sigCh chan os.Signal
	// Number of times the TTY screen has been cleared, incremented in
	// ClearScreen.
	cleared int

	sizeMutex sync.RWMutex
	// Predefined sizes.
	height, width int
}

// Initial size of fake TTY.
const (
	FakeTTYHeight = 20
	FakeTTYWidth  = 50
)

// NewFakeTTY creates a new FakeTTY and a handle for controlling it. The initial
// size of the terminal is FakeTTYHeight and FakeTTYWidth.
func NewFakeTTY() (cli.TTY, TTYCtrl) {
	tty := &fakeTTY{
		eventCh: make(chan term.Event, fakeTTYEvents),
		sigCh:   make(chan os.Signal, fakeTTYSignals),
		bufCh:   make(chan *term.Buffer, fakeTTYBufferUpdates),
		height:  FakeTTYHeight, width: FakeTTYWidth,
	}
	return tty, TTYCtrl{tty}
}

// Delegates to the setup function specified using the SetSetup method of
// TTYCtrl, or return a nop function and a nil error.
func (t *fakeTTY) Setup() (func(), error) {
	if t.setup == nil {
		return func() {}, nil
	}
	return t.setup()
}

// Returns the size specified by using the SetSize method of TTYCtrl.
func (t *fakeTTY) Size() (h, w int) {
	t.sizeMutex.RLock()
	defer t.sizeMutex.RUnlock()
	return t.height, t.width
}

// Returns next event from t.eventCh, or term.ErrStopped once CloseReader has
// been called.
func (t *fakeTTY) ReadEvent() (term.Event, error) {
	event, ok := <-t.eventCh
	if !ok {
		return nil, term.ErrStopped
	}
	return event, nil
}

// Closes eventCh.
func (t *fakeTTY) CloseReader() {
	t.eventChMutex.Lock()
	defer t.eventChMutex.Unlock()
	if !t.eventChClosed {
		close(t.eventCh)
		t.eventChClosed = true
	}
}

// Returns the last recorded buffer.
func (t *fakeTTY) Buffer() *term.Buffer {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	if len(t.bufs) == 0 {
		return nil
	}
	return t.bufs[len(t.bufs)-1]
}

// Records a nil buffer.
func (t *fakeTTY) ResetBuffer() {
	t.bufMutex.Lock()
	defer t.bufMutex.Unlock()
	t.recordBuf(nil)
}

// UpdateBuffer records a new buffer, i.e. sending it to the buffer channel and
// appending it to the history.
func (t *fakeTTY) UpdateBuffer(buf *term.Buffer, _ bool) error {
	t.bufMutex.Lock()
	defer t.bufMutex.Unlock()
	t.recordBuf(buf)
	return nil
}

func (t *fakeTTY) ClearScreen() {
	t.bufMutex.Lock()
	defer t.bufMutex.Unlock()
	t.cleared++
}

func (t *fakeTTY) NotifySignals() <-chan os.Signal { return t.sigCh }

func (t *fakeTTY) StopSignals() { close(t.sigCh) }

func (t *fakeTTY) recordBuf(buf *term.Buffer) {
	t.bufs = append(t.bufs, buf)
	t.bufCh <- buf
}

// TTYCtrl is an interface for controlling a fake terminal.
type TTYCtrl struct{ *fakeTTY }

// GetTTYCtrl takes a TTY and returns a TTYCtrl and true, if the TTY is a fake
// terminal. Otherwise it returns an invalid TTYCtrl and false.
func GetTTYCtrl(t cli.TTY) (TTYCtrl, bool) {
	fake, ok := t.(*fakeTTY)
	return TTYCtrl{fake}, ok
}

// SetSetup sets the return values of the Setup method of the fake terminal.
func (t TTYCtrl) SetSetup(restore func(), err error) {
	t.setup = func() (func(), error) {
		return restore, err
	}
}

// SetSize sets the size of the fake terminal.
func (t TTYCtrl) SetSize(h, w int) {
	t.sizeMutex.Lock()
	defer t.sizeMutex.Unlock()
	t.height, t.width = h, w
}

// Inject injects events to the fake terminal.
func (t TTYCtrl) Inject(events ...term.Event) {
	for _, event := range events {
		t.inject(event)
	}
}

func (t TTYCtrl) inject(event term.Event) {
	t.eventChMutex.Lock()
	defer t.eventChMutex.Unlock()
	if !t.eventChClosed {
		t.eventCh <- event
	}
}

// InjectSignal injects signals.
func (t TTYCtrl) InjectSignal(sigs ...os.Signal) {
	for _, sig := range sigs {
		t.sigCh <- sig
	}
}

// ScreenCleared returns the number of times ClearScreen has been called on the
// TTY.
func (t TTYCtrl) ScreenCleared() int {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	return t.cleared
}

// TestBuffer verifies that a buffer will appear within 100ms, and aborts the
// test if it doesn't.
func (t TTYCtrl) TestBuffer(tt *testing.T, b *term.Buffer) {
	tt.Helper()
	if testBuffer(b, t.bufCh) {
		return
	}
	tt.Logf("wanted buffer not shown:\n%s", b.TTYString())
	bufs := t.BufferHistory()
	for i := len(bufs) - 1; i >= 0; i-- {
		if bufs[i] != nil {
			tt.Logf("Last non-nil buffer: %s", bufs[i].TTYString())
			break
		}
	}
	tt.FailNow()
}

// TestPlain is like TestBuffer, but only compares the text of the buffer,
// ignoring styles, the position of the dot and trailing spaces.
func (t TTYCtrl) TestPlain(tt *testing.T, lines ...string) {
	tt.Helper()
	timeout := time.After(testutil.Scaled(100 * time.Millisecond))
	var last []string
	for {
		select {
		case buf := <-t.bufCh:
			if buf == nil {
				continue
			}
			last = buf.Plain()
			if reflect.DeepEqual(trimRight(last), lines) {
				return
			}
		case <-timeout:
			tt.Fatalf("wanted lines not shown:\n%q\nlast lines:\n%q", lines, last)
		}
	}
}

// BufferHistory returns a slice of all buffers that have appeared.
func (t TTYCtrl) BufferHistory() []*term.Buffer {
	t.bufMutex.RLock()
	defer t.bufMutex.RUnlock()
	return append([]*term.Buffer(nil), t.bufs...)
}

// LastBuffer returns the last buffer that has appeared.
func (t TTYCtrl) LastBuffer() *term.Buffer {
	return t.fakeTTY.Buffer()
}

// Tests that an buffer appears on the channel within 100ms.
func testBuffer(want *term.Buffer, ch <-chan *term.Buffer) bool {
	timeout := time.After(testutil.Scaled(100 * time.Millisecond))
	for {
		select {
		case buf := <-ch:
			if reflect.DeepEqual(buf, want) {
				return true
			}
		case <-timeout:
			return false
		}
	}
}

func trimRight(lines []string) []string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
	}
	return trimmed
}

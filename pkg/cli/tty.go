package cli

import (
	"fmt"
	"os"
	"sync"

	xterm "golang.org/x/term"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/sys"
)

// TTY is the type the terminal dependency of the App needs to satisfy.
type TTY interface {
	// Setup sets up the terminal for the App.
	//
	// This method returns a restore function that undoes the setup, and any
	// error during setup. It only returns fatal errors that make the terminal
	// unsuitable for later operations.
	//
	// This method should be called before any other method is called.
	Setup() (restore func(), err error)

	// ReadEvent reads a single event from the terminal.
	ReadEvent() (term.Event, error)
	// CloseReader releases resources allocated for reading terminal events.
	// An outstanding ReadEvent call returns term.ErrStopped.
	CloseReader()

	// NotifySignals start relaying signals and returns a channel on which
	// signals are delivered.
	NotifySignals() <-chan os.Signal
	// StopSignals stops the relaying of signals. After this function returns,
	// the channel returned by NotifySignals will no longer deliver signals.
	StopSignals()

	// Size returns the height and width of the terminal.
	Size() (h, w int)

	// Buffer returns the current buffer.
	Buffer() *term.Buffer
	// ResetBuffer resets the current buffer without actuating any redraw.
	ResetBuffer()
	// UpdateBuffer updates the current buffer and draws it to the terminal.
	UpdateBuffer(buf *term.Buffer, full bool) error
	// ClearScreen clears the terminal screen.
	ClearScreen()
}

const (
	enterAltScreen = "\033[?1049h\033[H"
	leaveAltScreen = "\033[?1049l"
)

type aTTY struct {
	in, out *os.File
	w       term.Writer

	rMutex sync.Mutex
	r      term.Reader

	sigCh chan os.Signal
}

// NewTTY returns a new TTY from input and output terminal files.
func NewTTY(in, out *os.File) TTY {
	return &aTTY{in: in, out: out, w: term.NewWriter(out)}
}

// Setup puts the input terminal in raw mode, switches to the alternate
// screen and turns on mouse and focus reporting.
func (t *aTTY) Setup() (func(), error) {
	state, err := xterm.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("set up terminal: %w", err)
	}
	fmt.Fprint(t.out, enterAltScreen)
	t.w.SetReporting(true)
	return func() {
		t.w.SetReporting(false)
		fmt.Fprint(t.out, leaveAltScreen)
		if err := xterm.Restore(int(t.in.Fd()), state); err != nil {
			logger.Println("failed to restore terminal properties:", err)
		}
	}, nil
}

func (t *aTTY) Size() (h, w int) {
	return sys.WinSize(t.out)
}

func (t *aTTY) ReadEvent() (term.Event, error) {
	t.rMutex.Lock()
	if t.r == nil {
		t.r = term.NewReader(t.in)
	}
	r := t.r
	t.rMutex.Unlock()
	return r.ReadEvent()
}

func (t *aTTY) CloseReader() {
	t.rMutex.Lock()
	defer t.rMutex.Unlock()
	if t.r != nil {
		t.r.Close()
	}
	t.r = nil
}

func (t *aTTY) Buffer() *term.Buffer {
	return t.w.Buffer()
}

func (t *aTTY) ResetBuffer() {
	t.w.ResetBuffer()
}

func (t *aTTY) UpdateBuffer(buf *term.Buffer, full bool) error {
	return t.w.UpdateBuffer(buf, full)
}

func (t *aTTY) ClearScreen() {
	t.w.ClearScreen()
}

func (t *aTTY) NotifySignals() <-chan os.Signal {
	t.sigCh = sys.NotifySignals()
	return t.sigCh
}

func (t *aTTY) StopSignals() {
	sys.StopSignals(t.sigCh)
	t.sigCh = nil
}

// Package cli implements a generic full-screen terminal application that
// hosts a single root widget.
package cli

import (
	"errors"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
	"github.com/Solvosoft/fletbatteries/pkg/logutil"
	"github.com/Solvosoft/fletbatteries/pkg/sys"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

var logger = logutil.GetLogger("[cli] ")

// ErrInterrupted is returned by App.Run when the user presses Ctrl-C and no
// widget handles it, or when the process receives SIGINT.
var ErrInterrupted = errors.New("interrupted")

// App represents a CLI app. It also serves as the tk.Dispatcher of the
// widgets it hosts.
type App interface {
	tk.Dispatcher

	// Run runs the event loop until Quit is called, the user interrupts the
	// app or the terminal fails. It can only be called once.
	Run() error
	// Quit causes the main loop to exit with the given error. If this method
	// is called when an event is being handled, the main loop will exit after
	// the handler returns.
	Quit(err error)

	// MutateState mutates the state of the app.
	MutateState(f func(*State))
	// CopyState returns a copy of the a state.
	CopyState() State

	// Redraw requests a redraw. It never blocks and can be called regardless of
	// whether the App is active or not.
	Redraw()
	// RedrawFull requests a full redraw. It never blocks and can be called
	// regardless of whether the App is active or not.
	RedrawFull()
	// Notify adds a note and requests a redraw.
	Notify(note ui.Text)

	// Root returns the root widget.
	Root() tk.Widget
	// SetRoot replaces the root widget and requests a redraw.
	SetRoot(w tk.Widget)
}

// AppSpec specifies the configuration and initial state for an App.
type AppSpec struct {
	TTY            TTY
	MaxHeight      func() int
	GlobalBindings tk.Bindings
	// Root is the widget filling the screen. A nil Root is replaced by an
	// Empty widget; Root can also be set after the App is created with
	// SetRoot, for widgets that need the App as their Dispatcher.
	Root  tk.Widget
	State State
}

// State represents mutable state of an App.
type State struct {
	// Notes shown below the root widget until the next key press.
	Notes []ui.Text
}

type app struct {
	loop    *loop
	reqRead chan struct{}

	TTY            TTY
	MaxHeight      func() int
	GlobalBindings tk.Bindings

	rootMutex sync.RWMutex
	root      tk.Widget

	StateMutex sync.RWMutex
	State      State
}

// NewApp creates a new App from the given AppSpec.
func NewApp(spec AppSpec) App {
	lp := newLoop()
	a := &app{
		loop:           lp,
		TTY:            spec.TTY,
		MaxHeight:      spec.MaxHeight,
		GlobalBindings: spec.GlobalBindings,
		root:           spec.Root,
		State:          spec.State,
	}
	if a.TTY == nil {
		a.TTY = NewTTY(os.Stdin, os.Stdout)
	}
	if a.MaxHeight == nil {
		a.MaxHeight = func() int { return -1 }
	}
	if a.GlobalBindings == nil {
		a.GlobalBindings = tk.DummyBindings{}
	}
	if a.root == nil {
		a.root = tk.Empty{}
	}
	lp.HandleCb(a.handle)
	lp.RedrawCb(a.redraw)
	return a
}

func (a *app) SetRoot(w tk.Widget) {
	a.rootMutex.Lock()
	a.root = w
	a.rootMutex.Unlock()
	a.Redraw()
}

func (a *app) Root() tk.Widget {
	a.rootMutex.RLock()
	defer a.rootMutex.RUnlock()
	return a.root
}

func (a *app) MutateState(f func(*State)) {
	a.StateMutex.Lock()
	defer a.StateMutex.Unlock()
	f(&a.State)
}

func (a *app) CopyState() State {
	a.StateMutex.RLock()
	defer a.StateMutex.RUnlock()
	return State{append([]ui.Text(nil), a.State.Notes...)}
}

// Events that carry functions scheduled by widgets.
type (
	doEvent    func()
	timerEvent struct{ t *timer }
)

func (a *app) handle(e event) {
	switch e := e.(type) {
	case doEvent:
		e()
	case timerEvent:
		e.t.fire()
	case os.Signal:
		switch e {
		case syscall.SIGHUP, syscall.SIGTERM:
			a.loop.Return(io.EOF)
		case syscall.SIGINT:
			a.loop.Return(ErrInterrupted)
		case sys.SIGWINCH:
			a.RedrawFull()
		}
	case term.FatalErrorEvent:
		a.loop.Return(e.Err)
	case term.NonfatalErrorEvent:
		logger.Println("terminal read error:", e.Err)
		a.requestRead()
	case term.Event:
		a.handleTermEvent(e)
		a.requestRead()
	}
}

func (a *app) handleTermEvent(e term.Event) {
	switch ev := e.(type) {
	case term.KeyEvent:
		a.MutateState(func(s *State) { s.Notes = nil })
	case term.MouseEvent:
		// Terminals report 1-based screen positions and the root widget is
		// drawn from the top left corner.
		ev.Line--
		ev.Col--
		e = ev
	}
	root := a.Root()
	if root.Handle(e) || a.GlobalBindings.Handle(root, e) {
		return
	}
	k, ok := e.(term.KeyEvent)
	if !ok {
		return
	}
	switch ui.Key(k) {
	case ui.K('C', ui.Ctrl):
		a.loop.Return(ErrInterrupted)
	case ui.K('D', ui.Ctrl):
		a.loop.Return(io.EOF)
	default:
		a.Notify(ui.T("Unbound key: " + ui.Key(k).String()))
	}
}

func (a *app) requestRead() {
	if !a.loop.HasReturned() {
		a.reqRead <- struct{}{}
	}
}

func (a *app) redraw(flag redrawFlag) {
	height, width := a.TTY.Size()
	if maxHeight := a.MaxHeight(); maxHeight > 0 && maxHeight < height {
		height = maxHeight
	}

	bufNotes := renderNotes(a.CopyState().Notes, width)
	notesHeight := 0
	if bufNotes != nil {
		// Notes never take more than half of the screen; the latest ones are
		// kept.
		notesHeight = min(len(bufNotes.Lines), height/2)
		bufNotes.TrimToLines(len(bufNotes.Lines)-notesHeight, len(bufNotes.Lines))
	}

	buf := a.Root().Render(width, height-notesHeight)
	if notesHeight > 0 {
		buf.Extend(bufNotes, false)
	}
	if err := a.TTY.UpdateBuffer(buf, flag&fullRedraw != 0); err != nil {
		logger.Println("failed to update terminal:", err)
	}
	if flag&finalRedraw != 0 {
		a.TTY.ResetBuffer()
	}
}

// Renders notes, one per line.
func renderNotes(notes []ui.Text, width int) *term.Buffer {
	if len(notes) == 0 {
		return nil
	}
	bb := term.NewBufferBuilder(width)
	for i, note := range notes {
		if i > 0 {
			bb.Newline()
		}
		bb.WriteStyled(note)
	}
	return bb.Buffer()
}

func (a *app) Run() error {
	restore, err := a.TTY.Setup()
	if err != nil {
		a.loop.Stop()
		return err
	}
	defer restore()

	var wg sync.WaitGroup
	defer wg.Wait()
	// Unblocks relaying goroutines before waiting for them.
	defer a.loop.Stop()

	// Relay input events.
	a.reqRead = make(chan struct{}, 1)
	a.reqRead <- struct{}{}
	defer close(a.reqRead)
	defer a.TTY.CloseReader()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range a.reqRead {
			event, err := a.TTY.ReadEvent()
			if err == nil {
				a.post(event)
			} else if err == term.ErrStopped {
				return
			} else if term.IsReadErrorRecoverable(err) {
				a.post(term.NonfatalErrorEvent{Err: err})
			} else {
				a.post(term.FatalErrorEvent{Err: err})
				return
			}
		}
	}()

	// Relay signals.
	sigCh := a.TTY.NotifySignals()
	defer a.TTY.StopSignals()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for sig := range sigCh {
			a.post(sig)
		}
	}()

	a.loop.Redraw(true)
	return a.loop.Run()
}

// post delivers an event to the loop unless Run has already returned.
func (a *app) post(ev event) { a.loop.Input(ev) }

func (a *app) Quit(err error) {
	a.loop.Return(err)
}

func (a *app) Redraw() {
	a.loop.Redraw(false)
}

func (a *app) RedrawFull() {
	a.loop.Redraw(true)
}

func (a *app) Notify(note ui.Text) {
	a.MutateState(func(s *State) { s.Notes = append(s.Notes, note) })
	a.Redraw()
}

// Do schedules f to run on the loop goroutine, followed by a redraw.
func (a *app) Do(f func()) {
	ev := doEvent(func() {
		f()
		a.Redraw()
	})
	if !a.loop.TryInput(ev) {
		// The buffer is full and the caller may be the loop goroutine itself.
		go a.post(ev)
	}
}

// AfterFunc schedules f to run on the loop goroutine after d.
func (a *app) AfterFunc(d time.Duration, f func()) tk.Timer {
	t := &timer{f: func() {
		f()
		a.Redraw()
	}}
	t.t = time.AfterFunc(d, func() { a.post(timerEvent{t}) })
	return t
}

type timer struct {
	f func()
	t *time.Timer

	mutex sync.Mutex
	done  bool
}

func (t *timer) Stop() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.t.Stop()
	return true
}

func (t *timer) fire() {
	t.mutex.Lock()
	if t.done {
		t.mutex.Unlock()
		return
	}
	t.done = true
	t.mutex.Unlock()
	t.f()
}

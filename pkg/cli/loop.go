package cli

import "sync"

// Buffer size of the input channel. Events from the terminal, signals and
// functions scheduled by widgets all go through it.
const inputChSize = 128

// loop is a serial event loop. It alternates between redrawing and handling
// the queued events, and never runs two callbacks at the same time, so the
// callbacks may share state without locking.
type loop struct {
	events chan event
	handle handleCb
	redraw redrawCb

	// Pending redraw request, with a capacity of 1.
	redrawReq chan struct{}
	redrawMu  sync.Mutex
	wantFull  bool

	// Holds the error passed to the first Return call of an iteration.
	ret chan error

	// Closed by Stop. Unblocks senders once nobody reads the events.
	stopped  chan struct{}
	stopOnce sync.Once
}

// Anything delivered through the loop: terminal events, signals and
// functions to run on the loop goroutine.
type event any

type handleCb func(event)

type redrawCb func(flag redrawFlag)

// Flags passed to redrawCb.
type redrawFlag uint

const (
	// The whole screen must be repainted. Set for the first redraw and after
	// Redraw(true).
	fullRedraw redrawFlag = 1 << iota
	// The loop is about to return and this is the last redraw.
	finalRedraw
)

func newLoop() *loop {
	return &loop{
		events:    make(chan event, inputChSize),
		handle:    func(event) {},
		redraw:    func(redrawFlag) {},
		redrawReq: make(chan struct{}, 1),
		ret:       make(chan error, 1),
		stopped:   make(chan struct{}),
	}
}

// HandleCb sets the event handler. It must be called before Run.
func (lp *loop) HandleCb(cb handleCb) { lp.handle = cb }

// RedrawCb sets the redraw callback. It must be called before Run.
func (lp *loop) RedrawCb(cb redrawCb) { lp.redraw = cb }

// Redraw requests a redraw, a full one if full is true. It never blocks.
func (lp *loop) Redraw(full bool) {
	lp.redrawMu.Lock()
	lp.wantFull = lp.wantFull || full
	lp.redrawMu.Unlock()
	select {
	case lp.redrawReq <- struct{}{}:
	default:
	}
}

// Input queues an event. It blocks while the queue is full, and gives up
// returning false once Stop has been called.
func (lp *loop) Input(ev event) bool {
	select {
	case lp.events <- ev:
		return true
	case <-lp.stopped:
		return false
	}
}

// TryInput queues an event if there is room for it, without blocking.
func (lp *loop) TryInput(ev event) bool {
	select {
	case lp.events <- ev:
		return true
	default:
		return false
	}
}

// Stop makes pending and later Input calls give up. It can be called more
// than once.
func (lp *loop) Stop() {
	lp.stopOnce.Do(func() { close(lp.stopped) })
}

// Return makes Run return err after the current event. Only the first call
// in an iteration counts.
func (lp *loop) Return(err error) {
	select {
	case lp.ret <- err:
	default:
	}
}

// HasReturned returns whether Return has been called and Run has not yet
// picked it up.
func (lp *loop) HasReturned() bool { return len(lp.ret) == 1 }

// Run redraws, then handles events until Return is called. Events that are
// already queued are handled in one batch before the next redraw.
func (lp *loop) Run() error {
	for {
		var flag redrawFlag
		if lp.takeFull() {
			flag |= fullRedraw
		}
		lp.redraw(flag)

		select {
		case ev := <-lp.events:
			if done, err := lp.drain(ev); done {
				return err
			}
		case err := <-lp.ret:
			lp.redraw(finalRedraw)
			return err
		case <-lp.redrawReq:
		}
	}
}

// Handles ev and every other queued event, stopping early when Return is
// called by a handler.
func (lp *loop) drain(ev event) (bool, error) {
	for {
		lp.handle(ev)
		select {
		case err := <-lp.ret:
			lp.redraw(finalRedraw)
			return true, err
		default:
		}
		select {
		case ev = <-lp.events:
		default:
			return false, nil
		}
	}
}

func (lp *loop) takeFull() bool {
	lp.redrawMu.Lock()
	defer lp.redrawMu.Unlock()
	full := lp.wantFull
	lp.wantFull = false
	return full
}

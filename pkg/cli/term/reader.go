package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// Reader reads events from the terminal.
type Reader interface {
	// ReadEvent reads a single event from the terminal.
	ReadEvent() (Event, error)
	// Close releases resources associated with the Reader. Any outstanding
	// ReadEvent call will be aborted, returning ErrStopped.
	Close()
}

// ErrStopped is returned by Reader when Close is called during a ReadEvent
// call.
var ErrStopped = errors.New("stopped")

var errTimeout = errors.New("timed out")

type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable.
func IsReadErrorRecoverable(err error) bool {
	if _, ok := err.(seqError); ok {
		return true
	}
	return err == ErrStopped || err == errTimeout
}

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient. SSH connections on a
// slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

type runeOrError struct {
	r   rune
	err error
}

// reader decodes terminal escape sequences into events. A goroutine pumps
// runes from the underlying io.Reader so that reads inside an escape sequence
// can time out.
type reader struct {
	runeCh chan runeOrError
	stopCh chan struct{}
}

// NewReader creates a new Reader on the given input, typically a terminal
// file in raw mode.
func NewReader(r io.Reader) Reader {
	rd := &reader{make(chan runeOrError, 64), make(chan struct{})}
	go rd.pump(bufio.NewReader(r))
	return rd
}

func (rd *reader) pump(br *bufio.Reader) {
	for {
		r, _, err := br.ReadRune()
		select {
		case rd.runeCh <- runeOrError{r, err}:
		case <-rd.stopCh:
			return
		}
		if err != nil {
			return
		}
	}
}

func (rd *reader) Close() {
	close(rd.stopCh)
}

func (rd *reader) ReadEvent() (Event, error) {
	return readEvent(rd)
}

// readRune reads one rune. A negative timeout means waiting forever.
func (rd *reader) readRune(timeout time.Duration) (rune, error) {
	var timeoutCh <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}
	select {
	case re := <-rd.runeCh:
		return re.r, re.err
	case <-rd.stopCh:
		return 0, ErrStopped
	case <-timeoutCh:
		return 0, errTimeout
	}
}

// Used by readRune in readEvent to signal end of current sequence.
const runeEndOfSeq rune = -1

func readEvent(rd *reader) (event Event, err error) {
	var r rune
	r, err = rd.readRune(-1)
	if err != nil {
		return nil, err
	}

	currentSeq := string(r)
	// Attempts to read a rune within a timeout of keySeqTimeout. It returns
	// runeEndOfSeq if there is any error; the caller should terminate the
	// current sequence when it sees that value.
	readRune := func() rune {
		r, e := rd.readRune(keySeqTimeout)
		if e != nil {
			return runeEndOfSeq
		}
		currentSeq += string(r)
		return r
	}
	badSeq := func(msg string) {
		err = seqError{msg, currentSeq}
	}

	if r != 0x1b {
		return KeyEvent(ctrlModify(r)), nil
	}

	r2 := readRune()
	switch r2 {
	case runeEndOfSeq:
		// Nothing follows. Taken as a lone Escape.
		event = K(ui.Esc)
	case '[':
		// CSI style function key sequence.
		r = readRune()
		if r == runeEndOfSeq {
			event = K('[', ui.Alt)
			return
		}

		nums := make([]int, 0, 2)
		var starter rune
		if r == '<' {
			starter = r
			r = readRune()
		}
	CSISeq:
		for {
			switch {
			case r == ';':
				nums = append(nums, 0)
			case '0' <= r && r <= '9':
				if len(nums) == 0 {
					nums = append(nums, 0)
				}
				cur := len(nums) - 1
				nums[cur] = nums[cur]*10 + int(r-'0')
			case r == runeEndOfSeq:
				badSeq("incomplete CSI")
				return
			default: // Treat as a terminator.
				break CSISeq
			}
			r = readRune()
		}

		switch {
		case starter == '<' && (r == 'm' || r == 'M'):
			// SGR-style mouse event.
			if len(nums) != 3 {
				badSeq("bad SGR mouse event")
				return
			}
			event = parseSGRMouse(nums, r == 'M')
		case starter == 0 && len(nums) == 0 && (r == 'I' || r == 'O'):
			event = FocusEvent(r == 'I')
		case r == '~' && len(nums) == 1 && (nums[0] == 200 || nums[0] == 201):
			event = PasteSetting(nums[0] == 200)
		default:
			k := parseCSI(nums, r)
			if k == (ui.Key{}) {
				badSeq("bad CSI")
			} else {
				event = KeyEvent(k)
			}
		}
	case 'O':
		// G3 style function key sequence: read one rune.
		r = readRune()
		if r == runeEndOfSeq {
			event = K('O', ui.Alt)
			return
		}
		if k, ok := g3Seq[r]; ok {
			event = KeyEvent(k)
		} else {
			badSeq("bad G3")
		}
	default:
		// Something other than '[' or 'O' follows. Taken as an Alt-modified
		// key, possibly also modified by Ctrl.
		k := ctrlModify(r2)
		k.Mod |= ui.Alt
		event = KeyEvent(k)
	}
	return
}

func parseSGRMouse(nums []int, down bool) MouseEvent {
	cb := nums[0]
	button := cb & 3
	if cb&64 != 0 {
		button = WheelUp + cb&1
	}
	return MouseEvent{Pos{nums[2], nums[1]}, down, button, mouseModify(cb)}
}

func mouseModify(n int) ui.Mod {
	var mod ui.Mod
	if n&4 != 0 {
		mod |= ui.Shift
	}
	if n&8 != 0 {
		mod |= ui.Alt
	}
	if n&16 != 0 {
		mod |= ui.Ctrl
	}
	return mod
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns the
// ui.Key the rune represents.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, ui.Backspace:
		return ui.K(r)
	case '\r':
		// Raw terminals send CR for the Enter key.
		return ui.K(ui.Enter)
	case 0x08:
		// ^H is sent as Backspace by some terminals.
		return ui.K(ui.Backspace)
	default:
		if 0x1 <= r && r <= 0x1d {
			return ui.K(r+0x40, ui.Ctrl)
		}
	}
	return ui.K(r)
}

// G3-style key sequences: \eO followed by exactly one character.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always being
// 1 and the second identifying the modifier. For instance, \e[1;5A is Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending with '~' with the first argument identifying
// the key. For instance, \e[3~ is Delete. When modified, an additional
// argument identifies the modifier; \e[3;5~ is Ctrl-Delete.
var csiSeqTilde = map[int]rune{
	1: ui.Home, 2: ui.Insert, 3: ui.Delete, 4: ui.End, 5: ui.PageUp, 6: ui.PageDown,
	7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8, 20: ui.F9, 21: ui.F10,
	23: ui.F11, 24: ui.F12,
}

func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		if len(nums) == 0 {
			return k
		} else if len(nums) == 2 && nums[0] == 1 {
			k.Mod |= xtermModify(nums[1])
			return k
		}
		return ui.Key{}
	}
	if last == '~' && (len(nums) == 1 || len(nums) == 2) {
		if r, ok := csiSeqTilde[nums[0]]; ok {
			k := ui.K(r)
			if len(nums) == 2 {
				k.Mod = xtermModify(nums[1])
			}
			return k
		}
	}
	return ui.Key{}
}

// xterm encodes modifiers as 1 + a bit mask of Shift, Alt and Ctrl.
func xtermModify(n int) ui.Mod {
	var mod ui.Mod
	n--
	if n&1 != 0 {
		mod |= ui.Shift
	}
	if n&2 != 0 {
		mod |= ui.Alt
	}
	if n&4 != 0 {
		mod |= ui.Ctrl
	}
	return mod
}

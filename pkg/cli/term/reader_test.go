package term

import (
	"io"
	"testing"

	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

var readEventTests = []struct {
	input string
	want  Event
}{
	// Simple graphical key.
	{"x", K('x')},
	{"X", K('X')},
	{"é", K('é')},
	// Ctrl key.
	{"\001", K('A', ui.Ctrl)},
	{"\033", K(ui.Esc)},
	// Enter in raw mode.
	{"\r", K(ui.Enter)},
	{"\x7f", K(ui.Backspace)},
	// Alt plus graphical key.
	{"\033a", K('a', ui.Alt)},
	// G3-style key.
	{"\033OA", K(ui.Up)},
	{"\033OP", K(ui.F1)},
	// CSI-style key identified by the ending rune.
	{"\033[A", K(ui.Up)},
	{"\033[1;5B", K(ui.Down, ui.Ctrl)},
	{"\033[Z", K(ui.Tab, ui.Shift)},
	// CSI-style key ending with '~'.
	{"\033[3~", K(ui.Delete)},
	{"\033[6~", K(ui.PageDown)},
	{"\033[5;3~", K(ui.PageUp, ui.Alt)},
	// SGR-style mouse events.
	{"\033[<0;3;5M", MouseEvent{Pos{5, 3}, true, 0, 0}},
	{"\033[<0;3;5m", MouseEvent{Pos{5, 3}, false, 0, 0}},
	{"\033[<65;1;2M", MouseEvent{Pos{2, 1}, true, WheelDown, 0}},
	{"\033[<16;1;2M", MouseEvent{Pos{2, 1}, true, 0, ui.Ctrl}},
	// Focus reports.
	{"\033[I", FocusEvent(true)},
	{"\033[O", FocusEvent(false)},
	// Bracketed paste.
	{"\033[200~", PasteSetting(true)},
	{"\033[201~", PasteSetting(false)},
}

func TestReadEvent(t *testing.T) {
	for _, test := range readEventTests {
		t.Run(test.input, func(t *testing.T) {
			pr, pw := io.Pipe()
			rd := NewReader(pr)
			defer rd.Close()
			go pw.Write([]byte(test.input))

			event, err := rd.ReadEvent()
			if err != nil {
				t.Fatalf("got error %v", err)
			}
			if event != test.want {
				t.Errorf("got event %v, want %v", event, test.want)
			}
		})
	}
}

var readEventBadSeqTests = []string{
	// Bad CSI terminator.
	"\033[1;5X",
	// SGR mouse event with too few arguments.
	"\033[<0;3M",
	// Unknown G3 sequence.
	"\033Oz",
}

func TestReadEvent_BadSeq(t *testing.T) {
	for _, input := range readEventBadSeqTests {
		t.Run(input, func(t *testing.T) {
			pr, pw := io.Pipe()
			rd := NewReader(pr)
			defer rd.Close()
			go pw.Write([]byte(input))

			_, err := rd.ReadEvent()
			if _, ok := err.(seqError); !ok {
				t.Errorf("got error %v, want seqError", err)
			}
			if !IsReadErrorRecoverable(err) {
				t.Errorf("error %v not recoverable", err)
			}
		})
	}
}

func TestReader_Close(t *testing.T) {
	pr, _ := io.Pipe()
	rd := NewReader(pr)
	errCh := make(chan error)
	go func() {
		_, err := rd.ReadEvent()
		errCh <- err
	}()
	rd.Close()
	if err := <-errCh; err != ErrStopped {
		t.Errorf("got error %v, want ErrStopped", err)
	}
}

func TestReader_EOF(t *testing.T) {
	pr, pw := io.Pipe()
	rd := NewReader(pr)
	defer rd.Close()
	pw.Close()
	if _, err := rd.ReadEvent(); err != io.EOF {
		t.Errorf("got error %v, want io.EOF", err)
	}
}

//go:build unix

package term

import (
	"testing"

	"github.com/creack/pty"
	xterm "golang.org/x/term"

	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

func TestReader_Pty(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	if _, err := xterm.MakeRaw(int(tty.Fd())); err != nil {
		t.Fatal(err)
	}

	rd := NewReader(tty)
	defer rd.Close()

	ptmx.Write([]byte("a\033[B\r"))
	for _, want := range []Event{K('a'), K(ui.Down), K(ui.Enter)} {
		event, err := rd.ReadEvent()
		if err != nil {
			t.Fatal(err)
		}
		if event != want {
			t.Errorf("got %v, want %v", event, want)
		}
	}
}

package clitest

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
)

func TestFakeTTY_Setup(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	restoreCalled := 0
	ttyCtrl.SetSetup(func() { restoreCalled++ }, nil)

	restore, err := tty.Setup()
	if err != nil {
		t.Errorf("Setup -> error %v, want nil", err)
	}
	restore()
	if restoreCalled != 1 {
		t.Errorf("Setup did not return restore")
	}
}

func TestFakeTTY_SetupError(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	errSetup := errors.New("setup")
	ttyCtrl.SetSetup(nil, errSetup)
	if _, err := tty.Setup(); err != errSetup {
		t.Errorf("Setup -> error %v, want %v", err, errSetup)
	}
}

func TestFakeTTY_Size(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	ttyCtrl.SetSize(20, 30)
	h, w := tty.Size()
	if h != 20 || w != 30 {
		t.Errorf("Size -> (%v, %v), want (20, 30)", h, w)
	}
}

func TestFakeTTY_Events(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	ttyCtrl.Inject(term.K('a'), term.K('b'))
	for _, want := range []term.Event{term.K('a'), term.K('b')} {
		if event, err := tty.ReadEvent(); event != want || err != nil {
			t.Errorf("Got (%v, %v), want (%v, nil)", event, err, want)
		}
	}
	tty.CloseReader()
	if _, err := tty.ReadEvent(); err != term.ErrStopped {
		t.Errorf("ReadEvent after CloseReader -> %v, want ErrStopped", err)
	}
	// Injecting after CloseReader is a no-op.
	ttyCtrl.Inject(term.K('c'))
}

func TestFakeTTY_Signals(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	signals := tty.NotifySignals()
	ttyCtrl.InjectSignal(os.Interrupt, os.Kill)
	signal := <-signals
	if signal != os.Interrupt {
		t.Errorf("Got signal %v, want %v", signal, os.Interrupt)
	}
	signal = <-signals
	if signal != os.Kill {
		t.Errorf("Got signal %v, want %v", signal, os.Kill)
	}
}

func TestFakeTTY_Buffer(t *testing.T) {
	buf1 := term.NewBufferBuilder(10).Write("buf 1").Buffer()
	buf2 := term.NewBufferBuilder(10).Write("buf 2").Buffer()

	tty, ttyCtrl := NewFakeTTY()
	if ttyCtrl.LastBuffer() != nil {
		t.Errorf("LastBuffer -> %v, want nil", ttyCtrl.LastBuffer())
	}

	tty.UpdateBuffer(buf1, true)
	if tty.Buffer() != buf1 {
		t.Errorf("Buffer -> %v, want %v", tty.Buffer(), buf1)
	}
	ttyCtrl.TestBuffer(t, buf1)

	tty.UpdateBuffer(buf2, false)
	ttyCtrl.TestPlain(t, "buf 2")

	tty.ResetBuffer()
	if ttyCtrl.LastBuffer() != nil {
		t.Errorf("LastBuffer after ResetBuffer -> %v, want nil", ttyCtrl.LastBuffer())
	}
	if h := ttyCtrl.BufferHistory(); !reflect.DeepEqual(h, []*term.Buffer{buf1, buf2, nil}) {
		t.Errorf("BufferHistory -> %v", h)
	}
}

func TestFakeTTY_ClearScreen(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	for i := 0; i < 5; i++ {
		tty.ClearScreen()
	}
	if n := ttyCtrl.ScreenCleared(); n != 5 {
		t.Errorf("ScreenCleared -> %v, want 5", n)
	}
}

func TestGetTTYCtrl(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	if got, ok := GetTTYCtrl(tty); !ok || got != ttyCtrl {
		t.Errorf("GetTTYCtrl(fake) -> (%v, %v)", got, ok)
	}
}

package tk

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// TextField is a single-line text input.
type TextField interface {
	Widget
	// CopyState returns a copy of the state.
	CopyState() TextFieldState
	// MutateState calls the given function while locking the state mutex. It
	// does not call OnChange.
	MutateState(f func(*TextFieldState))
}

// TextFieldSpec specifies the configuration and initial state for TextField.
type TextFieldSpec struct {
	// Key bindings.
	Bindings Bindings
	// A text shown before the content.
	Prompt ui.Text
	// A text shown in place of the content when it is empty.
	Placeholder ui.Text
	// A function called after the content has been changed by an event.
	OnChange func(w TextField, content string)

	// State. When used in [NewTextField], this field specifies the initial
	// state.
	State TextFieldState
}

// TextFieldState keeps the state of a TextField.
type TextFieldState struct {
	Content string
	// Byte index of the cursor within Content.
	Dot int
}

type textField struct {
	// Mutex for synchronizing access to the state.
	StateMutex sync.RWMutex
	TextFieldSpec
}

// NewTextField creates a new TextField from the given spec.
func NewTextField(spec TextFieldSpec) TextField {
	if spec.Bindings == nil {
		spec.Bindings = DummyBindings{}
	}
	if spec.OnChange == nil {
		spec.OnChange = func(TextField, string) {}
	}
	return &textField{TextFieldSpec: spec}
}

func (w *textField) Render(width, height int) *term.Buffer {
	s := w.CopyState()
	bb := term.NewBufferBuilder(width).WriteStyled(w.Prompt)
	if s.Content == "" {
		bb.SetDotHere().WriteStyled(w.Placeholder)
	} else {
		bb.Write(s.Content[:s.Dot]).SetDotHere().Write(s.Content[s.Dot:])
	}
	b := bb.Buffer()
	b.TrimToLines(0, height)
	return b
}

func (w *textField) MaxHeight(width, height int) int {
	return len(w.Render(width, height).Lines)
}

func (w *textField) Handle(event term.Event) bool {
	if w.Bindings.Handle(w, event) {
		return true
	}
	k, ok := event.(term.KeyEvent)
	if !ok {
		return false
	}

	old := w.CopyState().Content
	handled := true
	w.MutateState(func(s *TextFieldState) {
		switch k {
		case term.K(ui.Backspace), term.K('H', ui.Ctrl):
			if s.Dot > 0 {
				_, size := utf8.DecodeLastRuneInString(s.Content[:s.Dot])
				s.Content = s.Content[:s.Dot-size] + s.Content[s.Dot:]
				s.Dot -= size
			}
		case term.K(ui.Delete):
			if s.Dot < len(s.Content) {
				_, size := utf8.DecodeRuneInString(s.Content[s.Dot:])
				s.Content = s.Content[:s.Dot] + s.Content[s.Dot+size:]
			}
		case term.K(ui.Left):
			if s.Dot > 0 {
				_, size := utf8.DecodeLastRuneInString(s.Content[:s.Dot])
				s.Dot -= size
			}
		case term.K(ui.Right):
			if s.Dot < len(s.Content) {
				_, size := utf8.DecodeRuneInString(s.Content[s.Dot:])
				s.Dot += size
			}
		case term.K(ui.Home), term.K('A', ui.Ctrl):
			s.Dot = 0
		case term.K(ui.End), term.K('E', ui.Ctrl):
			s.Dot = len(s.Content)
		case term.K('U', ui.Ctrl):
			s.Content, s.Dot = s.Content[s.Dot:], 0
		default:
			if k.Mod != 0 || k.Rune < 0 || !unicode.IsGraphic(k.Rune) {
				handled = false
				return
			}
			r := string(k.Rune)
			s.Content = s.Content[:s.Dot] + r + s.Content[s.Dot:]
			s.Dot += len(r)
		}
	})
	if !handled {
		return false
	}
	if content := w.CopyState().Content; content != old {
		w.OnChange(w, content)
	}
	return true
}

func (w *textField) CopyState() TextFieldState {
	w.StateMutex.RLock()
	defer w.StateMutex.RUnlock()
	return w.State
}

func (w *textField) MutateState(f func(*TextFieldState)) {
	w.StateMutex.Lock()
	defer w.StateMutex.Unlock()
	f(&w.State)
}

package tk

import (
	"sync"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// Column is a Widget that stacks its children vertically and keeps track of
// which child has the input focus.
//
// Key events go to the focused child. If the child leaves Tab or Shift-Tab
// unhandled, the focus moves to the next or previous child. Mouse events go
// to the child under the pointer, which also gets the focus on a button
// press.
type Column interface {
	Widget
	Focuser
	// CopyState returns a copy of the state.
	CopyState() ColumnState
	// FocusChild moves the focus to the i-th child.
	FocusChild(i int)
}

// ColumnSpec specifies the configuration and initial state for Column.
type ColumnSpec struct {
	// Key bindings.
	Bindings Bindings
	// Children, from top to bottom.
	Children []Widget
	// Number of empty lines between two children.
	Gap int
	// Whether moving the focus past the last or first child wraps around.
	// When false, the Tab or Shift-Tab is left unhandled for an outer
	// container.
	Cycle bool

	// State. When used in [NewColumn], this field specifies the initial state.
	State ColumnState
}

// ColumnState keeps the state of a Column.
type ColumnState struct {
	Focused int
	// Whether the Column itself has the focus.
	HasFocus bool
}

type column struct {
	// Mutex for synchronizing access to the state.
	StateMutex sync.RWMutex
	ColumnSpec
	// The first line of each child in the last Render.
	offsets []int
}

// NewColumn creates a new Column from the given spec.
func NewColumn(spec ColumnSpec) Column {
	if spec.Bindings == nil {
		spec.Bindings = DummyBindings{}
	}
	return &column{ColumnSpec: spec}
}

func (w *column) Render(width, height int) *term.Buffer {
	focused := w.CopyState().Focused
	buf := term.NewBufferBuilder(width).Buffer()
	buf.Lines = nil
	w.offsets = make([]int, len(w.Children))
	for i, child := range w.Children {
		if i > 0 {
			for j := 0; j < w.Gap; j++ {
				buf.Extend(term.NewBuffer(width), false)
			}
		}
		remaining := height - len(buf.Lines)
		w.offsets[i] = len(buf.Lines)
		if remaining <= 0 {
			continue
		}
		buf.Extend(child.Render(width, remaining), i == focused)
	}
	if len(buf.Lines) > height {
		buf.TrimToLines(0, height)
	}
	if len(buf.Lines) == 0 {
		buf.Lines = [][]term.Cell{{}}
	}
	return buf
}

func (w *column) MaxHeight(width, height int) int {
	total := 0
	for i, child := range w.Children {
		if i > 0 {
			total += w.Gap
		}
		total += child.MaxHeight(width, height)
	}
	return total
}

func (w *column) Handle(event term.Event) bool {
	if w.Bindings.Handle(w, event) {
		return true
	}
	if len(w.Children) == 0 {
		return false
	}
	switch event := event.(type) {
	case term.MouseEvent:
		i := w.childAt(event.Line)
		if i < 0 {
			return false
		}
		if event.Down && i != w.CopyState().Focused {
			w.FocusChild(i)
		}
		event.Line -= w.offsets[i]
		return w.Children[i].Handle(event)
	case term.FocusEvent:
		if event {
			w.Focus()
		} else {
			w.Blur()
		}
		return true
	}

	focused := w.CopyState().Focused
	if w.Children[focused].Handle(event) {
		return true
	}
	switch event {
	case term.K(ui.Tab):
		return w.moveFocus(focused + 1)
	case term.K(ui.Tab, ui.Shift):
		return w.moveFocus(focused - 1)
	}
	return false
}

func (w *column) moveFocus(i int) bool {
	n := len(w.Children)
	if i < 0 || i >= n {
		if !w.Cycle {
			return false
		}
		i = (i + n) % n
	}
	w.FocusChild(i)
	return true
}

func (w *column) childAt(line int) int {
	for i := len(w.offsets) - 1; i >= 0; i-- {
		if line >= w.offsets[i] {
			return i
		}
	}
	return -1
}

func (w *column) FocusChild(i int) {
	if i < 0 || i >= len(w.Children) {
		return
	}
	var old int
	var hasFocus bool
	w.mutate(func(s *ColumnState) {
		old, hasFocus = s.Focused, s.HasFocus
		s.Focused = i
	})
	if !hasFocus || old == i {
		return
	}
	if f, ok := w.Children[old].(Focuser); ok {
		f.Blur()
	}
	if f, ok := w.Children[i].(Focuser); ok {
		f.Focus()
	}
}

// Focus gives the focus to the focused child.
func (w *column) Focus() {
	var focused int
	w.mutate(func(s *ColumnState) {
		s.HasFocus = true
		focused = s.Focused
	})
	if focused < len(w.Children) {
		if f, ok := w.Children[focused].(Focuser); ok {
			f.Focus()
		}
	}
}

// Blur takes the focus away from the focused child.
func (w *column) Blur() {
	var focused int
	w.mutate(func(s *ColumnState) {
		s.HasFocus = false
		focused = s.Focused
	})
	if focused < len(w.Children) {
		if f, ok := w.Children[focused].(Focuser); ok {
			f.Blur()
		}
	}
}

func (w *column) CopyState() ColumnState {
	w.StateMutex.RLock()
	defer w.StateMutex.RUnlock()
	return w.State
}

func (w *column) mutate(f func(*ColumnState)) {
	w.StateMutex.Lock()
	defer w.StateMutex.Unlock()
	f(&w.State)
}

package tk

import (
	"strings"
	"sync"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// ListBox is a list for displaying and selecting from a list of items.
type ListBox interface {
	Widget
	// CopyState returns a copy of the state.
	CopyState() ListBoxState
	// Reset resets the state of the widget with the given items and index of
	// the selected item. It triggers the OnSelect callback if the index is
	// valid.
	Reset(it Items, selected int)
	// Select changes the selection by calling f with the current state, and
	// using the return value as the new selection index. It triggers the
	// OnSelect callback if the selected index has changed and is valid.
	Select(f func(ListBoxState) int)
	// Accept accepts the currently selected item.
	Accept()
}

// ListBoxSpec specifies the configuration and initial state for ListBox.
type ListBoxSpec struct {
	// Key bindings.
	Bindings Bindings
	// A placeholder to show when there are no items.
	Placeholder ui.Text
	// A function to call when the selected item has changed.
	OnSelect func(it Items, i int)
	// A function called on the accept event.
	OnAccept func(it Items, i int)
	// A function called when the user scrolls down with the last item
	// already selected.
	OnScrollPastEnd func(it Items)
	// The minimal amount of space to reserve for left and right sides of each
	// entry.
	Padding int

	// State. When used in [NewListBox], this field specifies the initial state.
	State ListBoxState
}

// Items is an interface for accessing multiple items. Each item is shown on
// exactly one line; anything after the first newline is not shown.
type Items interface {
	// Show renders the item at the given zero-based index.
	Show(i int) ui.Text
	// Len returns the number of items.
	Len() int
}

// PartialItems is implemented by Items that hold only the first part of a
// longer list. The scrollbar of a ListBox marks that more items follow.
type PartialItems interface {
	Items
	More() bool
}

// ListBoxState keeps the mutable state ListBox.
type ListBoxState struct {
	Items    Items
	Selected int
	First    int
	// Height of the last rendered list, used by PrevPage and NextPage.
	ContentHeight int
}

type listBox struct {
	// Mutex for synchronizing access to the state.
	StateMutex sync.RWMutex
	// Configuration and state.
	ListBoxSpec
}

// NewListBox creates a new ListBox from the given spec.
func NewListBox(spec ListBoxSpec) ListBox {
	if spec.Bindings == nil {
		spec.Bindings = DummyBindings{}
	}
	if spec.OnAccept == nil {
		spec.OnAccept = func(Items, int) {}
	}
	if spec.OnScrollPastEnd == nil {
		spec.OnScrollPastEnd = func(Items) {}
	}
	if spec.OnSelect == nil {
		spec.OnSelect = func(Items, int) {}
	} else {
		s := spec.State
		if s.Items != nil && 0 <= s.Selected && s.Selected < s.Items.Len() {
			spec.OnSelect(s.Items, s.Selected)
		}
	}
	return &listBox{ListBoxSpec: spec}
}

var stylingForSelected = ui.Inverse

func (w *listBox) MaxHeight(width, height int) int {
	s := w.CopyState()
	if s.Items == nil || s.Items.Len() == 0 {
		return Label{Content: w.Placeholder}.MaxHeight(width, height)
	}
	return min(s.Items.Len(), height)
}

// The number of lines the listbox keeps between the selected item and the top
// and bottom edges of the window, unless the available height is too small or
// the selected item is near the top or bottom of the list.
var respectDistance = 1

// Determines the index of the first item to show. The window always includes
// the selected item and moves as little as possible from the last window.
func getVerticalWindow(state ListBoxState, height int) int {
	n := state.Items.Len()
	if height >= n {
		return 0
	}
	selected := fixIndex(state.Selected, n)
	dist := min(respectDistance, (height-1)/2)
	first := state.First
	if selected-dist < first {
		first = selected - dist
	}
	if selected+dist >= first+height {
		first = selected + dist - height + 1
	}
	return max(0, min(first, n-height))
}

func (w *listBox) Render(width, height int) *term.Buffer {
	var state ListBoxState
	w.mutate(func(s *ListBoxState) {
		if s.Items == nil || s.Items.Len() == 0 {
			s.First = 0
		} else {
			s.First = getVerticalWindow(*s, height)
		}
		s.ContentHeight = height
		state = *s
	})

	if state.Items == nil || state.Items.Len() == 0 {
		return Label{Content: w.Placeholder}.Render(width, height)
	}

	items, selected, first := state.Items, state.Selected, state.First
	n := items.Len()
	lines := make([]ui.Text, 0, height)
	i := first
	for ; i < n && len(lines) < height; i++ {
		lines = append(lines, items.Show(i).SplitByRune('\n')[0])
	}

	content := croppedLines{
		lines: lines, padding: w.Padding, selected: selected - first}
	partial, _ := items.(PartialItems)
	if first == 0 && i == n {
		return content.Render(width, height)
	}
	buf := content.Render(width-1, height)
	bar := scrollbar{total: n, low: first, high: i, more: partial != nil && partial.More()}
	buf.ExtendRight(bar.render(height))
	return buf
}

var (
	scrollbarThumb  = ui.T(" ", ui.FgMagenta, ui.Inverse)
	scrollbarTrough = ui.T("│", ui.FgMagenta)
	// Bottom of the trough when more items are yet to be loaded.
	scrollbarMore = ui.T("┆", ui.FgMagenta)
)

// Vertical scrollbar showing which of total items, from low to high, are
// visible.
type scrollbar struct {
	total, low, high int
	more             bool
}

func (s scrollbar) render(height int) *term.Buffer {
	thumbLow, thumbHigh := thumbInterval(s.total, s.low, s.high, height)
	bb := term.NewBufferBuilder(1)
	for i := 0; i < height; i++ {
		if i > 0 {
			bb.Newline()
		}
		switch {
		case thumbLow <= i && i < thumbHigh:
			bb.WriteStyled(scrollbarThumb)
		case s.more && i == height-1:
			bb.WriteStyled(scrollbarMore)
		default:
			bb.WriteStyled(scrollbarTrough)
		}
	}
	return bb.Buffer()
}

// Scales the interval [low, high) of n items to a scrollbar of the given
// height. The thumb is at least one cell high.
func thumbInterval(n, low, high, height int) (int, int) {
	scale := func(i int) int {
		return int(float64(i)/float64(n)*float64(height) + 0.5)
	}
	thumbLow, thumbHigh := scale(low), scale(high)
	if thumbLow == thumbHigh {
		if thumbHigh == height {
			thumbLow--
		} else {
			thumbHigh++
		}
	}
	return thumbLow, thumbHigh
}

type croppedLines struct {
	lines    []ui.Text
	padding  int
	selected int
}

func (c croppedLines) Render(width, height int) *term.Buffer {
	bb := term.NewBufferBuilder(width)
	leftSpacing := ui.T(strings.Repeat(" ", c.padding))
	rightSpacing := ui.T(strings.Repeat(" ", max(0, width-c.padding)))
	for i, line := range c.lines {
		if i > 0 {
			bb.Newline()
		}
		acc := ui.Concat(leftSpacing, line.TrimWidth(width-2*c.padding))
		if i == c.selected {
			acc = ui.StyleText(
				ui.Concat(acc, rightSpacing).TrimWidth(width), stylingForSelected)
		}
		bb.WriteStyled(acc)
	}
	return bb.Buffer()
}

func (w *listBox) Handle(event term.Event) bool {
	if w.Bindings.Handle(w, event) {
		return true
	}

	switch event := event.(type) {
	case term.KeyEvent:
		switch event {
		case term.K(ui.Up):
			w.Select(Prev)
			return true
		case term.K(ui.Down):
			w.scrollDown(Next)
			return true
		case term.K(ui.PageUp):
			w.Select(PrevPage)
			return true
		case term.K(ui.PageDown):
			w.scrollDown(NextPage)
			return true
		case term.K(ui.Enter):
			w.Accept()
			return true
		}
	case term.MouseEvent:
		if !event.Down {
			return false
		}
		switch event.Button {
		case term.WheelUp:
			w.Select(Prev)
			return true
		case term.WheelDown:
			w.scrollDown(Next)
			return true
		case 0:
			s := w.CopyState()
			if s.Items == nil {
				return false
			}
			i := s.First + event.Line
			if i < 0 || i >= s.Items.Len() || event.Line >= s.ContentHeight {
				return false
			}
			w.Select(func(ListBoxState) int { return i })
			w.Accept()
			return true
		}
	}
	return false
}

func (w *listBox) CopyState() ListBoxState {
	w.StateMutex.RLock()
	defer w.StateMutex.RUnlock()
	return w.State
}

func (w *listBox) Reset(it Items, selected int) {
	w.mutate(func(s *ListBoxState) { *s = ListBoxState{Items: it, Selected: selected} })
	if it != nil && 0 <= selected && selected < it.Len() {
		w.OnSelect(it, selected)
	}
}

func (w *listBox) Select(f func(ListBoxState) int) {
	var it Items
	var oldSelected, selected int
	w.mutate(func(s *ListBoxState) {
		oldSelected, it = s.Selected, s.Items
		if it == nil {
			return
		}
		selected = f(*s)
		s.Selected = selected
	})
	if it != nil && selected != oldSelected && 0 <= selected && selected < it.Len() {
		w.OnSelect(it, selected)
	}
}

// Moves the selection down with f, or calls OnScrollPastEnd if the last item
// is already selected.
func (w *listBox) scrollDown(f func(ListBoxState) int) {
	s := w.CopyState()
	if s.Items != nil && s.Items.Len() > 0 && s.Selected >= s.Items.Len()-1 {
		w.OnScrollPastEnd(s.Items)
		return
	}
	w.Select(f)
}

// Prev moves the selection to the previous item, or does nothing if the
// first item is currently selected. It is a suitable as an argument to
// [ListBox.Select].
func Prev(s ListBoxState) int {
	return fixIndex(s.Selected-1, s.Items.Len())
}

// PrevPage moves the selection to the item one page before. It is a suitable
// as an argument to [ListBox.Select].
func PrevPage(s ListBoxState) int {
	return fixIndex(s.Selected-s.ContentHeight, s.Items.Len())
}

// Next moves the selection to the next item, or does nothing if the last item
// is currently selected. It is a suitable as an argument to [ListBox.Select].
func Next(s ListBoxState) int {
	return fixIndex(s.Selected+1, s.Items.Len())
}

// NextPage moves the selection to the item one page after. It is a suitable
// as an argument to [ListBox.Select].
func NextPage(s ListBoxState) int {
	return fixIndex(s.Selected+s.ContentHeight, s.Items.Len())
}

func fixIndex(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}

func (w *listBox) Accept() {
	state := w.CopyState()
	if state.Items != nil && 0 <= state.Selected && state.Selected < state.Items.Len() {
		w.OnAccept(state.Items, state.Selected)
	}
}

func (w *listBox) mutate(f func(s *ListBoxState)) {
	w.StateMutex.Lock()
	defer w.StateMutex.Unlock()
	f(&w.State)
}

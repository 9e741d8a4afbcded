package tk

import (
	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
)

// ComboBox is a Widget that combines a ListBox and a TextField.
type ComboBox interface {
	Widget
	// Returns the embedded text field widget.
	TextField() TextField
	// Returns the embedded listbox widget.
	ListBox() ListBox
	// Forces the filtering to rerun.
	Refilter()
	// Sets the filter text without calling OnFilter.
	ResetFilter(text string)
}

// ComboBoxSpec specifies the configuration and initial state for ComboBox.
type ComboBoxSpec struct {
	TextField TextFieldSpec
	ListBox   ListBoxSpec
	OnFilter  func(ComboBox, string)
}

type comboBox struct {
	textField TextField
	listBox   ListBox
	OnFilter  func(ComboBox, string)

	// Last filter value.
	lastFilter string
	// Number of lines the text field took in the last Render.
	textFieldLines int
}

// NewComboBox creates a new ComboBox from the given spec.
func NewComboBox(spec ComboBoxSpec) ComboBox {
	if spec.OnFilter == nil {
		spec.OnFilter = func(ComboBox, string) {}
	}
	w := &comboBox{
		textField: NewTextField(spec.TextField),
		listBox:   NewListBox(spec.ListBox),
		OnFilter:  spec.OnFilter,
	}
	w.OnFilter(w, "")
	return w
}

// Render renders the text field and the listbox below it.
func (w *comboBox) Render(width, height int) *term.Buffer {
	if height == 1 {
		w.textFieldLines = 0
		return w.listBox.Render(width, height)
	}
	buf := w.textField.Render(width, height-1)
	w.textFieldLines = len(buf.Lines)
	bufListBox := w.listBox.Render(width, height-len(buf.Lines))
	buf.Extend(bufListBox, false)
	return buf
}

func (w *comboBox) MaxHeight(width, height int) int {
	return w.textField.MaxHeight(width, height) + w.listBox.MaxHeight(width, height)
}

// Handle first lets the listbox handle the event, and if it is unhandled, lets
// the text field handle it. If the text field has handled the event and the
// content has changed, it calls OnFilter with the new content.
//
// Mouse events are only passed to the listbox, with lines of the text field
// subtracted.
func (w *comboBox) Handle(event term.Event) bool {
	if ev, ok := event.(term.MouseEvent); ok {
		ev.Line -= w.textFieldLines
		return ev.Line >= 0 && w.listBox.Handle(ev)
	}
	if w.listBox.Handle(event) {
		return true
	}
	if w.textField.Handle(event) {
		filter := w.textField.CopyState().Content
		if filter != w.lastFilter {
			w.OnFilter(w, filter)
			w.lastFilter = filter
		}
		return true
	}
	return false
}

func (w *comboBox) Refilter() {
	w.OnFilter(w, w.textField.CopyState().Content)
}

func (w *comboBox) ResetFilter(text string) {
	w.textField.MutateState(func(s *TextFieldState) {
		*s = TextFieldState{Content: text, Dot: len(text)}
	})
	w.lastFilter = text
}

func (w *comboBox) TextField() TextField { return w.textField }
func (w *comboBox) ListBox() ListBox     { return w.listBox }

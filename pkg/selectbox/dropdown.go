package selectbox

import (
	"context"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// Dropdown is a widget for choosing one or several options from a list that
// can be searched and is loaded page by page.
//
// All methods must be called on the goroutine of its Dispatcher.
type Dropdown interface {
	tk.Widget
	tk.Focuser

	// Open shows the option list with an empty filter. Opening an open
	// dropdown does nothing.
	Open()
	// Close hides the option list.
	Close()
	Toggle()
	IsOpen() bool

	// Select selects an option programmatically and calls OnChange.
	Select(id string) error
	// Remove deselects an option, as clicking the remove mark of its chip
	// does, and calls OnChange.
	Remove(id string) error
	// Clear drops the whole selection and calls OnChange if it was not empty.
	Clear()
	Values() []string
	Items() []Option

	// SetData replaces all the options.
	SetData(p Page)
	// ShowError shows a validation message below the control. An empty
	// message hides it. The selection is not affected.
	ShowError(msg string)
	// Loading returns whether a page or a remote search is in flight.
	Loading() bool

	// State returns the selection state. It must not be mutated directly.
	State() State
	CopyState() DropdownState
}

// DropdownSpec specifies the configuration and initial data of a Dropdown.
type DropdownSpec struct {
	// Runs timers and delivers fetched pages. Required.
	Dispatcher tk.Dispatcher
	// Context passed to LoadMore and SearchAPI.
	Context context.Context
	Mode    Mode
	// Shown above the control when not empty.
	Label string
	// Shown in the control when nothing is selected. Defaults to "Select...".
	Placeholder string
	// Shown in the empty filter field. Defaults to "Search...".
	SearchPlaceholder string
	// Initial options.
	Data Page
	// Page size for LoadMore and SearchAPI. Defaults to DefaultLimit.
	Limit int
	// Maximum number of visible rows of the open list. Defaults to 8.
	ListHeight int
	// Defaults to DefaultSearchDelay.
	SearchDelay time.Duration
	// Time between losing the focus and closing. Defaults to
	// DefaultBlurGrace.
	BlurGrace time.Duration
	// Loads the options after those held. When nil, Data is all there is.
	LoadMore LoadFunc
	// Searches remotely. When nil, the filter applies to the options held.
	SearchAPI LoadFunc
	// Called after every change of the selection made through the Dropdown.
	OnChange func(d Dropdown, values []string, items []Option)
	// Called when LoadMore or SearchAPI fails, or when the user picks an
	// option that cannot be selected.
	OnError func(d Dropdown, err error)
}

// DropdownState keeps the presentation state of a Dropdown.
type DropdownState struct {
	Open    bool
	Focused bool
	// Index of the focused chip in multiple mode, -1 when none is.
	FocusedChip int
	Error       string
	// Options of the open list.
	View []Option
	// Whether View holds remote search results.
	Remote bool
}

const defaultListHeight = 8

// Rows from the end of the list at which the next page is requested.
const nearBottomRows = 2

type dropdown struct {
	DropdownSpec

	state  State
	search *SearchController
	loader *PageLoader
	combo  tk.ComboBox

	blurTimer tk.Timer
	s         DropdownState
	// Layout of the last rendered buffer, for mouse events.
	layout layout
}

// NewDropdown creates a new Dropdown from the given spec.
func NewDropdown(spec DropdownSpec) Dropdown {
	if spec.Context == nil {
		spec.Context = context.Background()
	}
	if spec.Placeholder == "" {
		spec.Placeholder = "Select..."
	}
	if spec.SearchPlaceholder == "" {
		spec.SearchPlaceholder = "Search..."
	}
	if spec.Limit <= 0 {
		spec.Limit = DefaultLimit
	}
	if spec.ListHeight <= 0 {
		spec.ListHeight = defaultListHeight
	}
	if spec.BlurGrace <= 0 {
		spec.BlurGrace = DefaultBlurGrace
	}
	if spec.OnChange == nil {
		spec.OnChange = func(Dropdown, []string, []Option) {}
	}
	if spec.OnError == nil {
		spec.OnError = func(Dropdown, error) {}
	}

	d := &dropdown{DropdownSpec: spec, state: NewState(spec.Mode)}
	d.s.FocusedChip = -1
	d.state.Load(spec.Data.Results, spec.Data.More)
	d.search = NewSearchController(SearchSpec{
		Dispatcher: spec.Dispatcher,
		Context:    spec.Context,
		Delay:      spec.SearchDelay,
		Limit:      spec.Limit,
		Search:     spec.SearchAPI,
		State:      d.state,
		OnResults:  d.showResults,
		OnError:    d.fail,
	})
	d.loader = NewPageLoader(LoaderSpec{
		Dispatcher: spec.Dispatcher,
		Context:    spec.Context,
		Limit:      spec.Limit,
		LoadMore:   spec.LoadMore,
		State:      d.state,
		Filter:     d.search.Text,
		OnLoaded:   d.pageLoaded,
		OnError:    d.fail,
	})
	d.combo = tk.NewComboBox(tk.ComboBoxSpec{
		TextField: tk.TextFieldSpec{
			Prompt:      ui.T("> ", ui.Dim),
			Placeholder: ui.T(spec.SearchPlaceholder, ui.Dim),
		},
		ListBox: tk.ListBoxSpec{
			Placeholder:     ui.T(" No results", ui.Dim),
			Padding:         1,
			OnSelect:        d.onListSelect,
			OnAccept:        d.onListAccept,
			OnScrollPastEnd: d.onListScrollPastEnd,
		},
		OnFilter: d.onFilter,
	})
	d.s.View = d.state.Options()
	return d
}

func (d *dropdown) Open() {
	d.s.Focused = true
	d.cancelBlur()
	if d.s.Open {
		return
	}
	d.s.Open = true
	d.s.FocusedChip = -1
	d.combo.ResetFilter("")
	d.search.Reset()
	if d.state.Len() == 0 {
		d.loader.OnScrollNearBottom()
	}
}

func (d *dropdown) Close() {
	d.cancelBlur()
	if !d.s.Open {
		return
	}
	d.s.Open = false
	d.combo.ResetFilter("")
	d.search.Reset()
}

func (d *dropdown) Toggle() {
	if d.s.Open {
		d.Close()
	} else {
		d.Open()
	}
}

func (d *dropdown) IsOpen() bool { return d.s.Open }

// Focus cancels a pending close caused by Blur.
func (d *dropdown) Focus() {
	d.s.Focused = true
	d.cancelBlur()
}

// Blur closes the dropdown after BlurGrace, unless it gets the focus or a
// mouse press before that.
func (d *dropdown) Blur() {
	d.s.Focused = false
	d.s.FocusedChip = -1
	if !d.s.Open {
		return
	}
	d.cancelBlur()
	d.blurTimer = d.Dispatcher.AfterFunc(d.BlurGrace, func() {
		d.blurTimer = nil
		d.Close()
	})
}

func (d *dropdown) cancelBlur() {
	if d.blurTimer != nil {
		d.blurTimer.Stop()
		d.blurTimer = nil
	}
}

func (d *dropdown) Select(id string) error {
	if err := d.state.Select(id); err != nil {
		return err
	}
	d.changed()
	return nil
}

func (d *dropdown) Remove(id string) error {
	if !d.state.IsSelected(id) {
		if _, ok := d.state.Option(id); !ok {
			return ErrUnknownOption
		}
		return nil
	}
	if err := d.state.Deselect(id); err != nil {
		return err
	}
	d.changed()
	return nil
}

func (d *dropdown) Clear() {
	if len(d.state.Values()) == 0 {
		return
	}
	d.state.Clear()
	d.changed()
}

func (d *dropdown) Values() []string { return d.state.Values() }
func (d *dropdown) Items() []Option  { return d.state.Items() }

func (d *dropdown) SetData(p Page) {
	d.state.Load(p.Results, p.More)
	d.loader.Reset()
	d.s.FocusedChip = -1
	if d.s.Open {
		d.combo.ResetFilter("")
		d.search.Reset()
	} else {
		d.s.View = d.state.Options()
	}
}

func (d *dropdown) ShowError(msg string) { d.s.Error = msg }

func (d *dropdown) Loading() bool { return d.loader.Loading() || d.search.Searching() }

func (d *dropdown) State() State { return d.state }

func (d *dropdown) CopyState() DropdownState {
	s := d.s
	s.View = append([]Option(nil), d.s.View...)
	return s
}

// Picks an option from the list. In multiple mode, picking a selected option
// deselects it.
func (d *dropdown) pick(opt Option) {
	if _, ok := d.state.Option(opt.ID); !ok {
		d.state.Adopt(opt)
	}
	var err error
	if d.Mode == MultipleMode && d.state.IsSelected(opt.ID) {
		err = d.state.Deselect(opt.ID)
	} else {
		err = d.state.Select(opt.ID)
	}
	if err != nil {
		d.fail(err)
		return
	}
	d.Close()
	d.changed()
}

func (d *dropdown) changed() {
	if n := len(d.state.Values()); d.s.FocusedChip >= n {
		d.s.FocusedChip = n - 1
	}
	d.OnChange(d, d.state.Values(), d.state.Items())
}

func (d *dropdown) fail(err error) {
	d.OnError(d, err)
}

// Callbacks from the SearchController, the PageLoader and the ComboBox.

func (d *dropdown) showResults(_ string, results []Option, remote bool) {
	if remote {
		// Flags of options held locally win over those of the source.
		resolved := make([]Option, len(results))
		for i, opt := range results {
			if local, ok := d.state.Option(opt.ID); ok {
				opt.Disabled = local.Disabled
			}
			resolved[i] = opt
		}
		results = resolved
	}
	d.s.View, d.s.Remote = results, remote
	d.combo.ListBox().Reset(d.items(), d.initialRow())
}

func (d *dropdown) pageLoaded(Page) {
	if d.s.Remote {
		return
	}
	d.s.View = FilterOptions(d.state.Options(), d.search.Text())
	selected := d.combo.ListBox().CopyState().Selected
	d.combo.ListBox().Reset(d.items(), selected)
}

func (d *dropdown) onFilter(_ tk.ComboBox, filter string) {
	if !d.s.Open {
		return
	}
	d.search.OnInput(filter)
}

func (d *dropdown) onListSelect(it tk.Items, i int) {
	if d.s.Open && i >= it.Len()-1-nearBottomRows {
		d.loader.OnScrollNearBottom()
	}
}

// Retries a failed page when the list can't move further down.
func (d *dropdown) onListScrollPastEnd(tk.Items) {
	if d.s.Open {
		d.loader.OnScrollNearBottom()
	}
}

func (d *dropdown) onListAccept(it tk.Items, i int) {
	opt := it.(optionItems).opts[i]
	if opt.Disabled {
		return
	}
	d.pick(opt)
}

// The row highlighted when the list is refreshed: the selected option in
// single mode, or the first row.
func (d *dropdown) initialRow() int {
	if d.Mode == SingleMode {
		for i, opt := range d.s.View {
			if d.state.IsSelected(opt.ID) {
				return i
			}
		}
	}
	return 0
}

func (d *dropdown) items() optionItems {
	return optionItems{d.s.View, d.state.IsSelected, d.Mode, !d.s.Remote && d.state.More()}
}

// Event handling.

func (d *dropdown) Handle(event term.Event) bool {
	switch event := event.(type) {
	case term.KeyEvent:
		return d.handleKey(event)
	case term.MouseEvent:
		return d.handleMouse(event)
	case term.FocusEvent:
		if event {
			d.Focus()
		} else {
			d.Blur()
		}
		return true
	}
	return false
}

func (d *dropdown) handleKey(k term.KeyEvent) bool {
	if d.s.Open {
		switch k {
		case term.K(ui.Esc):
			d.Close()
			return true
		case term.K(ui.Backspace):
			// Backspace in an empty filter removes the last chip.
			values := d.state.Values()
			if d.Mode == MultipleMode && len(values) > 0 &&
				d.combo.TextField().CopyState().Content == "" {
				d.Remove(values[len(values)-1])
				return true
			}
		}
		return d.combo.Handle(k)
	}

	switch k {
	case term.K(ui.Enter), term.K(' '), term.K(ui.Down):
		d.Open()
		return true
	}
	if d.Mode == MultipleMode {
		return d.handleChipKey(k)
	}
	return false
}

func (d *dropdown) handleChipKey(k term.KeyEvent) bool {
	values := d.state.Values()
	n, fc := len(values), d.s.FocusedChip
	switch k {
	case term.K(ui.Left):
		if n == 0 {
			return false
		}
		if fc < 0 {
			d.s.FocusedChip = n - 1
		} else if fc > 0 {
			d.s.FocusedChip = fc - 1
		}
		return true
	case term.K(ui.Right):
		if fc < 0 {
			return false
		}
		if fc+1 < n {
			d.s.FocusedChip = fc + 1
		} else {
			d.s.FocusedChip = -1
		}
		return true
	case term.K(ui.Backspace), term.K(ui.Delete):
		if fc < 0 || fc >= n {
			return false
		}
		d.Remove(values[fc])
		return true
	}
	return false
}

func (d *dropdown) handleMouse(ev term.MouseEvent) bool {
	if !ev.Down {
		return false
	}
	// A press on the dropdown wins over a pending close caused by Blur.
	d.Focus()
	l := d.layout
	if ev.Button == 0 {
		for _, c := range l.chips {
			if ev.Line == c.line && c.from <= ev.Col && ev.Col < c.to {
				d.Remove(c.id)
				return true
			}
		}
		if l.controlFirst <= ev.Line && ev.Line <= l.controlLast {
			d.Toggle()
			return true
		}
	}
	if d.s.Open && l.comboFirst >= 0 && ev.Line >= l.comboFirst {
		ev.Line -= l.comboFirst
		return d.combo.Handle(ev)
	}
	return true
}

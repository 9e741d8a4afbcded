package selectbox

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Errors returned by State.Select and State.Deselect.
var (
	ErrUnknownOption  = errors.New("unknown option")
	ErrDisabledOption = errors.New("option is disabled")
)

// Mode is the selection cardinality of a dropdown.
type Mode int

// Possible values for Mode.
const (
	SingleMode Mode = iota
	MultipleMode
)

func (m Mode) String() string {
	switch m {
	case SingleMode:
		return "single"
	case MultipleMode:
		return "multiple"
	default:
		return "unknown"
	}
}

// State holds the options of one dropdown, its selection and its pagination
// cursor. Implementations are not safe for concurrent use; a dropdown only
// touches its State on the UI goroutine.
type State interface {
	Mode() Mode

	// Load replaces all the options and resets the cursor. Options that come
	// in with Selected set are folded into the selection, except disabled
	// ones.
	Load(initial []Option, more bool)
	// Append merges a page received after the options already held. Options
	// already held get their Text and Image updated and keep their Selected
	// and Disabled flags; new options are added at the end, unselected.
	Append(page []Option, more bool)
	// Adopt adds an option found outside the canonical pages, such as through
	// remote search, so that it can be selected. It does not move the cursor.
	// Adopting an option already held is a no-op.
	Adopt(opt Option)

	// Select selects an option. It fails with ErrUnknownOption or
	// ErrDisabledOption, leaving the State unchanged.
	Select(id string) error
	// Deselect removes an option from the selection. Deselecting an option
	// that is not selected is a no-op.
	Deselect(id string) error
	// Clear drops the whole selection.
	Clear()
	IsSelected(id string) bool

	// Values returns the ids of the selected options, in selection order.
	Values() []string
	// Items returns the selected options, in selection order.
	Items() []Option
	// Options returns all the options held, in canonical order.
	Options() []Option
	Option(id string) (Option, bool)
	Len() int

	More() bool
	SetMore(more bool)
	// Cursor returns the number of options received through Load and Append,
	// used as the skip offset of the next page.
	Cursor() int
}

// NewState returns an empty State of the given mode.
func NewState(mode Mode) State {
	if mode == MultipleMode {
		return NewMultiple()
	}
	return NewSingle()
}

// options is the option mapping shared by both variants.
type options struct {
	m      *orderedmap.OrderedMap[string, Option]
	more   bool
	cursor int
}

func newOptions() options {
	return options{m: orderedmap.New[string, Option]()}
}

func (o *options) reset(initial []Option, more bool) {
	o.m = orderedmap.New[string, Option]()
	for _, opt := range initial {
		o.m.Set(opt.ID, opt)
	}
	o.more = more
	o.cursor = len(initial)
}

// merge implements State.Append.
func (o *options) merge(page []Option, more bool) {
	for _, opt := range page {
		if old, ok := o.m.Get(opt.ID); ok {
			old.Text, old.Image = opt.Text, opt.Image
			o.m.Set(opt.ID, old)
		} else {
			opt.Selected = false
			o.m.Set(opt.ID, opt)
		}
	}
	o.more = more
	o.cursor += len(page)
}

func (o *options) adopt(opt Option) {
	if _, ok := o.m.Get(opt.ID); ok {
		return
	}
	opt.Selected = false
	o.m.Set(opt.ID, opt)
}

// selectable checks that id can be selected.
func (o *options) selectable(id string) error {
	opt, ok := o.m.Get(id)
	if !ok {
		return ErrUnknownOption
	}
	if opt.Disabled {
		return ErrDisabledOption
	}
	return nil
}

func (o *options) setFlag(id string, selected bool) {
	if opt, ok := o.m.Get(id); ok {
		opt.Selected = selected
		o.m.Set(id, opt)
	}
}

func (o *options) Options() []Option {
	opts := make([]Option, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		opts = append(opts, pair.Value)
	}
	return opts
}

func (o *options) Option(id string) (Option, bool) { return o.m.Get(id) }
func (o *options) Len() int                        { return o.m.Len() }
func (o *options) More() bool                      { return o.more }
func (o *options) SetMore(more bool)               { o.more = more }
func (o *options) Cursor() int                     { return o.cursor }

// Single is a State where at most one option is selected.
type Single struct {
	options
	selected string
	has      bool
}

// NewSingle returns an empty Single.
func NewSingle() *Single { return &Single{options: newOptions()} }

func (*Single) Mode() Mode { return SingleMode }

func (s *Single) Load(initial []Option, more bool) {
	s.reset(initial, more)
	s.selected, s.has = "", false
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		opt := pair.Value
		if !opt.Selected {
			continue
		}
		if s.has || opt.Disabled {
			opt.Selected = false
			s.m.Set(opt.ID, opt)
			continue
		}
		s.selected, s.has = opt.ID, true
	}
}

func (s *Single) Append(page []Option, more bool) { s.merge(page, more) }
func (s *Single) Adopt(opt Option)                { s.adopt(opt) }

func (s *Single) Select(id string) error {
	if err := s.selectable(id); err != nil {
		return err
	}
	if s.has && s.selected != id {
		s.setFlag(s.selected, false)
	}
	s.setFlag(id, true)
	s.selected, s.has = id, true
	return nil
}

// Deselect clears the selection if id is the selected option.
func (s *Single) Deselect(id string) error {
	if _, ok := s.m.Get(id); !ok {
		return ErrUnknownOption
	}
	if s.has && s.selected == id {
		s.Clear()
	}
	return nil
}

func (s *Single) Clear() {
	if s.has {
		s.setFlag(s.selected, false)
	}
	s.selected, s.has = "", false
}

func (s *Single) IsSelected(id string) bool { return s.has && s.selected == id }

// Value returns the id of the selected option and whether there is one.
func (s *Single) Value() (string, bool) { return s.selected, s.has }

func (s *Single) Values() []string {
	if !s.has {
		return nil
	}
	return []string{s.selected}
}

func (s *Single) Items() []Option {
	if !s.has {
		return nil
	}
	opt, _ := s.m.Get(s.selected)
	return []Option{opt}
}

// Multiple is a State where any number of options can be selected. The
// selection keeps the order in which options were selected.
type Multiple struct {
	options
	selected *orderedmap.OrderedMap[string, struct{}]
}

// NewMultiple returns an empty Multiple.
func NewMultiple() *Multiple {
	return &Multiple{newOptions(), orderedmap.New[string, struct{}]()}
}

func (*Multiple) Mode() Mode { return MultipleMode }

func (m *Multiple) Load(initial []Option, more bool) {
	m.reset(initial, more)
	m.selected = orderedmap.New[string, struct{}]()
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		opt := pair.Value
		if !opt.Selected {
			continue
		}
		if opt.Disabled {
			opt.Selected = false
			m.m.Set(opt.ID, opt)
			continue
		}
		m.selected.Set(opt.ID, struct{}{})
	}
}

func (m *Multiple) Append(page []Option, more bool) { m.merge(page, more) }
func (m *Multiple) Adopt(opt Option)                { m.adopt(opt) }

func (m *Multiple) Select(id string) error {
	if err := m.selectable(id); err != nil {
		return err
	}
	if _, ok := m.selected.Get(id); !ok {
		m.selected.Set(id, struct{}{})
		m.setFlag(id, true)
	}
	return nil
}

func (m *Multiple) Deselect(id string) error {
	if _, ok := m.m.Get(id); !ok {
		return ErrUnknownOption
	}
	if _, ok := m.selected.Delete(id); ok {
		m.setFlag(id, false)
	}
	return nil
}

func (m *Multiple) Clear() {
	for pair := m.selected.Oldest(); pair != nil; pair = pair.Next() {
		m.setFlag(pair.Key, false)
	}
	m.selected = orderedmap.New[string, struct{}]()
}

func (m *Multiple) IsSelected(id string) bool {
	_, ok := m.selected.Get(id)
	return ok
}

func (m *Multiple) Values() []string {
	values := make([]string, 0, m.selected.Len())
	for pair := m.selected.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Key)
	}
	return values
}

func (m *Multiple) Items() []Option {
	items := make([]Option, 0, m.selected.Len())
	for pair := m.selected.Oldest(); pair != nil; pair = pair.Next() {
		opt, _ := m.m.Get(pair.Key)
		items = append(items, opt)
	}
	return items
}

package selectbox

import (
	"context"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
)

// DataFunc loads the options of a dropdown from the selection of the dropdown
// before it.
type DataFunc func(ctx context.Context, parentValues []string, parentItems []Option) (Page, error)

// Relation describes one dropdown of a RelationalGroup.
type Relation struct {
	Label       string
	Placeholder string
	Mode        Mode
	// Loads the options from the selection of the previous dropdown. Unused
	// for the first dropdown.
	Data DataFunc
}

// RelationalSpec specifies the configuration of a RelationalGroup.
type RelationalSpec struct {
	// Required.
	Dispatcher tk.Dispatcher
	Context    context.Context
	Relations  []Relation
	// Options of the first dropdown.
	Initial     Page
	SearchDelay time.Duration
	BlurGrace   time.Duration
	// Called when the selection of the i-th dropdown changes, including when
	// it is reset because a previous dropdown changed.
	OnChange func(i int, values []string, items []Option)
	// Called when the Data of the i-th dropdown fails.
	OnError func(i int, err error)
}

// RelationalGroup is a column of dropdowns where the options of each dropdown
// depend on the selection of the one before it, such as country, province
// and city. Changing a selection empties every later dropdown and loads the
// next one.
type RelationalGroup interface {
	tk.Column
	// Dropdown returns the i-th dropdown.
	Dropdown(i int) Dropdown
	Len() int
}

type relationalGroup struct {
	tk.Column
	RelationalSpec

	dropdowns []Dropdown
	// Per dropdown; incremented whenever its options are reset, so that
	// responses for an older parent selection are dropped.
	generations []int
}

// NewRelationalGroup creates a new RelationalGroup from the given spec.
func NewRelationalGroup(spec RelationalSpec) RelationalGroup {
	if spec.Context == nil {
		spec.Context = context.Background()
	}
	if spec.OnChange == nil {
		spec.OnChange = func(int, []string, []Option) {}
	}
	if spec.OnError == nil {
		spec.OnError = func(int, error) {}
	}
	g := &relationalGroup{
		RelationalSpec: spec,
		generations:    make([]int, len(spec.Relations)),
	}
	children := make([]tk.Widget, len(spec.Relations))
	for i, rel := range spec.Relations {
		var data Page
		if i == 0 {
			data = spec.Initial
		}
		d := NewDropdown(DropdownSpec{
			Dispatcher:  spec.Dispatcher,
			Context:     spec.Context,
			Mode:        rel.Mode,
			Label:       rel.Label,
			Placeholder: rel.Placeholder,
			Data:        data,
			SearchDelay: spec.SearchDelay,
			BlurGrace:   spec.BlurGrace,
			OnChange: func(_ Dropdown, values []string, items []Option) {
				g.changed(i, values, items)
			},
		})
		g.dropdowns = append(g.dropdowns, d)
		children[i] = d
	}
	g.Column = tk.NewColumn(tk.ColumnSpec{Children: children, Gap: 1})
	return g
}

func (g *relationalGroup) Dropdown(i int) Dropdown { return g.dropdowns[i] }
func (g *relationalGroup) Len() int                { return len(g.dropdowns) }

func (g *relationalGroup) changed(i int, values []string, items []Option) {
	g.OnChange(i, values, items)
	for j := i + 1; j < len(g.dropdowns); j++ {
		g.generations[j]++
		hadValues := len(g.dropdowns[j].Values()) > 0
		g.dropdowns[j].SetData(Page{})
		if hadValues {
			g.OnChange(j, nil, nil)
		}
	}
	next := i + 1
	if next >= len(g.dropdowns) || len(values) == 0 || g.Relations[next].Data == nil {
		return
	}
	gen, data := g.generations[next], g.Relations[next].Data
	go func() {
		page, err := data(g.Context, values, items)
		g.Dispatcher.Do(func() {
			if gen != g.generations[next] {
				logger.Printf("dropping options of dropdown %d for an older selection", next)
				return
			}
			if err != nil {
				logger.Printf("loading options of dropdown %d failed: %v", next, err)
				g.OnError(next, err)
				return
			}
			g.dropdowns[next].SetData(page)
		})
	}()
}

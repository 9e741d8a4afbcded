package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
	"github.com/Solvosoft/fletbatteries/pkg/config"
	"github.com/Solvosoft/fletbatteries/pkg/listing"
	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

const helpText = "Tab: next field  Enter/Space: open  Esc: close  q: quit"

// The widgets of the run command.
type demo struct {
	tk.Column
	labels    []string
	dropdowns []selectbox.Dropdown
	group     selectbox.RelationalGroup
}

// Builds the widgets described by cfg, with the first pages of every
// collection already fetched from l. Changes of selection are reported with
// notify.
func buildDemo(ctx context.Context, dp tk.Dispatcher, notify func(ui.Text), cfg *config.Config, l listing.Lister) (*demo, error) {
	d := &demo{}
	var children []tk.Widget
	for _, dc := range cfg.Dropdowns {
		initial, err := listing.Preload(ctx, l, dc.Collection,
			selectbox.Query{Limit: cfg.PageLimit}, cfg.PreloadPages)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", dc.Collection, err)
		}
		label := dc.Label
		spec := selectbox.DropdownSpec{
			Dispatcher:  dp,
			Context:     ctx,
			Mode:        dc.SelectMode(),
			Label:       label,
			Placeholder: dc.Placeholder,
			Data:        initial,
			Limit:       cfg.PageLimit,
			ListHeight:  cfg.ListHeight,
			SearchDelay: cfg.SearchDelay,
			BlurGrace:   cfg.BlurGrace,
			LoadMore:    listing.LoadFunc(l, dc.Collection),
			OnChange: func(w selectbox.Dropdown, _ []string, items []selectbox.Option) {
				w.ShowError("")
				notify(changeNote(label, items))
			},
			OnError: func(w selectbox.Dropdown, err error) {
				w.ShowError(err.Error())
			},
		}
		if dc.RemoteSearch {
			spec.SearchAPI = spec.LoadMore
		}
		w := selectbox.NewDropdown(spec)
		d.labels = append(d.labels, label)
		d.dropdowns = append(d.dropdowns, w)
		children = append(children, w)
	}

	if len(cfg.Related) > 0 {
		first := cfg.Related[0]
		initial, err := listing.Preload(ctx, l, first.Collection,
			selectbox.Query{Limit: cfg.PageLimit}, cfg.PreloadPages)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", first.Collection, err)
		}
		relations := make([]selectbox.Relation, len(cfg.Related))
		for i, rc := range cfg.Related {
			relations[i] = selectbox.Relation{
				Label: rc.Label, Placeholder: rc.Placeholder, Mode: rc.SelectMode()}
			if i > 0 {
				relations[i].Data = listing.DataFunc(l, rc.Collection, cfg.PageLimit)
			}
		}
		d.group = selectbox.NewRelationalGroup(selectbox.RelationalSpec{
			Dispatcher:  dp,
			Context:     ctx,
			Relations:   relations,
			Initial:     initial,
			SearchDelay: cfg.SearchDelay,
			BlurGrace:   cfg.BlurGrace,
			OnChange: func(i int, _ []string, items []selectbox.Option) {
				d.group.Dropdown(i).ShowError("")
				notify(changeNote(cfg.Related[i].Label, items))
			},
			OnError: func(i int, err error) {
				d.group.Dropdown(i).ShowError(err.Error())
			},
		})
		for i, rc := range cfg.Related {
			d.labels = append(d.labels, rc.Label)
			d.dropdowns = append(d.dropdowns, d.group.Dropdown(i))
		}
		children = append(children, d.group)
	}

	children = append(children, tk.Label{Content: ui.T(helpText, ui.FgBrightBlack)})
	d.Column = tk.NewColumn(tk.ColumnSpec{Children: children, Gap: 1, Cycle: true})
	return d, nil
}

func changeNote(label string, items []selectbox.Option) ui.Text {
	return ui.Concat(ui.T(label+": ", ui.Bold), ui.T(joinTexts(items)))
}

func joinTexts(items []selectbox.Option) string {
	if len(items) == 0 {
		return "(none)"
	}
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return strings.Join(texts, ", ")
}

// Returns one line per dropdown with its selection.
func (d *demo) summary() []string {
	lines := make([]string, len(d.dropdowns))
	for i, w := range d.dropdowns {
		lines[i] = d.labels[i] + ": " + joinTexts(w.Items())
	}
	return lines
}

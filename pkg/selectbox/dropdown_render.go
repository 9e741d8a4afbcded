package selectbox

import (
	"strings"

	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// Layout of a rendered dropdown, in lines and columns of its buffer.
type layout struct {
	controlFirst, controlLast int
	// Remove marks of chips.
	chips []chipHit
	// First line of the filter field and list, -1 when closed.
	comboFirst int
}

type chipHit struct {
	line, from, to int
	id             string
}

var (
	stylingForChip        = ui.Stylings(ui.BgBlue, ui.FgWhite)
	stylingForFocusedChip = ui.Inverse
	stylingForSelected    = ui.Stylings(ui.Bold, ui.FgGreen)
	stylingForDisabled    = ui.Stylings(ui.Strikethrough, ui.Dim)
)

const (
	arrowClosed = "▾"
	arrowOpen   = "▴"
	removeMark  = "×"
)

func (d *dropdown) Render(width, height int) *term.Buffer {
	buf := d.render(width, height)
	buf.TrimToLines(0, height)
	return buf
}

func (d *dropdown) MaxHeight(width, height int) int {
	return len(d.render(width, height).Lines)
}

func (d *dropdown) render(width, height int) *term.Buffer {
	l := layout{comboFirst: -1}
	bb := term.NewBufferBuilder(width)
	if d.Label != "" {
		bb.WriteStyled(ui.T(d.Label, ui.Bold)).Newline()
	}
	l.controlFirst = len(bb.Lines) - 1
	if d.Mode == MultipleMode {
		d.writeChips(bb, width, &l)
	} else {
		d.writeSingleControl(bb, width)
	}
	l.controlLast = len(bb.Lines) - 1
	bb.SetDot(term.Pos{Line: l.controlFirst, Col: 0})
	buf := bb.Buffer()

	if d.s.Open {
		rows := min(max(len(d.s.View), 1), d.ListHeight)
		comboHeight := min(1+rows, max(height-len(buf.Lines), 2))
		l.comboFirst = len(buf.Lines)
		buf.Extend(d.combo.Render(width, comboHeight), true)
		if d.Loading() {
			buf.Extend(term.NewBufferBuilder(width).
				WriteStyled(ui.T(" Loading...", ui.Dim, ui.Italic)).Buffer(), false)
		}
	}
	if d.s.Error != "" {
		buf.Extend(term.NewBufferBuilder(width).
			WriteStyled(ui.T(d.s.Error, ui.FgRed)).Buffer(), false)
	}
	d.layout = l
	return buf
}

func (d *dropdown) arrow() string {
	if d.s.Open {
		return arrowOpen
	}
	return arrowClosed
}

func (d *dropdown) writeSingleControl(bb *term.BufferBuilder, width int) {
	content := ui.T(d.Placeholder, ui.Dim)
	if items := d.state.Items(); len(items) > 0 {
		content = ui.T(items[0].Text)
	}
	content = content.TrimWidth(max(width-2, 0))
	line := ui.Concat(content,
		ui.T(strings.Repeat(" ", max(width-1-content.Width(), 1))), ui.T(d.arrow()))
	if d.s.Focused && !d.s.Open {
		line = ui.StyleText(line, ui.Inverse)
	}
	bb.WriteStyled(line.TrimWidth(width))
}

// Writes one chip per selected option, starting a new line when a chip does
// not fit, and the arrow at the end of the last line.
func (d *dropdown) writeChips(bb *term.BufferBuilder, width int, l *layout) {
	items := d.state.Items()
	col := 0
	if len(items) == 0 {
		placeholder := ui.T(d.Placeholder, ui.Dim).TrimWidth(max(width-2, 0))
		bb.WriteStyled(placeholder)
		col = placeholder.Width()
	}
	for i, item := range items {
		styling := stylingForChip
		if i == d.s.FocusedChip {
			styling = ui.Stylings(stylingForChip, stylingForFocusedChip)
		}
		text := ui.T(" "+item.Text+" ", styling).TrimWidth(max(width-3, 1))
		chipWidth := text.Width() + 2
		if col > 0 {
			if col+1+chipWidth > width {
				bb.Newline()
				col = 0
			} else {
				bb.Write(" ")
				col++
			}
		}
		bb.WriteStyled(text)
		col += text.Width()
		l.chips = append(l.chips,
			chipHit{line: len(bb.Lines) - 1, from: col, to: col + 1, id: item.ID})
		bb.WriteStyled(ui.T(removeMark+" ", styling))
		col += 2
	}
	if col+2 > width {
		bb.Newline()
		col = 0
	}
	arrow := ui.T(d.arrow())
	if d.s.Focused && !d.s.Open && d.s.FocusedChip < 0 {
		arrow = ui.StyleText(arrow, ui.Inverse)
	}
	bb.WriteStyled(ui.Concat(ui.T(strings.Repeat(" ", max(width-1-col, 0))), arrow))
}

// optionItems implements tk.Items for the open list.
type optionItems struct {
	opts       []Option
	isSelected func(id string) bool
	mode       Mode
	more       bool
}

func (it optionItems) Len() int   { return len(it.opts) }
func (it optionItems) More() bool { return it.more }

func (it optionItems) Show(i int) ui.Text {
	return showOption(it.opts[i], it.isSelected(it.opts[i].ID), it.mode)
}

func showOption(opt Option, selected bool, mode Mode) ui.Text {
	var mark string
	switch {
	case mode == MultipleMode && selected:
		mark = "[x] "
	case mode == MultipleMode:
		mark = "[ ] "
	case selected:
		mark = "• "
	default:
		mark = "  "
	}
	t := ui.T(mark + opt.Text)
	switch {
	case opt.Disabled:
		return ui.StyleText(t, stylingForDisabled)
	case selected:
		return ui.StyleText(t, stylingForSelected)
	}
	return t
}

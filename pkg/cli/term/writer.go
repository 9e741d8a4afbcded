package term

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Solvosoft/fletbatteries/pkg/logutil"
)

var logger = logutil.GetLogger("[cli/term] ")

var logWriterDetail = false

// Writer represents the output to a terminal.
type Writer interface {
	// Buffer returns the current buffer.
	Buffer() *Buffer
	// ResetBuffer resets the current buffer.
	ResetBuffer()
	// UpdateBuffer updates the terminal display to reflect current buffer.
	UpdateBuffer(buf *Buffer, fullRefresh bool) error
	// ClearScreen clears the terminal screen and places the cursor at the top
	// left corner.
	ClearScreen()
	// SetReporting turns mouse and focus reporting of the terminal on or off.
	SetReporting(on bool)
}

// writer renders the UI.
type writer struct {
	file   io.Writer
	curBuf *Buffer
}

// NewWriter returns a Writer that writes VT100 sequences to the given io.Writer.
func NewWriter(f io.Writer) Writer {
	return &writer{f, &Buffer{}}
}

func (w *writer) Buffer() *Buffer {
	return w.curBuf
}

func (w *writer) ResetBuffer() {
	w.curBuf = &Buffer{}
}

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"

	// Button events with SGR encoding, and focus in/out reports.
	enableReporting  = "\033[?1000h\033[?1006h\033[?1004h"
	disableReporting = "\033[?1004l\033[?1006l\033[?1000l"
)

// UpdateBuffer redraws the terminal to show buf. Unless fullRefresh is true,
// only the cells that differ from the current buffer are written.
func (w *writer) UpdateBuffer(buf *Buffer, fullRefresh bool) error {
	old := w.curBuf
	// Cells of lines of another width do not line up.
	fullRefresh = fullRefresh || (old.Lines != nil && buf.Width != old.Width)

	f := &frame{}
	f.WriteString(hideCursor)
	f.moveTo(Pos{Line: old.Dot.Line}, Pos{})
	if fullRefresh {
		// Erasing from a space keeps tmux from pushing the screen into its
		// scrollback buffer.
		f.WriteString(" \033[J\r")
	}
	if logWriterDetail {
		logger.Printf("writing %d lines over %d", len(buf.Lines), len(old.Lines))
	}

	for i, line := range buf.Lines {
		if i > 0 {
			f.WriteByte('\n')
		}
		if fullRefresh || i >= len(old.Lines) {
			f.cells(line)
		} else {
			f.patch(line, old.Lines[i])
		}
	}
	if !fullRefresh && len(old.Lines) > len(buf.Lines) {
		// Erase the lines below. The old buffer was higher, so the newline
		// does not scroll.
		f.setStyle("")
		f.WriteString("\n\033[J\033[A")
	}
	f.setStyle("")
	f.moveTo(endPos(buf), buf.Dot)
	f.WriteString(showCursor)

	if logWriterDetail {
		logger.Printf("writing %q", f.String())
	}
	if _, err := w.file.Write(f.Bytes()); err != nil {
		return err
	}
	w.curBuf = buf
	return nil
}

// frame collects the output of one update, so that the terminal gets a single
// write.
type frame struct {
	bytes.Buffer
	// Style of the last written cell.
	style string
}

func (f *frame) setStyle(style string) {
	if style != f.style {
		fmt.Fprintf(f, "\033[0;%sm", style)
		f.style = style
	}
}

func (f *frame) cells(cs []Cell) {
	for _, c := range cs {
		f.setStyle(c.Style)
		f.WriteString(c.Text)
	}
}

// Rewrites line from its first cell that differs from old.
func (f *frame) patch(line, old []Cell) {
	eq, j := compareCells(line, old)
	if eq {
		return
	}
	if col := cellsWidth(line[:j]); col > 0 {
		fmt.Fprintf(f, "\033[%dC", col)
	}
	if j < len(old) {
		// The old line is longer than the common prefix.
		f.setStyle("")
		f.WriteString("\033[K")
	}
	f.cells(line[j:])
}

// Moves the cursor with relative line movements and an absolute column.
func (f *frame) moveTo(from, to Pos) {
	switch {
	case from.Line < to.Line:
		fmt.Fprintf(f, "\033[%dB", to.Line-from.Line)
	case from.Line > to.Line:
		fmt.Fprintf(f, "\033[%dA", from.Line-to.Line)
	}
	f.WriteString("\r")
	if to.Col > 0 {
		fmt.Fprintf(f, "\033[%dC", to.Col)
	}
}

func (w *writer) ClearScreen() {
	fmt.Fprint(w.file,
		"\033[H",  // move cursor to the top left corner
		"\033[2J", // clear entire buffer
	)
}

func (w *writer) SetReporting(on bool) {
	if on {
		fmt.Fprint(w.file, enableReporting)
	} else {
		fmt.Fprint(w.file, disableReporting)
	}
}

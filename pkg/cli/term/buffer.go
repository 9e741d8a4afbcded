package term

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is an indivisible unit on the screen. It is not necessarily 1 column
// wide.
type Cell struct {
	Text  string
	Style string
}

// Pos is a line/column position.
type Pos struct {
	Line, Col int
}

// Returns the total width of a Cell slice.
func cellsWidth(cs []Cell) int {
	w := 0
	for _, c := range cs {
		w += runewidth.StringWidth(c.Text)
	}
	return w
}

// Returns whether two Cell slices are equal, and when they are not, the first
// index at which they differ.
func compareCells(r1, r2 []Cell) (bool, int) {
	for i, c := range r1 {
		if i >= len(r2) || c != r2[i] {
			return false, i
		}
	}
	if len(r1) < len(r2) {
		return false, len(r1)
	}
	return true, 0
}

// Buffer reflects a rectangle area in the terminal, along with a cursor (called
// a "dot" here).
//
// Terminals offer no good way to query their content, so the writer keeps a
// copy of what it last wrote and only ever synchronizes in the direction
// Buffer -> terminal. This relies on matching the terminal's idea of the
// width of each character.
type Buffer struct {
	Width int
	// Lines the content of the buffer.
	Lines [][]Cell
	// Dot is what the user perceives as the cursor.
	Dot Pos
}

// NewBuffer builds a new buffer, with one empty line.
func NewBuffer(width int) *Buffer {
	return &Buffer{Width: width, Lines: [][]Cell{make([]Cell, 0, width)}}
}

// Returns the position of the cursor after writing the entire buffer.
func endPos(b *Buffer) Pos {
	if len(b.Lines) == 0 {
		return Pos{}
	}
	return Pos{len(b.Lines) - 1, cellsWidth(b.Lines[len(b.Lines)-1])}
}

// Col returns the column the cursor is in.
func (b *Buffer) Col() int {
	return cellsWidth(b.Lines[len(b.Lines)-1])
}

// TrimToLines trims a buffer to the lines [low, high).
func (b *Buffer) TrimToLines(low, high int) {
	if low < 0 {
		low = 0
	}
	if high > len(b.Lines) {
		high = len(b.Lines)
	}
	for i := 0; i < low; i++ {
		b.Lines[i] = nil
	}
	for i := high; i < len(b.Lines); i++ {
		b.Lines[i] = nil
	}
	b.Lines = b.Lines[low:high]
	b.Dot.Line -= low
	if b.Dot.Line < 0 {
		b.Dot.Line = 0
	}
}

// Extend adds all lines from b2 to the bottom of this buffer. If moveDot is
// true, the dot is updated to match the dot of b2.
func (b *Buffer) Extend(b2 *Buffer, moveDot bool) {
	if b2 == nil || b2.Lines == nil {
		return
	}
	if moveDot {
		b.Dot.Line = b2.Dot.Line + len(b.Lines)
		b.Dot.Col = b2.Dot.Col
	}
	b.Lines = append(b.Lines, b2.Lines...)
	b.Width = max(b.Width, b2.Width)
}

// ExtendRight extends b to the right, by padding each line in b to be b.Width
// and appending the corresponding line in b2 to it, making new lines when b2
// has more lines than b.
func (b *Buffer) ExtendRight(b2 *Buffer) {
	i := 0
	w := b.Width
	b.Width += b2.Width
	for ; i < len(b.Lines) && i < len(b2.Lines); i++ {
		if w0 := cellsWidth(b.Lines[i]); w0 < w {
			b.Lines[i] = append(b.Lines[i], makeSpacing(w-w0)...)
		}
		b.Lines[i] = append(b.Lines[i], b2.Lines[i]...)
	}
	for ; i < len(b2.Lines); i++ {
		row := append(makeSpacing(w), b2.Lines[i]...)
		b.Lines = append(b.Lines, row)
	}
}

func makeSpacing(n int) []Cell {
	s := make([]Cell, n)
	for i := 0; i < n; i++ {
		s[i].Text = " "
	}
	return s
}

// Buffer returns itself. This is implemented in analogy with [BufferBuilder],
// so that places that accept either can accept an interface.
func (b *Buffer) Buffer() *Buffer { return b }

// Plain returns the content of the buffer without styles, one line per line
// of the buffer. Trailing spaces are kept.
func (b *Buffer) Plain() []string {
	lines := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		var sb strings.Builder
		for _, c := range line {
			sb.WriteString(c.Text)
		}
		lines[i] = sb.String()
	}
	return lines
}

// TTYString returns a text representation of the buffer. It uses box drawing
// characters to represent the border of the buffer, and embeds SGR sequences to
// represent the style of the text.
func (b *Buffer) TTYString() string {
	if b == nil {
		return "nil"
	}
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "Width = %d, Dot = (%d, %d)\n", b.Width, b.Dot.Line, b.Dot.Col)
	// Top border
	sb.WriteString("┌" + strings.Repeat("─", b.Width) + "┐\n")
	for _, line := range b.Lines {
		// Left border
		sb.WriteRune('│')
		// Content
		lastStyle := ""
		usedWidth := 0
		for _, cell := range line {
			if cell.Style != lastStyle {
				switch {
				case lastStyle == "":
					sb.WriteString("\033[" + cell.Style + "m")
				case cell.Style == "":
					sb.WriteString("\033[m")
				default:
					sb.WriteString("\033[;" + cell.Style + "m")
				}
				lastStyle = cell.Style
			}
			sb.WriteString(cell.Text)
			usedWidth += runewidth.StringWidth(cell.Text)
		}
		if lastStyle != "" {
			sb.WriteString("\033[m")
		}
		if usedWidth < b.Width {
			sb.WriteString("$" + strings.Repeat(" ", b.Width-usedWidth-1))
		}
		// Right border and newline
		sb.WriteString("│\n")
	}
	// Bottom border
	sb.WriteString("└" + strings.Repeat("─", b.Width) + "┘\n")
	return sb.String()
}

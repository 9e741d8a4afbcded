package tk

import (
	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/ui"
)

// Label shows a fixed text, such as a caption or a help line. Lines wider
// than the box wrap, and lines below the box are cut.
type Label struct {
	Content ui.Text
}

func (l Label) Render(width, height int) *term.Buffer {
	buf := l.buffer(width)
	buf.TrimToLines(0, height)
	return buf
}

func (l Label) MaxHeight(width, height int) int { return len(l.buffer(width).Lines) }

func (l Label) buffer(width int) *term.Buffer {
	return term.NewBufferBuilder(width).WriteStyled(l.Content).Buffer()
}

// Handle ignores all events.
func (Label) Handle(term.Event) bool { return false }

// Empty shows one blank line. It stands in for a missing widget.
type Empty struct{}

func (Empty) Render(width, height int) *term.Buffer {
	return term.NewBufferBuilder(width).Buffer()
}

func (Empty) MaxHeight(width, height int) int { return 1 }

func (Empty) Handle(term.Event) bool { return false }

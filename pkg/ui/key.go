package ui

import (
	"fmt"
	"strings"
)

// Key represents a single keyboard input, typically assembled from an escape
// sequence.
type Key struct {
	Rune rune
	Mod  Mod
}

// K constructs a new Key.
func K(r rune, mods ...Mod) Key {
	var mod Mod
	for _, m := range mods {
		mod |= m
	}
	return Key{r, mod}
}

// Mod represents a modifier key.
type Mod byte

// Values for Mod.
const (
	// Shift is the shift modifier. It is only applied to special keys (e.g.
	// Shift-F1). For instance 'A' and '@' which are typically entered with
	// the shift key pressed, are not considered to be shifted.
	Shift Mod = 1 << iota
	// Alt is the alt modifier, traditionally known as the meta modifier.
	Alt
	Ctrl
)

// Special negative runes to represent function keys, used in the Rune field
// of the Key struct.
const (
	F1 rune = -iota - 1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Up
	Down
	Right
	Left

	Home
	Insert
	Delete
	End
	PageUp
	PageDown

	Tab       = '\t'
	Enter     = '\n'
	Backspace = 0x7f
	Esc       = 0x1b
)

var functionKeyNames = [...]string{
	"(Invalid)",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Up", "Down", "Right", "Left",
	"Home", "Insert", "Delete", "End", "PageUp", "PageDown",
}

func (k Key) String() string {
	var b strings.Builder
	if k.Mod&Ctrl != 0 {
		b.WriteString("Ctrl-")
	}
	if k.Mod&Alt != 0 {
		b.WriteString("Alt-")
	}
	if k.Mod&Shift != 0 {
		b.WriteString("Shift-")
	}
	switch {
	case k.Rune > 0:
		switch k.Rune {
		case Tab:
			b.WriteString("Tab")
		case Enter:
			b.WriteString("Enter")
		case Backspace:
			b.WriteString("Backspace")
		case Esc:
			b.WriteString("Esc")
		case ' ':
			b.WriteString("Space")
		default:
			b.WriteRune(k.Rune)
		}
	case -len(functionKeyNames) < int(k.Rune) && k.Rune < 0:
		b.WriteString(functionKeyNames[-k.Rune])
	default:
		fmt.Fprintf(&b, "(bad function key %d)", k.Rune)
	}
	return b.String()
}

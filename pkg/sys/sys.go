// Package sys provides the few system utilities the terminal front end needs.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 256

// NotifySignals returns a channel on which the signals relevant to an
// interactive terminal program get delivered.
func NotifySignals() chan os.Signal { return notifySignals() }

// StopSignals stops relaying signals to a channel returned by NotifySignals.
func StopSignals(ch chan os.Signal) { stopSignals(ch) }

// SIGWINCH is the window size change signal.
const SIGWINCH = sigWINCH

// WinSize queries the size of the terminal referenced by the given file.
// It returns (-1, -1) when the size cannot be determined.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

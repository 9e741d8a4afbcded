package sys

import (
	"os"
	"testing"
)

func TestIsATTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsATTY(f.Fd()) {
		t.Errorf("IsATTY(regular file) = true")
	}
}

func TestWinSize_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if row, col := WinSize(f); row != -1 || col != -1 {
		t.Errorf("WinSize(regular file) = (%d, %d), want (-1, -1)", row, col)
	}
}

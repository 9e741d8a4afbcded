package testutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempDir creates a temporary directory that is removed when the test
// finishes. Symlinks in its path are resolved.
func TempDir(c Cleanuper) string {
	dir, err := os.MkdirTemp("", "fletbatteries-test")
	if err != nil {
		panic(err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintln(os.Stderr, "failed to remove temp dir:", err)
		}
	})
	return dir
}

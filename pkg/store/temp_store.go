package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Solvosoft/fletbatteries/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file. The Store is
// closed and the file removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) DBStore {
	st, err := NewStore(filepath.Join(testutil.TempDir(c), "catalog.db"))
	if err != nil {
		panic(fmt.Sprintf("Failed to create Store instance: %v", err))
	}
	c.Cleanup(func() {
		if err := st.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "failed to close store:", err)
		}
	})
	return st
}

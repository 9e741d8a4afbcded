// Selectdemo shows searchable, paginated dropdowns in the terminal, backed by
// a local catalog or by a catalog served over HTTP or JSON-RPC.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

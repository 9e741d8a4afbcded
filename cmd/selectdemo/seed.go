package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixtures.yaml]",
		Short: "Load a fixture file into the catalog",
		Long: `Seed writes the collections of a fixture file into the catalog file of
the configuration. Entries already in the catalog are replaced in place.
The fixture file defaults to the one named in the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fname := e.cfg.Fixtures
			if len(args) == 1 {
				fname = args[0]
			}
			st, err := openStore(e.cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := seedStore(st, fname)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries from %s\n", n, fname)
			return nil
		},
	}
}

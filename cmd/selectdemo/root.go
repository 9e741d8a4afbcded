package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Solvosoft/fletbatteries/pkg/config"
	"github.com/Solvosoft/fletbatteries/pkg/listing"
	"github.com/Solvosoft/fletbatteries/pkg/logutil"
	"github.com/Solvosoft/fletbatteries/pkg/store"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[selectdemo] ")

// Shared by all subcommands.
type env struct {
	configFile string
	logFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "selectdemo",
		Short: "Searchable, paginated selection widgets in the terminal",
		Long: `Selectdemo shows dropdowns whose options are searched as you type and
loaded page by page as you scroll.

Options come from a local catalog file, or from a catalog served by
"selectdemo serve" over HTTP or JSON-RPC.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.configFile)
			if err != nil {
				return err
			}
			if e.logFile != "" {
				cfg.LogFile = e.logFile
			}
			logutil.SetOutputFile(cfg.LogFile)
			e.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&e.configFile, "config", "c", "selectdemo.yaml", "configuration file")
	root.PersistentFlags().StringVar(&e.logFile, "log", "", "write logs to this file")

	root.AddCommand(newRunCmd(e), newSeedCmd(e), newListCmd(e), newServeCmd(e))
	return root
}

// Opens the catalog file of the configuration.
func openStore(cfg *config.Config) (store.DBStore, error) {
	if cfg.Source.Kind != config.SourceBolt {
		return nil, fmt.Errorf("this command needs a %q source, the configuration has %q",
			config.SourceBolt, cfg.Source.Kind)
	}
	return store.NewStore(cfg.Source.Path)
}

// Seeds st from the fixture file of the configuration, unless it has been
// seeded before.
func seedIfEmpty(st storedefs.Store, cfg *config.Config) error {
	if _, err := st.Meta(store.MetaFixtures); !errors.Is(err, storedefs.ErrNoMeta) || cfg.Fixtures == "" {
		return err
	}
	_, err := seedStore(st, cfg.Fixtures)
	return err
}

func seedStore(st storedefs.Store, fname string) (int, error) {
	f, err := store.ReadFixtures(fname)
	if err != nil {
		return 0, err
	}
	n, err := store.Seed(st, f)
	if err != nil {
		return n, err
	}
	return n, st.SetMeta(store.MetaFixtures, fname)
}

// Opens the data source of the configuration. The returned function releases
// it.
func openLister(ctx context.Context, cfg *config.Config) (listing.Lister, func() error, error) {
	switch cfg.Source.Kind {
	case config.SourceBolt:
		st, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := seedIfEmpty(st, cfg); err != nil {
			st.Close()
			return nil, nil, err
		}
		return listing.StoreLister{Store: st}, st.Close, nil
	case config.SourceHTTP:
		return &listing.HTTPClient{BaseURL: cfg.Source.URL}, func() error { return nil }, nil
	case config.SourceRPC:
		c, err := listing.DialRPC(ctx, "tcp", cfg.Source.Address)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}

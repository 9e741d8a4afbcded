package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Solvosoft/fletbatteries/pkg/cli"
	"github.com/Solvosoft/fletbatteries/pkg/cli/term"
	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
	"github.com/Solvosoft/fletbatteries/pkg/listing"
	"github.com/Solvosoft/fletbatteries/pkg/sys"
)

var errNotTerminal = errors.New("run needs a terminal for its input and output")

func newRunCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the dropdowns in the terminal",
		Long: `Run shows the dropdowns of the configuration full screen and prints the
selections when the user quits with q.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sys.IsATTY(os.Stdin.Fd()) || !sys.IsATTY(os.Stdout.Fd()) {
				return errNotTerminal
			}
			ctx := cmd.Context()
			l, release, err := openLister(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer release()
			l = &listing.Shared{Lister: l}

			var app cli.App
			app = cli.NewApp(cli.AppSpec{
				GlobalBindings: tk.MapBindings{
					term.K('q'): func(tk.Widget) { app.Quit(nil) },
				},
			})
			d, err := buildDemo(ctx, app, app.Notify, e.cfg, l)
			if err != nil {
				return err
			}
			app.SetRoot(d)
			d.Focus()

			err = app.Run()
			if err != nil && err != io.EOF && !errors.Is(err, cli.ErrInterrupted) {
				return err
			}
			for _, line := range d.summary() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

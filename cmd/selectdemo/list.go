package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
)

func newListCmd(e *env) *cobra.Command {
	var (
		q       selectbox.Query
		parents []string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print one page of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.Limit == 0 {
				q.Limit = e.cfg.PageLimit
			}
			l, release, err := openLister(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer release()

			var p selectbox.Page
			if cmd.Flags().Changed("parent") {
				p, err = l.ListChildren(cmd.Context(), args[0], parents, q)
			} else {
				p, err = l.List(cmd.Context(), args[0], q)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"ID", "TEXT", "FLAGS"})
			for _, opt := range p.Results {
				table.Append([]string{opt.ID, opt.Text, flags(opt)})
			}
			table.Render()
			more := ""
			if p.More {
				more = ", more after"
			}
			fmt.Fprintf(out, "%d-%d of %d%s\n", q.Skip+min(1, len(p.Results)), q.Skip+len(p.Results), p.Total, more)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Skip, "skip", 0, "options to skip")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "page size (default from the configuration)")
	cmd.Flags().StringVarP(&q.Filter, "filter", "f", "", "only options whose text contains this")
	cmd.Flags().StringSliceVar(&parents, "parent", nil, "only children of these parent ids")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")
	return cmd
}

func flags(opt selectbox.Option) string {
	var fs []string
	if opt.Selected {
		fs = append(fs, "selected")
	}
	if opt.Disabled {
		fs = append(fs, "disabled")
	}
	return strings.Join(fs, ",")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fardash/internal/exporter"
)

func newSearchCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find assets by tag, description, custodian or location",
		Long: `Search matches the term, case-insensitively, against every text field of
an asset. When the whole term matches nothing, assets matching any word of
three or more letters are returned instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}

			sess, done, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			params := c.service.ResolveParams(exporter.Params{Limit: limit})
			assets := sess.Analyzer.Search(args[0], params.Limit)

			out := cmd.OutOrStdout()
			if len(assets) == 0 {
				fmt.Fprintf(out, "No assets match %q\n", args[0])
				return nil
			}

			p := newPrinter()
			tw := newTable(out)
			fmt.Fprintln(tw, "TAG\tDESCRIPTION\tCUSTODIAN\tCITY\tCOST\tNET BOOK VALUE\tCONDITION")
			for _, a := range assets {
				p.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
					a.TagNumber, a.Description, a.Custodian, a.City, a.Cost, a.NetBookValue, a.Condition)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d asset(s)\n", len(assets))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (0 uses the configured default)")
	return cmd
}

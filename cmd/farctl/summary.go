package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fardash/internal/exporter"
)

var groupings = []string{"categories", "locations", "custodians", "manufacturers", "years"}

func newSummaryCmd(c *cli) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print portfolio totals, optionally grouped",
		Long: `Print the asset count and cost, depreciation and net book value totals.

With --by, also print the totals grouped by ` + strings.Join(groupings, ", ") + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "" && !contains(groupings, by) {
				return fmt.Errorf("unknown grouping %q (want one of %s)", by, strings.Join(groupings, ", "))
			}

			sess, done, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			sum := sess.Analyzer.Summary()
			p := newPrinter()
			p.Fprintf(out, "Assets:            %d\n", sum.TotalAssets)
			p.Fprintf(out, "Total cost:        %.2f\n", sum.TotalCost)
			p.Fprintf(out, "Total depreciation: %.2f\n", sum.TotalDepreciation)
			p.Fprintf(out, "Net book value:    %.2f\n", sum.TotalNetValue)
			p.Fprintf(out, "Average cost:      %.2f\n", sum.AverageCost)
			p.Fprintf(out, "Depreciation rate: %.2f%%\n", sum.DepreciationRate)

			if by == "" {
				return nil
			}
			report, err := exporter.Build(by, sess.Analyzer, sess.Report, c.service.ResolveParams(exporter.Params{}))
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printReport(out, report)
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Group totals by "+strings.Join(groupings, ", "))
	return cmd
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

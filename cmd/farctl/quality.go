package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQualityCmd(c *cli) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Report data-quality issues in the register",
		Long: `Print every data-quality issue found after processing: negative costs,
depreciation above cost, negative net book values, future in-service dates
and duplicate tags. Issues are reported, never corrected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, done, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			q := sess.Report.Quality
			if q.OK() {
				fmt.Fprintln(out, "No data quality issues found")
				return nil
			}
			for _, msg := range q.Messages() {
				fmt.Fprintf(out, "- %s\n", msg)
			}
			if strict {
				return fmt.Errorf("%d data quality issue(s) found", len(q.Issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any issue is found")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProcessCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the pipeline and print its stage report",
		Long: `Load the register, run every pipeline stage and print what each stage did,
followed by the per-column missing-value counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, done, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sess.Report)
			}

			rep := sess.Report
			p := newPrinter()
			p.Fprintf(out, "Source:   %s (sheet %q, header row %d)\n", rep.Source.Path, rep.Source.Sheet, rep.Source.HeaderRow)
			p.Fprintf(out, "Rows:     %d loaded, %d dropped, %d kept\n", rep.RowsLoaded, rep.RowsDropped, rep.Rows)
			p.Fprintf(out, "Columns:  %d\n", len(rep.Columns))
			fmt.Fprintf(out, "Duration: %s\n\n", rep.Duration)

			tw := newTable(out)
			fmt.Fprintln(tw, "STAGE\tVERSION\tSTATUS\tROWS\tREASONS")
			for _, st := range rep.Stages {
				fmt.Fprintf(tw, "%s\tv%d\t%s\t%d\t%s\n", st.Stage, st.Version, st.Status, st.Rows, strings.Join(st.Reasons, "; "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(rep.Missing) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tw = newTable(out)
			fmt.Fprintln(tw, "COLUMN\tMISSING\tPERCENT")
			for _, m := range rep.Missing {
				fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", m.Column, m.Count, m.Percent)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pipeline report as JSON")
	return cmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fardash/internal/exporter"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		report string
		params exporter.Params
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the processed register or a report to the export directory",
		Long: `Without --report, write the processed workbook: the cleaned register
followed by one sheet per summary report. With --report, write that report
as a UTF-8 CSV file.

Reports: ` + strings.Join(exporter.ReportNames, ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if report != "" && !contains(exporter.ReportNames, report) {
				return fmt.Errorf("unknown report %q (want one of %s)", report, strings.Join(exporter.ReportNames, ", "))
			}

			ctx := cmd.Context()
			sess, done, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer done()

			var path string
			if report == "" {
				path, err = c.service.SaveWorkbook(ctx, sess.ID)
			} else {
				path, err = c.service.SaveReport(ctx, sess.ID, report, c.service.ResolveParams(params))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&report, "report", "r", "", "Report to export as CSV")
	flags.StringVar(&params.Term, "term", "", "Search term for the search report")
	flags.IntVar(&params.Limit, "limit", 0, "Result limit for the search report")
	flags.Float64Var(&params.HighValueThreshold, "threshold", 0, "Cost threshold for the high-value report")
	flags.IntVar(&params.CustodianLimit, "custodians", 0, "Number of custodians in the custodians report")
	flags.IntVar(&params.ForecastMonths, "months", 0, "Horizon of the forecast report")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fardash/internal/config"
	"fardash/internal/exporter"
	"fardash/internal/infrastructure"
	"fardash/internal/services"
	"fardash/pkg/contracts"
	api "fardash/pkg/contracts/api/v1"
)

// cli carries the state shared by every subcommand.
type cli struct {
	configFile string
	logLevel   string
	source     api.CreateSessionRequest

	// loadConfig is replaced in tests.
	loadConfig func(configFile string) (*config.Config, error)

	logger  *slog.Logger
	service *services.DashboardService
}

func newRootCmd() *cobra.Command {
	c := &cli{loadConfig: loadConfig}
	return c.command()
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "farctl",
		Short: "Fixed asset register analysis from the command line",
		Long: `farctl loads a fixed asset register workbook, cleans and enriches it,
and prints or exports the same reports the dashboard API serves.

Examples:
  farctl summary
  farctl search "dell laptop" --limit 20
  farctl export --report categories
  farctl export --file other_register.xlsx --sheet "FAR as of 30 Jun 24"`,
		Version:           contracts.Info().String(),
		SilenceUsage:      true,
		PersistentPreRunE: c.initialize,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "YAML config file (defaults to the server's lookup)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level written to stderr (debug, info, warn, error)")
	flags.StringVarP(&c.source.File, "file", "f", "", "Register workbook, absolute or relative to the data directory")
	flags.StringVarP(&c.source.Sheet, "sheet", "s", "", "Worksheet holding the register")
	flags.IntVar(&c.source.HeaderRow, "header-row", 0, "1-based row holding the column labels")

	root.AddCommand(
		newProcessCmd(c),
		newSummaryCmd(c),
		newSearchCmd(c),
		newQualityCmd(c),
		newExportCmd(c),
	)
	return root
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		return config.Load()
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.LoadFrom(configFile, wd)
}

func (c *cli) initialize(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.source.HeaderRow < 0 {
		return fmt.Errorf("--header-row must be positive, got %d", c.source.HeaderRow)
	}

	c.logger = infrastructure.NewLogger(cmd.ErrOrStderr(), c.logLevel)
	c.service = services.NewDashboardService(cfg, c.logger)
	return nil
}

// openSession processes the selected register. The returned close func
// releases the session.
func (c *cli) openSession(ctx context.Context) (*services.Session, func(), error) {
	sess, err := c.service.CreateSession(ctx, c.source)
	if err != nil {
		return nil, nil, err
	}
	return sess, func() { _ = c.service.CloseSession(ctx, sess.ID) }, nil
}

// newPrinter formats numbers with thousands separators.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printReport writes a report as an aligned table.
func printReport(w io.Writer, r exporter.Report) error {
	tw := newTable(w)
	for i, h := range r.Headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, rec := range r.Records {
		for i, v := range rec {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

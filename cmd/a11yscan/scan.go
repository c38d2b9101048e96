package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Bahjat/a11y-scan/internal/a11y"
	"github.com/Bahjat/a11y-scan/internal/platform/logger"
	"github.com/Bahjat/a11y-scan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Scan a single page and print the report",
		Long: `Scan loads the page in headless Chrome and prints the accessibility report.

Examples:
  # Plain-text report, coloured when stdout is a terminal
  a11yscan scan https://example.com

  # Markdown report for a pull request comment
  a11yscan scan --format markdown https://example.com > report.md

  # Machine-readable output
  a11yscan scan --format json https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Output format: text, markdown or json")
	cmd.Flags().Bool("no-color", false, "Disable coloured text output")

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	noColor, _ := cmd.Flags().GetBool("no-color")

	out := cmd.OutOrStdout()
	writer, ok := report.NewWriter(report.Format(format), out, !noColor && !color.NoColor)
	if !ok {
		return fmt.Errorf("unknown format %q (want text, markdown or json)", format)
	}

	if err := a11y.ValidateURL(args[0]); err != nil {
		return fmt.Errorf("%s %w", report.MarkerFail, err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.CheckAssets(); err != nil {
		return err
	}

	// Logs stay off stdout so the report can be piped.
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := newEngine(cfg, log).Scan(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s Scan failed: %w", report.MarkerFail, err)
	}

	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

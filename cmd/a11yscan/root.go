package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bahjat/a11y-scan/internal/a11y"
	"github.com/Bahjat/a11y-scan/internal/browser"
	"github.com/Bahjat/a11y-scan/internal/platform/config"
)

// configEnv names the environment variable consulted when --config is unset.
const configEnv = "A11YSCAN_CONFIG"

// NewRootCmd creates the root command for a11yscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "a11yscan",
		Short: "Accessibility scanner for web pages",
		Long: `a11yscan loads a page in headless Chrome, runs the axe-core WCAG 2 A/AA
rules and a set of quick heuristics (skip link, headings, focusable elements,
ARIA usage), and prints a plain-text report.

Run "a11yscan serve" to expose GET /scan over HTTP, or "a11yscan scan <url>"
for a one-off scan from the terminal.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"YAML configuration file (default: $"+configEnv+")")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration file from --config or the
// environment and loads it with environment overrides applied.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		path = os.Getenv(configEnv)
	}
	return config.Load(path)
}

// newEngine builds the scan engine for cfg on top of a Chrome launcher.
func newEngine(cfg config.Config, logger *slog.Logger) *a11y.Engine {
	launcher := browser.NewChromeLauncher(browser.ChromeOptions{
		ExecPath:  cfg.ChromePath,
		NoSandbox: cfg.ChromeNoSandbox,
		Logger:    logger,
	})
	scripts := a11y.NewFileScriptSource(cfg.AxeScriptPath)
	return a11y.NewEngine(launcher, scripts, cfg.NavTimeout, logger)
}

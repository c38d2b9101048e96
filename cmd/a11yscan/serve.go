package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Bahjat/a11y-scan/internal/platform/logger"
	"github.com/Bahjat/a11y-scan/internal/platform/tracing"
	"github.com/Bahjat/a11y-scan/internal/scanapi"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan endpoint over HTTP",
		Long: `Serve starts the HTTP server.

Endpoints:
  GET /scan?url=<url>   run a scan and return the plain-text report
  GET /healthz          liveness probe
  GET /metrics          Prometheus metrics

Every setting can be given in the configuration file or through the
environment (PORT, LOG_LEVEL, AXE_SCRIPT_PATH, NAV_TIMEOUT, CHROME_PATH,
CHROME_NO_SANDBOX, SCAN_RATE_LIMIT, SCAN_RATE_BURST, TRACE_STDOUT).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Listen port (overrides PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	log := logger.New(os.Stdout, cfg.LogLevel)

	if err := cfg.CheckAssets(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TraceStdout {
		tp, err := tracing.Setup(os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	transport := scanapi.NewTransport(scanapi.NewService(newEngine(cfg, log), log), log)
	srv := &http.Server{
		Addr: net.JoinHostPort("", cfg.Port),
		Handler: scanapi.NewRouter(transport, log, scanapi.RouterOptions{
			ScanRateLimit: cfg.ScanRateLimit,
			ScanRateBurst: cfg.ScanRateBurst,
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "nav_timeout", cfg.NavTimeout.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

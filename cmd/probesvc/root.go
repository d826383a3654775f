package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/probelab/probesvc/internal/api"
	"github.com/probelab/probesvc/internal/api/handlers"
	"github.com/probelab/probesvc/internal/config"
	"github.com/probelab/probesvc/internal/logger"
	"github.com/probelab/probesvc/internal/metrics"
	"github.com/probelab/probesvc/internal/survivor"
	"github.com/probelab/probesvc/internal/telemetry"
)

// version is overridden at build time with -ldflags.
var version = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:   "probesvc",
	Short: "Probe & load demo service",
	Long: `probesvc exposes health/readiness probes, Prometheus metrics,
a CPU load generator and a chaos kill switch for demonstrating
Kubernetes probes, autoscaling and restart policies.`,
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the service version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("probesvc", version)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("error building logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Load.SingleThreaded {
		// Emulate the single-threaded dispatcher this demo descends
		// from: one running load test starves the whole instance.
		runtime.GOMAXPROCS(1)
		log.Warn("single-threaded emulation enabled, load tests will block all requests")
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, "probesvc", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}

	hostname := cfg.Server.Hostname
	if hostname == "" {
		hostname, err = os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
	}

	m := metrics.New()

	counter := survivor.New(cfg.Counter.Addr, cfg.Counter.Key, cfg.Counter.Timeout, log)
	defer counter.Close()
	if cfg.Counter.Addr == "" {
		log.Info("survivor counter store not configured, counts will read 0")
	}

	probe := handlers.New(log, m, counter, hostname)
	probe.DefaultLoadSeconds = cfg.Load.DefaultSeconds
	probe.MaxLoadSeconds = cfg.Load.MaxSeconds
	probe.ExitDelay = cfg.Chaos.ExitDelay

	r := api.NewRouter(probe, m, log, cfg.Server.Environment, cfg.Chaos.Enabled)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server started",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("hostname", hostname),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	// An in-flight load test can hold a connection for up to the load
	// maximum; don't wait longer than the orchestrator would.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}

	return nil
}

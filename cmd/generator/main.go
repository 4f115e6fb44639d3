// Command generator emits a fixed number of synthetic delivery request events
// to the configured message transport.
//
// Usage:
//
//	go run ./cmd/generator -count 100
//
// Everything else is read from the environment; see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/delivery-event-generator/internal/adapter/http"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/snapshot"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/tables"
	"github.com/couchcryptid/delivery-event-generator/internal/config"
	"github.com/couchcryptid/delivery-event-generator/internal/domain"
	"github.com/couchcryptid/delivery-event-generator/internal/observability"
	"github.com/couchcryptid/delivery-event-generator/internal/pipeline"
	"github.com/couchcryptid/delivery-event-generator/internal/provider"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// parseFlags reads -count (alias -c). The flag is mandatory and must be
// non-negative.
func parseFlags(args []string, out io.Writer) (int, error) {
	fs := flag.NewFlagSet("generator", flag.ContinueOnError)
	fs.SetOutput(out)
	count := fs.Int("count", -1, "number of events to generate (required, >= 0)")
	fs.IntVar(count, "c", -1, "shorthand for -count")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *count < 0 {
		fs.Usage()
		return 0, errors.New("-count is required and must be >= 0")
	}
	return *count, nil
}

func run(args []string) int {
	count, err := parseFlags(args, os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	policy, err := pipeline.ParseFailurePolicy(cfg.SendFailurePolicy)
	if err != nil {
		logger.Error("invalid send failure policy", "error", err)
		return 1
	}
	sourceCfg, err := provider.SourceConfigFrom(cfg)
	if err != nil {
		logger.Error("invalid data source", "error", err)
		return 1
	}
	transportCfg, err := provider.TransportConfigFrom(cfg)
	if err != nil {
		logger.Error("invalid transport", "error", err)
		return 1
	}

	hubs, err := tables.Load(cfg.HubTerminalFile)
	if err != nil {
		logger.Error("failed to load hub table", "error", err)
		return 1
	}
	subs, err := tables.Load(cfg.SubTerminalFile)
	if err != nil {
		logger.Error("failed to load sub table", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := provider.NewDataSource(ctx, sourceCfg)
	if err != nil {
		logger.Error("failed to open data source", "kind", sourceCfg.Kind, "error", err)
		return 1
	}
	defer closeQuietly(source, "data source", logger)

	transport, err := provider.NewTransport(ctx, transportCfg, logger)
	if err != nil {
		logger.Error("failed to create transport", "kind", transportCfg.Kind, "error", err)
		return 1
	}
	defer closeQuietly(transport, "transport", logger)

	logger.Info("generator configured",
		"data_source", sourceCfg.Kind, "transport", transportCfg.Kind,
		"hubs", len(hubs), "subs", len(subs), "snapshot", cfg.SnapshotPath)

	gen := domain.NewGenerator(source, hubs, subs, domain.NewRandom(), logger,
		domain.WithMissCounter(metrics.RecordMisses))

	opts := pipeline.Options{
		DelayMin: cfg.DelayMin,
		DelayMax: cfg.DelayMax,
		Policy:   policy,
	}
	if cfg.SnapshotPath != "" {
		opts.Snapshot = snapshot.NewWriter(cfg.SnapshotPath)
	}
	p := pipeline.New(gen, transport, logger, metrics, opts)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	summary, err := p.Run(ctx, count)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("generator failed", "error", err,
			"generated", summary.Generated, "sent", summary.Sent, "failed", summary.Failed)
		return 1
	}

	logger.Info("shutdown complete",
		"generated", summary.Generated, "sent", summary.Sent, "failed", summary.Failed)
	return 0
}

// closeQuietly closes v when it holds resources.
func closeQuietly(v any, what string, logger *slog.Logger) {
	c, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		logger.Error("close error", "component", what, "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fastprodman/pointledger/internal/api"
	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/infra/logging"
	"github.com/fastprodman/pointledger/internal/infra/metrics"
	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/services/history"
	"github.com/fastprodman/pointledger/internal/services/ledger"
	"github.com/fastprodman/pointledger/pkg/envconf"
	"github.com/fastprodman/pointledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.SetupJSON("pointledger-api", cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("init tokens: %w", err)
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ledgerMetrics := metrics.NewLedger(reg)

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.AddNamed("postgres", func(context.Context) error {
		return dbConns.Close()
	})

	reg.MustRegister(collectors.NewDBStatsCollector(dbConns, "pointledger"))

	// --- Services ---
	engine := ledger.New(dbConns, ledgerMetrics, logger)
	merger := history.New(dbConns, ledgerMetrics, logger)

	// --- HTTP server ---
	srv := api.NewServer(context.WithoutCancel(ctx), cfg.Port, api.NewRouter(api.Services{
		Ledger:   engine,
		History:  merger,
		Tokens:   tokens,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Logger:   logger,
	}), logger)

	shutdownqueue.AddNamed("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

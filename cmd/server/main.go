package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/blo/internal/config"
	"github.com/JonMunkholm/blo/internal/core"
	"github.com/JonMunkholm/blo/internal/logging"
	"github.com/JonMunkholm/blo/internal/translit"
	"github.com/JonMunkholm/blo/internal/web"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source_enabled", cfg.Source.Enabled(),
		"translate_enabled", cfg.Translate.Enabled,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	specs, err := core.LoadRoleSpecs(cfg.Columns.AliasesFile)
	if err != nil {
		slog.Error("failed to load column aliases", "error", err)
		os.Exit(1)
	}

	adapter := translit.New(translit.Options{
		Enabled:        cfg.Translate.Enabled,
		GoogleEndpoint: cfg.Translate.GoogleEndpoint,
		LibreURL:       cfg.Translate.LibreURL,
		LibreAPIKey:    cfg.Translate.LibreAPIKey,
		Timeout:        cfg.Translate.Timeout,
		RPS:            cfg.Translate.RPS,
		Burst:          cfg.Translate.Burst,
	})

	core.MergeTimeout = cfg.Upload.Timeout
	service := core.NewService(core.NewEngine(adapter, specs), core.ServiceOptions{
		MaxFileSize:          cfg.Upload.MaxFileSize,
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		UploadWait:           cfg.Upload.MaxWaitTime,
	})

	if cfg.Source.Enabled() {
		if err := loadSource(context.Background(), cfg, service); err != nil {
			slog.Error("failed to load source tables", "error", err)
			os.Exit(1)
		}
	}

	server := web.NewServer(service, adapter, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active merges to complete (with timeout)
		uploadStatus := service.UploadLimiterStatus()
		if uploadStatus.Active > 0 {
			slog.Info("waiting for merges to complete", "active", uploadStatus.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("merges did not complete in time", "error", err)
			} else {
				slog.Info("all merges completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// loadSource merges the two configured queries into the startup dataset.
// Queries run in read-only transactions; nothing is written.
func loadSource(ctx context.Context, cfg *config.Config, service *core.Service) error {
	if cfg.Source.Query1 == "" {
		slog.Info("database configured without source queries, waiting for uploads")
		return nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Source.URL)
	if err != nil {
		return err
	}
	poolConfig.MaxConns = int32(cfg.Source.MaxConns)

	ctx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	if u, err := url.Parse(cfg.Source.URL); err == nil {
		slog.Info("connected to source database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	var left, right *core.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		left, err = readOnlyQuery(gctx, pool, cfg.Source.Query1)
		return err
	})
	g.Go(func() (err error) {
		right, err = readOnlyQuery(gctx, pool, cfg.Source.Query2)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	_, err = service.MergeTables(ctx, left, right)
	return err
}

func readOnlyQuery(ctx context.Context, pool *pgxpool.Pool, query string) (*core.Table, error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	return core.LoadQuery(ctx, tx, query)
}

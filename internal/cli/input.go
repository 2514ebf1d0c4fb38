package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JonMunkholm/blo/internal/core"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// sqlPrefix marks an input argument as a query against the source database
// instead of a CSV path.
const sqlPrefix = "sql:"

var errNoDatabase = errors.New("sql input given but no database URL configured (set DATABASE_URL or --database-url)")

// loadTable reads one input: a CSV file path, or "sql:SELECT ..." run
// read-only against the configured database.
func (a *App) loadTable(ctx context.Context, arg string) (*core.Table, error) {
	if query, ok := strings.CutPrefix(arg, sqlPrefix); ok {
		return a.loadQuery(ctx, strings.TrimSpace(query))
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return core.ReadCSV(f, a.Config.Upload.MaxFileSize)
}

func (a *App) loadQuery(ctx context.Context, query string) (*core.Table, error) {
	if a.Config.Source.URL == "" {
		return nil, errNoDatabase
	}

	if d := a.Config.Source.Timeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	conn, err := pgx.Connect(ctx, a.Config.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to source: %w", err)
	}
	defer conn.Close(context.Background())

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	return core.LoadQuery(ctx, tx, query)
}

// mergeInputs loads both inputs concurrently and merges them.
func (a *App) mergeInputs(ctx context.Context, svc *core.Service, first, second string) (*core.MergedDataset, error) {
	var left, right *core.Table

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := a.loadTable(gctx, first)
		if err != nil {
			return fmt.Errorf("file 1: %w", err)
		}
		left = t
		return nil
	})
	g.Go(func() error {
		t, err := a.loadTable(gctx, second)
		if err != nil {
			return fmt.Errorf("file 2: %w", err)
		}
		right = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return svc.MergeTables(ctx, left, right)
}

// newService builds the search service from the app's settings.
func (a *App) newService() *core.Service {
	engine := core.NewEngine(a.Normalizer, a.Specs)
	return core.NewService(engine, core.ServiceOptions{
		MaxFileSize: a.Config.Upload.MaxFileSize,
	})
}

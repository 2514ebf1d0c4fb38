package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// MergeTimeout is the maximum duration for parsing and merging two uploads.
var MergeTimeout = 2 * time.Minute

// ErrNoDataset is returned by searches issued before any merge succeeded.
var ErrNoDataset = errors.New("no dataset loaded")

// DefaultMaxFileSize is the per-file upload limit used when none is configured.
const DefaultMaxFileSize int64 = 100 << 20

// Service holds the session state of the lookup tool: the current merged
// dataset and the engine that searches it. A new merge replaces the dataset.
type Service struct {
	engine      *Engine
	limiter     *UploadLimiter
	maxFileSize int64

	mu      sync.RWMutex
	current *MergedDataset
}

// ServiceOptions configures NewService. Zero values select defaults.
type ServiceOptions struct {
	MaxFileSize          int64
	MaxConcurrentUploads int
	UploadWait           time.Duration
}

// NewService creates a Service searching with engine.
func NewService(engine *Engine, opts ServiceOptions) *Service {
	if engine == nil {
		engine = NewEngine(nil, nil)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Service{
		engine:      engine,
		limiter:     NewUploadLimiter(opts.MaxConcurrentUploads, opts.UploadWait),
		maxFileSize: opts.MaxFileSize,
	}
}

// Engine returns the filter engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// MergeUploads parses two CSV streams concurrently, merges them on ID and
// makes the result the current dataset. On failure the previous dataset is
// kept.
func (s *Service) MergeUploads(ctx context.Context, a, b io.Reader) (*MergedDataset, error) {
	if a == nil || b == nil {
		return nil, errors.New("no file provided")
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, MergeTimeout)
	defer cancel()

	var left, right *Table
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := ReadCSV(a, s.maxFileSize)
		if err != nil {
			return fmt.Errorf("file 1: %w", err)
		}
		left = t
		return nil
	})
	g.Go(func() error {
		t, err := ReadCSV(b, s.maxFileSize)
		if err != nil {
			return fmt.Errorf("file 2: %w", err)
		}
		right = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.MergeTables(ctx, left, right)
}

// MergeTables merges two loaded tables and makes the result current.
func (s *Service) MergeTables(ctx context.Context, a, b *Table) (*MergedDataset, error) {
	ds, err := Merge(a, b)
	if err != nil {
		return nil, err
	}
	s.SetDataset(ds)

	slog.InfoContext(ctx, "merge complete",
		"dataset_id", ds.ID,
		"rows", ds.Summary.Rows,
		"columns", ds.Summary.Columns,
		"client_ip", ClientIPFromContext(ctx),
	)
	return ds, nil
}

// SetDataset replaces the current dataset.
func (s *Service) SetDataset(ds *MergedDataset) {
	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()
}

// Dataset returns the current dataset or ErrNoDataset.
func (s *Service) Dataset() (*MergedDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// Search filters the current dataset. A range whose upper bound is below
// its lower bound is narrowed to the single lower value.
func (s *Service) Search(ctx context.Context, c Criteria) (*FilterResult, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	c = ClampRange(c)

	start := time.Now()
	res := s.engine.Apply(ctx, ds.Table, c)
	slog.DebugContext(ctx, "search complete",
		"dataset_id", ds.ID,
		"matched", res.Matched,
		"total", res.Total,
		"duration", time.Since(start),
	)
	return res, nil
}

// ClampRange raises SerialTo to SerialFrom when both are set and inverted.
func ClampRange(c Criteria) Criteria {
	if c.SerialFrom != nil && c.SerialTo != nil && *c.SerialTo < *c.SerialFrom {
		to := *c.SerialFrom
		c.SerialTo = &to
	}
	return c
}

// DefaultCriteria returns the reset state of the search form for the current
// dataset, or empty criteria when none is loaded.
func (s *Service) DefaultCriteria() Criteria {
	ds, err := s.Dataset()
	if err != nil {
		return Criteria{}
	}
	return DefaultCriteria(ds.Table, s.engine.Specs())
}

// TranslationNotice is non-empty when name queries are matched as typed
// because no translation provider is available.
func (s *Service) TranslationNotice() string {
	return s.engine.Notice()
}

// UploadLimiterStatus returns the merge limiter state for monitoring.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight merges finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Package service provides the dashboard service behind the HTTP API: it owns
// the dataset, computes chart bundles and memoises them.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/mindthegap/internal/adapters/dataset"
	"github.com/okian/mindthegap/internal/adapters/mq/queue"
	"github.com/okian/mindthegap/internal/adapters/mq/worker"
	"github.com/okian/mindthegap/internal/adapters/render"
	"github.com/okian/mindthegap/internal/domain/cache"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
	"github.com/okian/mindthegap/pkg/metrics"
)

// DatasetLoader reads the medal dataset from a source.
type DatasetLoader interface {
	Load(ctx context.Context, source string) (*model.Dataset, error)
}

// FilterOptions describes the dashboard inputs: the country dropdown and the
// year slider.
type FilterOptions struct {
	Countries []model.CountryOption `json:"countries"`
	Years     []int                 `json:"years"`
	YearMin   int                   `json:"year_min"`
	YearMax   int                   `json:"year_max"`
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Configuration
	source    string
	loader    DatasetLoader
	preloaded *model.Dataset
	cacheSize int
	chartOpts chart.Options
	warmers   int

	// Components, set by Start
	ds       *model.Dataset
	builder  *chart.Builder
	cache    cache.Cache
	renderer *render.Renderer
	pool     *worker.Pool
	stopWarm context.CancelFunc

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source:    "data/OlympicGames1896to2014.csv",
		cacheSize: 256,
		chartOpts: chart.DefaultOptions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and prepares the chart builder. A load failure is
// returned and leaves the service stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.loader == nil {
		s.loader = dataset.NewLoader(dataset.WithLogger(s.logger))
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer()
	}

	s.logger.Info(ctx, "starting dashboard service...", logger.String("source", s.source))

	ds := s.preloaded
	if ds == nil {
		start := time.Now()
		loaded, err := s.loader.Load(ctx, s.source)
		if err != nil {
			metrics.RecordErrorByComponent("dataset", "load_failed")
			return fmt.Errorf("load dataset: %w", err)
		}
		metrics.RecordDatasetLoadDuration(float64(time.Since(start).Milliseconds()))
		ds = loaded
	}

	s.ds = ds
	s.builder = chart.NewBuilder(ds, s.chartOpts)
	s.cache = cache.NewInMemoryCache(cache.WithMaxSize(s.cacheSize))
	metrics.UpdateDatasetStats(ds.Len(), len(ds.Countries()), len(ds.Years()), len(ds.Sports()))
	metrics.UpdateCacheSize(0)

	s.started = true
	s.startWarmup(ctx)
	lo, hi := ds.YearDomain()
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("rows", ds.Len()),
		logger.Int("yearMin", lo),
		logger.Int("yearMax", hi),
		logger.Int("sports", len(ds.Sports())),
		logger.Int("cacheSize", s.cacheSize),
	)

	return nil
}

// startWarmup queues the full-range bundle and one full-range bundle per
// country, up to the cache size, and starts the worker pool that computes
// them. Callers hold s.mu.
func (s *Service) startWarmup(ctx context.Context) {
	if s.warmers <= 0 || s.cacheSize <= 0 {
		return
	}

	lo, hi := s.ds.YearDomain()
	jobs := []model.FilterState{model.NewFilterState(lo, hi, nil)}
	for _, c := range s.ds.Countries() {
		if len(jobs) >= s.cacheSize {
			break
		}
		jobs = append(jobs, model.NewFilterState(lo, hi, []string{c}))
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(len(jobs)))
	for _, j := range jobs {
		q.Enqueue(ctx, j)
	}
	_ = q.Close()

	warmCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.pool = worker.NewPool(s.warmers, q, s, worker.WithLogger(s.logger.Named("warmup")))
	s.stopWarm = cancel
	s.pool.Start(warmCtx)

	s.logger.Info(ctx, "cache warm-up started",
		logger.Int("jobs", len(jobs)),
		logger.Int("workers", s.warmers),
	)
}

// WaitWarmup blocks until the warm-up workers have drained their queue.
func (s *Service) WaitWarmup(ctx context.Context) error {
	s.mu.RLock()
	pool := s.pool
	s.mu.RUnlock()

	if pool == nil {
		return nil
	}
	return pool.Wait(ctx)
}

// Stop halts the warm-up workers and releases the computed state.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	pool, cancel := s.pool, s.stopWarm
	s.pool, s.stopWarm = nil, nil
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	// Workers take the read lock inside Bundle, so they are stopped unlocked.
	if pool != nil {
		cancel()
		if err := pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "warm-up shutdown failed", logger.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.builder = nil
	s.cache = nil
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Filters returns the input descriptors for the dashboard.
func (s *Service) Filters(ctx context.Context) (FilterOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return FilterOptions{}, ErrNotStarted
	}
	lo, hi := s.ds.YearDomain()
	return FilterOptions{
		Countries: model.CountryOptions(s.ds),
		Years:     s.ds.Years(),
		YearMin:   lo,
		YearMax:   hi,
	}, nil
}

// Normalize rebuilds fs with normalised countries and, when the range overlaps
// the dataset, years clamped to the dataset domain.
func (s *Service) Normalize(fs model.FilterState) (model.FilterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.FilterState{}, ErrNotStarted
	}
	return s.normalize(fs), nil
}

func (s *Service) normalize(fs model.FilterState) model.FilterState {
	lo, hi := s.ds.YearDomain()
	return model.NewFilterState(fs.YearMin, fs.YearMax, fs.Countries).Clamp(lo, hi)
}

// Bundle returns every figure for fs, from the cache when possible.
func (s *Service) Bundle(ctx context.Context, fs model.FilterState) (chart.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return chart.Bundle{}, ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return chart.Bundle{}, err
	}

	fs = s.normalize(fs)
	key := fs.Key()

	if b, ok := s.cache.Get(ctx, key); ok {
		metrics.RecordCacheHit()
		metrics.RecordBundleServed(metrics.SourceCache)
		s.logger.Debug(ctx, "bundle served from cache", logger.String("filter", key))
		return b, nil
	}
	metrics.RecordCacheMiss()

	start := time.Now()
	b := s.builder.Build(fs)
	took := time.Since(start)
	metrics.RecordBundleLatency(float64(took.Microseconds()) / 1000)
	metrics.RecordBundleServed(metrics.SourceComputed)
	if b.Empty {
		metrics.RecordEmptyBundle()
	}

	s.cache.Put(ctx, key, b)
	metrics.UpdateCacheSize(s.cache.Size())

	s.logger.Debug(ctx, "bundle computed",
		logger.String("filter", key),
		logger.Bool("empty", b.Empty),
		logger.Duration("took", took),
	)
	return b, nil
}

// Figure returns one figure of the bundle for fs.
func (s *Service) Figure(ctx context.Context, fs model.FilterState, id string) (chart.Figure, error) {
	b, err := s.Bundle(ctx, fs)
	if err != nil {
		return chart.Figure{}, err
	}
	f, ok := b.Figure(id)
	if !ok {
		return chart.Figure{}, fmt.Errorf("%w: %s", ErrUnknownFigure, id)
	}
	return f, nil
}

// Render writes one figure for fs as an image.
func (s *Service) Render(ctx context.Context, fs model.FilterState, id string, format render.Format, w io.Writer) error {
	f, err := s.Figure(ctx, fs, id)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.renderer.Render(ctx, f, format, w); err != nil {
		metrics.RecordErrorByComponent("render", "render_failed")
		return err
	}
	metrics.RecordRenderLatency(string(format), float64(time.Since(start).Microseconds())/1000)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"source":    s.source,
		"cacheSize": s.cacheSize,
	}

	if s.started {
		lo, hi := s.ds.YearDomain()
		entries := s.cache.Size()
		stats["rows"] = s.ds.Len()
		stats["countries"] = len(s.ds.Countries())
		stats["sports"] = len(s.ds.Sports())
		stats["years"] = len(s.ds.Years())
		stats["yearMin"] = lo
		stats["yearMax"] = hi
		stats["cacheEntries"] = entries
		stats["warmupWorkers"] = s.warmers
		if s.pool != nil {
			stats["warmed"] = s.pool.Processed()
			stats["warmupFailed"] = s.pool.Failed()
		}

		metrics.UpdateCacheSize(entries)
	}

	return stats
}

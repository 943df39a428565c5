package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/mindthegap/internal/app"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/pkg/logger"
)

const chartsPath = "/api/v1/charts"

// result holds the responses fetched for one case.
type result struct {
	c        Case
	wide     chart.Bundle
	narrow   chart.Bundle
	first    []byte
	repeated []byte
	err      error
}

// Run executes a complete probe against cfg.BaseURL. It returns the run
// statistics and ErrChecksFailed when any request or check failed.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("probe")
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	log.Info(ctx, "starting probe",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Any("seed", cfg.Seed))

	c := newClient(cfg.BaseURL, stats.RunID, cfg.Timeout)

	if _, err := c.get(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	var opts service.FilterOptions
	if err := c.getJSON(ctx, "/api/v1/filters", nil, &opts); err != nil {
		return stats, fmt.Errorf("fetch filters: %w", err)
	}
	if len(opts.Years) == 0 {
		return stats, ErrNoYears
	}

	cases := generateCases(opts, cfg.Requests, cfg.Seed)
	stats.Cases = len(cases)
	results := fetchAll(ctx, c, cases, workers)

	for _, r := range results {
		if r.err != nil {
			stats.Failed++
			log.Warn(ctx, "case failed", logger.String("filter", r.c.Wide.Key()), logger.Error(r.err))
			continue
		}
		stats.Requests += 3
		if r.wide.Empty {
			stats.Empty++
		}

		var found []string
		found = append(found, checkBundle(r.wide)...)
		found = append(found, checkBundle(r.narrow)...)
		found = append(found, checkNarrowing(r.wide, r.narrow)...)
		found = append(found, checkIdempotent(r.first, r.repeated)...)
		stats.Violations = append(stats.Violations, found...)

		if cfg.Verbose {
			log.Info(ctx, "case checked",
				logger.String("wide", r.c.Wide.Key()),
				logger.String("narrow", r.c.Narrow.Key()),
				logger.Int("wideMedals", medalTotal(r.wide)),
				logger.Int("narrowMedals", medalTotal(r.narrow)),
				logger.Int("violations", len(found)))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	for _, v := range stats.Violations {
		log.Error(ctx, "check failed", logger.String("violation", v))
	}
	if stats.Failed > 0 || len(stats.Violations) > 0 {
		return stats, fmt.Errorf("%w: %d failed cases, %d violations", ErrChecksFailed, stats.Failed, len(stats.Violations))
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// fetchAll runs the cases through a worker pool. Results keep the case order.
func fetchAll(ctx context.Context, c *client, cases []Case, workers int) []result {
	results := make([]result, len(cases))
	jobs := make(chan int, workers*workerChannelFactor)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = fetchCase(ctx, c, cases[i])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range cases {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	// Cases never dispatched because ctx ended.
	for i := range results {
		if results[i].err == nil && results[i].first == nil {
			results[i] = result{c: cases[i], err: ctx.Err()}
			if results[i].err == nil {
				results[i].err = context.Canceled
			}
		}
	}
	return results
}

func fetchCase(ctx context.Context, c *client, cs Case) result {
	r := result{c: cs}
	first, err := c.get(ctx, chartsPath, query(cs.Wide))
	if err != nil {
		r.err = err
		return r
	}
	if err := json.Unmarshal(first, &r.wide); err != nil {
		r.err = fmt.Errorf("decode bundle: %w", err)
		return r
	}
	if r.repeated, r.err = c.get(ctx, chartsPath, query(cs.Wide)); r.err != nil {
		return r
	}
	if r.err = c.getJSON(ctx, chartsPath, query(cs.Narrow), &r.narrow); r.err != nil {
		return r
	}
	r.first = first
	return r
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("cases", stats.Cases),
		logger.Int("requests", stats.Requests),
		logger.Int("failed", stats.Failed),
		logger.Int("empty", stats.Empty),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond))
}

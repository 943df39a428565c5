package service

import (
	"github.com/okian/mindthegap/internal/adapters/render"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithDatasetSource sets the path or URL the dataset is loaded from.
func WithDatasetSource(source string) Option {
	return func(s *Service) {
		if source != "" {
			s.source = source
		}
	}
}

// WithLoader replaces the dataset loader.
func WithLoader(l DatasetLoader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithDataset uses an already loaded dataset instead of reading the source.
func WithDataset(ds *model.Dataset) Option {
	return func(s *Service) {
		s.preloaded = ds
	}
}

// WithCacheSize bounds the bundle cache. size <= 0 disables it.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithChartOptions sets the figure presentation options.
func WithChartOptions(opts chart.Options) Option {
	return func(s *Service) {
		s.chartOpts = opts
	}
}

// WithRenderer sets the image renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithWarmup precomputes common bundles with n background workers after
// Start. n <= 0 disables warm-up.
func WithWarmup(n int) Option {
	return func(s *Service) {
		s.warmers = n
	}
}

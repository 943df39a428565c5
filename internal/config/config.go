// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and environment variables on top of New.
// - Errors are wrapped with this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DatasetPath is a local path or an http(s) URL of the medal CSV.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetTimeoutMS bounds a remote dataset fetch.
	DatasetTimeoutMS int `koanf:"dataset_timeout_ms"`

	// CacheSize bounds the number of memoised chart bundles. <= 0 disables caching.
	CacheSize int `koanf:"cache_size"`

	// WarmupWorkers precompute common bundles after start. 0 disables warm-up.
	WarmupWorkers int `koanf:"warmup_workers"`

	// TopN is the number of countries in the ranking chart.
	TopN int `koanf:"top_n"`

	// RenderWidth and RenderHeight size PNG/SVG exports.
	RenderWidth  int `koanf:"render_width"`
	RenderHeight int `koanf:"render_height"`

	// CORSAllowedOrigins lists origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8050",
		DatasetPath:        "data/OlympicGames1896to2014.csv",
		DatasetTimeoutMS:   15_000,
		CacheSize:          256,
		WarmupWorkers:      4,
		TopN:               10,
		RenderWidth:        800,
		RenderHeight:       500,
		CORSAllowedOrigins: []string{"*"},
	}
}

// DatasetTimeout returns DatasetTimeoutMS as a duration.
func (c *Config) DatasetTimeout() time.Duration {
	return time.Duration(c.DatasetTimeoutMS) * time.Millisecond
}

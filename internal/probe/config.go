// Package probe drives a running dashboard over HTTP with random filter
// states and checks that every response keeps the dashboard's guarantees.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of filter cases to check
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // Seed for the filter generator
	Verbose  bool          // Log every case
}

// Stats holds run statistics.
type Stats struct {
	RunID      string
	Cases      int
	Requests   int
	Failed     int
	Empty      int
	Violations []string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Defaults for the command line flags.
const (
	DefaultBaseURL  = "http://localhost:8050"
	DefaultRequests = 200
	DefaultTimeout  = 30 * time.Second
	DefaultSeed     = 1
)

// Generator limits.
const (
	maxCountriesPerCase = 5
	shareTolerance      = 0.01 + 1e-9
	workerChannelFactor = 2
)

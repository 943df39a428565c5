package probe

import "errors"

// Sentinel kinds for probe errors.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrStatus       = errors.New("unexpected status")
	ErrNoYears      = errors.New("service reported no years")
	ErrChecksFailed = errors.New("checks failed")
)

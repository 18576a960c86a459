package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// Interval between periodic reconstruction runs.
	Interval time.Duration
	// ReadBackoff is the pause after a failed feed read.
	ReadBackoff time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		Interval:    30 * time.Second,
		ReadBackoff: 100 * time.Millisecond,
	}
}

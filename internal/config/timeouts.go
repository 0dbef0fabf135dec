package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timing values.
// The config file sets the baseline; environment variables override it.
type Timeouts struct {
	PollInterval          time.Duration // Delay between readiness polling rounds
	AllocationTimeout     time.Duration // Bound on a whole allocation attempt
	LaunchTimeout         time.Duration // Timeout for a single create call
	DeleteTimeout         time.Duration // Timeout for delete operations
	RetryMaxAttempts      int           // Maximum number of retry attempts
	RetryInitialDelay     time.Duration // Initial delay between retries
	MaxConcurrentLaunches int           // Cap on parallel create calls
}

// DefaultTimeouts returns the built-in timing baseline.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		PollInterval:          5 * time.Second,
		AllocationTimeout:     10 * time.Minute,
		LaunchTimeout:         5 * time.Minute,
		DeleteTimeout:         5 * time.Minute,
		RetryMaxAttempts:      5,
		RetryInitialDelay:     1 * time.Second,
		MaxConcurrentLaunches: 16,
	}
}

// LoadTimeouts loads timing configuration from environment variables on
// top of the built-in defaults.
//
// Environment Variables:
//   - DIRECTOR_POLL_INTERVAL (default: 5s)
//   - DIRECTOR_ALLOCATION_TIMEOUT (default: 10m)
//   - DIRECTOR_LAUNCH_TIMEOUT (default: 5m)
//   - DIRECTOR_DELETE_TIMEOUT (default: 5m)
//   - DIRECTOR_RETRY_MAX_ATTEMPTS (default: 5)
//   - DIRECTOR_RETRY_INITIAL_DELAY (default: 1s)
//   - DIRECTOR_MAX_CONCURRENT_LAUNCHES (default: 16)
func LoadTimeouts() *Timeouts {
	return LoadTimeoutsFrom(DefaultTimeouts())
}

// LoadTimeoutsFrom applies the environment variable overrides on top of
// base. Unset or unparseable variables leave the base value in place.
func LoadTimeoutsFrom(base Timeouts) *Timeouts {
	return &Timeouts{
		PollInterval:          parseDuration("DIRECTOR_POLL_INTERVAL", base.PollInterval),
		AllocationTimeout:     parseDuration("DIRECTOR_ALLOCATION_TIMEOUT", base.AllocationTimeout),
		LaunchTimeout:         parseDuration("DIRECTOR_LAUNCH_TIMEOUT", base.LaunchTimeout),
		DeleteTimeout:         parseDuration("DIRECTOR_DELETE_TIMEOUT", base.DeleteTimeout),
		RetryMaxAttempts:      parseInt("DIRECTOR_RETRY_MAX_ATTEMPTS", base.RetryMaxAttempts),
		RetryInitialDelay:     parseDuration("DIRECTOR_RETRY_INITIAL_DELAY", base.RetryInitialDelay),
		MaxConcurrentLaunches: parseInt("DIRECTOR_MAX_CONCURRENT_LAUNCHES", base.MaxConcurrentLaunches),
	}
}

// Timeouts returns the timing baseline for this config: file values where
// set, built-in defaults elsewhere.
func (c *Config) Timeouts() Timeouts {
	t := DefaultTimeouts()
	if c.PollInterval > 0 {
		t.PollInterval = c.PollInterval
	}
	if c.AllocationTimeout > 0 {
		t.AllocationTimeout = c.AllocationTimeout
	}
	if c.MaxConcurrentLaunches > 0 {
		t.MaxConcurrentLaunches = c.MaxConcurrentLaunches
	}
	return t
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

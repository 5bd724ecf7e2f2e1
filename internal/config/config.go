// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ClubDBPath points at the club app's sqlite database (read-only history).
	// Empty selects the in-memory history reader (dev mode).
	ClubDBPath string `koanf:"club_db_path"`

	// GrantDBPath points at the grant ledger sqlite database.
	// Empty selects the in-memory ledger (dev mode, non-durable).
	GrantDBPath string `koanf:"grant_db_path"`

	// SweepToken is the shared secret expected in X-Sweep-Token on POST /sweep.
	SweepToken string `koanf:"sweep_token"`

	// SweepWorkerCount sets the number of sweep workers.
	SweepWorkerCount int `koanf:"sweep_worker_count"`

	// SweepQueueSize bounds the in-memory sweep trigger queue.
	SweepQueueSize int `koanf:"sweep_queue_size"`

	// DedupeSize sets the size of the trigger delivery dedupe cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ActiveWindowDays defines how recent an eligible RSVP must be for a
	// member to be included in the bulk sweep.
	ActiveWindowDays int `koanf:"active_window_days"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		ClubDBPath:       "",
		GrantDBPath:      "",
		SweepToken:       "",
		SweepWorkerCount: runtime.NumCPU() * 2,
		SweepQueueSize:   10_000,
		DedupeSize:       50_000,
		ActiveWindowDays: 90,
	}
}

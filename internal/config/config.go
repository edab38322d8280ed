// Package config handles application configuration and setup
package config

import (
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateRandom creates the random number generator of the virtual machine.
// A seed of 0 selects a time based seed, any other seed makes the random
// instruction deterministic.
func CreateRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

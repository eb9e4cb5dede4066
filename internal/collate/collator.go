// Package collate batches variably-sized arrays into a single zero-padded batch.
//
// Items of rank 4 (2D) and 5 (3D) are centered in a containing shape that
// bounds every item, with any odd unit of padding on the trailing side.
// Items of rank 3 (1D) are concatenated along the batch axis unless
// Config.CenterSequences is set.
package collate

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/born-ml/collate/internal/parallel"
)

// Config configures a Collator.
type Config struct {
	// CenterSequences pads and centers 1D items like 2D and 3D ones instead
	// of concatenating them as-is.
	CenterSequences bool

	// Parallel fans per-item copies out to goroutines. Disabled by default.
	Parallel parallel.Config

	// Logger receives debug events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns a sequential configuration with 1D concatenation.
func DefaultConfig() Config {
	return Config{
		CenterSequences: false,
		Parallel: parallel.Config{
			Enabled:      false,
			NumWorkers:   runtime.NumCPU(),
			MinChunkSize: 1,
		},
		Logger: zerolog.Nop(),
	}
}

// Collator batches items according to its Config.
// A Collator holds no mutable state and is safe for concurrent use.
type Collator struct {
	config Config
	log    zerolog.Logger
}

// New creates a Collator with the given configuration.
func New(config Config) *Collator {
	return &Collator{
		config: config,
		log:    config.Logger.With().Str("component", "collate").Logger(),
	}
}

// Config returns the collator's configuration.
func (c *Collator) Config() Config {
	return c.config
}

var defaultCollator = New(DefaultConfig())

package sweep

import (
	"context"
	"fmt"
	"time"

	"expiring-cache/internal/logs"
	"expiring-cache/internal/metrics"
)

// Purger defines the minimal contract required by the sweeper.
// This keeps the sweeper decoupled from the concrete cache implementation.
type Purger interface {
	PurgeExpired() int
}

// Sweeper periodically purges stale entries from a cache.
//
// The cache expires lazily on point lookups; the sweeper is the optional
// complement for workloads where keys are written once and never read
// again, so stale entries would otherwise linger until evicted.
type Sweeper struct {
	purger   Purger
	interval time.Duration
	logger   *logs.Logger
	metrics  *metrics.Registry
}

// NewSweeper creates a sweeper that purges every interval.
func NewSweeper(
	purger Purger,
	interval time.Duration,
	logger *logs.Logger,
	metricsRegistry *metrics.Registry,
) *Sweeper {
	return &Sweeper{
		purger:   purger,
		interval: interval,
		logger:   logger,
		metrics:  metricsRegistry,
	}
}

// Start runs the purge loop until the context is cancelled.
// It blocks and should typically be run in a separate goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-ctx.Done():
			s.logger.Debug("sweeper stopped")
			return
		}
	}
}

// runOnce performs a single purge cycle.
func (s *Sweeper) runOnce() {
	s.metrics.Inc(metrics.PurgeRunsTotal)

	removed := s.purger.PurgeExpired()
	if removed > 0 {
		s.metrics.Add(metrics.PurgeRemovedTotal, int64(removed))
		s.logger.Info(fmt.Sprintf("sweeper purged %d expired entries", removed))
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"expiring-cache/internal/cache"
	"expiring-cache/internal/health"
	"expiring-cache/internal/loader"
	"expiring-cache/internal/logs"
	"expiring-cache/internal/metrics"
	"expiring-cache/internal/sweep"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	logger := logs.NewLogger(1000, logs.DEBUG)

	// Metrics
	metricsRegistry := metrics.NewRegistry()

	// Cache: capacity 2, entries live for one second by default
	c, err := cache.New[string, int](2, time.Second, metricsRegistry)
	if err != nil {
		log.Fatal(err)
	}

	// Background sweeper for entries that are never read again
	sweeper := sweep.NewSweeper(c, 250*time.Millisecond, logger, metricsRegistry)
	go sweeper.Start(ctx)

	// -------------------------------------------------------------------
	// 1) LRU eviction (capacity 2, independent of expiry)
	// -------------------------------------------------------------------
	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes least-recently-used.
	if v, ok := c.Get("a"); ok {
		log.Printf("GET a = %d (touches a -> MRU)", v)
	}

	c.Put("c", 3)
	if _, ok := c.Get("b"); !ok {
		log.Println("GET b: missing (evicted as LRU)")
	}
	log.Printf("keys after eviction (MRU->LRU): %v", c.Keys())

	// -------------------------------------------------------------------
	// 2) Lazy expiration vs the raw bulk view
	// -------------------------------------------------------------------
	c.PutWithTTL("short", 9, 50*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	log.Printf("ContainsKey short = %v (stale but untouched)", c.ContainsKey("short"))
	if _, ok := c.Get("short"); !ok {
		log.Println("GET short: missing (expired and deleted on touch)")
	}
	log.Printf("ContainsKey short = %v (gone after the touch)", c.ContainsKey("short"))

	// -------------------------------------------------------------------
	// 3) Read-through memoization
	// -------------------------------------------------------------------
	lookups, err := cache.New[string, string](16, 30*time.Second, metricsRegistry)
	if err != nil {
		log.Fatal(err)
	}

	resolve := loader.NewLoader(lookups, func(_ context.Context, host string) (string, error) {
		// Stand-in for a real resolution; only runs on misses.
		return fmt.Sprintf("10.0.0.%d", len(host)), nil
	}, 0, logger, metricsRegistry)

	for i := 0; i < 3; i++ {
		addr, err := resolve.Load(ctx, "service.internal")
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("resolved service.internal -> %s", addr)
	}

	// -------------------------------------------------------------------
	// 4) Health report from accumulated metrics and logs
	// -------------------------------------------------------------------
	report := health.NewAnalyzer(metricsRegistry, logger).Analyze()
	log.Printf("health: %s (%s)", report.OverallStatus, report.Summary)

	for key, value := range metricsRegistry.Snapshot() {
		log.Printf("metric %s = %d", key, value)
	}
}

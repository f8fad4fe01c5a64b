package health

import "expiring-cache/internal/metrics"

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates a metrics snapshot.
type Rule func(snapshot map[string]int64) RuleResult

// ---------- RULES ----------

// A low hit ratio means the cache is not earning its keep.
// Only meaningful once enough lookups have happened.
func LowHitRatioRule(snapshot map[string]int64) RuleResult {
	gets := snapshot[string(metrics.CacheGetsTotal)]
	hits := snapshot[string(metrics.CacheHitsTotal)]

	if gets >= 100 && hits*2 < gets {
		return RuleResult{
			Triggered:      true,
			Signal:         "Cache hit ratio below 50%",
			Recommendation: "Increase capacity or default expiration, or review key churn",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Entries expiring faster than they are read indicate the ttl is too short.
func ExpiryChurnRule(snapshot map[string]int64) RuleResult {
	puts := snapshot[string(metrics.CachePutsTotal)]
	expired := snapshot[string(metrics.CacheExpiredTotal)]

	if puts >= 50 && expired*2 > puts {
		return RuleResult{
			Triggered:      true,
			Signal:         "More than half of inserted entries expired unread",
			Recommendation: "Raise the default expiration or per-put ttl overrides",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Heavy capacity eviction means the cache is undersized for the workload.
func EvictionPressureRule(snapshot map[string]int64) RuleResult {
	puts := snapshot[string(metrics.CachePutsTotal)]
	evictions := snapshot[string(metrics.CacheEvictionsTotal)]

	if puts >= 50 && evictions*2 > puts {
		return RuleResult{
			Triggered:      true,
			Signal:         "More than half of inserted entries were evicted by capacity pressure",
			Recommendation: "Grow the max cache size",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Loader failures mean the backing source is misbehaving.
func LoaderFailureRule(snapshot map[string]int64) RuleResult {
	failures := snapshot[string(metrics.LoaderErrorsTotal)]

	if failures > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Loader failures detected",
			Recommendation: "Check availability of the backing source",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

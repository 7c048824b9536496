package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chemstock"

var (
	Allocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "allocations_total",
		Help:      "Bottle id allocations by outcome.",
	}, []string{"outcome"})

	BottlesAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "bottles_allocated_total",
		Help:      "Bottle ids handed out.",
	})

	ParentsMinted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "parents_minted_total",
		Help:      "Parent ids minted from the global sequence.",
	})

	RecoveredCounters = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "recovered_counters_total",
		Help:      "Parent counters rebuilt from existing bottle rows.",
	})

	AllocationRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "conflict_retries_total",
		Help:      "Allocation transactions retried after a concurrent update.",
	})

	AllocationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "allocation_seconds",
		Help:      "Time spent allocating and persisting a bottle batch.",
		Buckets:   prometheus.DefBuckets,
	})

	LookupSource = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "lookup",
		Name:      "source_requests_total",
		Help:      "Chemical metadata source calls by source and outcome.",
	}, []string{"source", "outcome"})

	LookupCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "lookup",
		Name:      "cache_total",
		Help:      "Lookup cache hits and misses.",
	}, []string{"result"})
)

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

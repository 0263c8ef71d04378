package common

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TreesBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_icicle_trees_built_total",
		Help: "Total number of hierarchy trees built",
	}, []string{"source"})

	TreeBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trace_icicle_tree_build_duration_seconds",
		Help:    "Time taken to build a hierarchy tree",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	TreeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trace_icicle_tree_nodes",
		Help:    "Number of nodes per built hierarchy tree",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trace_icicle_cache_hits_total",
		Help: "Total number of memoization cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trace_icicle_cache_misses_total",
		Help: "Total number of memoization cache misses",
	})

	RPCCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trace_icicle_rpc_call_duration_seconds",
		Help:    "Duration of RPC calls to the execution node",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"node", "method", "status"})

	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_icicle_rpc_calls_total",
		Help: "Total RPC calls made to the execution node",
	}, []string{"node", "method", "status"})

	SummaryRowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_icicle_summary_rows_written_total",
		Help: "Total trace summary rows written to ClickHouse",
	}, []string{"status"})
)

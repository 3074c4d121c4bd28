package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by app
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "components_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"app"},
	)

	// CacheMisses tracks cache misses by app
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "components_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"app"},
	)

	// NotModifiedResponses tracks 304 responses served from cache
	NotModifiedResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "components_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses served from cache",
		},
		[]string{"app"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "components_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)

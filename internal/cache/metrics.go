package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics shared by every named cache
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_cache_hits_total",
		Help: "Total cache hits by cache name.",
	}, []string{"cache"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_cache_misses_total",
		Help: "Total cache misses by cache name.",
	}, []string{"cache"})
	cacheEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_cache_evictions_total",
		Help: "Total expired entries removed by cache name.",
	}, []string{"cache"})
)

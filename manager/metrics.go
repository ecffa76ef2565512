package manager

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hdmap_builds_total",
		Help: "Total number of map builds by result",
	}, []string{"result"})
	BuildDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hdmap_build_duration_ms",
		Help:    "Map build duration in milliseconds",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 30000, 60000},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdmap_cache_hits_total",
		Help: "Total map cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdmap_cache_misses_total",
		Help: "Total map cache misses",
	})
	EvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hdmap_evictions_total",
		Help: "Total number of evicted maps",
	})
	CachedMaps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hdmap_cached_maps",
		Help: "Number of maps currently cached",
	})
)

func init() {
	prometheus.MustRegister(BuildsTotal)
	prometheus.MustRegister(BuildDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(EvictionsTotal)
	prometheus.MustRegister(CachedMaps)
}

// Returns the handler exposing the registered metrics.
func MetricsHandler() http.Handler { return promhttp.Handler() }

// Package metrics provides internal Prometheus instrumentation for parse
// runs. This package is internal and should not be imported by external
// projects.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks cache effectiveness and parse timings for one run.
type Collector struct {
	registry *prometheus.Registry

	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	cacheEnabled  prometheus.Gauge
	parseDuration *prometheus.HistogramVec
	versesParsed  *prometheus.CounterVec
}

// NewCollector creates a collector backed by its own registry, so repeated
// runs (and tests) never collide on metric registration.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Parse results served from the cache",
			},
			[]string{"corpus"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Parse results computed because the cache missed",
			},
			[]string{"corpus"},
		),
		cacheEnabled: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_enabled",
				Help:      "1 when the Redis cache backend is reachable",
			},
		),
		parseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_duration_seconds",
				Help:      "Wall time spent parsing one corpus",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"corpus"},
		),
		versesParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verses_parsed_total",
				Help:      "Verse records produced per corpus",
			},
			[]string{"corpus"},
		),
	}
}

// RecordCacheHit counts a cache hit for corpus.
func (c *Collector) RecordCacheHit(corpus string) {
	c.cacheHits.WithLabelValues(corpus).Inc()
}

// RecordCacheMiss counts a cache miss for corpus.
func (c *Collector) RecordCacheMiss(corpus string) {
	c.cacheMisses.WithLabelValues(corpus).Inc()
}

// SetCacheEnabled records whether the cache backend is reachable.
func (c *Collector) SetCacheEnabled(enabled bool) {
	if enabled {
		c.cacheEnabled.Set(1)
	} else {
		c.cacheEnabled.Set(0)
	}
}

// ObserveParse records the duration of one corpus parse and the number of
// verse records it produced.
func (c *Collector) ObserveParse(corpus string, d time.Duration, verses int) {
	c.parseDuration.WithLabelValues(corpus).Observe(d.Seconds())
	c.versesParsed.WithLabelValues(corpus).Add(float64(verses))
}

// Handler exposes the collector's registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

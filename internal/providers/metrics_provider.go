package providers

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cast"
	"logmerge/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncFilesScanned(version int)
	IncPairs(divergence string)
	AddMissingV5(count int)
	IncDuplicatesSkipped()
	IncCacheHits()
	IncCacheMisses()
	ObserveDirectoryDuration(duration time.Duration)
	Flush() error
}

// MetricsProvider keeps run metrics in a private registry and writes them
// in the node_exporter textfile format once the run is over.
type MetricsProvider struct {
	registry          *prometheus.Registry
	textfile          string
	filesScanned      *prometheus.CounterVec
	pairs             *prometheus.CounterVec
	missingV5         prometheus.Counter
	duplicatesSkipped prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	directoryDuration prometheus.Histogram
}

func (m *MetricsProvider) IncFilesScanned(version int) {
	m.filesScanned.WithLabelValues(cast.ToString(version)).Inc()
}

func (m *MetricsProvider) IncPairs(divergence string) {
	m.pairs.WithLabelValues(divergence).Inc()
}

func (m *MetricsProvider) AddMissingV5(count int) {
	m.missingV5.Add(float64(count))
}

func (m *MetricsProvider) IncDuplicatesSkipped() {
	m.duplicatesSkipped.Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveDirectoryDuration(duration time.Duration) {
	m.directoryDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) Flush() error {
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsProvider{
		registry: registry,
		textfile: conf.Metrics.Textfile,

		filesScanned: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logmerge_files_scanned_total",
			Help: "Total number of session log files recognised per snapshot version",
		}, []string{"version"}),

		pairs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logmerge_pairs_total",
			Help: "Total number of resolved v4/v5 pairs per divergence",
		}, []string{"divergence"}),

		missingV5: factory.NewCounter(prometheus.CounterOpts{
			Name: "logmerge_missing_v5_total",
			Help: "Total number of v4 logs without a v5 counterpart",
		}),

		duplicatesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "logmerge_duplicates_skipped_total",
			Help: "Total number of report entries suppressed as duplicates",
		}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "logmerge_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "logmerge_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		directoryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "logmerge_directory_duration_seconds",
			Help:    "Time spent reconciling a single input directory",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncFilesScanned(_ int)                    {}
func (n *noopMetrics) IncPairs(_ string)                        {}
func (n *noopMetrics) AddMissingV5(_ int)                       {}
func (n *noopMetrics) IncDuplicatesSkipped()                    {}
func (n *noopMetrics) IncCacheHits()                            {}
func (n *noopMetrics) IncCacheMisses()                          {}
func (n *noopMetrics) ObserveDirectoryDuration(_ time.Duration) {}
func (n *noopMetrics) Flush() error                             { return nil }

package providers

import (
	"logmerge/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncFilesScanned(4)
	m.IncPairs("Same")
	m.AddMissingV5(2)
	m.IncDuplicatesSkipped()
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObserveDirectoryDuration(time.Millisecond)
	assert.NoError(t, m.Flush())
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true, Textfile: filepath.Join(t.TempDir(), "m.prom")},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")

	// private registries allow a second provider in the same process
	assert.NotPanics(t, func() { NewMetricsProvider(conf) })
}

func TestMetricsProvider_FlushWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logmerge.prom")
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true, Textfile: path},
	}
	m := NewMetricsProvider(conf)

	m.IncFilesScanned(4)
	m.IncFilesScanned(5)
	m.IncFilesScanned(5)
	m.IncPairs("Different")
	m.AddMissingV5(3)
	m.IncDuplicatesSkipped()
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObserveDirectoryDuration(250 * time.Millisecond)
	require.NoError(t, m.Flush())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `logmerge_files_scanned_total{version="5"} 2`)
	assert.Contains(t, out, `logmerge_pairs_total{divergence="Different"} 1`)
	assert.Contains(t, out, "logmerge_missing_v5_total 3")
	assert.Contains(t, out, "logmerge_duplicates_skipped_total 1")
	assert.Contains(t, out, "logmerge_directory_duration_seconds_count 1")
}

func TestMetricsProvider_FlushBadPath(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true, Textfile: "/nonexistent/dir/m.prom"},
	}
	assert.Error(t, NewMetricsProvider(conf).Flush())
}

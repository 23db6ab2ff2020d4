package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	hits   int
	misses int
}

func (m *cacheMetricsTestMetrics) IncFilesScanned(_ int)                    {}
func (m *cacheMetricsTestMetrics) IncPairs(_ string)                        {}
func (m *cacheMetricsTestMetrics) AddMissingV5(_ int)                       {}
func (m *cacheMetricsTestMetrics) IncDuplicatesSkipped()                    {}
func (m *cacheMetricsTestMetrics) IncCacheHits()                            { m.hits++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses()                          { m.misses++ }
func (m *cacheMetricsTestMetrics) ObserveDirectoryDuration(_ time.Duration) {}
func (m *cacheMetricsTestMetrics) Flush() error                             { return nil }

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}

func TestMetricsCacheProvider_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestMetricsCacheProvider_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMetricsCacheProvider_SetDelegates(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	cache := &MetricsCacheProvider{inner: inner, metrics: &cacheMetricsTestMetrics{}}

	cache.Set("key2", []byte("val2"))

	val, ok := inner.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, []byte("val2"), val)
}

func TestNewInstrumentedCacheProvider_DisabledSkipsWrapping(t *testing.T) {
	metrics := &cacheMetricsTestMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(false, 0), &cacheTestLogger{}, metrics)
	assert.IsType(t, &noopCache{}, c)

	c.Get("x")
	assert.Equal(t, 0, metrics.misses)
}

func TestNewInstrumentedCacheProvider_EnabledCounts(t *testing.T) {
	metrics := &cacheMetricsTestMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1), &cacheTestLogger{}, metrics)
	assert.IsType(t, &MetricsCacheProvider{}, c)

	c.Get("a")
	c.Set("a", []byte("1"))
	c.Get("a")
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

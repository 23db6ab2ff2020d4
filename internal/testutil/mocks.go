package testutil

import (
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many calls were made at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	Hits int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	if ok {
		m.Hits++
	}
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface and keeps counters in memory.
type MockMetrics struct {
	mu                sync.Mutex
	FilesScanned      map[int]int
	Pairs             map[string]int
	MissingV5         int
	DuplicatesSkipped int
	CacheHits         int
	CacheMisses       int
	Directories       int
	Flushed           int
	FlushErr          error
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		FilesScanned: make(map[int]int),
		Pairs:        make(map[string]int),
	}
}

func (m *MockMetrics) IncFilesScanned(version int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilesScanned[version]++
}

func (m *MockMetrics) IncPairs(divergence string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pairs[divergence]++
}

func (m *MockMetrics) AddMissingV5(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MissingV5 += count
}

func (m *MockMetrics) IncDuplicatesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObserveDirectoryDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Directories++
}

func (m *MockMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushed++
	return m.FlushErr
}

// MockManifestStore implements interfaces.ManifestStoreInterface in memory.
type MockManifestStore struct {
	Saved   map[string]*models.RunManifest
	SaveErr error
	Closed  bool
}

func NewMockManifestStore() *MockManifestStore {
	return &MockManifestStore{Saved: make(map[string]*models.RunManifest)}
}

func (m *MockManifestStore) SaveManifest(fileName string, manifest *models.RunManifest) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved[fileName] = manifest
	return nil
}

func (m *MockManifestStore) LoadManifest(fileName string) (*models.RunManifest, error) {
	return m.Saved[fileName], nil
}

func (m *MockManifestStore) Close() {
	m.Closed = true
}

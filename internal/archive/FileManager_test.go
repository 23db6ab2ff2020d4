package archive

import (
	"errors"
	"logmerge/internal/models"
	"logmerge/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *models.RunManifest {
	m := models.NewRunManifest(time.Date(2024, 8, 2, 9, 0, 0, 0, time.UTC))
	m.FinishedAt = m.StartedAt.Add(3 * time.Second)
	m.Directories = append(m.Directories, models.DirectoryCounts{
		Directory: "/data/chatlog_a",
		V4Files:   2,
		V5Files:   1,
		MissingV5: []string{"/data/chatlog_a/pilot_study_9_01.08.2024-11.00_4_log.json"},
	})
	m.Entries = append(m.Entries, models.ReconciliationEntry{
		RoomID:          7,
		Timestamp:       time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC),
		PathV4:          "/data/chatlog_a/pilot_study_7_01.08.2024-10.00_4_log.json",
		PathV5:          "/data/chatlog_a/pilot_study_7_01.08.2024-10.01_5_log.json",
		Divergence:      models.DivergenceDifferent,
		CanonicalSource: models.SourceV5,
	})
	return m
}

func TestFileManager_SaveAndLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_run.zst")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	store := NewManifestStore(NewFileManager(comp, &testutil.MockLogger{}))
	defer store.Close()

	saved := sampleManifest()
	require.NoError(t, store.SaveManifest(path, saved))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := store.LoadManifest(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.RunID, loaded.RunID)
	assert.True(t, saved.StartedAt.Equal(loaded.StartedAt))
	assert.Equal(t, saved.Directories, loaded.Directories)
	require.Len(t, loaded.Entries, 1)
	assert.True(t, saved.Entries[0].Equal(loaded.Entries[0]))
}

func TestFileManager_LoadManifest_NotExist(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, &testutil.MockLogger{})
	m, err := fm.LoadManifest(filepath.Join(t.TempDir(), "missing.zst"))
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestFileManager_LoadManifest_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.zst")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	comp := &testutil.MockCompressor{
		DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("corrupt") },
	}
	fm := NewFileManager(comp, &testutil.MockLogger{})
	_, err := fm.LoadManifest(path)
	assert.ErrorContains(t, err, "decompress manifest")
}

func TestFileManager_LoadManifest_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.zst")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	fm := NewFileManager(&testutil.MockCompressor{}, &testutil.MockLogger{})
	_, err := fm.LoadManifest(path)
	assert.ErrorContains(t, err, "decode manifest")
}

func TestFileManager_LoadManifest_VersionMismatchWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.zst")
	m := sampleManifest()
	m.Version = models.ManifestVersion + 1
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, logger)
	loaded, err := fm.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.Version, loaded.Version)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFileManager_SaveManifest_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.zst")
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("boom") },
	}
	fm := NewFileManager(comp, &testutil.MockLogger{})
	assert.Error(t, fm.SaveManifest(path, sampleManifest()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_Close(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fm := NewFileManager(comp, &testutil.MockLogger{})
	fm.Close()
	assert.True(t, comp.Closed)
}

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

const minimalConfig = `input:
  baseDir: /srv/chat-room
  directories:
    - chatlog_07_22
output:
  dir: /tmp/full_logs
  comparisonCsv: /tmp/comparison.csv
  countsFile: /tmp/log_counts.txt
logger:
  dir: /tmp
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigProvider_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "LogMerge", conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, "/srv/chat-room", conf.Input.BaseDir)
	assert.Equal(t, []string{"chatlog_07_22"}, conf.Input.Directories)
	assert.Equal(t, "/tmp/comparison.csv", conf.Output.ComparisonCSV)
	assert.Equal(t, uint32(0644), conf.Output.FileMode)
	assert.Equal(t, time.Minute, conf.Match.MinDelay)
	assert.Equal(t, 2*time.Minute, conf.Match.MaxDelay)
	assert.Equal(t, "comments", conf.Compare.Field)
	assert.True(t, conf.Loader.ValidateSchema)
	assert.Equal(t, "info", conf.Logger.Level)
	assert.False(t, conf.Cache.Enabled)
}

func TestNewConfigProvider_FileValuesAndFlags(t *testing.T) {
	path := writeConfig(t, minimalConfig+`match:
  minDelay: 30s
  maxDelay: 90s
compare:
  field: "comments[].userName"
cache:
  enabled: true
  size: 8
`)

	conf, err := NewConfigProvider(&structures.CliFlags{
		ConfigPath:  path,
		DebugMode:   true,
		Directories: []string{"/abs/chatlog_a", "chatlog_b"},
	})
	require.NoError(t, err)

	assert.True(t, conf.Debug)
	assert.Equal(t, 30*time.Second, conf.Match.MinDelay)
	assert.Equal(t, 90*time.Second, conf.Match.MaxDelay)
	assert.Equal(t, "comments[].userName", conf.Compare.Field)
	assert.Equal(t, []string{"/abs/chatlog_a", "chatlog_b"}, conf.Input.Directories)
	assert.True(t, conf.Cache.Enabled)
	assert.Equal(t, 8, conf.Cache.Size)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	t.Setenv("LOGMERGE_BASE_DIR", "/mnt/other")
	t.Setenv("LOGMERGE_LOG_LEVEL", "warn")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "/mnt/other", conf.Input.BaseDir)
	assert.Equal(t, "warn", conf.Logger.Level)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, minimalConfig+`match:
  minDelay: 5m
  maxDelay: 1m
`)
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

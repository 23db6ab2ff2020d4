package main

import (
	"bytes"
	"fmt"
	"logmerge/internal/models"
	"logmerge/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, base, out string) string {
	t.Helper()
	content := fmt.Sprintf(`input:
  baseDir: %s
output:
  dir: %s/full_logs
  comparisonCsv: %s/comparison.csv
  countsFile: %s/log_counts.txt
logger:
  dir: %s
cache:
  enabled: true
  size: 4
persistence:
  manifestPath: %s/manifest.zst
`, base, out, out, out, out, out)
	path := filepath.Join(out, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReconcileAndManifestCommands(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()
	dir := filepath.Join(base, "chatlog_08_01")
	testutil.WriteSessionLog(t, dir, testutil.LogName(7, "01.08.2024-10.00", 4), 7, "a", 3)
	testutil.WriteSessionLog(t, dir, testutil.LogName(7, "01.08.2024-10.01", 5), 7, "b", 5)
	testutil.WriteSessionLog(t, dir, testutil.LogName(9, "01.08.2024-11.00", 4), 9, "c", 1)
	config := writeTestConfig(t, base, out)

	stdout, err := execute(t, "manifest", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No manifest found")

	stdout, err = execute(t, "reconcile", "-c", config, "chatlog_08_01")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Directories: 1  log4: 2  log5: 1")
	assert.Contains(t, stdout, "Different  1")
	assert.Contains(t, stdout, "Log4 without log5: 1")

	_, err = os.Stat(filepath.Join(out, "full_logs", "pilot_study_7_01.08.2024-10.01_5_full_log.json"))
	assert.NoError(t, err)

	stdout, err = execute(t, "manifest", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Selected v4: 0  v5: 1")
}

func TestReconcile_BadConfig(t *testing.T) {
	_, err := execute(t, "reconcile", "-c", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	m := models.NewRunManifest(time.Date(2024, 8, 2, 9, 0, 0, 0, time.UTC))
	m.FinishedAt = m.StartedAt.Add(1500 * time.Millisecond)
	m.Directories = append(m.Directories, models.DirectoryCounts{
		Directory: "/d", V4Files: 3, V5Files: 3, Overflow: []string{"/d/x"},
	})
	m.Entries = append(m.Entries,
		models.ReconciliationEntry{Divergence: models.DivergenceSame, CanonicalSource: models.SourceV4},
		models.ReconciliationEntry{Divergence: models.DivergenceMissing, CanonicalSource: models.SourceNone},
	)

	var buf bytes.Buffer
	printSummary(&buf, m)
	out := buf.String()

	assert.Contains(t, out, "Run "+m.RunID+" (2024-08-02 09:00:00, 1.5s)")
	assert.Contains(t, out, "Missing    1")
	assert.Contains(t, out, "Same       1")
	assert.Contains(t, out, "Selected v4: 1  v5: 0")
	assert.Contains(t, out, "Unresolved extra log5: 1")
}

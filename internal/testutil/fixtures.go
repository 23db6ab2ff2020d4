package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// LogName builds a canonical session log filename, e.g.
// LogName(7, "01.08.2024-10.00", 4) = "pilot_study_7_01.08.2024-10.00_4_log.json".
func LogName(room int, stamp string, version int) string {
	return fmt.Sprintf("pilot_study_%d_%s_%d_log.json", room, stamp, version)
}

// SessionLogJSON renders a session log whose comments are written by the
// given user names in order. The id field lets two logs with the same
// comment count differ in content.
func SessionLogJSON(room int, tag string, commenters ...string) string {
	comments := make([]string, 0, len(commenters))
	for i, name := range commenters {
		comments = append(comments, fmt.Sprintf(
			`{"id": "%s-%d", "bot": false, "time": %d, "userName": %q, "content": "message %d"}`,
			tag, i, 1722506400000+int64(i)*1000, name, i))
	}
	return fmt.Sprintf(`{
  "id": %d,
  "specFileName": "pilot_study_%d.json",
  "name": "Room %d",
  "users": [{"id": "u1", "name": "Alice", "prolificPid": "pid-1"}, {"id": "u2", "name": "Bob", "prolificPid": "pid-2"}],
  "comments": [%s],
  "botType": "Alex",
  "outboundLink": "https://example.org/done"
}`, room, room, room, strings.Join(comments, ", "))
}

// WriteFile writes content under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteSessionLog writes a session log with n comments.
func WriteSessionLog(t *testing.T, dir, name string, room int, tag string, n int) string {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		if i%2 == 0 {
			names[i] = "Alice"
		} else {
			names[i] = "Bob"
		}
	}
	return WriteFile(t, dir, name, SessionLogJSON(room, tag, names...))
}

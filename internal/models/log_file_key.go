package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TimestampLayout is the minute-precision stamp embedded in log filenames.
	// The server writes the day without a leading zero, renamed files keep it.
	TimestampLayout = "2.01.2006-15.04"
	// ReportTimestampLayout renders a key timestamp in the comparison report.
	ReportTimestampLayout = "2006-01-02 15:04:05"

	PrimaryVersion   = 4
	SecondaryVersion = 5
)

var ErrUnparseableFilename = errors.New("unparseable log filename")

var logFileNamePattern = regexp.MustCompile(
	`^(.+)_(\d+)_(\d{1,2}\.\d{2}\.\d{4}-\d{2})([.:])(\d{2})_(\d)(_log\.json|\.log\.json)$`,
)

// LogFileKey identifies a session log snapshot by its filename.
type LogFileKey struct {
	Prefix    string
	RoomID    int
	Timestamp time.Time
	Version   int
	// Legacy is set for names still in the server's raw `.log.json` form.
	Legacy bool
}

func (k LogFileKey) String() string {
	return fmt.Sprintf("room=%d ts=%s v=%d", k.RoomID, k.Timestamp.Format(ReportTimestampLayout), k.Version)
}

// ParseLogFileKey extracts the key from a log filename or path. It reports
// false for anything that is not exactly one of the known naming forms:
//
//	<prefix>_<room>_<DD.MM.YYYY-HH.MM>_<version>_log.json
//	<prefix>_<room>_<D.MM.YYYY-HH:MM>_<version>.log.json
//	<prefix>_<room>_<DD.MM.YYYY-HH.MM>_<version>.log.json
func ParseLogFileKey(name string) (LogFileKey, bool) {
	base := filepath.Base(name)
	m := logFileNamePattern.FindStringSubmatch(base)
	if m == nil {
		return LogFileKey{}, false
	}
	prefix, room, stamp, sep, minutes, version, suffix := m[1], m[2], m[3], m[4], m[5], m[6], m[7]

	// colons only ever appear in the server's raw naming
	if sep == ":" && suffix != ".log.json" {
		return LogFileKey{}, false
	}

	roomID, err := strconv.Atoi(room)
	if err != nil {
		return LogFileKey{}, false
	}
	ts, err := time.Parse(TimestampLayout, stamp+"."+minutes)
	if err != nil {
		return LogFileKey{}, false
	}

	return LogFileKey{
		Prefix:    prefix,
		RoomID:    roomID,
		Timestamp: ts,
		Version:   int(version[0] - '0'),
		Legacy:    suffix == ".log.json",
	}, true
}

// ParseLogFileKeyErr is the error-returning form of ParseLogFileKey.
func ParseLogFileKeyErr(name string) (LogFileKey, error) {
	key, ok := ParseLogFileKey(name)
	if !ok {
		return LogFileKey{}, fmt.Errorf("%w: %s", ErrUnparseableFilename, filepath.Base(name))
	}
	return key, nil
}

// FullLogName derives the merged output name from a winning snapshot's name.
func FullLogName(name string) string {
	base := filepath.Base(name)
	if strings.HasSuffix(base, ".log.json") && !strings.Contains(base, "_log") {
		return strings.TrimSuffix(base, ".log.json") + "_full_log.json"
	}
	return strings.ReplaceAll(base, "_log", "_full_log")
}

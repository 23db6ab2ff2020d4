package services

import (
	"fmt"
	"io/fs"
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"logmerge/internal/structures"
	"path/filepath"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

type MatcherInterface interface {
	Match(dir string) (*models.MatchResult, error)
}

type Matcher struct {
	minDelay time.Duration
	maxDelay time.Duration
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

type logFile struct {
	path string
	key  models.LogFileKey
}

type roomFiles struct {
	v4 []logFile
	v5 []logFile
}

func NewMatcher(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) MatcherInterface {
	return &Matcher{
		minDelay: conf.Match.MinDelay,
		maxDelay: conf.Match.MaxDelay,
		logger:   logger,
		metrics:  metrics,
	}
}

// Match scans dir recursively and pairs every v4 snapshot with at most one
// v5 snapshot of the same room taken minDelay..maxDelay later. Each v5 file
// is paired at most once; when several qualify the smallest delay wins, then
// the lexically smallest path.
func (m *Matcher) Match(dir string) (*models.MatchResult, error) {
	rooms, err := m.scan(dir)
	if err != nil {
		return nil, err
	}

	result := &models.MatchResult{
		Pairs: make([]models.MatchedPair, 0),
		Counts: models.DirectoryCounts{
			Directory: dir,
			MissingV5: make([]string, 0),
		},
	}

	roomIDs := make([]int, 0, len(rooms))
	for id, files := range rooms {
		roomIDs = append(roomIDs, id)
		result.Counts.V4Files += len(files.v4)
		result.Counts.V5Files += len(files.v5)
	}
	sort.Ints(roomIDs)

	for _, id := range roomIDs {
		m.matchRoom(id, rooms[id], result)
	}

	m.metrics.AddMissingV5(len(result.Counts.MissingV5))
	m.logger.Infof(providers.TypeMatch, "%s: %d v4, %d v5, %d paired, %d without v5",
		dir, result.Counts.V4Files, result.Counts.V5Files, len(result.Pairs)-len(result.Counts.MissingV5), len(result.Counts.MissingV5))
	return result, nil
}

func (m *Matcher) scan(dir string) (map[int]*roomFiles, error) {
	rooms := make(map[int]*roomFiles)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			m.logger.Warnf(providers.TypeScan, "Skipping %s: %s", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		key, ok := models.ParseLogFileKey(d.Name())
		if !ok {
			m.logger.Debugf(providers.TypeScan, "Ignoring %s: not a session log name", path)
			return nil
		}
		if key.Version != models.PrimaryVersion && key.Version != models.SecondaryVersion {
			m.logger.Debugf(providers.TypeScan, "Ignoring %s: intermediate snapshot v%d", path, key.Version)
			return nil
		}

		room, exists := rooms[key.RoomID]
		if !exists {
			room = &roomFiles{}
			rooms[key.RoomID] = room
		}
		if key.Version == models.PrimaryVersion {
			room.v4 = append(room.v4, logFile{path: path, key: key})
		} else {
			room.v5 = append(room.v5, logFile{path: path, key: key})
		}
		m.metrics.IncFilesScanned(key.Version)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return rooms, nil
}

func (m *Matcher) matchRoom(roomID int, files *roomFiles, result *models.MatchResult) {
	sortLogFiles(files.v4)
	sortLogFiles(files.v5)

	// indexes into files.v5
	consumed := roaring.New()
	inWindow := roaring.New()

	for _, v4 := range files.v4 {
		pair := models.MatchedPair{
			RoomID:      roomID,
			TimestampV4: v4.key.Timestamp,
			PathV4:      v4.path,
		}

		best := -1
		var bestDelay time.Duration
		for i := range files.v5 {
			delay := files.v5[i].key.Timestamp.Sub(v4.key.Timestamp)
			if !m.acceptable(delay) {
				continue
			}
			inWindow.Add(uint32(i))
			if consumed.Contains(uint32(i)) {
				continue
			}
			// v5 is sorted by timestamp then path, so the first hit has the
			// smallest delay and ties are already in path order
			if best < 0 {
				best = i
				bestDelay = delay
			}
		}

		if best < 0 {
			result.Counts.MissingV5 = append(result.Counts.MissingV5, v4.path)
			result.Pairs = append(result.Pairs, pair)
			m.logger.Debugf(providers.TypeMatch, "No v5 for %s", v4.path)
			continue
		}

		consumed.Add(uint32(best))
		pair.PathV5 = files.v5[best].path
		pair.Delay = &bestDelay
		result.Pairs = append(result.Pairs, pair)
		m.logger.Debugf(providers.TypeMatch, "Paired %s with %s (+%s)", v4.path, pair.PathV5, bestDelay)
	}

	leftover := roaring.AndNot(inWindow, consumed)
	it := leftover.Iterator()
	for it.HasNext() {
		path := files.v5[it.Next()].path
		result.Counts.Overflow = append(result.Counts.Overflow, path)
		m.logger.Warnf(providers.TypeMatch, "Extra snapshot %s left unresolved for room %d", path, roomID)
	}
}

func (m *Matcher) acceptable(delay time.Duration) bool {
	return delay > 0 && delay >= m.minDelay && delay <= m.maxDelay
}

func sortLogFiles(files []logFile) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].key.Timestamp.Equal(files[j].key.Timestamp) {
			return files[i].key.Timestamp.Before(files[j].key.Timestamp)
		}
		return files[i].path < files[j].path
	})
}

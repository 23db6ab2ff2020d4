package main

import (
	"fmt"
	"logmerge/internal/di"
	"logmerge/internal/models"
	"logmerge/internal/structures"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	numWorkers  = 8
	numDirs     = 6
	roomsPerDir = 40
	maxComments = 60
	numPasses   = 5
)

var botTypes = []string{"Alex", "Sam", "none"}

type job struct {
	dir  string
	room int
	seed int64
}

type comment struct {
	ID       string `json:"id"`
	Bot      bool   `json:"bot"`
	Time     int64  `json:"time"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

type user struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ProlificPid string `json:"prolificPid"`
}

type sessionLog struct {
	ID           int       `json:"id"`
	SpecFileName string    `json:"specFileName"`
	Name         string    `json:"name"`
	Users        []user    `json:"users"`
	Comments     []comment `json:"comments"`
	BotType      string    `json:"botType"`
	OutboundLink string    `json:"outboundLink"`
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	root, err := os.MkdirTemp("", "logmerge-loadtest-")
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}
	defer os.RemoveAll(root)

	fmt.Println("=== LogMerge Load Test ===")
	fmt.Printf("Workers: %d | Directories: %d | Rooms per directory: %d\n", numWorkers, numDirs, roomsPerDir)
	fmt.Printf("Corpus: %s\n\n", root)

	fmt.Println("--- Phase 1: Generating corpus ---")
	start := time.Now()
	dirs, files := generate(root)
	fmt.Printf("  %d files in %s\n", files, fmtDur(time.Since(start)))

	configPath, err := writeConfig(root)
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}

	fmt.Printf("\n--- Phase 2: Reconcile passes (%d) ---\n", numPasses)
	results := map[string]*stats{"reconcile": {}}
	var last *models.RunManifest
	for i := 0; i < numPasses; i++ {
		manifest, lat, err := runPass(configPath, dirs)
		s := results["reconcile"]
		s.count++
		s.latencies = append(s.latencies, lat)
		if err != nil {
			s.errors++
			fmt.Printf("  pass %d failed: %s\n", i+1, err)
			continue
		}
		last = manifest
	}
	printResults(results)

	if last != nil {
		summary := last.Summary()
		fmt.Printf("\n  Entries: %d | Same: %d | Different: %d | Missing: %d | v4 without v5: %d | Extra v5: %d\n",
			len(last.Entries),
			summary.ByDivergence[models.DivergenceSame],
			summary.ByDivergence[models.DivergenceDifferent],
			summary.ByDivergence[models.DivergenceMissing],
			summary.MissingV5,
			summary.Overflow)
	}
}

// generate writes a synthetic corpus and returns the directory names and
// the number of files written. Roughly one room in ten has no v5, one in
// ten has an identical v5, one in twenty has a corrupt v5 and one in
// twenty has a second v5 inside the window.
func generate(root string) ([]string, int64) {
	jobs := make(chan job, numWorkers*4)
	var written atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				n, err := writeRoom(j)
				if err != nil {
					fmt.Printf("  room %d in %s: %s\n", j.room, j.dir, err)
				}
				written.Add(int64(n))
			}
		}()
	}

	dirs := make([]string, 0, numDirs)
	for d := 0; d < numDirs; d++ {
		name := fmt.Sprintf("chatlog_%02d", d+1)
		dirs = append(dirs, name)
		dir := filepath.Join(root, "input", name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Println("  mkdir:", err)
			continue
		}
		for r := 1; r <= roomsPerDir; r++ {
			jobs <- job{dir: dir, room: r, seed: rand.Int63()}
		}
	}
	close(jobs)
	wg.Wait()
	return dirs, written.Load()
}

func writeRoom(j job) (int, error) {
	rng := rand.New(rand.NewSource(j.seed))
	started := time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC).Add(time.Duration(j.room*7) * time.Minute)
	base := makeLog(rng, j.room, rng.Intn(maxComments))

	if err := writeLog(j.dir, j.room, started, 4, base); err != nil {
		return 0, err
	}
	written := 1

	roll := rng.Float64()
	v5Start := started.Add(time.Duration(1+rng.Intn(2)) * time.Minute)
	switch {
	case roll < 0.10:
		return written, nil
	case roll < 0.20:
		return written + 1, writeLog(j.dir, j.room, v5Start, 5, base)
	case roll < 0.25:
		path := filepath.Join(j.dir, logName(j.room, v5Start, 5))
		return written + 1, os.WriteFile(path, []byte(`{"comments": [`), 0o644)
	}

	extended := base
	extended.Comments = append(append([]comment{}, base.Comments...), makeLog(rng, j.room, 1+rng.Intn(10)).Comments...)
	if err := writeLog(j.dir, j.room, v5Start, 5, extended); err != nil {
		return written, err
	}
	written++

	if roll > 0.95 {
		extra := started.Add(2 * time.Minute)
		if extra.Equal(v5Start) {
			extra = started.Add(time.Minute)
		}
		if err := writeLog(j.dir, j.room, extra, 5, base); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func makeLog(rng *rand.Rand, room, n int) sessionLog {
	l := sessionLog{
		ID:           room,
		SpecFileName: fmt.Sprintf("pilot_study_%d.json", room),
		Name:         fmt.Sprintf("Room %d", room),
		Users: []user{
			{ID: "u1", Name: "Alice", ProlificPid: fmt.Sprintf("pid-%d-1", room)},
			{ID: "u2", Name: "Bob", ProlificPid: fmt.Sprintf("pid-%d-2", room)},
		},
		Comments:     make([]comment, 0, n),
		BotType:      botTypes[rng.Intn(len(botTypes))],
		OutboundLink: "https://example.org/done",
	}
	for i := 0; i < n; i++ {
		l.Comments = append(l.Comments, comment{
			ID:       fmt.Sprintf("%d-%d", rng.Int63(), i),
			Bot:      rng.Intn(4) == 0,
			Time:     1721293200000 + rng.Int63n(3_600_000),
			UserName: l.Users[rng.Intn(len(l.Users))].Name,
			Content:  strings.Repeat("lorem ", 1+rng.Intn(20)),
		})
	}
	return l
}

func logName(room int, ts time.Time, version int) string {
	return fmt.Sprintf("pilot_study_%d_%s_%d_log.json", room, ts.Format(models.TimestampLayout), version)
}

func writeLog(dir string, room int, ts time.Time, version int, l sessionLog) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, logName(room, ts, version)), data, 0o644)
}

func writeConfig(root string) (string, error) {
	out := filepath.Join(root, "output")
	content := fmt.Sprintf(`input:
  baseDir: %s
output:
  dir: %s/full_logs
  comparisonCsv: %s/comparison.csv
  countsFile: %s/log_counts.txt
logger:
  level: warn
  dir: %s
cache:
  enabled: true
  size: 64
metrics:
  enabled: true
  textfile: %s/logmerge.prom
persistence:
  manifestPath: %s/manifest.zst
`, filepath.Join(root, "input"), out, out, out, root, out, out)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(root, "config.yml")
	return path, os.WriteFile(path, []byte(content), 0o644)
}

func runPass(configPath string, dirs []string) (*models.RunManifest, time.Duration, error) {
	start := time.Now()
	app, err := di.InitApp(&structures.CliFlags{ConfigPath: configPath, Directories: dirs})
	if err != nil {
		return nil, time.Since(start), err
	}
	defer app.Close()

	manifest, err := app.Run()
	return manifest, time.Since(start), err
}

func printResults(allResults map[string]*stats) {
	phases := make([]string, 0, len(allResults))
	for p := range allResults {
		phases = append(phases, p)
	}
	sort.Strings(phases)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Phase", "Runs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, p := range phases {
		s := allResults[p]
		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			p, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}
	fmt.Println("  " + strings.Repeat("-", 88))
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

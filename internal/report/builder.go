package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"logmerge/internal/structures"
	"os"
	"path/filepath"
)

var header = []string{"Room ID", "Timestamp", "Log4 Filename", "Log5 Filename", "Different?", "Selected Log"}

// Builder accumulates the run's comparison entries and owns every output file.
// The entry list is de-duplicated with a linear scan; runs are expected to
// produce a few hundred rows at most.
type Builder struct {
	outputDir     string
	comparisonCSV string
	countsFile    string
	mode          os.FileMode
	logger        providers.Logger
	entries       []models.ReconciliationEntry
}

func NewBuilder(conf *structures.Config, logger providers.Logger) *Builder {
	return &Builder{
		outputDir:     conf.Output.Dir,
		comparisonCSV: conf.Output.ComparisonCSV,
		countsFile:    conf.Output.CountsFile,
		mode:          os.FileMode(conf.Output.FileMode),
		logger:        logger,
		entries:       make([]models.ReconciliationEntry, 0),
	}
}

// Reset prepares a fresh run: the output directory exists, the counts report
// is truncated and no entries are held.
func (b *Builder) Reset() error {
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(b.countsFile, nil, b.mode); err != nil {
		return fmt.Errorf("truncate counts report: %w", err)
	}
	b.entries = b.entries[:0]
	return nil
}

// Add appends entry unless an identical one is already present.
func (b *Builder) Add(entry models.ReconciliationEntry) bool {
	for _, existing := range b.entries {
		if existing.Equal(entry) {
			b.logger.Debugf(providers.TypeReport, "Duplicate entry for %s skipped", entry.PathV4)
			return false
		}
	}
	b.entries = append(b.entries, entry)
	return true
}

func (b *Builder) Entries() []models.ReconciliationEntry {
	out := make([]models.ReconciliationEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// WriteMerged persists the canonical snapshot of a resolution and returns
// the written path. Nothing is written when no side was selected.
func (b *Builder) WriteMerged(res models.Resolution) (string, error) {
	if res.Entry.CanonicalSource == models.SourceNone || res.Canonical == nil {
		return "", nil
	}

	data, err := res.Canonical.Root().MarshalIndent("  ")
	if err != nil {
		return "", fmt.Errorf("encode merged log %s: %w", res.CanonicalPath, err)
	}

	path := filepath.Join(b.outputDir, models.FullLogName(res.CanonicalPath))
	if err := writeFileAtomic(path, data, b.mode); err != nil {
		return "", fmt.Errorf("write merged log: %w", err)
	}
	b.logger.Debugf(providers.TypeReport, "Wrote %s from %s", path, res.Entry.CanonicalSource)
	return path, nil
}

// WriteCounts appends one directory section to the counts report.
func (b *Builder) WriteCounts(counts models.DirectoryCounts) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Directory: %s\n", counts.Directory)
	fmt.Fprintf(&buf, "Number of log4 files: %d\n", counts.V4Files)
	fmt.Fprintf(&buf, "Number of log5 files: %d\n", counts.V5Files)
	buf.WriteString("\nLog4 files without corresponding log5 files:\n")
	for _, path := range counts.MissingV5 {
		buf.WriteString(path + "\n")
	}
	if len(counts.Overflow) > 0 {
		buf.WriteString("\nUnresolved extra log5 files:\n")
		for _, path := range counts.Overflow {
			buf.WriteString(path + "\n")
		}
	}

	if err := appendFile(b.countsFile, buf.Bytes(), b.mode); err != nil {
		return fmt.Errorf("write counts report: %w", err)
	}
	return nil
}

// Flush writes the comparison report with every entry collected so far.
func (b *Builder) Flush() error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, entry := range b.entries {
		if err := w.Write(entry.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode comparison report: %w", err)
	}

	if err := writeFileAtomic(b.comparisonCSV, buf.Bytes(), b.mode); err != nil {
		return fmt.Errorf("write comparison report: %w", err)
	}
	b.logger.Infof(providers.TypeReport, "Comparison report %s written with %d entries", b.comparisonCSV, len(b.entries))
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const ManifestVersion = 1

// RunManifest is the persisted record of a finished reconciliation run.
type RunManifest struct {
	Version     int                   `json:"version"`
	RunID       string                `json:"run_id"`
	StartedAt   time.Time             `json:"started_at"`
	FinishedAt  time.Time             `json:"finished_at"`
	Directories []DirectoryCounts     `json:"directories"`
	Entries     []ReconciliationEntry `json:"entries"`
}

func NewRunManifest(startedAt time.Time) *RunManifest {
	return &RunManifest{
		Version:     ManifestVersion,
		RunID:       uuid.NewString(),
		StartedAt:   startedAt,
		Directories: make([]DirectoryCounts, 0),
		Entries:     make([]ReconciliationEntry, 0),
	}
}

type ManifestSummary struct {
	Directories  int
	V4Files      int
	V5Files      int
	MissingV5    int
	Overflow     int
	ByDivergence map[Divergence]int
	BySource     map[CanonicalSource]int
}

func (m *RunManifest) Summary() ManifestSummary {
	s := ManifestSummary{
		Directories:  len(m.Directories),
		ByDivergence: make(map[Divergence]int),
		BySource:     make(map[CanonicalSource]int),
	}
	for _, d := range m.Directories {
		s.V4Files += d.V4Files
		s.V5Files += d.V5Files
		s.MissingV5 += len(d.MissingV5)
		s.Overflow += len(d.Overflow)
	}
	for _, e := range m.Entries {
		s.ByDivergence[e.Divergence]++
		s.BySource[e.CanonicalSource]++
	}
	return s
}

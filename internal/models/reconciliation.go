package models

import (
	"time"

	"github.com/spf13/cast"
)

type Divergence string

const (
	DivergenceSame      Divergence = "Same"
	DivergenceDifferent Divergence = "Different"
	DivergenceMissing   Divergence = "Missing"
)

type CanonicalSource string

const (
	SourceV4   CanonicalSource = "v4"
	SourceV5   CanonicalSource = "v5"
	SourceNone CanonicalSource = "none"
)

// NullField stands in for an absent path or timestamp in the report.
const NullField = "null"

// MatchedPair is a v4 snapshot and the v5 snapshot chosen for it, if any.
type MatchedPair struct {
	RoomID      int
	TimestampV4 time.Time
	PathV4      string
	PathV5      string
	Delay       *time.Duration
}

func (p MatchedPair) HasV5() bool {
	return p.PathV5 != ""
}

// DirectoryCounts is the per-directory section of the counts report.
type DirectoryCounts struct {
	Directory string   `json:"directory"`
	V4Files   int      `json:"v4_files"`
	V5Files   int      `json:"v5_files"`
	MissingV5 []string `json:"missing_v5"`
	Overflow  []string `json:"overflow,omitempty"`
}

// MatchResult is everything the matcher learned about one input directory.
type MatchResult struct {
	Pairs  []MatchedPair
	Counts DirectoryCounts
}

// ReconciliationEntry is one row of the comparison report. Entries are
// compared as plain values for de-duplication.
type ReconciliationEntry struct {
	RoomID          int             `json:"room_id"`
	Timestamp       time.Time       `json:"timestamp"`
	PathV4          string          `json:"path_v4"`
	PathV5          string          `json:"path_v5"`
	Divergence      Divergence      `json:"divergence"`
	CanonicalSource CanonicalSource `json:"canonical_source"`
}

func (e ReconciliationEntry) Equal(other ReconciliationEntry) bool {
	return e.RoomID == other.RoomID &&
		e.Timestamp.Equal(other.Timestamp) &&
		e.PathV4 == other.PathV4 &&
		e.PathV5 == other.PathV5 &&
		e.Divergence == other.Divergence &&
		e.CanonicalSource == other.CanonicalSource
}

// Row renders the entry as the report columns.
func (e ReconciliationEntry) Row() []string {
	ts := NullField
	if !e.Timestamp.IsZero() {
		ts = e.Timestamp.Format(ReportTimestampLayout)
	}
	v4 := e.PathV4
	if v4 == "" {
		v4 = NullField
	}
	v5 := e.PathV5
	if v5 == "" {
		v5 = NullField
	}
	return []string{
		cast.ToString(e.RoomID),
		ts,
		v4,
		v5,
		string(e.Divergence),
		string(e.CanonicalSource),
	}
}

// Resolution is the resolver's verdict for a pair. Canonical is nil when
// neither side could be selected.
type Resolution struct {
	Entry         ReconciliationEntry
	Canonical     *SessionRecord
	CanonicalPath string
}

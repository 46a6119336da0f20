package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// Counts is a point-in-time tally of canonical rows and pending batches.
type Counts struct {
	MasterTimelineRows       int
	VerifiedPeopleRows       int
	UnverifiedEventsRows     int
	UnverifiedPeopleRows     int
	UnverifiedConnectionsRows int
	PendingEventBatches      int
	PendingPeopleBatches     int
	PendingLeadBatches       int
}

// CollectCounts tallies the datasets under the layout. Missing files and
// directories count as zero.
func CollectCounts(layout timeline.Layout) (Counts, error) {
	var c Counts
	var err error

	if c.MasterTimelineRows, err = countRows(layout.CanonicalPath(timeline.Events)); err != nil {
		return c, err
	}
	if c.VerifiedPeopleRows, err = countRows(layout.CanonicalPath(timeline.People)); err != nil {
		return c, err
	}
	if c.UnverifiedEventsRows, err = countRows(layout.CanonicalPath(timeline.UnverifiedEvents)); err != nil {
		return c, err
	}
	if c.UnverifiedPeopleRows, err = countRows(layout.CanonicalPath(timeline.UnverifiedPeople)); err != nil {
		return c, err
	}
	if c.UnverifiedConnectionsRows, err = countRows(layout.CanonicalPath(timeline.UnverifiedConnections)); err != nil {
		return c, err
	}

	if c.PendingEventBatches, err = countBatches(layout.PendingEventsDir()); err != nil {
		return c, err
	}
	if c.PendingPeopleBatches, err = countBatches(layout.PendingPeopleDir()); err != nil {
		return c, err
	}
	if c.PendingLeadBatches, err = countBatches(layout.PendingLeadsDir()); err != nil {
		return c, err
	}
	return c, nil
}

func countRows(path string) (int, error) {
	rows, _, err := timeline.ReadCSVFile(path)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func countBatches(dir string) (int, error) {
	paths, err := timeline.DiscoverBatches(dir)
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}

// Snapshot is one changelog entry: a version, its commit context, and the
// dataset counts at that commit.
type Snapshot struct {
	Version   string
	Timestamp string // UTC, constants.SnapshotTimeFormat
	Git       GitContext
	Counts    Counts
}

var snapshotColumns = []string{
	"version", "ts_utc", "branch", "commit_hash", "commit_short",
	"commit_subject", "commit_author", "commit_date_iso",
	"workflow", "run_id", "actor",
	"master_timeline_rows", "verified_people_rows",
	"unverified_events_rows", "unverified_people_rows", "unverified_connections_rows",
	"pending_event_batches", "pending_people_batches", "pending_unverified_batches",
}

func (s Snapshot) row() timeline.Row {
	return timeline.Row{
		"version":                     s.Version,
		"ts_utc":                      s.Timestamp,
		"branch":                      s.Git.Branch,
		"commit_hash":                 s.Git.CommitHash,
		"commit_short":                s.Git.CommitShort,
		"commit_subject":              s.Git.CommitSubject,
		"commit_author":               s.Git.CommitAuthor,
		"commit_date_iso":             s.Git.CommitDate,
		"workflow":                    s.Git.Workflow,
		"run_id":                      s.Git.RunID,
		"actor":                       s.Git.Actor,
		"master_timeline_rows":        strconv.Itoa(s.Counts.MasterTimelineRows),
		"verified_people_rows":        strconv.Itoa(s.Counts.VerifiedPeopleRows),
		"unverified_events_rows":      strconv.Itoa(s.Counts.UnverifiedEventsRows),
		"unverified_people_rows":      strconv.Itoa(s.Counts.UnverifiedPeopleRows),
		"unverified_connections_rows": strconv.Itoa(s.Counts.UnverifiedConnectionsRows),
		"pending_event_batches":       strconv.Itoa(s.Counts.PendingEventBatches),
		"pending_people_batches":      strconv.Itoa(s.Counts.PendingPeopleBatches),
		"pending_unverified_batches":  strconv.Itoa(s.Counts.PendingLeadBatches),
	}
}

// PrependSnapshot inserts the snapshot as the newest row of the machine-
// readable changelog CSV. A snapshot whose commit hash is already recorded
// is skipped, which makes re-runs on the same commit no-ops. Returns whether
// the file was written.
func PrependSnapshot(path string, s Snapshot) (bool, error) {
	existing, _, err := timeline.ReadCSVFile(path)
	if err != nil {
		return false, err
	}
	for _, row := range existing {
		if s.Git.CommitHash != "" && row.Get("commit_hash") == s.Git.CommitHash {
			return false, nil
		}
	}

	rows := append([]timeline.Row{s.row()}, existing...)
	data, err := timeline.EncodeCSV(snapshotColumns, rows)
	if err != nil {
		return false, err
	}
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return false, errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return false, errors.WrapIO("write", path, err)
	}
	return true, nil
}

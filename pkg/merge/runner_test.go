package merge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

const eventBatchHeader = "date,location,event,participants_on_record,source_urls,notes\n"

func testClock() func() utc.Time {
	return func() utc.Time {
		return utc.Time{Time: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func familyResult(t *testing.T, result *Result, family string) FamilyResult {
	t.Helper()
	for _, fr := range result.Families {
		if fr.Family == family {
			return fr
		}
	}
	t.Fatalf("no result for family %s", family)
	return FamilyResult{}
}

func TestRunnerMergesAndArchives(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	writeFile(t, filepath.Join(layout.PendingEventsDir(), "batch_001.csv"),
		eventBatchHeader+
			"2024-01-03,Loc,Ev A,,,\n"+
			"2024-01,Loc,Ev B,,,\n")

	runner := NewRunner(layout, WithClock(testClock()))
	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	fr := familyResult(t, result, "events")
	assert.Equal(t, 2, fr.Rows)
	assert.Equal(t, 2, fr.Added)
	assert.True(t, fr.Changed)
	require.Len(t, fr.Archived, 1)
	assert.Equal(t, "batch_001.processed_20240601T120000Z.csv", filepath.Base(fr.Archived[0]))

	// Ev B (2024-01, day defaults to 1) sorts before Ev A (2024-01-03).
	rows, _, err := timeline.ReadCSVFile(layout.CanonicalPath(timeline.Events))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ev B", rows[0].Get("event"))
	assert.Equal(t, "Ev A", rows[1].Get("event"))
	assert.Equal(t, "pending", rows[0].Get("deep_search_event"))

	// The batch is gone from its original location.
	pending, err := timeline.DiscoverBatches(layout.PendingEventsDir())
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Equal(t, StateIdle, runner.State())
}

func TestRunnerIdempotentSecondRun(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	writeFile(t, filepath.Join(layout.PendingEventsDir(), "batch_001.csv"),
		eventBatchHeader+"2024-01-03,Loc,Ev A,,,\n")

	runner := NewRunner(layout, WithClock(testClock()))
	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	before, err := os.ReadFile(layout.CanonicalPath(timeline.Events))
	require.NoError(t, err)

	// Second run: no batches left, nothing rewritten, nothing archived.
	result, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Archived())
	assert.False(t, result.Summary.HasChanges())

	after, err := os.ReadFile(layout.CanonicalPath(timeline.Events))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRunnerDuplicateInLaterBatchIgnoredButArchived(t *testing.T) {
	// A corrected duplicate never overrides the canonical row, and its
	// batch is still consumed.
	layout := timeline.DefaultLayout(t.TempDir())
	writeFile(t, layout.CanonicalPath(timeline.Events),
		eventBatchHeader+"2024-01-03,Loc,Ev A,,,x\n")
	writeFile(t, filepath.Join(layout.PendingEventsDir(), "batch_001.csv"),
		eventBatchHeader+"2024-01-03,Loc,Ev A,,,y\n")

	result, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.NoError(t, err)

	fr := familyResult(t, result, "events")
	assert.Equal(t, 0, fr.Added)
	assert.Len(t, fr.Archived, 1)

	rows, _, err := timeline.ReadCSVFile(layout.CanonicalPath(timeline.Events))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0].Get("notes"))
}

func TestRunnerPartialProgressOnLaterSchemaError(t *testing.T) {
	// Events complete and archive; a malformed people batch then aborts the
	// run. The events archive is not rolled back and the people batch stays
	// in place untouched.
	layout := timeline.DefaultLayout(t.TempDir())
	writeFile(t, filepath.Join(layout.PendingEventsDir(), "batch_001.csv"),
		eventBatchHeader+"2024-01-03,Loc,Ev A,,,\n")
	peopleBatch := filepath.Join(layout.PendingPeopleDir(), "batch_001.csv")
	writeFile(t, peopleBatch, "date,location\n2024,Loc\n")

	result, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))

	fr := familyResult(t, result, "events")
	assert.Len(t, fr.Archived, 1)
	assert.FileExists(t, layout.CanonicalPath(timeline.Events))

	assert.FileExists(t, peopleBatch)

	// The people canonical was initialized but carries none of the batch data.
	rows, _, err := timeline.ReadCSVFile(layout.CanonicalPath(timeline.People))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunnerCanonicalSchemaErrorStopsBeforeArchiving(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	// Canonical events file with a corrupted header.
	writeFile(t, layout.CanonicalPath(timeline.Events), "date,location\n2024,Loc\n")
	batch := filepath.Join(layout.PendingEventsDir(), "batch_001.csv")
	writeFile(t, batch, eventBatchHeader+"2024-01-03,Loc,Ev A,,,\n")

	_, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.FileExists(t, batch, "batch must remain when its family's run fails")
}

func TestRunnerLeadDispatch(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	writeFile(t, filepath.Join(layout.PendingLeadsDir(), "leads_001.csv"),
		"type,date,location,event,person,possible_event_date,alleged_association,entity_a,entity_b,connection_type,primary_source,secondary_source,source,confidence,notes,next_step\n"+
			"event,2024-02,Loc,Ev L,,,,,,,src1,src2,,low,,check\n"+
			"person,,Loc,,P. Name,2024,assoc,,,,,,src,medium,,verify\n"+
			"connection,,,,,,,X,Y,financial,,,src,high,,map\n"+
			"ghost,2024,Loc,Ev G,,,,,,,,,,,,\n")

	result, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, familyResult(t, result, "unverified_events").Rows)
	assert.Equal(t, 1, familyResult(t, result, "unverified_people").Rows)
	assert.Equal(t, 1, familyResult(t, result, "unverified_connections").Rows)

	// The ghost row appears nowhere and is reported on the diagnostics channel.
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonUnknownLeadType, result.Skipped[0].Reason)
	assert.Equal(t, 4, result.Skipped[0].Line)

	rows, _, err := timeline.ReadCSVFile(layout.CanonicalPath(timeline.UnverifiedConnections))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X", rows[0].Get("entity_a"))

	// One lead batch file, archived exactly once.
	assert.Len(t, result.Archived(), 1)
}

func TestRunnerLeadBatchMissingDiscriminatorIsFatal(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	batch := filepath.Join(layout.PendingLeadsDir(), "leads_001.csv")
	writeFile(t, batch, "date,location,event\n2024,Loc,Ev\n")

	_, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.FileExists(t, batch)
}

func TestRunnerDryRun(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	batch := filepath.Join(layout.PendingEventsDir(), "batch_001.csv")
	writeFile(t, batch, eventBatchHeader+"2024-01-03,Loc,Ev A,,,\n")

	result, err := NewRunner(layout, WithClock(testClock()), WithDryRun()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, familyResult(t, result, "events").Added)
	assert.Empty(t, result.Archived())
	assert.FileExists(t, batch)
	assert.NoFileExists(t, layout.CanonicalPath(timeline.Events))
}

func TestRunnerNoPendingIsNoOp(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	result, err := NewRunner(layout, WithClock(testClock())).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Archived())
	for _, fr := range result.Families {
		assert.False(t, fr.Changed)
		assert.Zero(t, fr.Rows)
	}
	assert.NoFileExists(t, layout.Archive())

	// First run still creates empty, headers-only canonical datasets.
	for _, f := range timeline.Families {
		data, err := os.ReadFile(layout.CanonicalPath(f))
		require.NoError(t, err)
		expected, err := timeline.EncodeCSV(f.Columns, nil)
		require.NoError(t, err)
		assert.Equal(t, string(expected), string(data), f.Name)
	}
}

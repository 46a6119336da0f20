package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectCountsEmptyLayout(t *testing.T) {
	counts, err := CollectCounts(timeline.DefaultLayout(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

func TestCollectCounts(t *testing.T) {
	layout := timeline.DefaultLayout(t.TempDir())
	writeTestFile(t, layout.CanonicalPath(timeline.Events),
		"date,location,event,participants_on_record,source_urls,notes\n"+
			"2024-01,L,A,,,\n2024-02,L,B,,,\n")
	writeTestFile(t, filepath.Join(layout.PendingEventsDir(), "batch_001.csv"), "date\n2024\n")
	writeTestFile(t, filepath.Join(layout.PendingLeadsDir(), "leads_001.csv"), "type\nevent\n")
	writeTestFile(t, filepath.Join(layout.PendingLeadsDir(), "leads_002.csv"), "type\nperson\n")

	counts, err := CollectCounts(layout)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.MasterTimelineRows)
	assert.Equal(t, 1, counts.PendingEventBatches)
	assert.Equal(t, 0, counts.PendingPeopleBatches)
	assert.Equal(t, 2, counts.PendingLeadBatches)
}

func TestPrependSnapshotNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG_batches.csv")

	first := Snapshot{Version: "v1.0.1", Timestamp: "2024-06-01T00:00:00Z", Git: GitContext{CommitHash: "aaa"}}
	written, err := PrependSnapshot(path, first)
	require.NoError(t, err)
	assert.True(t, written)

	second := Snapshot{Version: "v1.0.2", Timestamp: "2024-06-02T00:00:00Z", Git: GitContext{CommitHash: "bbb"}}
	written, err = PrependSnapshot(path, second)
	require.NoError(t, err)
	assert.True(t, written)

	rows, columns, err := timeline.ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, snapshotColumns, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "v1.0.2", rows[0].Get("version"))
	assert.Equal(t, "v1.0.1", rows[1].Get("version"))
}

func TestPrependSnapshotSkipsRecordedCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG_batches.csv")
	snap := Snapshot{Version: "v1.0.1", Git: GitContext{CommitHash: "aaa"}}

	written, err := PrependSnapshot(path, snap)
	require.NoError(t, err)
	require.True(t, written)

	// The same commit again, even with different counts, is a no-op.
	snap.Counts.MasterTimelineRows = 99
	written, err = PrependSnapshot(path, snap)
	require.NoError(t, err)
	assert.False(t, written)

	rows, _, err := timeline.ReadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

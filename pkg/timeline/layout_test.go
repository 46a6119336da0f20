package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayoutPaths(t *testing.T) {
	l := DefaultLayout("data")

	assert.Equal(t, filepath.Join("data", "master", "master_timeline.csv"), l.CanonicalPath(Events))
	assert.Equal(t, filepath.Join("data", "master", "verified_people_events.csv"), l.CanonicalPath(People))
	assert.Equal(t, filepath.Join("data", "unverified", "unverified_events.csv"), l.CanonicalPath(UnverifiedEvents))
	assert.Equal(t, filepath.Join("data", "unverified", "unverified_connections.csv"), l.CanonicalPath(UnverifiedConnections))
	assert.Equal(t, filepath.Join("data", "pending", "unverified"), l.PendingLeadsDir())
	assert.Equal(t, filepath.Join("data", "archive"), l.Archive())
}

func TestLoadLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronicle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archive_dir: history\n"), 0o644))

	l, err := LoadLayout(path, "data")
	require.NoError(t, err)

	assert.Equal(t, "data", l.Root)
	assert.Equal(t, filepath.Join("data", "history"), l.Archive())
	// Unset fields keep their defaults.
	assert.Equal(t, filepath.Join("data", "master", "master_timeline.csv"), l.CanonicalPath(Events))
}

func TestLoadLayoutRootOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronicle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: /srv/chronicle\n"), 0o644))

	l, err := LoadLayout(path, "data")
	require.NoError(t, err)
	assert.Equal(t, "/srv/chronicle", l.Root)
}

func TestDiscoverBatchesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_second.csv", "a_first.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	got, err := DiscoverBatches(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a_first.csv", filepath.Base(got[0]))
	assert.Equal(t, "b_second.csv", filepath.Base(got[1]))
}

func TestDiscoverBatchesMissingDir(t *testing.T) {
	got, err := DiscoverBatches(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMigrateLegacyLayout(t *testing.T) {
	root := t.TempDir()
	legacy := map[string]string{
		"master_timeline.csv":        "date,location,event\n",
		"pending_updates_001.csv":    "date,location,event\n",
		"pending_people_001.csv":     "date,location,event,person\n",
		"pending_unverified_001.csv": "type\n",
		"unverified_events.csv":      "date\n",
	}
	for name, content := range legacy {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}

	l := DefaultLayout(root)
	moves, err := l.Migrate()
	require.NoError(t, err)
	assert.Len(t, moves, len(legacy))

	assert.FileExists(t, l.CanonicalPath(Events))
	assert.FileExists(t, filepath.Join(l.PendingEventsDir(), "pending_updates_001.csv"))
	assert.FileExists(t, filepath.Join(l.PendingPeopleDir(), "pending_people_001.csv"))
	assert.FileExists(t, filepath.Join(l.PendingLeadsDir(), "pending_unverified_001.csv"))
	assert.NoFileExists(t, filepath.Join(root, "master_timeline.csv"))

	// Re-running is a no-op.
	moves, err = l.Migrate()
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestCheckDates(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-03"},
		{"date": ""},
		{"date": "sometime in July"},
		{"date": "2019-07-20–2019-08-20"},
	}
	warnings := Events.CheckDates("master_timeline.csv", rows)

	require.Len(t, warnings, 2)
	assert.Equal(t, 2, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, "empty")
	assert.Equal(t, 3, warnings[1].Line)
	assert.Contains(t, warnings[1].Message, "non-standard")
}

func TestCheckDatesNoDateColumn(t *testing.T) {
	assert.Nil(t, UnverifiedConnections.CheckDates("x.csv", []Row{{"entity_a": "A"}}))
}

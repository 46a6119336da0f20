package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-archive/chronicle/pkg/errors"
)

func writeDataset(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestValidateEmptyLayoutPasses(t *testing.T) {
	report, err := Validate(DefaultLayout(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, report.Datasets, len(Families))
	assert.Zero(t, report.WarningCount())
}

func TestValidateReportsDateWarnings(t *testing.T) {
	layout := DefaultLayout(t.TempDir())
	writeDataset(t, layout.CanonicalPath(Events),
		"date,location,event,participants_on_record,source_urls,notes,deep_search_event,deep_search_notes\n"+
			"2024-01-03,L,Good,,,,pending,\n"+
			"sometime 2019,L,Vague,,,,pending,\n"+
			",L,Missing,,,,pending,\n")

	report, err := Validate(layout)
	require.NoError(t, err)
	assert.Equal(t, 2, report.WarningCount())

	events := report.Datasets[0]
	assert.Equal(t, "events", events.Family)
	assert.Equal(t, 3, events.Rows)
	require.Len(t, events.Warnings, 2)
	assert.Equal(t, 2, events.Warnings[0].Line)
	assert.Contains(t, events.Warnings[0].Message, "non-standard date")
	assert.Equal(t, 3, events.Warnings[1].Line)
	assert.Contains(t, events.Warnings[1].Message, "empty date")
}

func TestValidateRequiresFullSchema(t *testing.T) {
	layout := DefaultLayout(t.TempDir())
	// Misses the deep-search pair, which merging tolerates but the
	// standalone audit does not.
	writeDataset(t, layout.CanonicalPath(Events),
		"date,location,event,participants_on_record,source_urls,notes\n"+
			"2024-01-03,L,E,,,\n")

	_, err := Validate(layout)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))
}

func TestValidateHeaderOnlyFileChecked(t *testing.T) {
	layout := DefaultLayout(t.TempDir())
	writeDataset(t, layout.CanonicalPath(People), "date,location\n")

	_, err := Validate(layout)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))
}

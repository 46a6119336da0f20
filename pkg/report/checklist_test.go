package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

const checklistMasterHeader = "date,location,event,participants_on_record,source_urls,notes\n"

func TestChecklistFlagsPlaceholderRows(t *testing.T) {
	root := t.TempDir()
	layout := timeline.DefaultLayout(filepath.Join(root, "data"))
	writeTestFile(t, layout.CanonicalPath(timeline.Events),
		checklistMasterHeader+
			`2024-01-10,Washington,C-SPAN Hearing Coverage,,https://www.c-span.org/,program ID TBD`+"\n"+
			`2024-02-01,SDNY Docket,Unsealing Order ECF 42,,https://www.courtlistener.com/docket/123/,`+"\n"+
			`2024-03-01,New York,Reuters photo set,,https://www.reuters.com/world/us/,asset TBD`+"\n"+
			`2024-04-01,Berlin,Ordinary verified event,,https://example.org/article,`+"\n")

	written, err := NewChecklist(layout, root).Build()
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filepath.Join(root, "CHECKLIST.md"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "C-SPAN Hearing Coverage")
	assert.Contains(t, content, "Unsealing Order ECF 42")
	assert.Contains(t, content, "Reuters photo set")
	assert.NotContains(t, content, "Ordinary verified event")

	// The docket row has a CourtListener link and no TBD, so it is checked off.
	docketLine := lineContaining(t, content, "Unsealing Order ECF 42")
	assert.Contains(t, docketLine, "✅")
	assert.Contains(t, docketLine, "42")
}

func TestChecklistResolvedRowsDisappear(t *testing.T) {
	root := t.TempDir()
	layout := timeline.DefaultLayout(filepath.Join(root, "data"))
	writeTestFile(t, layout.CanonicalPath(timeline.Events),
		checklistMasterHeader+
			`2024-01-10,Washington,C-SPAN Hearing Coverage,,https://www.c-span.org/,program ID TBD`+"\n")

	_, err := NewChecklist(layout, root).Build()
	require.NoError(t, err)

	// The row gains a direct clip link and loses its TBD note.
	writeTestFile(t, layout.CanonicalPath(timeline.Events),
		checklistMasterHeader+
			`2024-01-10,Washington,C-SPAN Hearing Coverage,,https://www.c-span.org/video/?1234,`+"\n")

	written, err := NewChecklist(layout, root).Build()
	require.NoError(t, err)
	require.True(t, written)

	data, err := os.ReadFile(filepath.Join(root, "CHECKLIST.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "C-SPAN Hearing Coverage")
	assert.Contains(t, string(data), "All items resolved.")
}

func TestChecklistWriteIfChanged(t *testing.T) {
	root := t.TempDir()
	layout := timeline.DefaultLayout(filepath.Join(root, "data"))

	written, err := NewChecklist(layout, root).Build()
	require.NoError(t, err)
	assert.True(t, written)

	written, err = NewChecklist(layout, root).Build()
	require.NoError(t, err)
	assert.False(t, written)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Unverified Connections", DisplayName("unverified_connections"))
	assert.Equal(t, "Events", DisplayName("events"))
}

func lineContaining(t *testing.T, content, substr string) string {
	t.Helper()
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line containing %q", substr)
	return ""
}

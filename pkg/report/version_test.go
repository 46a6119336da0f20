package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"v1.2.3", Version{1, 2, 3}},
		{"1.2.3", Version{1, 2, 3}},
		{" v10.0.42 \n", Version{10, 0, 42}},
		{"v1.2.3-rc1", Version{1, 2, 3}},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseVersion("not a version")
	assert.Error(t, err)
}

func TestVersionBump(t *testing.T) {
	v := Version{1, 2, 3}
	assert.Equal(t, "v2.0.0", v.Bump(BumpMajor).String())
	assert.Equal(t, "v1.3.0", v.Bump(BumpMinor).String())
	assert.Equal(t, "v1.2.4", v.Bump(BumpPatch).String())
}

func TestBumpRulesClassify(t *testing.T) {
	rules := DefaultBumpRules()

	assert.Equal(t, BumpMajor, rules.Classify([]string{".github/workflows/update.yml"}))
	assert.Equal(t, BumpMajor, rules.Classify([]string{"README.md", "pkg/merge/runner.go"}))
	assert.Equal(t, BumpMinor, rules.Classify([]string{"pkg/report/badge.go"}))
	assert.Equal(t, BumpMinor, rules.Classify([]string{"data/sources/registry.csv"}))
	assert.Equal(t, BumpPatch, rules.Classify([]string{"data/master/master_timeline.csv", "README.md"}))
	assert.Equal(t, BumpPatch, rules.Classify(nil))
}

func TestVersionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary", "VERSION")

	// Missing file falls back to the default.
	assert.Equal(t, DefaultVersion, ReadVersionFile(path))

	require.NoError(t, WriteVersionFile(path, Version{2, 1, 0}))
	assert.Equal(t, Version{2, 1, 0}, ReadVersionFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2.1.0\n", string(data))

	// Garbage also falls back to the default.
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	assert.Equal(t, DefaultVersion, ReadVersionFile(path))
}

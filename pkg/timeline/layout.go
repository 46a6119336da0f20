package timeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
)

// Layout locates every dataset of a chronicle data directory. It is built
// once by the caller and passed into each component explicitly; no component
// resolves paths from process-wide state.
type Layout struct {
	// Root is the data directory all other paths are relative to.
	Root string `yaml:"root"`

	// MasterDir holds the canonical events and people datasets.
	MasterDir string `yaml:"master_dir"`

	// UnverifiedDir holds the three canonical lead datasets.
	UnverifiedDir string `yaml:"unverified_dir"`

	// PendingDir holds per-family batch drop directories.
	PendingDir string `yaml:"pending_dir"`

	// ArchiveDir receives consumed batch files.
	ArchiveDir string `yaml:"archive_dir"`

	// SummaryDir holds changelog snapshots and agent summaries.
	SummaryDir string `yaml:"summary_dir"`

	// SourcesDir holds the source whitelist and related reference data.
	SourcesDir string `yaml:"sources_dir"`
}

// DefaultLayout returns the standard layout rooted at the given data directory.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:          root,
		MasterDir:     "master",
		UnverifiedDir: "unverified",
		PendingDir:    "pending",
		ArchiveDir:    "archive",
		SummaryDir:    "summary",
		SourcesDir:    "sources",
	}
}

// LoadLayout reads a layout from a YAML file, filling unset fields with
// defaults. Root in the file overrides the argument when present.
func LoadLayout(path, root string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.WrapIO("read", path, err)
	}

	layout := DefaultLayout(root)
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, errors.WrapParse("yaml", path, err)
	}
	if layout.Root == "" {
		layout.Root = root
	}
	return layout, nil
}

// CanonicalPath returns the canonical dataset file for a family.
func (l Layout) CanonicalPath(f Family) string {
	switch f.Name {
	case Events.Name:
		return filepath.Join(l.Root, l.MasterDir, "master_timeline.csv")
	case People.Name:
		return filepath.Join(l.Root, l.MasterDir, "verified_people_events.csv")
	default:
		return filepath.Join(l.Root, l.UnverifiedDir, f.Name+".csv")
	}
}

// PendingEventsDir returns the batch drop directory for event batches.
func (l Layout) PendingEventsDir() string {
	return filepath.Join(l.Root, l.PendingDir, "events")
}

// PendingPeopleDir returns the batch drop directory for people batches.
func (l Layout) PendingPeopleDir() string {
	return filepath.Join(l.Root, l.PendingDir, "people")
}

// PendingLeadsDir returns the batch drop directory for discriminated lead batches.
func (l Layout) PendingLeadsDir() string {
	return filepath.Join(l.Root, l.PendingDir, "unverified")
}

// Archive returns the archive directory for consumed batches.
func (l Layout) Archive() string {
	return filepath.Join(l.Root, l.ArchiveDir)
}

// Summary returns the summary directory.
func (l Layout) Summary() string {
	return filepath.Join(l.Root, l.SummaryDir)
}

// Sources returns the sources directory.
func (l Layout) Sources() string {
	return filepath.Join(l.Root, l.SourcesDir)
}

// DiscoverBatches lists pending batch files in a drop directory, sorted
// lexicographically by filename. File order is merge order. A missing
// directory means no pending batches.
func DiscoverBatches(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, constants.BatchGlob))
	if err != nil {
		return nil, errors.WrapIO("glob", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

package timeline

import (
	"os"
	"path/filepath"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
)

// Move records one file relocation performed by a layout migration.
type Move struct {
	From string
	To   string
}

// legacyBatchGlobs maps flat-layout batch filename patterns to the pending
// subdirectory they migrate into.
var legacyBatchGlobs = []struct {
	glob string
	dir  string
}{
	{"pending_updates_*.csv", "events"},
	{"pending_people_*.csv", "people"},
	{"pending_unverified_*.csv", "unverified"},
}

// legacyFiles maps flat-layout filenames to their destination inside the
// standard layout, relative to the layout root.
var legacyFiles = []struct {
	name string
	dir  string
}{
	{"master_timeline.csv", "master"},
	{"verified_people_events.csv", "master"},
	{"unverified_events.csv", "unverified"},
	{"unverified_people.csv", "unverified"},
	{"unverified_connections.csv", "unverified"},
	{"sources_whitelist.csv", "sources"},
	{"CHANGELOG_batches.csv", "summary"},
}

// EnsureDirs creates every directory of the layout.
func (l Layout) EnsureDirs() error {
	dirs := []string{
		filepath.Join(l.Root, l.MasterDir),
		filepath.Join(l.Root, l.UnverifiedDir),
		l.PendingEventsDir(),
		l.PendingPeopleDir(),
		l.PendingLeadsDir(),
		l.Archive(),
		l.Summary(),
		l.Sources(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	return nil
}

// Migrate relocates a flat legacy data directory into the standard layout.
// Safe to re-run: files already in place are left alone, and nothing is
// copied, only renamed. Returns the moves performed.
func (l Layout) Migrate() ([]Move, error) {
	if err := l.EnsureDirs(); err != nil {
		return nil, err
	}

	var moves []Move
	move := func(from, to string) error {
		if _, err := os.Stat(from); err != nil {
			return nil // nothing to migrate
		}
		if err := os.Rename(from, to); err != nil {
			return errors.WrapIO("rename", from, err)
		}
		moves = append(moves, Move{From: from, To: to})
		return nil
	}

	for _, f := range legacyFiles {
		from := filepath.Join(l.Root, f.name)
		to := filepath.Join(l.Root, f.dir, f.name)
		if err := move(from, to); err != nil {
			return moves, err
		}
	}

	for _, g := range legacyBatchGlobs {
		matches, err := filepath.Glob(filepath.Join(l.Root, g.glob))
		if err != nil {
			return moves, errors.WrapIO("glob", l.Root, err)
		}
		for _, from := range matches {
			to := filepath.Join(l.Root, l.PendingDir, g.dir, filepath.Base(from))
			if err := move(from, to); err != nil {
				return moves, err
			}
		}
	}

	return moves, nil
}

// Package chronicle is the public entry point for the archive toolchain:
// merging pending batches into the canonical datasets, auditing them, and
// rebuilding the derived artifacts (changelog, checklist, badges).
package chronicle

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/agentstation/utc"

	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/merge"
	"github.com/chronicle-archive/chronicle/pkg/report"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// Chronicle operates one archive repository.
type Chronicle interface {
	// Layout returns the resolved data directory layout.
	Layout() timeline.Layout

	// Merge folds all pending batches into the canonical datasets and
	// archives the consumed batch files.
	Merge(ctx context.Context, opts ...merge.Option) (*merge.Result, error)

	// Validate audits every canonical dataset against its full schema and
	// reports advisory date findings.
	Validate() (*timeline.ValidationReport, error)

	// Status tallies canonical rows and pending batches.
	Status() (report.Counts, error)

	// BuildChangelog records the latest commit in CHANGELOG.md, the
	// snapshot CSV, and the VERSION file.
	BuildChangelog() (*report.ChangelogResult, error)

	// BuildChecklist rebuilds CHECKLIST.md from the verified datasets.
	// Returns whether the file changed.
	BuildChecklist() (bool, error)

	// WriteBadges renders the named badges ("freshness", "version"), or
	// both when none are named, returning the paths that were actually
	// rewritten.
	WriteBadges(names ...string) ([]string, error)

	// Migrate relocates a flat legacy data directory into the standard
	// layout and creates any missing directories.
	Migrate() ([]timeline.Move, error)
}

type chronicle struct {
	config *config
	layout timeline.Layout
}

// New creates a Chronicle for the repository described by the options. With
// no options it expects the standard layout under "./data".
func New(opts ...Option) (Chronicle, error) {
	c := &chronicle{config: defaultConfig()}
	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return nil, err
		}
	}

	if c.config.layout != nil {
		c.layout = *c.config.layout
	} else if c.config.layoutFile != "" {
		layout, err := timeline.LoadLayout(c.config.layoutFile, c.config.dataDir)
		if err != nil {
			return nil, err
		}
		c.layout = layout
	} else {
		c.layout = timeline.DefaultLayout(c.config.dataDir)
	}
	return c, nil
}

func (c *chronicle) Layout() timeline.Layout {
	return c.layout
}

func (c *chronicle) Merge(ctx context.Context, opts ...merge.Option) (*merge.Result, error) {
	runOpts := append([]merge.Option{merge.WithClock(c.config.clock)}, opts...)
	return merge.NewRunner(c.layout, runOpts...).Run(ctx)
}

func (c *chronicle) Validate() (*timeline.ValidationReport, error) {
	return timeline.Validate(c.layout)
}

func (c *chronicle) Status() (report.Counts, error) {
	return report.CollectCounts(c.layout)
}

func (c *chronicle) BuildChangelog() (*report.ChangelogResult, error) {
	git := report.CollectGitContext(c.config.repoRoot)
	changed := report.ChangedFiles(c.config.repoRoot)
	return report.NewChangelog(c.layout, c.config.repoRoot).
		WithClock(c.config.clock).
		Build(git, changed)
}

func (c *chronicle) BuildChecklist() (bool, error) {
	return report.NewChecklist(c.layout, c.config.repoRoot).Build()
}

func (c *chronicle) WriteBadges(names ...string) ([]string, error) {
	if len(names) == 0 {
		names = []string{"freshness", "version"}
	}

	var written []string
	for _, name := range names {
		var badge report.Badge
		switch name {
		case "freshness":
			badge = report.FreshnessBadge(c.layout, c.config.clock())
		case "version":
			badge = report.VersionBadge(c.layout)
		default:
			return written, errors.NewConfigError("chronicle", fmt.Sprintf("unknown badge %q", name), nil)
		}

		path := filepath.Join(c.config.repoRoot, "docs", "badges", name+".svg")
		changed, err := badge.Write(path)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, path)
		}
	}
	return written, nil
}

func (c *chronicle) Migrate() ([]timeline.Move, error) {
	return c.layout.Migrate()
}

var _ Chronicle = (*chronicle)(nil)

// Shared clock type for option wiring.
type clockFunc = func() utc.Time

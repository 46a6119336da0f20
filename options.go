package chronicle

import (
	"github.com/agentstation/utc"

	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// Option is a function that configures a Chronicle instance.
type Option func(*config) error

type config struct {
	dataDir    string
	repoRoot   string
	layoutFile string
	layout     *timeline.Layout
	clock      clockFunc
}

func defaultConfig() *config {
	return &config{
		dataDir:  "data",
		repoRoot: ".",
		clock:    utc.Now,
	}
}

// WithDataDir sets the root of the data directory layout.
func WithDataDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewConfigError("chronicle", "data directory must not be empty", nil)
		}
		c.dataDir = dir
		return nil
	}
}

// WithRepoRoot sets the repository root, where CHANGELOG.md, CHECKLIST.md,
// and docs/badges live and where git commands run.
func WithRepoRoot(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewConfigError("chronicle", "repo root must not be empty", nil)
		}
		c.repoRoot = dir
		return nil
	}
}

// WithLayoutFile loads layout overrides from a YAML file. The data
// directory set by WithDataDir still applies when the file leaves the root
// unset.
func WithLayoutFile(path string) Option {
	return func(c *config) error {
		c.layoutFile = path
		return nil
	}
}

// WithLayout uses a fully resolved layout, bypassing defaults and any
// layout file.
func WithLayout(layout timeline.Layout) Option {
	return func(c *config) error {
		c.layout = &layout
		return nil
	}
}

// WithClock overrides the time source used for archive stamps, changelog
// timestamps, and the freshness badge.
func WithClock(clock clockFunc) Option {
	return func(c *config) error {
		if clock == nil {
			return errors.NewConfigError("chronicle", "clock must not be nil", nil)
		}
		c.clock = clock
		return nil
	}
}

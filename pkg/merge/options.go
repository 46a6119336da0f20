package merge

import (
	"github.com/agentstation/utc"
)

// Options is the configuration for a merge run.
type Options struct {
	dryRun bool
	clock  func() utc.Time
}

// DryRun returns whether the run reports changes without writing or archiving.
func (o *Options) DryRun() bool {
	return o.dryRun
}

// Clock returns the time source used for the archive stamp.
func (o *Options) Clock() func() utc.Time {
	return o.clock
}

// Defaults returns the default merge options.
func Defaults() *Options {
	return &Options{
		clock: utc.Now,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option is a function that configures merge options.
type Option func(*Options)

// WithDryRun merges and reports without touching the filesystem.
func WithDryRun() Option {
	return func(o *Options) {
		o.dryRun = true
	}
}

// WithClock overrides the run's time source.
func WithClock(clock func() utc.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}

package merge

import (
	"context"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/differ"
	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/logging"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// State is the phase the runner is in. Exposed for logging; transitions are
// strictly sequential within a run.
type State string

// Runner states.
const (
	StateIdle       State = "idle"
	StateValidating State = "validating_schemas"
	StateMerging    State = "merging"
	StateWriting    State = "writing"
	StateArchiving  State = "archiving"
)

// FamilyResult reports one family's outcome for a run.
type FamilyResult struct {
	Family      string
	Rows        int      // canonical row count after the run
	Added       int      // rows the run added
	Changed     bool     // whether the canonical file was rewritten
	Archived    []string // archived batch paths
	Diagnostics Diagnostics
}

// Result reports a full merge run.
type Result struct {
	Families []FamilyResult
	Skipped  Diagnostics // lead rows dropped before family dispatch
	Summary  differ.Summary
	Stamp    string // archive timestamp suffix used this run
	DryRun   bool
}

// Archived returns every batch path archived across all families.
func (r *Result) Archived() []string {
	var out []string
	for _, fr := range r.Families {
		out = append(out, fr.Archived...)
	}
	return out
}

// Runner sequences one merge run over the configured layout: events, then
// people, then unverified leads. The canonical write for a family always
// happens before archiving that family's consumed batches; archiving first
// would risk losing an unmerged batch if the write failed.
//
// A SchemaError aborts the run where it occurs. Families that completed
// earlier in the same run keep their writes and archives; this asymmetric
// partial progress is deliberate and is not rolled back.
type Runner struct {
	layout  timeline.Layout
	options *Options
	state   State
}

// NewRunner creates a runner for the given layout.
func NewRunner(layout timeline.Layout, opts ...Option) *Runner {
	return &Runner{
		layout:  layout,
		options: Defaults().Apply(opts...),
		state:   StateIdle,
	}
}

// State returns the runner's current phase.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) setState(ctx context.Context, s State) {
	r.state = s
	logging.Ctx(ctx).Debug().Str("state", string(s)).Msg("Runner state")
}

// Run executes one merge over all record families. Re-invoking with no
// pending batches is a no-op: nothing is rewritten and nothing archived.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	archiver := NewArchiver(r.layout.Archive(), r.options.Clock()())
	result := &Result{
		Stamp:  archiver.Stamp(),
		DryRun: r.options.DryRun(),
	}

	defer r.setState(ctx, StateIdle)

	if err := r.runFamily(ctx, timeline.Events, r.layout.PendingEventsDir(), archiver, result); err != nil {
		return result, err
	}
	if err := r.runFamily(ctx, timeline.People, r.layout.PendingPeopleDir(), archiver, result); err != nil {
		return result, err
	}
	if err := r.runLeads(ctx, archiver, result); err != nil {
		return result, err
	}

	logging.Ctx(ctx).Info().
		Int("families", len(result.Families)).
		Int("added", result.Summary.TotalAdded()).
		Int("archived", len(result.Archived())).
		Bool("dry_run", result.DryRun).
		Msg("Merge run complete")

	return result, nil
}

// runFamily merges one typed family's pending batches into its canonical file.
func (r *Runner) runFamily(ctx context.Context, f timeline.Family, pendingDir string, archiver *Archiver, result *Result) error {
	ctx = logging.WithFamily(ctx, f.Name)
	logger := logging.Ctx(ctx)

	r.setState(ctx, StateValidating)
	canonicalPath := r.layout.CanonicalPath(f)
	canonical, _, err := timeline.ReadCSVFile(canonicalPath)
	if err != nil {
		return errors.NewMergeError(f.Name, canonicalPath, err)
	}
	if err := f.ValidateSchema(canonicalPath, canonical); err != nil {
		return err
	}
	if !r.options.DryRun() {
		if err := EnsureCanonical(canonicalPath, f); err != nil {
			return err
		}
	}

	paths, err := timeline.DiscoverBatches(pendingDir)
	if err != nil {
		return errors.NewMergeError(f.Name, pendingDir, err)
	}
	if len(paths) == 0 {
		logger.Debug().Msg("No pending batches")
		result.Families = append(result.Families, FamilyResult{Family: f.Name, Rows: len(canonical)})
		return nil
	}

	batches := make([]Batch, 0, len(paths))
	for _, path := range paths {
		batch, err := LoadBatch(path)
		if err != nil {
			return errors.NewMergeError(f.Name, path, err)
		}
		batches = append(batches, batch)
	}

	r.setState(ctx, StateMerging)
	merged, diags, err := Merge(f, canonicalPath, canonical, batches)
	if err != nil {
		return err
	}
	diags.LogTo(logger)

	existing := make([]timeline.Row, len(canonical))
	for i, row := range canonical {
		existing[i] = f.Normalize(row)
	}
	changeset := differ.Rows(f, existing, merged)
	result.Summary.Add(changeset)

	fr := FamilyResult{
		Family:      f.Name,
		Rows:        len(merged),
		Added:       len(changeset.Added),
		Diagnostics: diags,
	}

	r.setState(ctx, StateWriting)
	if !r.options.DryRun() {
		fr.Changed, err = WriteCanonical(canonicalPath, f, merged)
		if err != nil {
			return err
		}

		r.setState(ctx, StateArchiving)
		for _, path := range paths {
			dest, err := archiver.Archive(path)
			if err != nil {
				return err
			}
			fr.Archived = append(fr.Archived, dest)
		}
	}

	logger.Info().
		Int("rows", fr.Rows).
		Int("added", fr.Added).
		Bool("changed", fr.Changed).
		Int("batches", len(paths)).
		Msg("Family merged")

	result.Families = append(result.Families, fr)
	return nil
}

// runLeads merges discriminated lead batches into the three unverified
// canonical datasets. Batch files mix variants, so each file is consumed by
// up to three families and archived once, after all three writes succeed.
func (r *Runner) runLeads(ctx context.Context, archiver *Archiver, result *Result) error {
	logger := logging.Ctx(ctx)

	r.setState(ctx, StateValidating)
	canonical := make(map[string][]timeline.Row, len(timeline.LeadFamilies))
	for _, f := range timeline.LeadFamilies {
		path := r.layout.CanonicalPath(f)
		rows, _, err := timeline.ReadCSVFile(path)
		if err != nil {
			return errors.NewMergeError(f.Name, path, err)
		}
		if err := f.ValidateSchema(path, rows); err != nil {
			return err
		}
		if !r.options.DryRun() {
			if err := EnsureCanonical(path, f); err != nil {
				return err
			}
		}
		canonical[f.Name] = rows
	}

	paths, err := timeline.DiscoverBatches(r.layout.PendingLeadsDir())
	if err != nil {
		return errors.NewMergeError("unverified_leads", r.layout.PendingLeadsDir(), err)
	}
	if len(paths) == 0 {
		logger.Debug().Str("family", "unverified_leads").Msg("No pending batches")
		for _, f := range timeline.LeadFamilies {
			result.Families = append(result.Families, FamilyResult{Family: f.Name, Rows: len(canonical[f.Name])})
		}
		return nil
	}

	r.setState(ctx, StateMerging)
	perFamily := make(map[string][]Batch, len(timeline.LeadFamilies))
	for _, path := range paths {
		batch, err := LoadBatch(path)
		if err != nil {
			return errors.NewMergeError("unverified_leads", path, err)
		}
		if len(batch.Rows) == 0 {
			continue
		}
		if _, ok := batch.Rows[0][constants.LeadTypeColumn]; !ok {
			return errors.NewSchemaError(path, "unverified_leads", []string{constants.LeadTypeColumn})
		}

		split, skipped := timeline.SplitLeads(path, batch.Rows)
		for _, sk := range skipped {
			result.Skipped = append(result.Skipped, Diagnostic{
				Family: "unverified_leads",
				File:   sk.File,
				Line:   sk.Line,
				Reason: ReasonUnknownLeadType,
			})
		}
		for _, f := range timeline.LeadFamilies {
			if rows := split[f.Name]; len(rows) > 0 {
				perFamily[f.Name] = append(perFamily[f.Name], Batch{Path: path, Rows: rows})
			}
		}
	}
	result.Skipped.LogTo(logger)

	// Merge and write all three datasets before archiving anything: an
	// archived batch must never carry rows that were not persisted.
	pending := make([]FamilyResult, 0, len(timeline.LeadFamilies))
	for _, f := range timeline.LeadFamilies {
		path := r.layout.CanonicalPath(f)
		merged, diags, err := Merge(f, path, canonical[f.Name], perFamily[f.Name])
		if err != nil {
			return err
		}
		diags.LogTo(logger)

		existing := make([]timeline.Row, len(canonical[f.Name]))
		for i, row := range canonical[f.Name] {
			existing[i] = f.Normalize(row)
		}
		changeset := differ.Rows(f, existing, merged)
		result.Summary.Add(changeset)

		fr := FamilyResult{
			Family:      f.Name,
			Rows:        len(merged),
			Added:       len(changeset.Added),
			Diagnostics: diags,
		}

		r.setState(ctx, StateWriting)
		if !r.options.DryRun() {
			fr.Changed, err = WriteCanonical(path, f, merged)
			if err != nil {
				return err
			}
		}
		pending = append(pending, fr)
	}

	var archived []string
	if !r.options.DryRun() {
		r.setState(ctx, StateArchiving)
		for _, path := range paths {
			dest, err := archiver.Archive(path)
			if err != nil {
				return err
			}
			archived = append(archived, dest)
		}
	}
	// Credit archived files to the first lead family's result; they were
	// consumed jointly.
	if len(pending) > 0 {
		pending[0].Archived = archived
	}

	for _, fr := range pending {
		logger.Info().
			Str("family", fr.Family).
			Int("rows", fr.Rows).
			Int("added", fr.Added).
			Bool("changed", fr.Changed).
			Msg("Family merged")
	}
	result.Families = append(result.Families, pending...)
	return nil
}

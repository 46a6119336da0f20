package report

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentstation/utc"
	md "github.com/nao1215/markdown"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/logging"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

const (
	changelogFile    = "CHANGELOG.md"
	snapshotFile     = "CHANGELOG_batches.csv"
	versionFile      = "VERSION"
	changelogHeading = "# Chronicle Changelog"
	changelogHeader  = changelogHeading + "\n\nAll notable changes are recorded by the automated update workflow.\n\n---\n\n"
)

// Changelog maintains the version file, the human-readable CHANGELOG.md,
// and the machine-readable snapshot CSV for a repository.
type Changelog struct {
	layout   timeline.Layout
	repoRoot string
	rules    BumpRules
	clock    func() utc.Time
}

// ChangelogResult reports one changelog build.
type ChangelogResult struct {
	Version Version
	Kind    BumpKind
	Changed []string
	Updated bool // false when the commit was already recorded
}

// NewChangelog creates a changelog builder rooted at repoRoot, reading
// dataset counts from the layout.
func NewChangelog(layout timeline.Layout, repoRoot string) *Changelog {
	return &Changelog{
		layout:   layout,
		repoRoot: repoRoot,
		rules:    DefaultBumpRules(),
		clock:    utc.Now,
	}
}

// WithRules overrides the version bump rules.
func (c *Changelog) WithRules(rules BumpRules) *Changelog {
	c.rules = rules
	return c
}

// WithClock overrides the time source.
func (c *Changelog) WithClock(clock func() utc.Time) *Changelog {
	c.clock = clock
	return c
}

func (c *Changelog) versionPath() string {
	return filepath.Join(c.layout.Summary(), versionFile)
}

func (c *Changelog) snapshotPath() string {
	return filepath.Join(c.layout.Summary(), snapshotFile)
}

func (c *Changelog) markdownPath() string {
	return filepath.Join(c.repoRoot, changelogFile)
}

// Build classifies the changed paths into a version bump and records a new
// changelog entry for the given commit context. Callers gather the context
// (CollectGitContext/ChangedFiles, or CI metadata directly); a zero context
// still builds, with empty commit fields. Building twice for the same
// commit is a no-op: the snapshot CSV is the record of which commits have
// been seen.
func (c *Changelog) Build(git GitContext, changed []string) (*ChangelogResult, error) {
	kind := c.rules.Classify(changed)
	current := ReadVersionFile(c.versionPath())

	if git.CommitHash != "" && c.commitRecorded(git.CommitHash) {
		logging.Debug().Str("commit", git.CommitShort).Msg("Commit already in changelog")
		return &ChangelogResult{Version: current, Kind: kind, Changed: changed}, nil
	}

	next := current.Bump(kind)
	counts, err := CollectCounts(c.layout)
	if err != nil {
		return nil, err
	}
	if git.CommitDate == "" {
		git.CommitDate = c.clock().Format(constants.SnapshotTimeFormat)
	}
	snap := Snapshot{
		Version:   next.String(),
		Timestamp: c.clock().Format(constants.SnapshotTimeFormat),
		Git:       git,
		Counts:    counts,
	}

	if err := WriteVersionFile(c.versionPath(), next); err != nil {
		return nil, err
	}
	if _, err := PrependSnapshot(c.snapshotPath(), snap); err != nil {
		return nil, err
	}
	if err := c.prependEntry(renderEntry(snap, changed)); err != nil {
		return nil, err
	}

	logging.Info().
		Str("version", next.String()).
		Str("bump", string(kind)).
		Int("changed_files", len(changed)).
		Msg("Changelog updated")

	return &ChangelogResult{Version: next, Kind: kind, Changed: changed, Updated: true}, nil
}

func (c *Changelog) commitRecorded(hash string) bool {
	rows, _, err := timeline.ReadCSVFile(c.snapshotPath())
	if err != nil {
		return false
	}
	for _, row := range rows {
		if row.Get("commit_hash") == hash {
			return true
		}
	}
	return false
}

// prependEntry inserts the entry directly under the file header, newest
// first, creating the file with its header on first use.
func (c *Changelog) prependEntry(entry string) error {
	existing := ""
	if data, err := os.ReadFile(c.markdownPath()); err == nil {
		existing = string(data)
	}

	var content string
	if strings.HasPrefix(existing, changelogHeader) {
		content = changelogHeader + entry + existing[len(changelogHeader):]
	} else {
		content = changelogHeader + entry + existing
	}
	if err := os.WriteFile(c.markdownPath(), []byte(content), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", c.markdownPath(), err)
	}
	return nil
}

func renderEntry(s Snapshot, changed []string) string {
	var sb strings.Builder
	doc := md.NewMarkdown(&sb)

	date := s.Git.CommitDate
	if len(date) > 10 {
		date = date[:10]
	}
	doc.H2(s.Version + " - " + date).
		PlainText(md.Bold("Commit:") + " " + md.Code(s.Git.CommitShort) + " " + s.Git.CommitSubject).LF().
		PlainText(md.Bold("Author:") + " " + s.Git.CommitAuthor + "  " +
			md.Bold("Branch:") + " " + md.Code(s.Git.Branch) + "  " +
			md.Bold("Workflow:") + " " + md.Code(s.Git.Workflow) + " (run " + s.Git.RunID + ")").LF()

	files := changed
	if len(files) == 0 {
		files = []string{"(no diff available)"}
	}
	doc.Details("Changed files", strings.Join(files, "\n")).LF()

	doc.Table(md.TableSet{
		Header: []string{"Dataset", "Count"},
		Rows: [][]string{
			{"master_timeline.csv", strconv.Itoa(s.Counts.MasterTimelineRows)},
			{"verified_people_events.csv", strconv.Itoa(s.Counts.VerifiedPeopleRows)},
			{"unverified_events.csv", strconv.Itoa(s.Counts.UnverifiedEventsRows)},
			{"unverified_people.csv", strconv.Itoa(s.Counts.UnverifiedPeopleRows)},
			{"unverified_connections.csv", strconv.Itoa(s.Counts.UnverifiedConnectionsRows)},
		},
	}).LF()

	doc.Table(md.TableSet{
		Header: []string{"Pending Batches", "Count"},
		Rows: [][]string{
			{"pending/events", strconv.Itoa(s.Counts.PendingEventBatches)},
			{"pending/people", strconv.Itoa(s.Counts.PendingPeopleBatches)},
			{"pending/unverified", strconv.Itoa(s.Counts.PendingLeadBatches)},
		},
	}).LF()

	doc.HorizontalRule().LF()
	if err := doc.Build(); err != nil {
		logging.Warn().Err(err).Msg("Changelog entry render failed")
	}
	return sb.String()
}

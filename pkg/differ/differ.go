// Package differ provides change detection between canonical row sets.
// The merge only ever adds rows (first-seen-wins), so a changeset carries
// added rows plus totals; updates and removals cannot occur through the
// batch path.
package differ

import (
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// Changeset describes the difference one merge produced for a single family.
type Changeset struct {
	Family string         // record family name
	Added  []timeline.Row // rows present after the merge but not before
	Before int            // canonical row count before the merge
	After  int            // canonical row count after the merge
}

// HasChanges returns true if the merge added any rows.
func (c *Changeset) HasChanges() bool {
	return c != nil && len(c.Added) > 0
}

// Rows compares canonical rows before and after a merge by natural key.
// Both slices must already be normalized.
func Rows(f timeline.Family, existing, merged []timeline.Row) *Changeset {
	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		seen[f.Key(row)] = true
	}

	changeset := &Changeset{
		Family: f.Name,
		Before: len(existing),
		After:  len(merged),
	}
	for _, row := range merged {
		if !seen[f.Key(row)] {
			changeset.Added = append(changeset.Added, row)
		}
	}
	return changeset
}

// Summary aggregates changesets across the families of one run.
type Summary struct {
	Changesets []*Changeset
}

// Add appends a family changeset to the summary.
func (s *Summary) Add(c *Changeset) {
	if c != nil {
		s.Changesets = append(s.Changesets, c)
	}
}

// TotalAdded returns the number of rows added across all families.
func (s *Summary) TotalAdded() int {
	total := 0
	for _, c := range s.Changesets {
		total += len(c.Added)
	}
	return total
}

// HasChanges returns true if any family changed.
func (s *Summary) HasChanges() bool {
	for _, c := range s.Changesets {
		if c.HasChanges() {
			return true
		}
	}
	return false
}

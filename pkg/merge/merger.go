// Package merge implements the pending-batch merge engine: deduplicating
// batch rows into canonical datasets, writing them back only on change, and
// archiving consumed batches exactly once. The Runner sequences record
// families; everything else is a pure transform over in-memory rows.
package merge

import (
	"sort"

	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// Batch is one pending batch file's rows, in file order. Path identifies the
// file for diagnostics and archiving.
type Batch struct {
	Path string
	Rows []timeline.Row
}

// LoadBatch reads a pending batch file.
func LoadBatch(path string) (Batch, error) {
	rows, _, err := timeline.ReadCSVFile(path)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Path: path, Rows: rows}, nil
}

// Merge folds pending batches into the canonical rows of one family.
//
// Policy is first-seen-wins: canonical rows seed the key set, so an existing
// row is never overwritten by a batch carrying the same natural key; batches
// fold in slice order (discovery order), each deduplicating internally the
// same way. Every surviving row is normalized, and the result is sorted by
// the family's documented order with insertion-order ties (stable sort).
//
// A batch missing required columns is a fatal SchemaError. Skipped duplicate
// rows are reported through the returned diagnostics, never as errors.
func Merge(f timeline.Family, canonicalFile string, canonical []timeline.Row, batches []Batch) ([]timeline.Row, Diagnostics, error) {
	var merged []timeline.Row
	var diags Diagnostics
	seen := make(map[string]bool, len(canonical))

	fold := func(file string, rows []timeline.Row) {
		for i, row := range rows {
			nr := f.Normalize(row)
			key := f.Key(nr)
			if seen[key] {
				diags = append(diags, Diagnostic{
					Family: f.Name,
					File:   file,
					Line:   i + 1,
					Reason: ReasonDuplicateKey,
					Key:    key,
				})
				continue
			}
			seen[key] = true
			merged = append(merged, nr)
		}
	}

	fold(canonicalFile, canonical)

	for _, batch := range batches {
		if len(batch.Rows) == 0 {
			continue
		}
		if err := f.ValidateSchema(batch.Path, batch.Rows); err != nil {
			return nil, nil, err
		}
		fold(batch.Path, batch.Rows)
	}

	sort.SliceStable(merged, func(i, j int) bool { return f.Less(merged[i], merged[j]) })
	return merged, diags, nil
}

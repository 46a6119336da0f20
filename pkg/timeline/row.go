// Package timeline defines the record families of the chronicle datasets:
// their columns, natural keys, normalization rules, and sort order. All
// transforms here are pure functions over in-memory rows; file handling
// lives with the callers.
package timeline

// Row is a single record keyed by column name. Values are always strings;
// the canonical file format is delimited text and no component interprets
// cell contents beyond the documented normalization and date parsing.
type Row map[string]string

// Get returns the value for a column, or the empty string when absent.
// Absent and empty are equivalent everywhere except status columns, which
// are backfilled during normalization.
func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

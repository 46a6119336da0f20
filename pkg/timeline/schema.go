package timeline

import (
	"github.com/chronicle-archive/chronicle/pkg/errors"
)

// requiredColumns returns the column set a batch or canonical file must
// expose to merge: every declared column except the optional deep-search
// pair, which normalization backfills on rows that predate it.
func (f Family) requiredColumns() []string {
	if f.StatusColumn == "" {
		return f.Columns
	}
	required := make([]string, 0, len(f.Columns))
	for _, col := range f.Columns {
		if col == f.StatusColumn || col == "deep_search_notes" {
			continue
		}
		required = append(required, col)
	}
	return required
}

// ValidateSchema confirms a row set exposes the family's required columns.
// An empty row set is valid; the check runs against the first row because
// all rows of a decoded file share one header. A failure is a
// configuration-corruption signal and must stop the run.
func (f Family) ValidateSchema(file string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	return f.ValidateColumns(file, rows[0], f.requiredColumns())
}

// ValidateFullSchema checks every declared column, optional ones included.
// Used by the standalone validate command, which expects canonical files to
// have fully caught up with the current schema.
func (f Family) ValidateFullSchema(file string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	return f.ValidateColumns(file, rows[0], f.Columns)
}

// ValidateColumns reports the required columns missing from a row as a fatal
// SchemaError, or nil when all are present.
func (f Family) ValidateColumns(file string, r Row, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := r[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.NewSchemaError(file, f.Name, missing)
	}
	return nil
}

package timeline

// DatasetReport is the validation outcome for one canonical dataset.
type DatasetReport struct {
	Family   string
	Path     string
	Rows     int
	Warnings []Warning
}

// ValidationReport covers every canonical dataset under a layout.
type ValidationReport struct {
	Datasets []DatasetReport
}

// WarningCount totals advisory findings across all datasets.
func (r *ValidationReport) WarningCount() int {
	n := 0
	for _, d := range r.Datasets {
		n += len(d.Warnings)
	}
	return n
}

// Validate audits every canonical dataset: the full declared schema must be
// present (a missing file counts as empty and passes), and date columns are
// checked for standard forms. Schema violations are fatal; date findings
// are advisory and land in the report.
func Validate(layout Layout) (*ValidationReport, error) {
	report := &ValidationReport{}
	for _, f := range Families {
		path := layout.CanonicalPath(f)
		rows, columns, err := ReadCSVFile(path)
		if err != nil {
			return nil, err
		}
		if len(columns) > 0 {
			header := make(Row, len(columns))
			for _, col := range columns {
				header[col] = ""
			}
			if err := f.ValidateColumns(path, header, f.Columns); err != nil {
				return nil, err
			}
		}
		report.Datasets = append(report.Datasets, DatasetReport{
			Family:   f.Name,
			Path:     path,
			Rows:     len(rows),
			Warnings: f.CheckDates(path, rows),
		})
	}
	return report, nil
}

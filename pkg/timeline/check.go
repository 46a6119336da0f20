package timeline

import (
	"fmt"
	"strings"
)

// Warning is an advisory finding from a dataset check. Warnings never stop
// a run; downstream tooling decides whether to surface them.
type Warning struct {
	File    string
	Line    int // 1-based data row number (header excluded)
	Column  string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s row %d: %s", w.File, w.Line, w.Message)
}

// CheckDates reports rows whose date column is empty or not in a standard
// form (full date, year-month, year, or a range of those). Advisory only:
// such rows still merge and sort deterministically.
func (f Family) CheckDates(file string, rows []Row) []Warning {
	if f.DateColumn == "" {
		return nil
	}

	var warnings []Warning
	for i, row := range rows {
		val := strings.TrimSpace(row.Get(f.DateColumn))
		if val == "" {
			warnings = append(warnings, Warning{
				File:    file,
				Line:    i + 1,
				Column:  f.DateColumn,
				Message: fmt.Sprintf("empty %s", f.DateColumn),
			})
			continue
		}
		if ParseDateKey(val).Unparsed {
			warnings = append(warnings, Warning{
				File:    file,
				Line:    i + 1,
				Column:  f.DateColumn,
				Message: fmt.Sprintf("non-standard date %q", val),
			})
		}
	}
	return warnings
}

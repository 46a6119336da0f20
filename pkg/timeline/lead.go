package timeline

import (
	"strings"

	"github.com/chronicle-archive/chronicle/pkg/constants"
)

// LeadType discriminates the variant of an unverified lead row. Batch files
// for leads mix variants in one file; each row selects its schema through
// the "type" column.
type LeadType string

// Lead variants. LeadTypeUnknown covers missing and unrecognized
// discriminators; such rows are discarded, never an error.
const (
	LeadTypeEvent      LeadType = "event"
	LeadTypePerson     LeadType = "person"
	LeadTypeConnection LeadType = "connection"
	LeadTypeUnknown    LeadType = ""
)

// ParseLeadType reads a discriminator value, tolerating case and whitespace.
func ParseLeadType(s string) LeadType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "event":
		return LeadTypeEvent
	case "person":
		return LeadTypePerson
	case "connection":
		return LeadTypeConnection
	default:
		return LeadTypeUnknown
	}
}

// Family returns the record family a lead variant projects into.
func (t LeadType) Family() (Family, bool) {
	switch t {
	case LeadTypeEvent:
		return UnverifiedEvents, true
	case LeadTypePerson:
		return UnverifiedPeople, true
	case LeadTypeConnection:
		return UnverifiedConnections, true
	default:
		return Family{}, false
	}
}

// SkippedLead records a lead row that was dropped and why, for the optional
// diagnostics channel. Drops are silent by default; callers may log them.
type SkippedLead struct {
	File   string
	Line   int // 1-based data row number within the batch file
	Type   string
	Reason string
}

// SplitLeads dispatches lead batch rows to their variant families by
// discriminator. Rows with a missing or unrecognized discriminator are
// returned as skipped, not merged. Projection keeps only the target
// family's declared columns.
func SplitLeads(file string, rows []Row) (map[string][]Row, []SkippedLead) {
	out := make(map[string][]Row, len(LeadFamilies))
	var skipped []SkippedLead

	for i, row := range rows {
		raw := row.Get(constants.LeadTypeColumn)
		family, ok := ParseLeadType(raw).Family()
		if !ok {
			skipped = append(skipped, SkippedLead{
				File:   file,
				Line:   i + 1,
				Type:   strings.TrimSpace(raw),
				Reason: "unrecognized lead type",
			})
			continue
		}
		projected := make(Row, len(family.Columns))
		for _, col := range family.Columns {
			if v, ok := row[col]; ok {
				projected[col] = v
			}
		}
		out[family.Name] = append(out[family.Name], projected)
	}
	return out, skipped
}

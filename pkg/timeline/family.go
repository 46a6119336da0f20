package timeline

import (
	"strings"

	"github.com/chronicle-archive/chronicle/pkg/constants"
)

// keySeparator joins key fields into a single comparable string. The unit
// separator cannot appear in normalized cell values, so two rows share a key
// string exactly when every key field is byte-for-byte equal.
const keySeparator = "\x1f"

// Family describes one record family: its fixed column order, natural key,
// normalization rules, and sort order. Families are value types; all methods
// are pure.
type Family struct {
	// Name identifies the family in logs, errors, and diagnostics.
	Name string

	// Columns is the fixed, explicit serialization order. Canonical files
	// always carry every declared column.
	Columns []string

	// KeyColumns is the ordered natural key used for deduplication.
	KeyColumns []string

	// CollapseColumns are free-text fields whose internal whitespace runs
	// are collapsed to a single space (copy-pasted multi-line cells).
	CollapseColumns []string

	// StatusColumn is the deep-search status column, defaulted to "pending"
	// when blank. Empty for families without one.
	StatusColumn string

	// DateColumn feeds the primary sort key. Empty for families sorted by
	// text columns alone.
	DateColumn string

	// SortColumns break ties after the date key, compared lowercased.
	SortColumns []string
}

// Events is the canonical timeline of verified events.
var Events = Family{
	Name: "events",
	Columns: []string{
		"date", "location", "event", "participants_on_record",
		"source_urls", "notes", "deep_search_event", "deep_search_notes",
	},
	KeyColumns:      []string{"date", "location", "event"},
	CollapseColumns: []string{"location", "event"},
	StatusColumn:    "deep_search_event",
	DateColumn:      "date",
	SortColumns:     []string{"location", "event"},
}

// People is the canonical dataset of on-record people at events.
var People = Family{
	Name: "people",
	Columns: []string{
		"date", "location", "event", "person", "role",
		"source_urls", "deep_search_person", "deep_search_notes",
	},
	KeyColumns:      []string{"date", "location", "event", "person"},
	CollapseColumns: []string{"location", "event"},
	StatusColumn:    "deep_search_person",
	DateColumn:      "date",
	SortColumns:     []string{"location", "event", "person"},
}

// UnverifiedEvents holds event leads awaiting verification. Leads carry no
// derived identity, so the natural key is the full row.
var UnverifiedEvents = Family{
	Name: "unverified_events",
	Columns: []string{
		"date", "location", "event", "primary_source",
		"secondary_source", "confidence", "notes", "next_step",
	},
	KeyColumns: []string{
		"date", "location", "event", "primary_source",
		"secondary_source", "confidence", "notes", "next_step",
	},
	CollapseColumns: []string{"location", "event"},
	DateColumn:      "date",
	SortColumns:     []string{"location", "event"},
}

// UnverifiedPeople holds person leads awaiting verification.
var UnverifiedPeople = Family{
	Name: "unverified_people",
	Columns: []string{
		"person", "possible_event_date", "location", "alleged_association",
		"source", "confidence", "notes", "next_step",
	},
	KeyColumns: []string{
		"person", "possible_event_date", "location", "alleged_association",
		"source", "confidence", "notes", "next_step",
	},
	CollapseColumns: []string{"location"},
	DateColumn:      "possible_event_date",
	SortColumns:     []string{"person", "location"},
}

// UnverifiedConnections holds alleged connections between two entities.
// No date column; rows sort by the entities themselves.
var UnverifiedConnections = Family{
	Name: "unverified_connections",
	Columns: []string{
		"entity_a", "entity_b", "connection_type", "source",
		"confidence", "notes", "next_step",
	},
	KeyColumns: []string{
		"entity_a", "entity_b", "connection_type", "source",
		"confidence", "notes", "next_step",
	},
	SortColumns: []string{"entity_a", "entity_b", "connection_type"},
}

// Families lists every record family in merge order.
var Families = []Family{Events, People, UnverifiedEvents, UnverifiedPeople, UnverifiedConnections}

// LeadFamilies lists the unverified families fed by discriminated lead batches.
var LeadFamilies = []Family{UnverifiedEvents, UnverifiedPeople, UnverifiedConnections}

// Normalize returns a copy of the row with every declared column trimmed,
// collapse columns squeezed to single internal spaces, and a blank status
// column defaulted to "pending". Columns outside the declaration are dropped;
// nothing else is invented.
func (f Family) Normalize(r Row) Row {
	out := make(Row, len(f.Columns))
	for _, col := range f.Columns {
		out[col] = strings.TrimSpace(r.Get(col))
	}
	for _, col := range f.CollapseColumns {
		out[col] = collapseWhitespace(out[col])
	}
	if f.StatusColumn != "" && out[f.StatusColumn] == "" {
		out[f.StatusColumn] = constants.StatusPending
	}
	return out
}

// Key returns the natural key of a normalized row. Two rows share a key
// exactly when every key field is byte-for-byte equal after normalization.
func (f Family) Key(r Row) string {
	parts := make([]string, len(f.KeyColumns))
	for i, col := range f.KeyColumns {
		parts[i] = r.Get(col)
	}
	return strings.Join(parts, keySeparator)
}

// Less orders two normalized rows by (date key, lowercased sort columns).
// Case is preserved in natural keys; only the sort lowers it. Callers must
// use a stable sort so ties keep insertion order.
func (f Family) Less(a, b Row) bool {
	if f.DateColumn != "" {
		ka := ParseDateKey(a.Get(f.DateColumn))
		kb := ParseDateKey(b.Get(f.DateColumn))
		if c := ka.Compare(kb); c != 0 {
			return c < 0
		}
	}
	for _, col := range f.SortColumns {
		av := strings.ToLower(a.Get(col))
		bv := strings.ToLower(b.Get(col))
		if av != bv {
			return av < bv
		}
	}
	return false
}

// collapseWhitespace squeezes any run of whitespace to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package merge

import (
	"github.com/rs/zerolog"
)

// Diagnostic records a row the merge skipped and why. Data-content
// irregularities degrade gracefully into the merged output; the diagnostics
// channel exists so a caller can log or alert without making drops fatal.
type Diagnostic struct {
	Family string
	File   string
	Line   int // 1-based data row number within the source file
	Reason string
	Key    string // natural key of the skipped row, when it has one
}

// Diagnostics is the ordered list of skipped rows from one merge.
type Diagnostics []Diagnostic

// LogTo emits every diagnostic at debug level.
func (d Diagnostics) LogTo(logger *zerolog.Logger) {
	for _, diag := range d {
		logger.Debug().
			Str("family", diag.Family).
			Str("file", diag.File).
			Int("line", diag.Line).
			Str("reason", diag.Reason).
			Msg("Skipped row")
	}
}

// CountByReason tallies diagnostics per reason for summary logging.
func (d Diagnostics) CountByReason() map[string]int {
	if len(d) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, diag := range d {
		counts[diag.Reason]++
	}
	return counts
}

// Skip reasons.
const (
	ReasonDuplicateKey    = "duplicate natural key"
	ReasonUnknownLeadType = "unrecognized lead type"
)

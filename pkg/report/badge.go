package report

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/agentstation/utc"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// Badge colors.
const (
	colorFresh   = "#2ca02c" // updated within two days
	colorAging   = "#ff7f0e" // within a week
	colorStale   = "#d62728"
	colorUnknown = "#bdbdbd"
	colorVersion = "#2ea44f"
)

// Badge is a shields-style static SVG badge. No external badge service is
// involved; the SVG is generated locally and committed.
type Badge struct {
	Label string
	Value string
	Color string
}

// svgTemplate mirrors the shields.io flat style closely enough for READMEs.
var svgTemplate = template.Must(template.New("badge").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Total}}" height="20" role="img" aria-label="{{.Label}}: {{.Value}}">
  <linearGradient id="g" x2="0" y2="100%">
    <stop offset="0" stop-color="#fff" stop-opacity=".7"/>
    <stop offset=".1" stop-opacity=".1"/>
    <stop offset=".9" stop-opacity=".3"/>
    <stop offset="1" stop-opacity=".5"/>
  </linearGradient>
  <mask id="m">
    <rect width="{{.Total}}" height="20" rx="3" fill="#fff"/>
  </mask>
  <g mask="url(#m)">
    <rect width="{{.LabelWidth}}" height="20" fill="#555"/>
    <rect x="{{.LabelWidth}}" width="{{.ValueWidth}}" height="20" fill="{{.Color}}"/>
    <rect width="{{.Total}}" height="20" fill="url(#g)"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="{{.LabelMid}}" y="14">{{.Label}}</text>
    <text x="{{.ValueMid}}" y="14">{{.Value}}</text>
  </g>
</svg>
`))

type badgeLayout struct {
	Label      string
	Value      string
	Color      string
	LabelWidth int
	ValueWidth int
	Total      int
	LabelMid   float64
	ValueMid   float64
}

func badgeTextWidth(s string) int {
	return 6*len([]rune(s)) + 20
}

// SVG renders the badge.
func (b Badge) SVG() string {
	lw := badgeTextWidth(b.Label)
	vw := badgeTextWidth(b.Value)
	var sb strings.Builder
	// The template only fails on a broken layout struct, which cannot
	// happen with computed widths.
	_ = svgTemplate.Execute(&sb, badgeLayout{
		Label:      b.Label,
		Value:      b.Value,
		Color:      b.Color,
		LabelWidth: lw,
		ValueWidth: vw,
		Total:      lw + vw,
		LabelMid:   float64(lw) / 2,
		ValueMid:   float64(lw) + float64(vw)/2,
	})
	return sb.String()
}

// Write persists the badge SVG, creating parent directories and skipping
// the write when the rendered content is already on disk.
func (b Badge) Write(path string) (bool, error) {
	svg := b.SVG()
	if existing, err := os.ReadFile(path); err == nil && string(existing) == svg {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return false, errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(svg), constants.FilePermissions); err != nil {
		return false, errors.WrapIO("write", path, err)
	}
	return true, nil
}

// VersionBadge builds a badge for the VERSION file's current value.
func VersionBadge(layout timeline.Layout) Badge {
	return Badge{
		Label: "version",
		Value: ReadVersionFile(filepath.Join(layout.Summary(), versionFile)).String(),
		Color: colorVersion,
	}
}

var freshnessLayouts = []string{
	"2006-01-02",
	constants.SnapshotTimeFormat,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

var freshnessColumns = []string{"last_seen", "ts_utc", "timestamp", "run_ts", "date"}

// FreshnessBadge reports the date of the most recent changelog snapshot,
// colored by how far behind `now` it is. Missing or unreadable data yields
// a grey "unknown" badge rather than an error.
func FreshnessBadge(layout timeline.Layout, now utc.Time) Badge {
	badge := Badge{Label: "freshness", Value: "unknown", Color: colorUnknown}

	latest, ok := latestSnapshotTime(filepath.Join(layout.Summary(), snapshotFile))
	if !ok {
		return badge
	}
	badge.Value = latest.Format("2006-01-02")

	switch age := now.Sub(utc.New(latest)); {
	case age <= 48*time.Hour:
		badge.Color = colorFresh
	case age <= 7*24*time.Hour:
		badge.Color = colorAging
	default:
		badge.Color = colorStale
	}
	return badge
}

func latestSnapshotTime(path string) (time.Time, bool) {
	rows, _, err := timeline.ReadCSVFile(path)
	if err != nil || len(rows) == 0 {
		return time.Time{}, false
	}

	var latest time.Time
	var found bool
	for _, row := range rows {
		for _, col := range freshnessColumns {
			ts, ok := parseFreshnessTime(row.Get(col))
			if ok && ts.After(latest) {
				latest = ts
				found = true
			}
		}
	}
	return latest, found
}

func parseFreshnessTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range freshnessLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

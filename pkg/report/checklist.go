package report

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/logging"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

const checklistFile = "CHECKLIST.md"

var (
	tbdPattern = regexp.MustCompile(`(?i)\bTBD\b|to be determined|add (specific|direct)|add .* ID`)
	ecfPattern = regexp.MustCompile(`ECF\s*([0-9]+(?:\.[0-9]+)?)`)

	directVideoHosts = []string{
		"c-span.org/video", "c-span.org/clip",
		"youtube.com/watch", "youtu.be", "media.house.gov",
	}
	genericHosts = []string{
		"https://www.c-span.org/",
		"https://oversight.house.gov/",
		"https://www.reuters.com/world/us/",
		"https://www.reuters.com/world/americas/",
	}
)

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayName renders a dataset name for headings and tables:
// "unverified_connections" becomes "Unverified Connections".
func DisplayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// Checklist rebuilds CHECKLIST.md from the canonical datasets. Only rows
// whose source references are still placeholders appear; once a row gains a
// direct ID or link it drops out on the next build.
type Checklist struct {
	layout   timeline.Layout
	repoRoot string
}

// NewChecklist creates a checklist builder rooted at repoRoot.
func NewChecklist(layout timeline.Layout, repoRoot string) *Checklist {
	return &Checklist{layout: layout, repoRoot: repoRoot}
}

type checklistSection struct {
	title  string
	header []string
	rows   [][]string
}

// Build regenerates the checklist, writing only when the rendered content
// differs from what is on disk. Returns whether the file was written.
func (c *Checklist) Build() (bool, error) {
	rows, err := c.masterRows()
	if err != nil {
		return false, err
	}
	counts, err := CollectCounts(c.layout)
	if err != nil {
		return false, err
	}

	content := renderChecklist(buildSections(rows), counts)
	path := filepath.Join(c.repoRoot, checklistFile)

	if existing, err := os.ReadFile(path); err == nil &&
		strings.TrimSpace(string(existing)) == strings.TrimSpace(content) {
		logging.Debug().Str("path", path).Msg("Checklist unchanged")
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), constants.FilePermissions); err != nil {
		return false, errors.WrapIO("write", path, err)
	}
	return true, nil
}

// masterRows loads both verified datasets; the checklist tracks only
// verified entries, leads have their own triage flow.
func (c *Checklist) masterRows() ([]timeline.Row, error) {
	var out []timeline.Row
	for _, f := range []timeline.Family{timeline.Events, timeline.People} {
		rows, _, err := timeline.ReadCSVFile(c.layout.CanonicalPath(f))
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func hasTBD(text string) bool {
	return tbdPattern.MatchString(text)
}

func hasDirectVideoLink(urls string) bool {
	for _, host := range directVideoHosts {
		if strings.Contains(urls, host) {
			return true
		}
	}
	return false
}

func hasGenericSource(urls string) bool {
	for _, host := range genericHosts {
		if strings.Contains(urls, host) {
			return true
		}
	}
	return false
}

func buildSections(rows []timeline.Row) []checklistSection {
	var cspan, docket, wire, oversight [][]string

	for _, r := range rows {
		date := r.Get("date")
		location := r.Get("location")
		event := r.Get("event")
		urls := r.Get("source_urls")
		notes := r.Get("notes")
		upperEvent := strings.ToUpper(event)
		upperLocation := strings.ToUpper(location)

		if strings.Contains(upperEvent, "C-SPAN") &&
			(hasTBD(notes) || hasGenericSource(urls)) && !hasDirectVideoLink(urls) {
			cspan = append(cspan, []string{event, date, location, "TBD", "☐", notes})
		}

		if strings.Contains(upperLocation, "SDNY DOCKET") &&
			(strings.Contains(upperEvent, "ECF") || strings.Contains(upperEvent, "UNSEAL")) {
			ecf := "—"
			if m := ecfPattern.FindStringSubmatch(event); m != nil {
				ecf = m[1]
			}
			verified := "☐"
			if strings.Contains(urls, "courtlistener.com/docket") && !hasTBD(notes) {
				verified = "✅"
			}
			docket = append(docket, []string{ecf, event, date, verified, urls})
		}

		for _, token := range []string{"Reuters", "GETTY", "Wire", "wire"} {
			if strings.Contains(event, token) {
				if hasTBD(notes) || hasGenericSource(urls) {
					wire = append(wire, []string{date, location, event, "TBD", "☐", notes})
				}
				break
			}
		}

		if strings.Contains(upperLocation, "HOUSE OVERSIGHT") && strings.Contains(upperEvent, "VIDEO") &&
			(hasGenericSource(urls) || hasTBD(notes)) {
			oversight = append(oversight, []string{date, event, "TBD", "☐", notes})
		}
	}

	sortRows(cspan, 1, 0)
	sortRows(docket, 2, 0)
	sortRows(wire, 0, 1)
	sortRows(oversight, 0, 1)

	return []checklistSection{
		{
			title:  "🗓️ C-SPAN Segments Needing Program/Clip IDs",
			header: []string{"Event Title", "Date", "Location", "Program/Clip ID", "Verified", "Notes"},
			rows:   cspan,
		},
		{
			title:  "⚖️ CourtListener / SDNY Docket Items",
			header: []string{"ECF #", "Description", "Date", "Verified Link", "Source"},
			rows:   docket,
		},
		{
			title:  "📰 Getty / Reuters / Wire Photo Sets Needing Asset IDs",
			header: []string{"Date", "Location", "Set Title", "Asset ID", "Verified", "Notes"},
			rows:   wire,
		},
		{
			title:  "🏛️ House Oversight Committee Video Clips (Direct URLs/IDs Pending)",
			header: []string{"Date", "Title", "Video ID/URL", "Verified", "Notes"},
			rows:   oversight,
		},
	}
}

func sortRows(rows [][]string, primary, secondary int) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i][primary] != rows[j][primary] {
			return rows[i][primary] < rows[j][primary]
		}
		return rows[i][secondary] < rows[j][secondary]
	})
}

func renderChecklist(sections []checklistSection, counts Counts) string {
	var sb strings.Builder
	doc := md.NewMarkdown(&sb)

	doc.H1("Reference Completion Checklist (Auto-Generated)").
		PlainText("This file is rebuilt on every update. It lists only items with pending IDs or links; once exact IDs or direct links land in the datasets, the corresponding rows disappear automatically.").LF().
		HorizontalRule().LF()

	for _, s := range sections {
		doc.H2(s.title).LF()
		if len(s.rows) == 0 {
			doc.PlainText(md.Italic("All items resolved.")).LF()
			continue
		}
		doc.Table(md.TableSet{Header: s.header, Rows: s.rows}).LF()
	}

	doc.HorizontalRule().LF()
	doc.H2("Dataset Totals").LF()
	doc.Table(md.TableSet{
		Header: []string{"Dataset", "Rows"},
		Rows: [][]string{
			{DisplayName(timeline.Events.Name), strconv.Itoa(counts.MasterTimelineRows)},
			{DisplayName(timeline.People.Name), strconv.Itoa(counts.VerifiedPeopleRows)},
			{DisplayName(timeline.UnverifiedEvents.Name), strconv.Itoa(counts.UnverifiedEventsRows)},
			{DisplayName(timeline.UnverifiedPeople.Name), strconv.Itoa(counts.UnverifiedPeopleRows)},
			{DisplayName(timeline.UnverifiedConnections.Name), strconv.Itoa(counts.UnverifiedConnectionsRows)},
		},
	}).LF()

	if err := doc.Build(); err != nil {
		logging.Warn().Err(err).Msg("Checklist render failed")
	}
	return sb.String()
}

// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
)

// DetectFormat resolves an explicit format request, defaulting to a table
// on a terminal and JSON when output is piped.
func DetectFormat(explicit string) Format {
	switch Format(explicit) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(explicit)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Table is tabular data ready for rendering.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Formatter renders command results in one output format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates the formatter for a format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &jsonFormatter{}
	case FormatYAML:
		return &yamlFormatter{}
	default:
		return &tableFormatter{}
	}
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

type yamlFormatter struct{}

func (f *yamlFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// tableFormatter renders Table data; anything else falls back to JSON.
type tableFormatter struct{}

func (f *tableFormatter) Format(w io.Writer, data any) error {
	t, ok := data.(Table)
	if !ok {
		return (&jsonFormatter{}).Format(w, data)
	}

	table := tablewriter.NewTable(w)
	if len(t.Headers) > 0 {
		headers := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

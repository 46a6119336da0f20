package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chronicle-archive/chronicle/internal/cmd/output"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit the canonical datasets",
	Long: `Validate every canonical dataset against its full declared schema
and audit date columns for standard forms.

A schema violation is fatal and exits non-zero. Date findings are
advisory: they are listed but do not fail the command.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	report, err := c.Validate()
	if err != nil {
		return err
	}

	table := output.Table{Headers: []string{"Dataset", "Rows", "Warnings"}}
	for _, d := range report.Datasets {
		table.Rows = append(table.Rows, []string{
			d.Family,
			strconv.Itoa(d.Rows),
			strconv.Itoa(len(d.Warnings)),
		})
	}
	if err := output.NewFormatter(output.DetectFormat(globalFlags.Output)).Format(os.Stdout, table); err != nil {
		return err
	}

	if !globalFlags.Quiet {
		for _, d := range report.Datasets {
			for _, w := range d.Warnings {
				fmt.Println(w.String())
			}
		}
	}
	return nil
}

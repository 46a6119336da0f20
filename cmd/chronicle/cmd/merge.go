package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chronicle-archive/chronicle/internal/cmd/output"
	"github.com/chronicle-archive/chronicle/pkg/merge"
)

var mergeDryRun bool

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold pending batches into the canonical datasets",
	Long: `Merge every pending batch file into its canonical dataset.

Batches are consumed in lexicographic filename order. Rows whose natural
key already exists are dropped; the canonical file is rewritten only when
its content actually changes, and consumed batches are renamed into the
archive directory with a processing timestamp.

Examples:
  chronicle merge              # Merge and archive all pending batches
  chronicle merge --dry-run    # Report what would change without writing`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report changes without writing or archiving")
}

func runMerge(cmd *cobra.Command, _ []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	var opts []merge.Option
	if mergeDryRun {
		opts = append(opts, merge.WithDryRun())
	}

	result, err := c.Merge(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	table := output.Table{
		Headers: []string{"Family", "Rows", "Added", "Changed", "Archived"},
	}
	for _, fr := range result.Families {
		table.Rows = append(table.Rows, []string{
			fr.Family,
			strconv.Itoa(fr.Rows),
			strconv.Itoa(fr.Added),
			strconv.FormatBool(fr.Changed),
			strconv.Itoa(len(fr.Archived)),
		})
	}

	if err := output.NewFormatter(output.DetectFormat(globalFlags.Output)).Format(os.Stdout, table); err != nil {
		return err
	}
	if result.DryRun {
		fmt.Println("Dry run: nothing was written or archived.")
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped %d lead row(s) with unrecognized types.\n", len(result.Skipped))
	}
	return nil
}

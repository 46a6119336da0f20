package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checklistCmd represents the checklist command.
var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Rebuild the reference completion checklist",
	Long: `Rebuild CHECKLIST.md from the verified datasets. Rows whose source
references are still placeholders are listed; resolved rows disappear on
the next build. The file is only rewritten when its content changes.`,
	RunE: runChecklist,
}

func init() {
	rootCmd.AddCommand(checklistCmd)
}

func runChecklist(_ *cobra.Command, _ []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	changed, err := c.BuildChecklist()
	if err != nil {
		return err
	}
	if changed {
		fmt.Println("CHECKLIST.md updated.")
	} else {
		fmt.Println("CHECKLIST.md unchanged.")
	}
	return nil
}

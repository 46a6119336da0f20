package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// changelogCmd represents the changelog command.
var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Record the latest commit in the changelog",
	Long: `Classify the latest commit's changed paths into a semantic version
bump, update the VERSION file, and prepend an entry to CHANGELOG.md and
the machine-readable snapshot CSV.

Running twice for the same commit is a no-op.`,
	RunE: runChangelog,
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}

func runChangelog(_ *cobra.Command, _ []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	result, err := c.BuildChangelog()
	if err != nil {
		return err
	}
	if !result.Updated {
		fmt.Println("Commit already recorded; changelog unchanged.")
		return nil
	}
	fmt.Printf("Version bump: %s -> %s (%d changed files)\n",
		result.Kind, result.Version, len(result.Changed))
	return nil
}

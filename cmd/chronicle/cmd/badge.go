package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// badgeCmd represents the badge command.
var badgeCmd = &cobra.Command{
	Use:   "badge [freshness|version]",
	Short: "Render the status badges",
	Long: `Render the static SVG badges under docs/badges: the current
version and the freshness of the latest changelog snapshot. Badges are
generated locally; no badge service is contacted.

Without arguments both badges are rendered.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"freshness", "version"},
	RunE:      runBadge,
}

func init() {
	rootCmd.AddCommand(badgeCmd)
}

func runBadge(_ *cobra.Command, args []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	written, err := c.WriteBadges(args...)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Println("Badges unchanged.")
		return nil
	}
	for _, path := range written {
		fmt.Println("Wrote", path)
	}
	return nil
}

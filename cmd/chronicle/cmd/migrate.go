package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a flat legacy data directory into the standard layout",
	Long: `Move canonical files and pending batches from a flat data directory
into the standard layout (master/, unverified/, pending/, archive/,
summary/, sources/). Files are renamed, never copied, and re-running is
safe: anything already in place is left alone.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	moves, err := c.Migrate()
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		fmt.Println("Nothing to migrate; layout is current.")
		return nil
	}
	for _, m := range moves {
		fmt.Printf("Moved %s -> %s\n", m.From, m.To)
	}
	return nil
}

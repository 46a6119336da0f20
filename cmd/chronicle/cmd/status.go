package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chronicle-archive/chronicle/internal/cmd/output"
	"github.com/chronicle-archive/chronicle/pkg/report"
)

// statusCmd represents the status command.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset row counts and pending batch counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	c, err := newChronicle()
	if err != nil {
		return err
	}

	counts, err := c.Status()
	if err != nil {
		return err
	}

	format := output.DetectFormat(globalFlags.Output)
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(os.Stdout, counts)
	}

	table := output.Table{
		Headers: []string{"Dataset", "Count"},
		Rows: [][]string{
			{report.DisplayName("master_timeline"), strconv.Itoa(counts.MasterTimelineRows)},
			{report.DisplayName("verified_people_events"), strconv.Itoa(counts.VerifiedPeopleRows)},
			{report.DisplayName("unverified_events"), strconv.Itoa(counts.UnverifiedEventsRows)},
			{report.DisplayName("unverified_people"), strconv.Itoa(counts.UnverifiedPeopleRows)},
			{report.DisplayName("unverified_connections"), strconv.Itoa(counts.UnverifiedConnectionsRows)},
			{report.DisplayName("pending_event_batches"), strconv.Itoa(counts.PendingEventBatches)},
			{report.DisplayName("pending_people_batches"), strconv.Itoa(counts.PendingPeopleBatches)},
			{report.DisplayName("pending_lead_batches"), strconv.Itoa(counts.PendingLeadBatches)},
		},
	}
	return output.NewFormatter(format).Format(os.Stdout, table)
}

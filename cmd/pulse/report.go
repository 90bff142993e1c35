package main

import (
	"github.com/Veraticus/pulse/internal/cli"
	"github.com/Veraticus/pulse/internal/insights"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "report [mood|revenue]",
		Short:     "Show the dashboard in the terminal",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"mood", "revenue"},
		RunE:      runReport,
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	switch args[0] {
	case "mood":
		moods, err := b.moodTracker(ctx)
		if err != nil {
			return err
		}
		entries, err := moods.Entries(ctx)
		if err != nil {
			return err
		}
		summary := insights.SummarizeMoods(entries, moods.Now(), moods.Location())
		cmd.Println(cli.RenderMoodSummary(summary, insights.Encouragement(nil)))

	default:
		revenue, err := b.revenueTracker(ctx)
		if err != nil {
			return err
		}
		entries, err := revenue.Entries(ctx)
		if err != nil {
			return err
		}
		summary := insights.SummarizeRevenue(entries, revenue.Location(), b.app.ForecastHorizon, b.app.ForecastAxis)
		cmd.Println(cli.RenderRevenueSummary(summary))
	}

	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pulse/internal/cli"
	"github.com/Veraticus/pulse/internal/config"
	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write both logs, daily totals and the forecast to an Excel workbook",
		RunE:  runExport,
	}

	cmd.Flags().StringP("out", "o", "", "output file (default: pulse-YYYY-MM-DD.xlsx)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = fmt.Sprintf("pulse-%s.xlsx", time.Now().Format("2006-01-02"))
	}
	out = config.ExpandPath(out)

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	bar := progressbar.NewOptions(2+len(report.Sheets),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Exporting...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	moods, err := b.moodTracker(ctx)
	if err != nil {
		return err
	}
	moodEntries, err := moods.Entries(ctx)
	if err != nil {
		return err
	}
	_ = bar.Add(1)

	revenue, err := b.revenueTracker(ctx)
	if err != nil {
		return err
	}
	revenueEntries, err := revenue.Entries(ctx)
	if err != nil {
		return err
	}
	_ = bar.Add(1)

	f, err := report.BuildWorkbook(report.Input{
		Moods:   moodEntries,
		Revenue: revenueEntries,
		Summary: insights.SummarizeRevenue(revenueEntries, revenue.Location(), b.app.ForecastHorizon, b.app.ForecastAxis),
	}, func(sheet string) {
		bar.Describe(fmt.Sprintf("[cyan][bold]Writing %s...[reset]", sheet))
		_ = bar.Add(1)
	})
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}

	slog.Info("exported workbook", "path", out, "moods", len(moodEntries), "revenue", len(revenueEntries))
	cmd.Println(cli.FormatSuccess("Saved " + out))
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/pulse/internal/cli"
	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/Veraticus/pulse/internal/tui"
	"github.com/spf13/cobra"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append an entry to one of the logs",
	}

	cmd.AddCommand(logMoodCmd())
	cmd.AddCommand(logRevenueCmd())

	return cmd
}

func logMoodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Log how you feel right now",
		Long: `Log how you feel right now.

Without --mood an interactive picker is shown. Valid moods are:
Energized, Chill, Stressed, Tired, Frustrated, Joyful, Confusing.`,
		RunE: runLogMood,
	}

	cmd.Flags().String("mood", "", "mood label, e.g. Chill")
	cmd.Flags().String("note", "", "optional note")

	return cmd
}

func runLogMood(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	in := tracker.MoodInput{}
	in.Mood, _ = cmd.Flags().GetString("mood")
	in.Note, _ = cmd.Flags().GetString("note")

	if in.Mood == "" {
		choice, err := tui.RunMoodPicker(ctx)
		if err != nil {
			if errors.Is(err, tui.ErrCancelled) {
				cmd.Println(cli.FormatInfo("Nothing logged."))
				return nil
			}
			return err
		}
		in.Mood = string(choice.Mood)
		if in.Note == "" {
			in.Note = choice.Note
		}
	}

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	moods, err := b.moodTracker(ctx)
	if err != nil {
		return err
	}

	entry, err := moods.Log(ctx, in)
	if err != nil {
		return validationOr(err)
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Logged %s at %s", entry.Mood.Display(), entry.Timestamp.Format(model.TimestampLayout))))
	return nil
}

func logRevenueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Log revenue for a client",
		Long: `Log revenue for a client.

Missing --client or --amount values are asked for on the terminal.`,
		RunE: runLogRevenue,
	}

	cmd.Flags().String("client", "", "client name")
	cmd.Flags().String("amount", "", "revenue amount, e.g. 1250.00")
	cmd.Flags().String("note", "", "optional note")

	return cmd
}

func runLogRevenue(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	in := tracker.RevenueInput{}
	in.Client, _ = cmd.Flags().GetString("client")
	in.Revenue, _ = cmd.Flags().GetString("amount")
	in.Note, _ = cmd.Flags().GetString("note")

	if in.Client == "" || in.Revenue == "" {
		var err error
		in, err = cli.NewPrompter(os.Stdin, cmd.OutOrStdout()).CompleteRevenue(ctx, in)
		if err != nil {
			if errors.Is(err, cli.ErrInputCancelled) {
				cmd.Println(cli.FormatInfo("Nothing logged."))
				return nil
			}
			return validationOr(err)
		}
	}

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	revenue, err := b.revenueTracker(ctx)
	if err != nil {
		return err
	}

	entry, err := revenue.Log(ctx, in)
	if err != nil {
		return validationOr(err)
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Logged $%s for %s at %s",
		entry.Revenue.StringFixed(2), entry.Client, entry.Timestamp.Format(model.TimestampLayout))))
	return nil
}

// validationOr turns a rejected input into a message for the user and
// passes every other error through.
func validationOr(err error) error {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return common.NewUserError(cli.FormatError(ve.Message), err)
	}
	return err
}

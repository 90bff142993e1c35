package main

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Veraticus/pulse/internal/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Run the web dashboard.

The mood page shows today's breakdown and score trend, the revenue page shows
totals, per-client revenue and the forecast. Both re-read the spreadsheet on
every request.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	moods, err := b.moodTracker(ctx)
	if err != nil {
		return err
	}
	revenue, err := b.revenueTracker(ctx)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(moods, revenue, web.Options{
		Logger:  slog.Default(),
		Rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Axis:    b.app.ForecastAxis,
		Horizon: b.app.ForecastHorizon,
		Debug:   viper.GetString("logging.level") == "debug",
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx, b.app.ServerAddr)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/config"
	"github.com/Veraticus/pulse/internal/service"
	"github.com/Veraticus/pulse/internal/sheets"
	"github.com/Veraticus/pulse/internal/storage"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/spf13/viper"
)

// backend is the opened store shared by the trackers of one command.
type backend struct {
	client *sheets.Client
	store  *storage.SQLiteStorage
	logger *slog.Logger
	app    config.App
}

// openBackend connects to the configured store. Callers must Close it.
func openBackend(ctx context.Context) (*backend, error) {
	app, err := config.LoadApp()
	if err != nil {
		return nil, err
	}
	b := &backend{app: app, logger: slog.Default()}

	switch app.Backend {
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStorage(app.StorePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		b.store = store
		names, err := store.Worksheets(ctx)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		b.logger.Debug("using sqlite store", "path", store.Path(), "worksheets", names)

	default:
		cfg, err := config.LoadSheetsConfig()
		if err != nil {
			if errors.Is(err, common.ErrInvalidConfig) {
				return nil, common.NewUserError("Google Sheets is not configured. Run 'pulse auth sheets' or set sheets.service_account_path.", err)
			}
			return nil, err
		}
		client, err := sheets.NewClient(ctx, *cfg, b.logger)
		if err != nil {
			return nil, err
		}
		b.client = client
	}

	return b, nil
}

func (b *backend) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

// worksheet opens the worksheet backing kind ("mood" or "revenue").
func (b *backend) worksheet(ctx context.Context, kind string) (service.Worksheet, error) {
	if b.store != nil {
		name := viper.GetString(kind + ".worksheet")
		if name == "" {
			name = kind
		}
		return b.store.Worksheet(name)
	}

	target := config.LoadTarget(kind)
	ws, err := b.client.Open(ctx, target)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewUserError(fmt.Sprintf("Could not find the %s spreadsheet %q. Share it with your account or set %s.spreadsheet_id.", kind, target.String(), kind), err)
		}
		return nil, err
	}
	return ws, nil
}

func (b *backend) trackerOptions() tracker.Options {
	return tracker.Options{Location: b.app.Location, Logger: b.logger}
}

func (b *backend) moodTracker(ctx context.Context) (*tracker.MoodTracker, error) {
	ws, err := b.worksheet(ctx, "mood")
	if err != nil {
		return nil, err
	}
	return tracker.NewMoodTracker(ctx, ws, b.trackerOptions())
}

func (b *backend) revenueTracker(ctx context.Context) (*tracker.RevenueTracker, error) {
	ws, err := b.worksheet(ctx, "revenue")
	if err != nil {
		return nil, err
	}
	return tracker.NewRevenueTracker(ctx, ws, b.trackerOptions())
}

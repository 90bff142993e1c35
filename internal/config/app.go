package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/insights"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

// DefaultStorePath is where the SQLite backend keeps its database.
const DefaultStorePath = "~/.local/share/pulse/pulse.db"

// App holds the settings that do not belong to a single backend.
type App struct {
	Backend         string
	StorePath       string
	ServerAddr      string
	ForecastAxis    insights.Axis
	Location        *time.Location
	ForecastHorizon int
}

// SetDefaults registers default values for every key LoadApp reads.
func SetDefaults() {
	viper.SetDefault("store.backend", BackendSheets)
	viper.SetDefault("store.path", DefaultStorePath)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("forecast.axis", string(insights.AxisCalendar))
	viper.SetDefault("forecast.horizon", insights.DefaultHorizon)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// LoadApp reads and validates the application settings.
func LoadApp() (App, error) {
	app := App{
		Backend:         viper.GetString("store.backend"),
		StorePath:       ExpandPath(viper.GetString("store.path")),
		ServerAddr:      viper.GetString("server.addr"),
		ForecastHorizon: viper.GetInt("forecast.horizon"),
	}

	switch app.Backend {
	case BackendSheets, BackendSQLite:
	default:
		return App{}, fmt.Errorf("%w: unknown store backend %q (want sheets or sqlite)", common.ErrInvalidConfig, app.Backend)
	}

	axis, err := insights.ParseAxis(viper.GetString("forecast.axis"))
	if err != nil {
		return App{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	app.ForecastAxis = axis

	if app.ForecastHorizon <= 0 {
		return App{}, fmt.Errorf("%w: forecast horizon must be positive", common.ErrInvalidConfig)
	}

	loc, err := time.LoadLocation(TimeZone())
	if err != nil {
		return App{}, fmt.Errorf("%w: unknown time zone %q", common.ErrInvalidConfig, TimeZone())
	}
	app.Location = loc

	return app, nil
}

// TimeZone returns the configured zone name. time_zone wins over the
// sheets.time_zone key.
func TimeZone() string {
	for _, key := range []string{"time_zone", "sheets.time_zone"} {
		if v := viper.GetString(key); v != "" {
			return v
		}
	}
	return "Local"
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment. Missing files are skipped; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		path = ExpandPath(path)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

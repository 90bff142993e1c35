package config

import (
	"os"

	"github.com/Veraticus/pulse/internal/sheets"
	"github.com/spf13/viper"
)

// Default spreadsheet titles, used when neither an id nor a name is configured.
const (
	DefaultMoodSpreadsheet    = "Mood Log"
	DefaultRevenueSpreadsheet = "Revenue Log"
)

// LoadSheetsConfig loads Google Sheets credentials from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or PULSE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetInt("sheets.retry_attempts"); viper.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v
	}
	if v := viper.GetDuration("sheets.retry_delay"); v != 0 {
		config.RetryDelay = v
	}
	config.TimeZone = TimeZone()

	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadTarget reads the worksheet target for one tracker ("mood" or "revenue")
// from the <kind>.spreadsheet_id, <kind>.spreadsheet_name and <kind>.worksheet
// keys. Without an id or a name the default title for kind is used.
func LoadTarget(kind string) sheets.Target {
	target := sheets.Target{
		SpreadsheetID:   viper.GetString(kind + ".spreadsheet_id"),
		SpreadsheetName: viper.GetString(kind + ".spreadsheet_name"),
		Worksheet:       viper.GetString(kind + ".worksheet"),
	}

	if target.SpreadsheetID == "" && target.SpreadsheetName == "" {
		switch kind {
		case "mood":
			target.SpreadsheetName = DefaultMoodSpreadsheet
		case "revenue":
			target.SpreadsheetName = DefaultRevenueSpreadsheet
		}
	}
	return target
}

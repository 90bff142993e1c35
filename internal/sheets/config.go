// Package sheets provides the Google Sheets store backend.
package sheets

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/pulse/internal/common"
)

// Config holds the credentials and transport settings shared by every worksheet.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	TimeZone           string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// Target names the worksheet a tracker reads and writes.
type Target struct {
	SpreadsheetID   string
	SpreadsheetName string
	// Worksheet is the tab title; empty selects the first tab.
	Worksheet string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeZone:      "Local",
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	// OAuth2 credentials
	c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")

	// Service account path (alternative to OAuth2)
	c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")

	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "") {
		return fmt.Errorf("%w: provide either service account path or OAuth2 credentials", common.ErrMissingConfig)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrInvalidConfig)
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", common.ErrInvalidConfig, c.TimeZone)
	}

	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate checks that the target can be resolved.
func (t Target) Validate() error {
	if t.SpreadsheetID == "" && t.SpreadsheetName == "" {
		return fmt.Errorf("%w: spreadsheet id or name is required", common.ErrMissingConfig)
	}
	return nil
}

func (t Target) String() string {
	name := t.SpreadsheetName
	if t.SpreadsheetID != "" {
		name = t.SpreadsheetID
	}
	if t.Worksheet != "" {
		return name + "/" + t.Worksheet
	}
	return name
}

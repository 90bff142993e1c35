// Package service defines the interfaces shared between the store backends and the trackers.
package service

import (
	"context"
	"log/slog"
	"time"
)

// Worksheet is a grid of string rows addressed the way a spreadsheet is:
// row indices start at 1 and row 1 holds the header.
type Worksheet interface {
	// Row returns the values of a single row; a missing row is empty, not an error.
	Row(ctx context.Context, index int) ([]string, error)
	// InsertRow places values at index, pushing that row and everything below it down by one.
	InsertRow(ctx context.Context, index int, values []string) error
	// AppendRow adds values after the last non-empty row.
	AppendRow(ctx context.Context, values []string) error
	// Rows returns every row, header included.
	Rows(ctx context.Context) ([][]string, error)
}

// RetryOptions configures retry behavior for idempotent reads.
type RetryOptions struct {
	// Logger receives one warning per failed attempt; nil means slog.Default.
	Logger *slog.Logger
	// Operation names the call in log lines, e.g. "read 'Sheet1'!1:1".
	Operation    string
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

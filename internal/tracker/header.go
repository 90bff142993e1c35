// Package tracker logs mood and revenue entries to a worksheet and reads them back.
package tracker

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/pulse/internal/service"
)

// ReconcileHeader makes sure row 1 of ws is exactly expected. When it is not,
// expected is inserted as a new row 1 and the previous first row moves to row 2
// untouched; a header that is merely close is never repaired in place.
func ReconcileHeader(ctx context.Context, ws service.Worksheet, expected []string) (bool, error) {
	current, err := ws.Row(ctx, 1)
	if err != nil {
		return false, fmt.Errorf("failed to read header row: %w", err)
	}

	if slices.Equal(current, expected) {
		return false, nil
	}

	if err := ws.InsertRow(ctx, 1, expected); err != nil {
		return false, fmt.Errorf("failed to insert header row: %w", err)
	}
	return true, nil
}

// records maps each data row onto the header names of row 1. Short rows are
// padded with empty strings and cells beyond the header are dropped.
func records(rows [][]string) (header []string, out []map[string]string) {
	if len(rows) == 0 {
		return nil, nil
	}

	header = rows[0]
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return header, out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

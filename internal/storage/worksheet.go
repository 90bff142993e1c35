package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Worksheet is a named grid of rows inside SQLiteStorage. It implements
// service.Worksheet.
type Worksheet struct {
	storage *SQLiteStorage
	name    string
}

// Name returns the worksheet name.
func (w *Worksheet) Name() string {
	return w.name
}

// Row returns the cells at index; a missing row is empty.
func (w *Worksheet) Row(ctx context.Context, index int) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateIndex(index); err != nil {
		return nil, err
	}

	var raw string
	err := w.storage.db.QueryRowContext(ctx,
		`SELECT cells FROM worksheet_rows WHERE worksheet = ? AND position = ?`,
		w.name, index).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d of %s: %w", index, w.name, err)
	}

	return decodeCells(raw)
}

// Rows returns every row in position order. Gaps left by inserting past the
// end come back as empty rows.
func (w *Worksheet) Rows(ctx context.Context) ([][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := w.storage.db.QueryContext(ctx,
		`SELECT position, cells FROM worksheet_rows WHERE worksheet = ? ORDER BY position`,
		w.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", w.name, err)
	}
	defer func() { _ = rows.Close() }()

	var out [][]string
	for rows.Next() {
		var (
			position int
			raw      string
		)
		if err := rows.Scan(&position, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		cells, err := decodeCells(raw)
		if err != nil {
			return nil, err
		}
		for len(out) < position-1 {
			out = append(out, []string{})
		}
		out = append(out, cells)
	}

	return out, rows.Err()
}

// AppendRow writes values after the last row.
func (w *Worksheet) AppendRow(ctx context.Context, values []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	raw, err := encodeCells(values)
	if err != nil {
		return err
	}

	_, err = w.storage.db.ExecContext(ctx,
		`INSERT INTO worksheet_rows (worksheet, position, cells, written_at)
		 SELECT ?, COALESCE(MAX(position), 0) + 1, ?, ? FROM worksheet_rows WHERE worksheet = ?`,
		w.name, raw, time.Now().UTC(), w.name)
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", w.name, err)
	}
	return nil
}

// InsertRow places values at index and shifts the rows at and below it down.
func (w *Worksheet) InsertRow(ctx context.Context, index int, values []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIndex(index); err != nil {
		return err
	}

	raw, err := encodeCells(values)
	if err != nil {
		return err
	}

	tx, err := w.storage.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Two passes through negative positions keep the primary key unique while shifting.
	if _, err := tx.ExecContext(ctx,
		`UPDATE worksheet_rows SET position = -(position + 1) WHERE worksheet = ? AND position >= ?`,
		w.name, index); err != nil {
		return fmt.Errorf("failed to shift rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE worksheet_rows SET position = -position WHERE worksheet = ? AND position < 0`,
		w.name); err != nil {
		return fmt.Errorf("failed to shift rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO worksheet_rows (worksheet, position, cells, written_at) VALUES (?, ?, ?, ?)`,
		w.name, index, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert row %d into %s: %w", index, w.name, err)
	}

	return tx.Commit()
}

func encodeCells(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode row: %w", err)
	}
	return string(b), nil
}

func decodeCells(raw string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	return cells, nil
}

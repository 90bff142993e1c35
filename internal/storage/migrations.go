package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Worksheet rows",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS worksheet_rows (
				worksheet TEXT NOT NULL,
				position INTEGER NOT NULL,
				cells TEXT NOT NULL,
				PRIMARY KEY (worksheet, position)
			)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Record when each row was written",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE worksheet_rows ADD COLUMN written_at DATETIME`)
			return err
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion. The version lives in
// PRAGMA user_version, so running it again is a no-op.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}
		if err := s.apply(ctx, migration); err != nil {
			return err
		}
		slog.Debug("applied migration",
			"version", migration.Version,
			"description", migration.Description,
			"path", s.dbPath)
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) apply(ctx context.Context, migration Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := migration.Up(tx); err != nil {
		return fmt.Errorf("migration %d failed: %w", migration.Version, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}
	return nil
}

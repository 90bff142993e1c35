package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SchemaVersion(t *testing.T) {
	store := createTestStorage(t)

	var version int
	require.NoError(t, store.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
	assert.Equal(t, len(migrations), version)
}

func TestMigrate_WrittenAtRecorded(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	ws, err := store.Worksheet("revenue")
	require.NoError(t, err)
	require.NoError(t, ws.AppendRow(ctx, []string{"a"}))
	require.NoError(t, ws.InsertRow(ctx, 1, []string{"header"}))

	var missing int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM worksheet_rows WHERE written_at IS NULL`).Scan(&missing))
	assert.Zero(t, missing)
}

func TestMigrate_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pulse.db")

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	ws, err := store.Worksheet("mood")
	require.NoError(t, err)
	require.NoError(t, ws.AppendRow(ctx, []string{"timestamp", "mood", "note"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	ws, err = reopened.Worksheet("mood")
	require.NoError(t, err)
	rows, err := ws.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"timestamp", "mood", "note"}}, rows)
}

func TestMigrate_NilContext(t *testing.T) {
	store := createTestStorage(t)
	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}

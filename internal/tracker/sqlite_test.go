package tracker

import (
	"context"
	"testing"

	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueTracker_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	ws := testutil.SetupTestDB(t).Worksheet("revenue",
		[]string{"date", "who", "amount"},
		[]string{"2025-06-01 09:00:00", "Acme", "100"},
	)

	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	rows, err := ws.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.RevenueHeader, rows[0])
	assert.Equal(t, []string{"date", "who", "amount"}, rows[1], "old header kept as row 2")

	_, err = tr.Log(ctx, RevenueInput{Client: "Globex", Revenue: "42.10"})
	require.NoError(t, err)

	rows, err = ws.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-14 15:30:45", "Globex", "42.10", ""}, rows[len(rows)-1])
}

func TestMoodTracker_SQLiteBackendKeepsHeader(t *testing.T) {
	ctx := context.Background()
	ws := testutil.SetupTestDB(t).Worksheet("mood",
		model.MoodHeader,
		[]string{"2025-06-14 07:00:00", "Joyful", "sunny"},
	)

	tr, err := NewMoodTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	_, err = tr.Log(ctx, MoodInput{Mood: "Chill"})
	require.NoError(t, err)

	entries, err := tr.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.MoodJoyful, entries[0].Mood)
	assert.Equal(t, "sunny", entries[0].Note)
	assert.Equal(t, model.MoodChill, entries[1].Mood)
}

func TestRevenueTracker_SQLiteEntriesSum(t *testing.T) {
	ctx := context.Background()
	ws := testutil.SetupTestDB(t).Worksheet("revenue",
		model.RevenueHeader,
		[]string{"2025-06-01 09:00:00", "Acme", "100", ""},
		[]string{"2025-06-02 09:00:00", "Acme", "0.10", ""},
	)
	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	entries, err := tr.Entries(ctx)
	require.NoError(t, err)
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Revenue)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("100.10")))
}

package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/sheets"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 14, 15, 30, 45, 123, time.UTC)

func testOptions() Options {
	return Options{
		Clock:    func() time.Time { return fixedNow },
		Location: time.UTC,
	}
}

func TestRevenueTracker_LogValid(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet()

	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	inputs := []RevenueInput{
		{Client: "Acme", Revenue: "250"},
		{Client: "  Globex ", Revenue: "1,250.50", Note: "invoice 7"},
		{Client: "Initech", Revenue: "$0.01"},
	}
	for i, in := range inputs {
		entry, err := tr.Log(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, i+1, ws.Appends(), "exactly one row per submission")
		assert.Equal(t, fixedNow.Truncate(time.Second), entry.Timestamp)
	}

	rows, err := ws.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2025-06-14 15:30:45", "Globex", "1250.50", "invoice 7"}, rows[2])

	entries, err := tr.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Revenue.Equal(decimal.NewFromInt(250)))
	assert.True(t, entries[1].Revenue.Equal(decimal.RequireFromString("1250.5")))
	assert.Equal(t, fixedNow.Truncate(time.Second), entries[2].Timestamp)
}

func TestRevenueTracker_LogRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		field string
		input RevenueInput
	}{
		{name: "empty client", input: RevenueInput{Client: "", Revenue: "10"}, field: "client"},
		{name: "blank client", input: RevenueInput{Client: "   ", Revenue: "10"}, field: "client"},
		{name: "zero revenue", input: RevenueInput{Client: "Acme", Revenue: "0"}, field: "revenue"},
		{name: "negative revenue", input: RevenueInput{Client: "Acme", Revenue: "-5"}, field: "revenue"},
		{name: "not a number", input: RevenueInput{Client: "Acme", Revenue: "lots"}, field: "revenue"},
		{name: "missing revenue", input: RevenueInput{Client: "Acme"}, field: "revenue"},
		{name: "rounds to zero", input: RevenueInput{Client: "Acme", Revenue: "0.001"}, field: "revenue"},
		{name: "sub-cent precision", input: RevenueInput{Client: "Acme", Revenue: "12.345"}, field: "revenue"},
		{name: "decimal comma", input: RevenueInput{Client: "Acme", Revenue: "1,5"}, field: "revenue"},
		{name: "misplaced thousands separator", input: RevenueInput{Client: "Acme", Revenue: "12,34.00"}, field: "revenue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ws := sheets.NewMemoryWorksheet()
			tr, err := NewRevenueTracker(ctx, ws, testOptions())
			require.NoError(t, err)

			_, err = tr.Log(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)

			var vErr *common.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.NotEmpty(t, vErr.Message)

			assert.Equal(t, 0, ws.Appends())
		})
	}
}

func TestRevenueTracker_StoresSubmittedAmount(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet()
	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	entry, err := tr.Log(ctx, RevenueInput{Client: "Acme", Revenue: "12.340"})
	require.NoError(t, err)
	assert.True(t, entry.Revenue.Equal(decimal.RequireFromString("12.34")))

	rows, err := ws.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12.34", rows[len(rows)-1][2])
}

func TestRevenueInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want RevenueInput
	}{
		{name: "number", body: `{"client":"Acme","revenue":42.5}`, want: RevenueInput{Client: "Acme", Revenue: "42.5"}},
		{name: "string", body: `{"client":"Acme","revenue":"1,250.50","note":"q2"}`, want: RevenueInput{Client: "Acme", Revenue: "1,250.50", Note: "q2"}},
		{name: "null", body: `{"client":"Acme","revenue":null}`, want: RevenueInput{Client: "Acme"}},
		{name: "missing", body: `{"client":"Acme"}`, want: RevenueInput{Client: "Acme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in RevenueInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.want, in)
		})
	}

	var in RevenueInput
	assert.Error(t, json.Unmarshal([]byte(`{"client":"Acme","revenue":true}`), &in))
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "1,250.50", want: "1250.50", ok: true},
		{input: "$1,000,000", want: "1000000", ok: true},
		{input: " 30 ", want: "30", ok: true},
		{input: "-2,500", want: "-2500", ok: true},
		{input: "1,5", ok: false},
		{input: "1,25.00", ok: false},
		{input: "1234,567", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := normalizeAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRevenueTracker_DecimalCommaCellFailsRead(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet(
		model.RevenueHeader,
		[]string{"2025-01-01 10:00:00", "Acme", "1,5", ""},
	)
	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	_, err = tr.Entries(ctx)
	assert.ErrorIs(t, err, common.ErrMalformedRow)
}

func TestRevenueTracker_MalformedRevenueFailsRead(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet(
		model.RevenueHeader,
		[]string{"2025-01-01 10:00:00", "Acme", "n/a", ""},
	)
	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	_, err = tr.Entries(ctx)
	assert.ErrorIs(t, err, common.ErrMalformedRow)
}

func TestRevenueTracker_AppendFailurePropagates(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet()
	tr, err := NewRevenueTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	ws.AppendFunc = func(context.Context, []string) error { return errors.New("network down") }
	_, err = tr.Log(ctx, RevenueInput{Client: "Acme", Revenue: "5"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrValidation)
}

func TestMoodTracker_LogAndRead(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet()
	tr, err := NewMoodTracker(ctx, ws, testOptions())
	require.NoError(t, err)

	entry, err := tr.Log(ctx, MoodInput{Mood: "🎉 Energized", Note: " standup went well "})
	require.NoError(t, err)
	assert.Equal(t, model.MoodEnergized, entry.Mood)
	assert.Equal(t, "standup went well", entry.Note)

	_, err = tr.Log(ctx, MoodInput{Mood: "Grumpy"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 1, ws.Appends())

	entries, err := tr.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.MoodEnergized, entries[0].Mood)
	assert.Equal(t, fixedNow.Truncate(time.Second), entries[0].Timestamp)
}

func TestMoodTracker_ReadsLegacyRows(t *testing.T) {
	ctx := context.Background()
	ws := sheets.NewMemoryWorksheet(
		model.MoodHeader,
		[]string{"2025-06-14 08:00:00", "😴 Tired", ""},
		[]string{"not a date", "Chill", "coerced"},
	)
	tr, err := NewMoodTracker(ctx, ws, testOptions())
	require.NoError(t, err)
	assert.Empty(t, ws.Calls, "matching header is not rewritten")

	entries, err := tr.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.MoodTired, entries[0].Mood)
	assert.True(t, entries[1].Timestamp.IsZero())
}

func TestNewTracker_HeaderReadFailure(t *testing.T) {
	ws := sheets.NewMemoryWorksheet()
	ws.RowFunc = func(context.Context, int) error { return errors.New("unauthorized") }

	_, err := NewMoodTracker(context.Background(), ws, testOptions())
	assert.Error(t, err)
}

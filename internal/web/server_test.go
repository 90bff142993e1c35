package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/report"
	"github.com/Veraticus/pulse/internal/sheets"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, 6, 14, 15, 30, 45, 0, time.UTC)

type fixture struct {
	server  *Server
	moodWS  *sheets.MemoryWorksheet
	revWS   *sheets.MemoryWorksheet
	handler http.Handler
}

func newFixture(t *testing.T, revenueRows ...[]string) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := tracker.Options{
		Clock:    func() time.Time { return fixedNow },
		Location: time.UTC,
		Logger:   logger,
	}

	moodWS := sheets.NewMemoryWorksheet()
	revWS := sheets.NewMemoryWorksheet(append([][]string{model.RevenueHeader}, revenueRows...)...)

	mood, err := tracker.NewMoodTracker(ctx, moodWS, opts)
	require.NoError(t, err)
	revenue, err := tracker.NewRevenueTracker(ctx, revWS, opts)
	require.NoError(t, err)

	srv, err := NewServer(mood, revenue, Options{
		Logger: logger,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)

	return &fixture{server: srv, moodWS: moodWS, revWS: revWS, handler: srv.Handler()}
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (f *fixture) postJSON(target, body string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, strings.NewReader(body), "application/json")
}

func threeDays() [][]string {
	return [][]string{
		{"2025-06-10 09:00:00", "Acme", "100", ""},
		{"2025-06-11 09:00:00", "Globex", "200", "rush"},
		{"2025-06-12 09:00:00", "Acme", "300", ""},
	}
}

func TestNewServer_RequiresTrackers(t *testing.T) {
	_, err := NewServer(nil, nil, Options{})
	assert.Error(t, err)
}

func TestIndexAndHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Log a mood")
	assert.Contains(t, rec.Body.String(), "7-day forecast")

	rec = f.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/healthz", nil, "")
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
}

func TestMoodPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/mood", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), insights.NoMoodsMessage)
	assert.Contains(t, rec.Body.String(), model.MoodFrustrated.Display())
}

func TestSubmitMood(t *testing.T) {
	f := newFixture(t)

	rec := f.postForm("/mood", url.Values{"mood": {"Chill"}, "note": {" coffee "}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Logged "+model.MoodChill.Display()+" at 2025-06-14 15:30:45")
	assert.Contains(t, body, "Average mood score")
	assert.Contains(t, body, "coffee")
	assert.Equal(t, 1, f.moodWS.Appends())

	rows, err := f.moodWS.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-14 15:30:45", "Chill", "coffee"}, rows[1])
}

func TestSubmitMood_Invalid(t *testing.T) {
	f := newFixture(t)

	rec := f.postForm("/mood", url.Values{"mood": {"Hungry"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pick one of the listed moods.")
	assert.Equal(t, 0, f.moodWS.Appends())
}

func TestSubmitRevenue(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		message string
		status  int
		appends int
	}{
		{
			name:    "valid",
			form:    url.Values{"client": {"Acme"}, "revenue": {"1,250.5"}, "note": {"invoice"}},
			status:  http.StatusOK,
			message: "Logged $1250.50 for Acme at 2025-06-14 15:30:45",
			appends: 1,
		},
		{
			name:    "blank client",
			form:    url.Values{"client": {"  "}, "revenue": {"10"}},
			status:  http.StatusUnprocessableEntity,
			message: "Please enter a client name.",
		},
		{
			name:    "not a number",
			form:    url.Values{"client": {"Acme"}, "revenue": {"lots"}},
			status:  http.StatusUnprocessableEntity,
			message: "Revenue must be a number.",
		},
		{
			name:    "zero",
			form:    url.Values{"client": {"Acme"}, "revenue": {"0"}},
			status:  http.StatusUnprocessableEntity,
			message: "Revenue must be greater than zero.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.postForm("/revenue", tt.form)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Equal(t, tt.appends, f.revWS.Appends())
		})
	}
}

func TestRevenuePage(t *testing.T) {
	t.Run("with a forecast", func(t *testing.T) {
		f := newFixture(t, threeDays()...)

		rec := f.do(http.MethodGet, "/revenue", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "$600.00")
		assert.Contains(t, body, "Globex")
		assert.Contains(t, body, `id="forecast"`)
		assert.Contains(t, body, "2025-06-13")
	})

	t.Run("too few days", func(t *testing.T) {
		f := newFixture(t, threeDays()[:2]...)

		rec := f.do(http.MethodGet, "/revenue", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), `id="forecast"`)
		assert.Contains(t, rec.Body.String(), "at least 3 different days")
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/revenue", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), insights.NoRevenueMessage)
	})
}

func TestRemoteFailure(t *testing.T) {
	f := newFixture(t)
	f.revWS.RowsFunc = func(context.Context) error { return errors.New("quota exceeded") }
	f.moodWS.AppendFunc = func(context.Context, []string) error { return errors.New("connection reset") }

	rec := f.do(http.MethodGet, "/revenue", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), genericFailure)
	assert.NotContains(t, rec.Body.String(), "quota exceeded")

	rec = f.postForm("/mood", url.Values{"mood": {"Chill"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = f.do(http.MethodGet, "/api/revenue/summary", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, genericFailure, resp["error"])
	assert.NotEmpty(t, resp["request_id"])
}

func TestMalformedRevenueRow(t *testing.T) {
	f := newFixture(t, []string{"2025-06-10 09:00:00", "Acme", "n/a", ""})

	rec := f.do(http.MethodGet, "/api/revenue/summary", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPIMood(t *testing.T) {
	f := newFixture(t)

	rec := f.postJSON("/api/mood", `{"mood":"🎉 Energized","note":"launch"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry moodEntryJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, moodEntryJSON{
		Timestamp: "2025-06-14 15:30:45",
		Mood:      "Energized",
		Emoji:     model.MoodEnergized.Emoji(),
		Note:      "launch",
		Score:     2,
	}, entry)

	rec = f.postJSON("/api/mood", `{"mood":"meh"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Pick one of the listed moods.","field":"mood"}`, rec.Body.String())

	rec = f.postJSON("/api/mood", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, f.moodWS.Appends())

	rec = f.do(http.MethodGet, "/api/mood/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary moodSummaryJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "2025-06-14", summary.Day)
	assert.True(t, summary.HasToday)
	assert.InDelta(t, 2.0, summary.AverageScore, 1e-9)
	assert.Equal(t, []moodCountJSON{{Mood: "Energized", Emoji: model.MoodEnergized.Emoji(), Count: 1}}, summary.Counts)
	assert.NotEmpty(t, summary.Encouragement)
}

func TestAPIRevenue(t *testing.T) {
	f := newFixture(t, threeDays()...)

	rec := f.do(http.MethodGet, "/api/revenue/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary revenueSummaryJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "600.00", summary.Total)
	assert.Equal(t, 3, summary.Entries)
	assert.Equal(t, 2, summary.Clients)
	assert.Equal(t, "calendar", summary.Forecast.Axis)
	require.Len(t, summary.Forecast.Points, insights.DefaultHorizon)
	assert.Equal(t, forecastPointJSON{Date: "2025-06-13", Revenue: 400}, summary.Forecast.Points[0])
	assert.Equal(t, "Acme", summary.ByClient[0].Client)
	assert.Equal(t, "400.00", summary.ByClient[0].Revenue)

	rec = f.postJSON("/api/revenue", `{"client":"Initech","revenue":"75"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"timestamp":"2025-06-14 15:30:45","client":"Initech","revenue":"75.00","note":""}`, rec.Body.String())

	rec = f.postJSON("/api/revenue", `{"client":"Initech","revenue":"-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, f.revWS.Appends())
}

func TestAPIRevenue_NumericAmount(t *testing.T) {
	f := newFixture(t)

	rec := f.postJSON("/api/revenue", `{"client":"Acme","revenue":42.5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"timestamp":"2025-06-14 15:30:45","client":"Acme","revenue":"42.50","note":""}`, rec.Body.String())
	assert.Equal(t, 1, f.revWS.Appends())

	for _, body := range []string{
		`{"client":"Acme","revenue":0.001}`,
		`{"client":"Acme","revenue":12.345}`,
		`{"client":"Acme","revenue":"1,5"}`,
	} {
		rec = f.postJSON("/api/revenue", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"field":"revenue"`, body)
	}
	assert.Equal(t, 1, f.revWS.Appends())
}

func TestExportWorkbook(t *testing.T) {
	f := newFixture(t, threeDays()...)

	rec := f.do(http.MethodGet, "/revenue/export.xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pulse-2025-06-14.xlsx")

	book, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer func() { _ = book.Close() }()
	assert.Equal(t, report.Sheets, book.GetSheetList())

	client, err := book.GetCellValue(report.SheetRevenue, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Globex", client)
}

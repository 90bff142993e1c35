package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/report"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/gin-gonic/gin"
)

type moodEntryJSON struct {
	Timestamp string `json:"timestamp"`
	Mood      string `json:"mood"`
	Emoji     string `json:"emoji,omitempty"`
	Note      string `json:"note"`
	Score     int    `json:"score"`
}

type moodCountJSON struct {
	Mood  string `json:"mood"`
	Emoji string `json:"emoji,omitempty"`
	Count int    `json:"count"`
}

type moodSummaryJSON struct {
	Day           string          `json:"day"`
	Encouragement string          `json:"encouragement"`
	Message       string          `json:"message,omitempty"`
	Counts        []moodCountJSON `json:"counts"`
	Today         []moodEntryJSON `json:"today"`
	AverageScore  float64         `json:"average_score"`
	Total         int             `json:"total"`
	HasData       bool            `json:"has_data"`
	HasToday      bool            `json:"has_today"`
}

type revenueEntryJSON struct {
	Timestamp string `json:"timestamp"`
	Client    string `json:"client"`
	Revenue   string `json:"revenue"`
	Note      string `json:"note"`
}

type dailyJSON struct {
	Date       string `json:"date"`
	Revenue    string `json:"revenue"`
	Cumulative string `json:"cumulative"`
	Entries    int    `json:"entries"`
}

type clientJSON struct {
	Client  string `json:"client"`
	Revenue string `json:"revenue"`
	Entries int    `json:"entries"`
}

type forecastPointJSON struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type forecastJSON struct {
	Axis         string              `json:"axis"`
	Message      string              `json:"message,omitempty"`
	Points       []forecastPointJSON `json:"points"`
	Slope        float64             `json:"slope"`
	Intercept    float64             `json:"intercept"`
	Insufficient bool                `json:"insufficient"`
}

type revenueSummaryJSON struct {
	Total         string             `json:"total"`
	AveragePerDay string             `json:"average_per_day"`
	Daily         []dailyJSON        `json:"daily"`
	ByClient      []clientJSON       `json:"by_client"`
	Recent        []revenueEntryJSON `json:"recent"`
	Forecast      forecastJSON       `json:"forecast"`
	Entries       int                `json:"entries"`
	Clients       int                `json:"clients"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.TimestampLayout)
}

func toMoodEntryJSON(e model.MoodEntry) moodEntryJSON {
	return moodEntryJSON{
		Timestamp: formatTimestamp(e.Timestamp),
		Mood:      string(e.Mood),
		Emoji:     e.Mood.Emoji(),
		Note:      e.Note,
		Score:     e.Mood.Score(),
	}
}

func toRevenueEntryJSON(e model.RevenueEntry) revenueEntryJSON {
	return revenueEntryJSON{
		Timestamp: formatTimestamp(e.Timestamp),
		Client:    e.Client,
		Revenue:   e.Revenue.StringFixed(2),
		Note:      e.Note,
	}
}

func (s *Server) apiMoodSummary(c *gin.Context) {
	entries, err := s.mood.Entries(c.Request.Context())
	if err != nil {
		s.apiError(c, err)
		return
	}

	summary := insights.SummarizeMoods(entries, s.mood.Now(), s.mood.Location())
	resp := moodSummaryJSON{
		Day:           summary.Day.Format("2006-01-02"),
		Encouragement: s.encouragement(),
		Message:       summary.Message,
		Counts:        make([]moodCountJSON, 0, len(summary.Counts)),
		Today:         make([]moodEntryJSON, 0, len(summary.Today)),
		AverageScore:  summary.AverageScore,
		Total:         summary.Total,
		HasData:       summary.HasData,
		HasToday:      summary.HasToday,
	}
	for _, mc := range summary.Counts {
		resp.Counts = append(resp.Counts, moodCountJSON{Mood: string(mc.Mood), Emoji: mc.Mood.Emoji(), Count: mc.Count})
	}
	for _, e := range summary.Today {
		resp.Today = append(resp.Today, toMoodEntryJSON(e))
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) apiLogMood(c *gin.Context) {
	var in tracker.MoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	entry, err := s.mood.Log(c.Request.Context(), in)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMoodEntryJSON(entry))
}

func (s *Server) apiRevenueSummary(c *gin.Context) {
	entries, err := s.revenue.Entries(c.Request.Context())
	if err != nil {
		s.apiError(c, err)
		return
	}

	summary := insights.SummarizeRevenue(entries, s.revenue.Location(), s.horizon, s.axis)
	resp := revenueSummaryJSON{
		Total:         summary.Total.StringFixed(2),
		AveragePerDay: summary.AveragePerDay.StringFixed(2),
		Daily:         make([]dailyJSON, 0, len(summary.Daily)),
		ByClient:      make([]clientJSON, 0, len(summary.ByClient)),
		Recent:        make([]revenueEntryJSON, 0, len(summary.Recent)),
		Forecast: forecastJSON{
			Axis:         string(summary.Forecast.Axis),
			Message:      summary.Forecast.Message,
			Points:       make([]forecastPointJSON, 0, len(summary.Forecast.Points)),
			Slope:        summary.Forecast.Line.Slope,
			Intercept:    summary.Forecast.Line.Intercept,
			Insufficient: summary.Forecast.Insufficient,
		},
		Entries: summary.Entries,
		Clients: summary.Clients,
	}
	for _, d := range summary.Daily {
		resp.Daily = append(resp.Daily, dailyJSON{
			Date:       d.Date.Format("2006-01-02"),
			Revenue:    d.Revenue.StringFixed(2),
			Cumulative: d.Cumulative.StringFixed(2),
			Entries:    d.Entries,
		})
	}
	for _, ct := range summary.ByClient {
		resp.ByClient = append(resp.ByClient, clientJSON{Client: ct.Client, Revenue: ct.Revenue.StringFixed(2), Entries: ct.Entries})
	}
	for _, p := range summary.Forecast.Points {
		resp.Forecast.Points = append(resp.Forecast.Points, forecastPointJSON{Date: p.Date.Format("2006-01-02"), Revenue: p.Revenue})
	}
	for _, e := range summary.Recent {
		resp.Recent = append(resp.Recent, toRevenueEntryJSON(e))
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) apiLogRevenue(c *gin.Context) {
	var in tracker.RevenueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	entry, err := s.revenue.Log(c.Request.Context(), in)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRevenueEntryJSON(entry))
}

func (s *Server) apiError(c *gin.Context, err error) {
	status, ve := failureStatus(err)
	if ve != nil {
		c.JSON(status, gin.H{"error": ve.Message, "field": ve.Field})
		return
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": genericFailure, "request_id": c.GetString(requestIDKey)})
}

func (s *Server) exportWorkbook(c *gin.Context) {
	ctx := c.Request.Context()

	moods, err := s.mood.Entries(ctx)
	if err != nil {
		s.apiError(c, err)
		return
	}
	revenue, err := s.revenue.Entries(ctx)
	if err != nil {
		s.apiError(c, err)
		return
	}

	f, err := report.BuildWorkbook(report.Input{
		Moods:   moods,
		Revenue: revenue,
		Summary: insights.SummarizeRevenue(revenue, s.revenue.Location(), s.horizon, s.axis),
	}, nil)
	if err != nil {
		s.apiError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	filename := fmt.Sprintf("pulse-%s.xlsx", s.mood.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(fmt.Errorf("failed to stream workbook: %w", err))
	}
}

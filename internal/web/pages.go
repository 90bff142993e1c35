package web

import (
	"fmt"
	"net/http"

	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/gin-gonic/gin"
)

type moodChart struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
	Times  []string `json:"times"`
	Scores []int    `json:"scores"`
}

type revenueChart struct {
	Days          []string  `json:"days"`
	Daily         []float64 `json:"daily"`
	Cumulative    []float64 `json:"cumulative"`
	ForecastDays  []string  `json:"forecast_days"`
	Forecast      []float64 `json:"forecast"`
	Clients       []string  `json:"clients"`
	ClientRevenue []float64 `json:"client_revenue"`
}

type moodPageData struct {
	Title         string
	Encouragement string
	Flash         string
	Error         string
	Form          tracker.MoodInput
	Moods         []model.Mood
	Summary       insights.MoodSummary
	Chart         moodChart
}

type revenuePageData struct {
	Title   string
	Flash   string
	Error   string
	Empty   string
	Form    tracker.RevenueInput
	Summary insights.RevenueSummary
	Chart   revenueChart
	Horizon int
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":         "pulse",
		"Encouragement": s.encouragement(),
		"Horizon":       s.horizon,
	})
}

func (s *Server) moodPage(c *gin.Context) {
	s.renderMood(c, http.StatusOK, tracker.MoodInput{}, "", "")
}

func (s *Server) submitMood(c *gin.Context) {
	var in tracker.MoodInput
	if err := c.ShouldBind(&in); err != nil {
		s.renderMood(c, http.StatusBadRequest, in, "", "Could not read the submitted form.")
		return
	}

	entry, err := s.mood.Log(c.Request.Context(), in)
	if err != nil {
		status, ve := failureStatus(err)
		if ve == nil {
			s.serverError(c, err)
			return
		}
		s.renderMood(c, status, in, "", ve.Message)
		return
	}

	flash := fmt.Sprintf("Logged %s at %s", entry.Mood.Display(), entry.Timestamp.Format(model.TimestampLayout))
	s.renderMood(c, http.StatusOK, tracker.MoodInput{}, flash, "")
}

func (s *Server) renderMood(c *gin.Context, status int, form tracker.MoodInput, flash, formErr string) {
	entries, err := s.mood.Entries(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}

	summary := insights.SummarizeMoods(entries, s.mood.Now(), s.mood.Location())
	c.HTML(status, "mood.html", moodPageData{
		Title:         "Mood Tracker",
		Encouragement: s.encouragement(),
		Flash:         flash,
		Error:         formErr,
		Form:          form,
		Moods:         model.Moods(),
		Summary:       summary,
		Chart:         newMoodChart(summary),
	})
}

func newMoodChart(summary insights.MoodSummary) moodChart {
	chart := moodChart{
		Labels: make([]string, 0, len(summary.Counts)),
		Counts: make([]int, 0, len(summary.Counts)),
		Times:  make([]string, 0, len(summary.Timeline)),
		Scores: make([]int, 0, len(summary.Timeline)),
	}
	for _, mc := range summary.Counts {
		chart.Labels = append(chart.Labels, mc.Mood.Display())
		chart.Counts = append(chart.Counts, mc.Count)
	}
	for _, p := range summary.Timeline {
		chart.Times = append(chart.Times, p.Timestamp.Format("15:04"))
		chart.Scores = append(chart.Scores, p.Score)
	}
	return chart
}

func (s *Server) revenuePage(c *gin.Context) {
	s.renderRevenue(c, http.StatusOK, tracker.RevenueInput{}, "", "")
}

func (s *Server) submitRevenue(c *gin.Context) {
	var in tracker.RevenueInput
	if err := c.ShouldBind(&in); err != nil {
		s.renderRevenue(c, http.StatusBadRequest, in, "", "Could not read the submitted form.")
		return
	}

	entry, err := s.revenue.Log(c.Request.Context(), in)
	if err != nil {
		status, ve := failureStatus(err)
		if ve == nil {
			s.serverError(c, err)
			return
		}
		s.renderRevenue(c, status, in, "", ve.Message)
		return
	}

	flash := fmt.Sprintf("Logged $%s for %s at %s",
		entry.Revenue.StringFixed(2), entry.Client, entry.Timestamp.Format(model.TimestampLayout))
	s.renderRevenue(c, http.StatusOK, tracker.RevenueInput{}, flash, "")
}

func (s *Server) renderRevenue(c *gin.Context, status int, form tracker.RevenueInput, flash, formErr string) {
	entries, err := s.revenue.Entries(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}

	summary := insights.SummarizeRevenue(entries, s.revenue.Location(), s.horizon, s.axis)
	c.HTML(status, "revenue.html", revenuePageData{
		Title:   "Revenue Tracker",
		Flash:   flash,
		Error:   formErr,
		Empty:   insights.NoRevenueMessage,
		Form:    form,
		Summary: summary,
		Chart:   newRevenueChart(summary),
		Horizon: s.horizon,
	})
}

func newRevenueChart(summary insights.RevenueSummary) revenueChart {
	chart := revenueChart{
		Days:          make([]string, 0, len(summary.Daily)),
		Daily:         make([]float64, 0, len(summary.Daily)),
		Cumulative:    make([]float64, 0, len(summary.Daily)),
		ForecastDays:  make([]string, 0, len(summary.Forecast.Points)),
		Forecast:      make([]float64, 0, len(summary.Forecast.Points)),
		Clients:       make([]string, 0, len(summary.ByClient)),
		ClientRevenue: make([]float64, 0, len(summary.ByClient)),
	}
	for _, d := range summary.Daily {
		chart.Days = append(chart.Days, d.Date.Format("2006-01-02"))
		chart.Daily = append(chart.Daily, d.Revenue.InexactFloat64())
		chart.Cumulative = append(chart.Cumulative, d.Cumulative.InexactFloat64())
	}
	for _, p := range summary.Forecast.Points {
		chart.ForecastDays = append(chart.ForecastDays, p.Date.Format("2006-01-02"))
		chart.Forecast = append(chart.Forecast, p.Revenue)
	}
	for _, ct := range summary.ByClient {
		chart.Clients = append(chart.Clients, ct.Client)
		chart.ClientRevenue = append(chart.ClientRevenue, ct.Revenue.InexactFloat64())
	}
	return chart
}

// serverError logs err against the request and shows a generic page.
func (s *Server) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":     "Something went wrong",
		"Message":   genericFailure,
		"RequestID": c.GetString(requestIDKey),
	})
}

// Package web serves the mood and revenue dashboards over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/gin-gonic/gin"
)

// MoodLog is the mood tracker as the dashboard uses it.
type MoodLog interface {
	Log(ctx context.Context, in tracker.MoodInput) (model.MoodEntry, error)
	Entries(ctx context.Context) ([]model.MoodEntry, error)
	Now() time.Time
	Location() *time.Location
}

// RevenueLog is the revenue tracker as the dashboard uses it.
type RevenueLog interface {
	Log(ctx context.Context, in tracker.RevenueInput) (model.RevenueEntry, error)
	Entries(ctx context.Context) ([]model.RevenueEntry, error)
	Location() *time.Location
}

// Options tunes the server.
type Options struct {
	Logger *slog.Logger
	Rand   *rand.Rand
	Axis   insights.Axis
	// Horizon is the number of forecast days; zero means the default.
	Horizon int
	Debug   bool
}

// Server is the HTTP dashboard. Every request re-reads the worksheets.
type Server struct {
	router  *gin.Engine
	mood    MoodLog
	revenue RevenueLog
	logger  *slog.Logger
	rand    *rand.Rand
	axis    insights.Axis
	horizon int
	randMu  sync.Mutex
}

// NewServer builds the router over both trackers.
func NewServer(mood MoodLog, revenue RevenueLog, opts Options) (*Server, error) {
	if mood == nil || revenue == nil {
		return nil, errors.New("both trackers are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Horizon <= 0 {
		opts.Horizon = insights.DefaultHorizon
	}
	if opts.Axis == "" {
		opts.Axis = insights.AxisCalendar
	}

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:  gin.New(),
		mood:    mood,
		revenue: revenue,
		logger:  opts.Logger,
		rand:    opts.Rand,
		axis:    opts.Axis,
		horizon: opts.Horizon,
	}
	s.router.SetHTMLTemplate(tmpl)
	s.router.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.index)
	s.router.GET("/healthz", s.health)

	s.router.GET("/mood", s.moodPage)
	s.router.POST("/mood", s.submitMood)

	s.router.GET("/revenue", s.revenuePage)
	s.router.POST("/revenue", s.submitRevenue)
	s.router.GET("/revenue/export.xlsx", s.exportWorkbook)

	api := s.router.Group("/api")
	{
		api.GET("/mood/summary", s.apiMoodSummary)
		api.POST("/mood", s.apiLogMood)
		api.GET("/revenue/summary", s.apiRevenueSummary)
		api.POST("/revenue", s.apiLogRevenue)
	}
}

// Handler returns the router for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) encouragement() string {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return insights.Encouragement(s.rand)
}

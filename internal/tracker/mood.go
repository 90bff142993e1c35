package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/service"
)

// MoodInput is a submitted mood form.
type MoodInput struct {
	Mood string `json:"mood" form:"mood"`
	Note string `json:"note" form:"note"`
}

// MoodTracker appends mood entries and reads them back.
type MoodTracker struct {
	ws   service.Worksheet
	opts Options
}

// NewMoodTracker reconciles the header of ws and returns a tracker over it.
func NewMoodTracker(ctx context.Context, ws service.Worksheet, opts Options) (*MoodTracker, error) {
	opts = opts.withDefaults()

	inserted, err := ReconcileHeader(ctx, ws, model.MoodHeader)
	if err != nil {
		return nil, err
	}
	if inserted {
		opts.Logger.Info("inserted mood header row", "header", model.MoodHeader)
	}

	return &MoodTracker{ws: ws, opts: opts}, nil
}

// Location returns the time zone entries are stamped in.
func (t *MoodTracker) Location() *time.Location {
	return t.opts.Location
}

// Now returns the tracker clock's current time.
func (t *MoodTracker) Now() time.Time {
	return t.opts.now()
}

// Log validates in and appends exactly one row. Invalid input appends nothing.
func (t *MoodTracker) Log(ctx context.Context, in MoodInput) (model.MoodEntry, error) {
	mood, err := model.ParseMood(in.Mood)
	if err != nil {
		return model.MoodEntry{}, common.NewValidationError("mood", "Pick one of the listed moods.")
	}

	entry := model.MoodEntry{
		Timestamp: t.opts.now(),
		Mood:      mood,
		Note:      strings.TrimSpace(in.Note),
	}

	if err := t.ws.AppendRow(ctx, entry.Row()); err != nil {
		return model.MoodEntry{}, fmt.Errorf("failed to log mood: %w", err)
	}

	t.opts.Logger.Info("logged mood", "mood", entry.Mood, "timestamp", entry.Timestamp.Format(model.TimestampLayout))
	return entry, nil
}

// Entries reads every mood entry from the worksheet.
func (t *MoodTracker) Entries(ctx context.Context) ([]model.MoodEntry, error) {
	rows, err := t.ws.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read mood entries: %w", err)
	}

	_, recs := records(rows)
	entries := make([]model.MoodEntry, 0, len(recs))
	for _, rec := range recs {
		mood, err := model.ParseMood(rec["mood"])
		if err != nil {
			// Keep the raw label; it simply carries no score.
			mood = model.Mood(strings.TrimSpace(rec["mood"]))
		}
		entries = append(entries, model.MoodEntry{
			Timestamp: parseTimestamp(rec["timestamp"], t.opts.Location),
			Mood:      mood,
			Note:      rec["note"],
		})
	}

	t.opts.Logger.Debug("read mood entries", "count", len(entries))
	return entries, nil
}

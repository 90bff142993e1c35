package tracker

import (
	"log/slog"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// Options carries the collaborators shared by both trackers.
type Options struct {
	Clock    Clock
	Location *time.Location
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) now() time.Time {
	return o.Clock().In(o.Location).Truncate(time.Second)
}

// parseTimestamp reads a worksheet timestamp. Unreadable values become the zero
// time so that the row still shows up but never matches a calendar day.
func parseTimestamp(s string, loc *time.Location) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts
		}
	}
	return time.Time{}
}

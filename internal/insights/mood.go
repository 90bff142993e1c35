package insights

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Veraticus/pulse/internal/model"
)

// Messages shown when there is nothing to chart.
const (
	NoMoodsMessage      = "Log a mood to get started!"
	NoMoodsTodayMessage = "No moods logged yet!"
	NoRevenueMessage    = "Log revenue to get started!"
)

// MoodCount is how often a mood was logged.
type MoodCount struct {
	Mood  model.Mood
	Count int
}

// ScorePoint is one entry on the score-over-time chart.
type ScorePoint struct {
	Timestamp time.Time
	Mood      model.Mood
	Score     int
}

// MoodSummary holds everything the mood dashboard shows for one day.
type MoodSummary struct {
	Day          time.Time
	Counts       []MoodCount
	Timeline     []ScorePoint
	Today        []model.MoodEntry
	Message      string
	AverageScore float64
	Total        int
	HasData      bool
	HasToday     bool
}

// SummarizeMoods filters entries down to the calendar day of now in loc,
// counts each mood and averages the scores of the known labels.
func SummarizeMoods(entries []model.MoodEntry, now time.Time, loc *time.Location) MoodSummary {
	day := truncateDay(now, loc)
	summary := MoodSummary{
		Day:     day,
		Total:   len(entries),
		HasData: len(entries) > 0,
	}

	for _, e := range entries {
		if e.Timestamp.IsZero() || !truncateDay(e.Timestamp, loc).Equal(day) {
			continue
		}
		summary.Today = append(summary.Today, e)
	}
	slices.SortStableFunc(summary.Today, func(a, b model.MoodEntry) int { return a.Timestamp.Compare(b.Timestamp) })

	switch {
	case !summary.HasData:
		summary.Message = NoMoodsMessage
		return summary
	case len(summary.Today) == 0:
		summary.Message = NoMoodsTodayMessage
		return summary
	}
	summary.HasToday = true

	counts := make(map[model.Mood]int)
	var scoreSum, scored int
	for _, e := range summary.Today {
		counts[e.Mood]++
		if !e.Mood.Valid() {
			continue
		}
		scoreSum += e.Mood.Score()
		scored++
		summary.Timeline = append(summary.Timeline, ScorePoint{
			Timestamp: e.Timestamp,
			Mood:      e.Mood,
			Score:     e.Mood.Score(),
		})
	}

	if scored > 0 {
		summary.AverageScore = math.Round(float64(scoreSum)/float64(scored)*100) / 100
	}
	summary.Counts = sortCounts(counts)

	return summary
}

// sortCounts orders by count descending, then by the fixed label order with
// unknown labels last.
func sortCounts(counts map[model.Mood]int) []MoodCount {
	order := make(map[model.Mood]int)
	for i, m := range model.Moods() {
		order[m] = i
	}
	rank := func(m model.Mood) int {
		if r, ok := order[m]; ok {
			return r
		}
		return len(order)
	}

	out := make([]MoodCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MoodCount{Mood: m, Count: c})
	}
	slices.SortFunc(out, func(a, b MoodCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if ra, rb := rank(a.Mood), rank(b.Mood); ra != rb {
			return ra - rb
		}
		if a.Mood < b.Mood {
			return -1
		}
		if a.Mood > b.Mood {
			return 1
		}
		return 0
	})
	return out
}

var encouragements = []string{
	"Doing great! Keep it up :)",
	"You've got this",
	"Take a deep breath, you're doing amazing!",
}

// Encouragement picks one of the header messages.
func Encouragement(r *rand.Rand) string {
	if r == nil {
		return encouragements[rand.IntN(len(encouragements))]
	}
	return encouragements[r.IntN(len(encouragements))]
}

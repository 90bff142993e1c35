package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is how entry timestamps are written to the worksheet.
const TimestampLayout = "2006-01-02 15:04:05"

// MoodHeader is the exact header row of the mood worksheet.
var MoodHeader = []string{"timestamp", "mood", "note"}

// Mood is one of the fixed labels a user can log.
type Mood string

// Mood labels.
const (
	MoodEnergized  Mood = "Energized"
	MoodChill      Mood = "Chill"
	MoodStressed   Mood = "Stressed"
	MoodTired      Mood = "Tired"
	MoodFrustrated Mood = "Frustrated"
	MoodJoyful     Mood = "Joyful"
	MoodConfusing  Mood = "Confusing"
)

type moodInfo struct {
	emoji string
	score int
}

var moodTable = map[Mood]moodInfo{
	MoodEnergized:  {emoji: "🎉", score: 2},
	MoodChill:      {emoji: "😊", score: 1},
	MoodStressed:   {emoji: "😕", score: -1},
	MoodTired:      {emoji: "😴", score: -2},
	MoodFrustrated: {emoji: "😤", score: -3},
	MoodJoyful:     {emoji: "😄", score: 3},
	MoodConfusing:  {emoji: "🤔", score: 0},
}

// Moods returns every label in display order.
func Moods() []Mood {
	return []Mood{
		MoodEnergized,
		MoodChill,
		MoodStressed,
		MoodTired,
		MoodFrustrated,
		MoodJoyful,
		MoodConfusing,
	}
}

// ParseMood accepts a plain label ("Tired") or an emoji-prefixed one ("😴 Tired").
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	if _, ok := moodTable[Mood(s)]; ok {
		return Mood(s), nil
	}
	if idx := strings.LastIndex(s, " "); idx >= 0 {
		label := Mood(strings.TrimSpace(s[idx+1:]))
		if info, ok := moodTable[label]; ok && strings.TrimSpace(s[:idx]) == info.emoji {
			return label, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// Valid reports whether m is one of the known labels.
func (m Mood) Valid() bool {
	_, ok := moodTable[m]
	return ok
}

// Score maps the label onto the -3..3 scale.
func (m Mood) Score() int {
	return moodTable[m].score
}

// Emoji returns the icon shown next to the label.
func (m Mood) Emoji() string {
	return moodTable[m].emoji
}

// Display returns the label with its icon, e.g. "🎉 Energized".
func (m Mood) Display() string {
	if !m.Valid() {
		return string(m)
	}
	return m.Emoji() + " " + string(m)
}

// MoodEntry is a single logged mood.
type MoodEntry struct {
	Timestamp time.Time
	Mood      Mood
	Note      string
}

// Row renders the entry in header column order.
func (e MoodEntry) Row() []string {
	return []string{e.Timestamp.Format(TimestampLayout), string(e.Mood), e.Note}
}

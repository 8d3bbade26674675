package model

import (
	"slices"
	"time"
)

// Emotion is one of the fixed mood labels a user can pick.
type Emotion string

const (
	EmotionHappy   Emotion = "happy"
	EmotionCalm    Emotion = "calm"
	EmotionSad     Emotion = "sad"
	EmotionAnxious Emotion = "anxious"
	EmotionAngry   Emotion = "angry"
	EmotionTired   Emotion = "tired"
)

// Emotions lists every valid Emotion in display order.
var Emotions = []Emotion{
	EmotionHappy,
	EmotionCalm,
	EmotionSad,
	EmotionAnxious,
	EmotionAngry,
	EmotionTired,
}

// Valid reports whether e is one of Emotions.
func (e Emotion) Valid() bool {
	return slices.Contains(Emotions, e)
}

// Level is the tier a questionnaire's average score falls into.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelModerate, LevelHigh:
		return true
	}
	return false
}

// Stress and answer bounds.
const (
	MinStress = 1
	MaxStress = 10

	MinAnswer = 1
	MaxAnswer = 5

	// DefaultStress is preselected when the user does not move the slider.
	DefaultStress = 5
)

// UserProfile identifies a logical user. Credential holds a bcrypt hash once
// the profile has been registered; it is never the plain secret.
type UserProfile struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"credential" validate:"required"`
}

// MoodEntry is one self-report. Build it with NewMoodEntry so the bounds are
// checked.
type MoodEntry struct {
	ID          string    `json:"id" validate:"required"`
	Timestamp   time.Time `json:"date"`
	Emotion     Emotion   `json:"emotion" validate:"required,emotion"`
	StressLevel int       `json:"stress" validate:"min=1,max=10"`
	Note        string    `json:"note"`
}

// NewMoodEntry validates its inputs and returns an immutable entry.
func NewMoodEntry(id string, at time.Time, emotion Emotion, stress int, note string) (MoodEntry, error) {
	entry := MoodEntry{
		ID:          id,
		Timestamp:   at.UTC(),
		Emotion:     emotion,
		StressLevel: stress,
		Note:        note,
	}
	if err := Validate(entry); err != nil {
		return MoodEntry{}, err
	}
	return entry, nil
}

// TestResult is the scored outcome of a completed questionnaire.
type TestResult struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"date"`
	QuestionnaireName string    `json:"testName"`
	AverageScore      float64   `json:"score"`
	Level             Level     `json:"level"`
	Recommendations   []string  `json:"recommendations"`
}

// FavoriteSet holds starred technique ids in the order they were added.
// The zero value is an empty set.
type FavoriteSet []string

// Contains reports whether id is in the set.
func (f FavoriteSet) Contains(id string) bool {
	return slices.Contains(f, id)
}

// Toggle returns a new set with id removed if present, or appended if not.
// The receiver is left untouched.
func (f FavoriteSet) Toggle(id string) FavoriteSet {
	if f.Contains(id) {
		out := make(FavoriteSet, 0, len(f)-1)
		for _, fav := range f {
			if fav != id {
				out = append(out, fav)
			}
		}
		return out
	}
	out := make(FavoriteSet, len(f), len(f)+1)
	copy(out, f)
	return append(out, id)
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moods a daily tracker entry can carry. Superset of the journal moods.
var TrackerMoods = append(append([]string{}, JournalMoods...), "angry", "frustrated")

// Activities that can be attached to a mood entry.
var MoodActivities = []string{
	"exercise", "meditation", "socializing", "studying",
	"sleeping", "eating", "hobby", "work", "other",
}

// Mood is a per-day, per-user structured emotional-state record, distinct from
// free-form journal entries. At most one entry per user per calendar day; the
// handler enforces this with an advisory existence check.
type Mood struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	User      primitive.ObjectID `bson:"user" json:"user"`
	Mood      string             `bson:"mood" json:"mood"`
	Intensity int                `bson:"intensity" json:"intensity"` // 1-10

	Activities  []string `bson:"activities,omitempty" json:"activities,omitempty"`
	Notes       string   `bson:"notes,omitempty" json:"notes,omitempty"`
	SleepHours  *float64 `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`   // 0-24
	StressLevel *int     `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"` // 1-10
	EnergyLevel *int     `bson:"energyLevel,omitempty" json:"energyLevel,omitempty"` // 1-10

	IsPrivate bool     `bson:"isPrivate" json:"isPrivate"`
	Tags      []string `bson:"tags,omitempty" json:"tags,omitempty"`
}

// ValidTrackerMood reports whether mood is in the tracker mood enum.
func ValidTrackerMood(mood string) bool {
	return contains(TrackerMoods, mood)
}

// ValidActivity reports whether a is a known activity.
func ValidActivity(a string) bool {
	return contains(MoodActivities, a)
}

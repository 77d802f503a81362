package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moods a journal entry can carry (feelings wall).
var JournalMoods = []string{
	"very-happy", "happy", "neutral", "sad", "very-sad",
	"anxious", "stressed", "excited", "calm",
}

// Reaction types for journal entries.
var ReactionTypes = []string{"heart", "hug", "support", "understand"}

// Flag reasons shared by journal entries, forum posts and replies.
var FlagReasons = []string{"inappropriate", "spam", "harassment", "other"}

type Reaction struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Comment struct {
	User        primitive.ObjectID `bson:"user" json:"user"`
	Content     string             `bson:"content" json:"content"`
	IsAnonymous bool               `bson:"isAnonymous" json:"isAnonymous"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Journal is a feelings-wall entry: free-form journaling optionally shared on
// the public wall.
type Journal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Author      primitive.ObjectID `bson:"author" json:"author"`
	Content     string             `bson:"content" json:"content"`
	Mood        string             `bson:"mood" json:"mood"`
	IsAnonymous bool               `bson:"isAnonymous" json:"isAnonymous"`
	IsPublic    bool               `bson:"isPublic" json:"isPublic"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	Reactions []Reaction `bson:"reactions" json:"reactions"`
	Comments  []Comment  `bson:"comments" json:"comments"`

	IsFlagged   bool   `bson:"isFlagged" json:"isFlagged"`
	FlagReason  string `bson:"flagReason,omitempty" json:"flagReason,omitempty"`
	IsModerated bool   `bson:"isModerated" json:"isModerated"`
}

// ToggleReaction adds a (user, type) reaction, or removes it when the same user
// already reacted with the same type. Returns true when the reaction was added.
func (j *Journal) ToggleReaction(user primitive.ObjectID, reactionType string, now time.Time) bool {
	kept := j.Reactions[:0]
	removed := false
	for _, r := range j.Reactions {
		if r.User == user && r.Type == reactionType {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	j.Reactions = kept
	if removed {
		return false
	}
	j.Reactions = append(j.Reactions, Reaction{User: user, Type: reactionType, CreatedAt: now})
	return true
}

// ValidJournalMood reports whether mood is in the journal mood enum.
func ValidJournalMood(mood string) bool {
	return contains(JournalMoods, mood)
}

// ValidReactionType reports whether t is a known reaction type.
func ValidReactionType(t string) bool {
	return contains(ReactionTypes, t)
}

// ValidFlagReason reports whether reason is a known flag reason.
func ValidFlagReason(reason string) bool {
	return contains(FlagReasons, reason)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

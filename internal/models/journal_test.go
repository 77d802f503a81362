package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleReaction(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	now := time.Now()

	t.Run("first reaction is added", func(t *testing.T) {
		j := Journal{}
		if !j.ToggleReaction(alice, "heart", now) {
			t.Fatal("expected reaction to be added")
		}
		if len(j.Reactions) != 1 {
			t.Fatalf("reactions = %d, want 1", len(j.Reactions))
		}
		if j.Reactions[0].User != alice || j.Reactions[0].Type != "heart" {
			t.Errorf("reaction = %+v, want alice/heart", j.Reactions[0])
		}
	})

	t.Run("same reaction again removes it", func(t *testing.T) {
		j := Journal{}
		j.ToggleReaction(alice, "heart", now)
		if j.ToggleReaction(alice, "heart", now) {
			t.Fatal("expected second toggle to remove")
		}
		if len(j.Reactions) != 0 {
			t.Errorf("reactions = %d, want 0", len(j.Reactions))
		}
	})

	t.Run("different type from same user coexists", func(t *testing.T) {
		j := Journal{}
		j.ToggleReaction(alice, "heart", now)
		j.ToggleReaction(alice, "hug", now)
		if len(j.Reactions) != 2 {
			t.Errorf("reactions = %d, want 2", len(j.Reactions))
		}
	})

	t.Run("other users are untouched", func(t *testing.T) {
		j := Journal{}
		j.ToggleReaction(alice, "support", now)
		j.ToggleReaction(bob, "support", now)
		j.ToggleReaction(alice, "support", now)
		if len(j.Reactions) != 1 || j.Reactions[0].User != bob {
			t.Errorf("reactions = %+v, want only bob's", j.Reactions)
		}
	})
}

func TestJournalEnums(t *testing.T) {
	if !ValidJournalMood("anxious") {
		t.Error("anxious should be a valid mood")
	}
	if ValidJournalMood("hangry") {
		t.Error("hangry should not be a valid mood")
	}
	if !ValidReactionType("hug") {
		t.Error("hug should be a valid reaction")
	}
	if ValidReactionType("like") {
		t.Error("like should not be a valid reaction")
	}
	if !ValidFlagReason("spam") {
		t.Error("spam should be a valid flag reason")
	}
	if ValidFlagReason("") {
		t.Error("empty reason should not be valid")
	}
}

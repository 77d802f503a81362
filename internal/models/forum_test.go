package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVoteSetsApply(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("upvote adds the user once", func(t *testing.T) {
		v := VoteSets{}
		if !v.Apply(alice, VoteUp) {
			t.Fatal("expected upvote to be accepted")
		}
		if len(v.Upvotes) != 1 || v.Upvotes[0] != alice {
			t.Errorf("upvotes = %v, want [alice]", v.Upvotes)
		}
		if len(v.Downvotes) != 0 {
			t.Errorf("downvotes = %v, want empty", v.Downvotes)
		}
	})

	t.Run("same vote again toggles it off", func(t *testing.T) {
		v := VoteSets{}
		v.Apply(alice, VoteUp)
		v.Apply(alice, VoteUp)
		if len(v.Upvotes) != 0 {
			t.Errorf("upvotes = %v, want empty after toggle", v.Upvotes)
		}
	})

	t.Run("opposite vote replaces the prior one", func(t *testing.T) {
		v := VoteSets{}
		v.Apply(alice, VoteUp)
		v.Apply(alice, VoteDown)
		if len(v.Upvotes) != 0 {
			t.Errorf("upvotes = %v, want empty after switching sides", v.Upvotes)
		}
		if len(v.Downvotes) != 1 || v.Downvotes[0] != alice {
			t.Errorf("downvotes = %v, want [alice]", v.Downvotes)
		}
	})

	t.Run("votes are independent per user", func(t *testing.T) {
		v := VoteSets{}
		v.Apply(alice, VoteUp)
		v.Apply(bob, VoteDown)
		v.Apply(bob, VoteUp)
		if len(v.Upvotes) != 2 {
			t.Errorf("upvotes = %v, want alice and bob", v.Upvotes)
		}
		if len(v.Downvotes) != 0 {
			t.Errorf("downvotes = %v, want empty", v.Downvotes)
		}
	})

	t.Run("unknown vote type leaves the sets untouched", func(t *testing.T) {
		v := VoteSets{}
		v.Apply(alice, VoteUp)
		if v.Apply(alice, "sideways") {
			t.Error("expected unknown vote type to be rejected")
		}
		if len(v.Upvotes) != 1 {
			t.Errorf("upvotes = %v, want unchanged", v.Upvotes)
		}
	})
}

func TestValidForumCategory(t *testing.T) {
	if !ValidForumCategory("anxiety") {
		t.Error("anxiety should be a valid category")
	}
	if ValidForumCategory("cooking") {
		t.Error("cooking should not be a valid category")
	}
}

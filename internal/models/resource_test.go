package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLike(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("like then unlike", func(t *testing.T) {
		res := Resource{}
		if !res.ToggleLike(alice) {
			t.Fatal("expected first toggle to add the like")
		}
		if len(res.Likes) != 1 {
			t.Fatalf("likes = %d, want 1", len(res.Likes))
		}
		if res.ToggleLike(alice) {
			t.Fatal("expected second toggle to remove the like")
		}
		if len(res.Likes) != 0 {
			t.Errorf("likes = %d, want 0", len(res.Likes))
		}
	})

	t.Run("unlike keeps other users", func(t *testing.T) {
		res := Resource{}
		res.ToggleLike(alice)
		res.ToggleLike(bob)
		res.ToggleLike(alice)
		if len(res.Likes) != 1 || res.Likes[0] != bob {
			t.Errorf("likes = %v, want only bob", res.Likes)
		}
	})
}

func TestResourceEnums(t *testing.T) {
	if !ValidResourceCategory("mindfulness") {
		t.Error("mindfulness should be a valid category")
	}
	if ValidResourceCategory("finance") {
		t.Error("finance should not be a valid category")
	}
	if !ValidResourceType("worksheet") {
		t.Error("worksheet should be a valid type")
	}
	if ValidResourceType("podcast") {
		t.Error("podcast should not be a valid type")
	}
	if !ValidResourceDifficulty("advanced") {
		t.Error("advanced should be a valid difficulty")
	}
	if ValidResourceDifficulty("expert") {
		t.Error("expert should not be a valid difficulty")
	}
}

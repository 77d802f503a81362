package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestChatUnreadCounters(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	carol := primitive.NewObjectID()

	t.Run("bump skips the sender", func(t *testing.T) {
		c := Chat{Participants: []primitive.ObjectID{alice, bob, carol}}
		c.BumpUnread(alice)
		c.BumpUnread(alice)
		if got := c.UnreadCount[alice.Hex()]; got != 0 {
			t.Errorf("sender unread = %d, want 0", got)
		}
		if got := c.UnreadCount[bob.Hex()]; got != 2 {
			t.Errorf("bob unread = %d, want 2", got)
		}
		if got := c.UnreadCount[carol.Hex()]; got != 2 {
			t.Errorf("carol unread = %d, want 2", got)
		}
	})

	t.Run("reset zeroes only the reader", func(t *testing.T) {
		c := Chat{Participants: []primitive.ObjectID{alice, bob}}
		c.BumpUnread(alice)
		c.ResetUnread(bob)
		if got := c.UnreadCount[bob.Hex()]; got != 0 {
			t.Errorf("bob unread = %d, want 0 after reset", got)
		}
		c.BumpUnread(bob)
		if got := c.UnreadCount[alice.Hex()]; got != 1 {
			t.Errorf("alice unread = %d, want 1", got)
		}
	})

	t.Run("reset on a fresh chat is a no-op", func(t *testing.T) {
		c := Chat{Participants: []primitive.ObjectID{alice, bob}}
		c.ResetUnread(alice)
		if c.UnreadCount != nil {
			t.Errorf("unreadCount = %v, want nil", c.UnreadCount)
		}
	})
}

func TestHasParticipant(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	c := Chat{Participants: []primitive.ObjectID{alice}}
	if !c.HasParticipant(alice) {
		t.Error("alice should be a participant")
	}
	if c.HasParticipant(bob) {
		t.Error("bob should not be a participant")
	}
}

func TestChatEnums(t *testing.T) {
	if !ValidChatType("student-counsellor") {
		t.Error("student-counsellor should be a valid chat type")
	}
	if ValidChatType("broadcast") {
		t.Error("broadcast should not be a valid chat type")
	}
	if !ValidMessageType("text") {
		t.Error("text should be a valid message type")
	}
	if ValidMessageType("voice") {
		t.Error("voice should not be a valid message type")
	}
}

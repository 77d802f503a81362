package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActiveChatFilter(t *testing.T) {
	student := primitive.NewObjectID()
	counsellor := primitive.NewObjectID()

	filter := activeChatFilter(student, counsellor, "student-counsellor")

	if filter["chatType"] != "student-counsellor" {
		t.Errorf("chatType = %v", filter["chatType"])
	}
	if filter["isActive"] != true {
		t.Errorf("isActive = %v, want true so closed chats are not reused", filter["isActive"])
	}

	participants, ok := filter["participants"].(bson.M)
	if !ok {
		t.Fatalf("participants = %T, want bson.M", filter["participants"])
	}
	all, ok := participants["$all"].(bson.A)
	if !ok {
		t.Fatalf("participants match = %v, want $all over both users", participants)
	}
	if len(all) != 2 || all[0] != student || all[1] != counsellor {
		t.Errorf("$all = %v, want both participants", all)
	}
}

package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

func TestSameDayMoodFilter(t *testing.T) {
	user := primitive.NewObjectID()
	at := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	filter := sameDayMoodFilter(user, at)

	if filter["user"] != user {
		t.Errorf("user = %v, want the caller id", filter["user"])
	}

	window, ok := filter["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("createdAt = %T, want bson.M range", filter["createdAt"])
	}
	start, _ := window["$gte"].(time.Time)
	end, _ := window["$lt"].(time.Time)

	if want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("window start = %v, want %v", start, want)
	}
	if want := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("window end = %v, want %v", end, want)
	}

	t.Run("same-day entries fall inside the window", func(t *testing.T) {
		morning := time.Date(2024, 5, 10, 0, 1, 0, 0, time.UTC)
		evening := time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC)
		for _, at := range []time.Time{morning, evening} {
			if at.Before(start) || !at.Before(end) {
				t.Errorf("%v outside [%v, %v)", at, start, end)
			}
		}
	})

	t.Run("yesterday falls outside", func(t *testing.T) {
		yesterday := time.Date(2024, 5, 9, 23, 59, 0, 0, time.UTC)
		if !yesterday.Before(start) {
			t.Errorf("%v should be before the window start %v", yesterday, start)
		}
	})
}

func TestDuplicateMoodBody(t *testing.T) {
	existing := models.Mood{
		ID:        primitive.NewObjectID(),
		Mood:      "calm",
		Intensity: 7,
	}

	body := duplicateMoodBody(existing)

	if body["error"] != "Mood entry already exists for today" {
		t.Errorf("error = %v", body["error"])
	}
	entry, ok := body["entry"].(models.Mood)
	if !ok {
		t.Fatalf("entry = %T, want models.Mood", body["entry"])
	}
	if entry.ID != existing.ID || entry.Mood != "calm" || entry.Intensity != 7 {
		t.Errorf("entry = %+v, want the original entry unchanged", entry)
	}
}

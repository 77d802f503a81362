package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func textIndexKeys(indexes []mongo.IndexModel) map[string]bool {
	keys := make(map[string]bool)
	for _, idx := range indexes {
		doc, ok := idx.Keys.(bson.D)
		if !ok {
			continue
		}
		for _, e := range doc {
			if e.Value == "text" {
				keys[e.Key] = true
			}
		}
	}
	return keys
}

func TestCollectionIndexes(t *testing.T) {
	declared := collectionIndexes()

	t.Run("resources search fields are text-indexed", func(t *testing.T) {
		keys := textIndexKeys(declared["resources"])
		for _, field := range []string{"title", "description", "tags"} {
			if !keys[field] {
				t.Errorf("resources text index missing %q", field)
			}
		}
	})

	t.Run("forums search fields are text-indexed", func(t *testing.T) {
		keys := textIndexKeys(declared["forums"])
		for _, field := range []string{"title", "description", "tags"} {
			if !keys[field] {
				t.Errorf("forums text index missing %q", field)
			}
		}
	})

	t.Run("moods carry the per-user day lookup index", func(t *testing.T) {
		found := false
		for _, idx := range declared["moods"] {
			doc, ok := idx.Keys.(bson.D)
			if ok && len(doc) == 2 && doc[0].Key == "user" && doc[1].Key == "createdAt" {
				found = true
			}
		}
		if !found {
			t.Error("moods missing the user+createdAt index")
		}
	})
}

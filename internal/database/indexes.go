package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collectionIndexes declares the indexes each collection needs. The text
// indexes back the search filters on the resource and forum lists; without
// them Mongo rejects $text queries outright.
func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"resources": {
			{
				Keys: bson.D{
					{Key: "title", Value: "text"},
					{Key: "description", Value: "text"},
					{Key: "tags", Value: "text"},
				},
				Options: options.Index().SetName("resources_text"),
			},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isPublished", Value: 1}}},
		},
		"forums": {
			{
				Keys: bson.D{
					{Key: "title", Value: "text"},
					{Key: "description", Value: "text"},
					{Key: "tags", Value: "text"},
				},
				Options: options.Index().SetName("forums_text"),
			},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isModerated", Value: 1}}},
		},
		"moods": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"chats": {
			{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "isActive", Value: 1}}},
		},
		"messages": {
			{Keys: bson.D{{Key: "chat", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the declared indexes. Creating an index that already
// exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context) error {
	for collection, indexes := range collectionIndexes() {
		if _, err := DB.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
	}
	return nil
}

package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

// profileRef is the subset of a profile embedded next to content.
type profileRef struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// authorRef is the populated author object attached to list/detail responses:
// username and profile names only, never contact fields.
type authorRef struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Profile  profileRef         `json:"profile"`
}

func refFromUser(u *models.User) authorRef {
	return authorRef{
		ID:       u.ID,
		Username: u.Username,
		Profile: profileRef{
			FirstName: u.Profile.FirstName,
			LastName:  u.Profile.LastName,
			Avatar:    u.Profile.Avatar,
		},
	}
}

// loadAuthors fetches the named users and returns them keyed by id. Missing
// users are simply absent from the map; content by deleted accounts still
// renders, with an empty author.
func loadAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]authorRef, error) {
	refs := make(map[primitive.ObjectID]authorRef)
	if len(ids) == 0 {
		return refs, nil
	}

	seen := make(map[primitive.ObjectID]bool, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": unique}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		refs[users[i].ID] = refFromUser(&users[i])
	}
	return refs, nil
}

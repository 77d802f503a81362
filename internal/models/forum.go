package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Forum categories.
var ForumCategories = []string{
	"general", "academic-stress", "relationships", "anxiety",
	"depression", "self-care", "motivation", "crisis-support",
}

// Vote types accepted by the vote endpoints.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// VoteSets holds a post's upvote/downvote user sets. A user's vote is
// exclusive: casting one side removes the other, casting the same side again
// toggles it off.
type VoteSets struct {
	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
}

// Apply records a vote by user. Returns false when voteType is not a known
// vote type; the sets are left untouched in that case.
func (v *VoteSets) Apply(user primitive.ObjectID, voteType string) bool {
	switch voteType {
	case VoteUp:
		v.Downvotes = removeID(v.Downvotes, user)
		if hasID(v.Upvotes, user) {
			v.Upvotes = removeID(v.Upvotes, user)
		} else {
			v.Upvotes = append(v.Upvotes, user)
		}
	case VoteDown:
		v.Upvotes = removeID(v.Upvotes, user)
		if hasID(v.Downvotes, user) {
			v.Downvotes = removeID(v.Downvotes, user)
		} else {
			v.Downvotes = append(v.Downvotes, user)
		}
	default:
		return false
	}
	return true
}

// Forum is a discussion post.
type Forum struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Author      primitive.ObjectID `bson:"author" json:"author"`
	IsAnonymous bool               `bson:"isAnonymous" json:"isAnonymous"`
	IsPinned    bool               `bson:"isPinned" json:"isPinned"`
	IsLocked    bool               `bson:"isLocked" json:"isLocked"`
	Views       int64              `bson:"views" json:"views"`

	VoteSets `bson:",inline"`

	Tags []string `bson:"tags,omitempty" json:"tags,omitempty"`

	IsFlagged   bool   `bson:"isFlagged" json:"isFlagged"`
	FlagReason  string `bson:"flagReason,omitempty" json:"flagReason,omitempty"`
	IsModerated bool   `bson:"isModerated" json:"isModerated"`
}

// ForumReply is a reply to a forum post. parentReply models one level of
// nesting.
type ForumReply struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Forum       primitive.ObjectID  `bson:"forum" json:"forum"`
	Author      primitive.ObjectID  `bson:"author" json:"author"`
	Content     string              `bson:"content" json:"content"`
	IsAnonymous bool                `bson:"isAnonymous" json:"isAnonymous"`
	ParentReply *primitive.ObjectID `bson:"parentReply,omitempty" json:"parentReply,omitempty"`

	VoteSets `bson:",inline"`

	IsFlagged   bool   `bson:"isFlagged" json:"isFlagged"`
	FlagReason  string `bson:"flagReason,omitempty" json:"flagReason,omitempty"`
	IsModerated bool   `bson:"isModerated" json:"isModerated"`
}

// ValidForumCategory reports whether c is a known forum category.
func ValidForumCategory(c string) bool {
	return contains(ForumCategories, c)
}

func hasID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(list []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	kept := list[:0]
	for _, v := range list {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource categories, types and difficulty levels.
var (
	ResourceCategories = []string{
		"stress-management", "anxiety", "depression", "motivation",
		"mindfulness", "self-care", "academic-pressure", "relationships",
		"crisis-support",
	}
	ResourceTypes        = []string{"article", "video", "guide", "worksheet", "meditation"}
	ResourceDifficulties = []string{"beginner", "intermediate", "advanced"}
)

// Resource is a curated library item authored by counsellors or admins.
type Resource struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content" json:"content"`
	Category    string             `bson:"category" json:"category"`
	Type        string             `bson:"type" json:"type"`
	MediaURL    string             `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	Thumbnail   string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Author      primitive.ObjectID `bson:"author" json:"author"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	IsPublished bool                 `bson:"isPublished" json:"isPublished"`
	IsFeatured  bool                 `bson:"isFeatured" json:"isFeatured"`
	Views       int64                `bson:"views" json:"views"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`

	ReadingTime int    `bson:"readingTime" json:"readingTime"` // minutes
	Difficulty  string `bson:"difficulty" json:"difficulty"`
}

// ToggleLike adds the user to the likes set, or removes them when already
// present. Returns true when the like was added.
func (r *Resource) ToggleLike(user primitive.ObjectID) bool {
	if hasID(r.Likes, user) {
		r.Likes = removeID(r.Likes, user)
		return false
	}
	r.Likes = append(r.Likes, user)
	return true
}

// ValidResourceCategory reports whether c is a known resource category.
func ValidResourceCategory(c string) bool {
	return contains(ResourceCategories, c)
}

// ValidResourceType reports whether t is a known resource type.
func ValidResourceType(t string) bool {
	return contains(ResourceTypes, t)
}

// ValidResourceDifficulty reports whether d is a known difficulty level.
func ValidResourceDifficulty(d string) bool {
	return contains(ResourceDifficulties, d)
}

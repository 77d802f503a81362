package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. Role governs route access.
const (
	RoleStudent    = "student"
	RoleCounsellor = "counsellor"
	RoleAdmin      = "admin"
)

// ValidRole reports whether role is one of the closed set of account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleCounsellor, RoleAdmin:
		return true
	}
	return false
}

type Profile struct {
	FirstName      string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName       string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Bio            string `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar         string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Specialization string `bson:"specialization,omitempty" json:"specialization,omitempty"`
}

type Preferences struct {
	Notifications bool `bson:"notifications" json:"notifications"`
	DarkMode      bool `bson:"darkMode" json:"darkMode"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // argon2id hash, never serialized

	Role        string      `bson:"role" json:"role"`
	Profile     Profile     `bson:"profile" json:"profile"`
	Preferences Preferences `bson:"preferences" json:"preferences"`

	IsActive   bool       `bson:"isActive" json:"isActive"`
	IsVerified bool       `bson:"isVerified" json:"isVerified"`
	LastLogin  *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

// PublicProfile is the limited view returned for users other than self/admin.
type PublicProfile struct {
	ID         primitive.ObjectID `json:"id"`
	Username   string             `json:"username"`
	Profile    Profile            `json:"profile"`
	Role       string             `json:"role"`
	IsVerified bool               `json:"isVerified"`
}

// Public returns the limited profile view with contact fields stripped.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Profile: Profile{
			FirstName: u.Profile.FirstName,
			LastName:  u.Profile.LastName,
			Avatar:    u.Profile.Avatar,
			Bio:       u.Profile.Bio,
		},
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat types.
var ChatTypes = []string{"student-counsellor", "student-peer", "group"}

// Message types.
var MessageTypes = []string{"text", "image", "file", "system"}

// Chat is a conversation container between a fixed participant set. At most
// one active chat exists per (participant set, chatType); the create handler
// enforces this with an advisory lookup.
type Chat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	ChatType     string               `bson:"chatType" json:"chatType"`
	IsActive     bool                 `bson:"isActive" json:"isActive"`

	LastMessage     *primitive.ObjectID `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageTime time.Time           `bson:"lastMessageTime" json:"lastMessageTime"`

	// UnreadCount maps participant id (hex) to that participant's unread
	// message count. Incremented for everyone except the sender on message
	// insert, reset to zero on mark-read.
	UnreadCount map[string]int64 `bson:"unreadCount" json:"unreadCount"`
}

// HasParticipant reports whether user is part of the conversation.
func (c *Chat) HasParticipant(user primitive.ObjectID) bool {
	return hasID(c.Participants, user)
}

// BumpUnread increments the unread counter of every participant except sender.
func (c *Chat) BumpUnread(sender primitive.ObjectID) {
	if c.UnreadCount == nil {
		c.UnreadCount = make(map[string]int64)
	}
	for _, p := range c.Participants {
		if p == sender {
			continue
		}
		c.UnreadCount[p.Hex()]++
	}
}

// ResetUnread zeroes the unread counter for reader.
func (c *Chat) ResetUnread(reader primitive.ObjectID) {
	if c.UnreadCount == nil {
		return
	}
	c.UnreadCount[reader.Hex()] = 0
}

type ReadReceipt struct {
	User   primitive.ObjectID `bson:"user" json:"user"`
	ReadAt time.Time          `bson:"readAt" json:"readAt"`
}

// Message is a single item within a chat. Deletion is soft: the document stays
// with isDeleted set.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Chat        primitive.ObjectID `bson:"chat" json:"chat"`
	Sender      primitive.ObjectID `bson:"sender" json:"sender"`
	Content     string             `bson:"content" json:"content"`
	MessageType string             `bson:"messageType" json:"messageType"`
	MediaURL    string             `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`

	IsRead bool          `bson:"isRead" json:"isRead"`
	ReadBy []ReadReceipt `bson:"readBy,omitempty" json:"readBy,omitempty"`

	IsEdited  bool       `bson:"isEdited" json:"isEdited"`
	EditedAt  *time.Time `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	IsDeleted bool       `bson:"isDeleted" json:"isDeleted"`
}

// ValidChatType reports whether t is a known chat type.
func ValidChatType(t string) bool {
	return contains(ChatTypes, t)
}

// ValidMessageType reports whether t is a known message type.
func ValidMessageType(t string) bool {
	return contains(MessageTypes, t)
}

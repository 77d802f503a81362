package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

// chatView renders a conversation with its participant profiles populated.
type chatView struct {
	models.Chat
	Participants []authorRef `json:"participants"`
}

type messageView struct {
	models.Message
	Sender authorRef `json:"sender"`
}

func chatViewFor(chat models.Chat, authors map[primitive.ObjectID]authorRef) chatView {
	view := chatView{Chat: chat, Participants: make([]authorRef, 0, len(chat.Participants))}
	for _, p := range chat.Participants {
		if ref, ok := authors[p]; ok {
			view.Participants = append(view.Participants, ref)
		}
	}
	return view
}

// markChatRead marks the other participants' messages read and zeroes the
// caller's unread counter.
func markChatRead(r *http.Request, chat *models.Chat, reader primitive.ObjectID) error {
	ctx, cancel := opContext(r)
	defer cancel()

	_, err := database.DB.Collection("messages").UpdateMany(ctx, bson.M{
		"chat":   chat.ID,
		"sender": bson.M{"$ne": reader},
		"isRead": false,
	}, bson.M{
		"$set": bson.M{"isRead": true},
		"$push": bson.M{"readBy": models.ReadReceipt{
			User:   reader,
			ReadAt: time.Now(),
		}},
	})
	if err != nil {
		return err
	}

	chat.ResetUnread(reader)
	_, err = database.DB.Collection("chats").UpdateOne(ctx, bson.M{"_id": chat.ID}, bson.M{
		"$set": bson.M{"unreadCount." + reader.Hex(): 0},
	})
	return err
}

// ListChats returns the caller's active conversations, most recent first.
func ListChats(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	ctx, cancel := opContext(r)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "lastMessageTime", Value: -1}})
	cursor, err := database.DB.Collection("chats").Find(ctx, bson.M{
		"participants": caller.ID,
		"isActive":     true,
	}, findOptions)
	if err != nil {
		serverError(w, "Get chats", err)
		return
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		serverError(w, "Get chats", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(chats)*2)
	for _, chat := range chats {
		ids = append(ids, chat.Participants...)
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		serverError(w, "Get chats", err)
		return
	}

	views := make([]chatView, 0, len(chats))
	for _, chat := range chats {
		views = append(views, chatViewFor(chat, authors))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": views})
}

// GetChat returns a conversation with its messages and marks them read for
// the caller. Participants only.
func GetChat(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var chat models.Chat
	err := database.DB.Collection("chats").FindOne(ctx, bson.M{"_id": oid}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		serverError(w, "Get chat", err)
		return
	}

	if !chat.HasParticipant(caller.ID) {
		writeError(w, http.StatusForbidden, "Not authorized to access this chat")
		return
	}

	msgOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.DB.Collection("messages").Find(ctx, bson.M{
		"chat":      oid,
		"isDeleted": false,
	}, msgOptions)
	if err != nil {
		serverError(w, "Get chat", err)
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		serverError(w, "Get chat", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(chat.Participants)+len(messages))
	ids = append(ids, chat.Participants...)
	for _, m := range messages {
		ids = append(ids, m.Sender)
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		serverError(w, "Get chat", err)
		return
	}

	messageViews := make([]messageView, 0, len(messages))
	for _, m := range messages {
		messageViews = append(messageViews, messageView{Message: m, Sender: authors[m.Sender]})
	}

	if err := markChatRead(r, &chat, caller.ID); err != nil {
		serverError(w, "Get chat", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chat":     chatViewFor(chat, authors),
		"messages": messageViews,
	})
}

type CreateChatRequest struct {
	ParticipantID string `json:"participantId"`
	CounsellorID  string `json:"counsellorId"`
	ChatType      string `json:"chatType"`
}

// activeChatFilter matches an active conversation covering both participants
// with the given chat type. Create reuses a match instead of inserting.
func activeChatFilter(a, b primitive.ObjectID, chatType string) bson.M {
	return bson.M{
		"participants": bson.M{"$all": bson.A{a, b}},
		"chatType":     chatType,
		"isActive":     true,
	}
}

// CreateChat opens a conversation with another user, reusing an existing
// active chat between the same pair when one exists.
func CreateChat(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var req CreateChatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	target := req.ParticipantID
	if target == "" {
		target = req.CounsellorID
	}
	if target == "" {
		writeError(w, http.StatusBadRequest, "Participant ID or counsellor ID is required")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(target)
	if err != nil {
		writeError(w, http.StatusNotFound, "Participant not found")
		return
	}

	chatType := req.ChatType
	if chatType == "" {
		chatType = "student-counsellor"
	}
	if !models.ValidChatType(chatType) {
		writeError(w, http.StatusBadRequest, "Invalid chat type")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var participant models.User
	err = database.DB.Collection("users").FindOne(ctx, bson.M{"_id": targetID}).Decode(&participant)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Participant not found")
		return
	}
	if err != nil {
		serverError(w, "Create chat", err)
		return
	}

	var existing models.Chat
	err = database.DB.Collection("chats").FindOne(ctx, activeChatFilter(caller.ID, targetID, chatType)).Decode(&existing)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Chat already exists",
			"chat":    existing,
		})
		return
	}
	if err != mongo.ErrNoDocuments {
		serverError(w, "Create chat", err)
		return
	}

	now := time.Now()
	chat := models.Chat{
		ID:           primitive.NewObjectID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Participants: []primitive.ObjectID{caller.ID, targetID},
		ChatType:     chatType,
		IsActive:     true,
		UnreadCount:  map[string]int64{},
	}

	if _, err := database.DB.Collection("chats").InsertOne(ctx, chat); err != nil {
		serverError(w, "Create chat", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Chat created successfully",
		"chat":    chat,
	})
}

type SendMessageRequest struct {
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	MediaURL    string `json:"mediaUrl"`
}

// SendMessage appends a message and bumps the other participants' unread
// counters.
func SendMessage(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}

	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	messageType := req.MessageType
	if messageType == "" {
		messageType = "text"
	}
	if !models.ValidMessageType(messageType) {
		writeError(w, http.StatusBadRequest, "Invalid message type")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var chat models.Chat
	err := database.DB.Collection("chats").FindOne(ctx, bson.M{"_id": oid}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		serverError(w, "Send message", err)
		return
	}

	if !chat.HasParticipant(caller.ID) {
		writeError(w, http.StatusForbidden, "Not authorized to send message in this chat")
		return
	}

	now := time.Now()
	message := models.Message{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Chat:        oid,
		Sender:      caller.ID,
		Content:     req.Content,
		MessageType: messageType,
		MediaURL:    req.MediaURL,
	}

	if _, err := database.DB.Collection("messages").InsertOne(ctx, message); err != nil {
		serverError(w, "Send message", err)
		return
	}

	chat.BumpUnread(caller.ID)
	_, err = database.DB.Collection("chats").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"lastMessage":     message.ID,
			"lastMessageTime": now,
			"unreadCount":     chat.UnreadCount,
			"updatedAt":       now,
		},
	})
	if err != nil {
		serverError(w, "Send message", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Message sent successfully",
		"data":    message,
	})
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

// EditMessage rewrites a message's content. Sender only.
func EditMessage(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "messageId")
	if !ok {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}

	var req EditMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var message models.Message
	err := database.DB.Collection("messages").FindOne(ctx, bson.M{"_id": oid}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		serverError(w, "Edit message", err)
		return
	}

	if message.Sender != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to edit this message")
		return
	}

	now := time.Now()
	var updated models.Message
	err = database.DB.Collection("messages").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"content":   req.Content,
			"isEdited":  true,
			"editedAt":  now,
			"updatedAt": now,
		}},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		serverError(w, "Edit message", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Message updated successfully",
		"data":    updated,
	})
}

// DeleteMessage soft-deletes a message. Sender only.
func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "messageId")
	if !ok {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var message models.Message
	err := database.DB.Collection("messages").FindOne(ctx, bson.M{"_id": oid}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		serverError(w, "Delete message", err)
		return
	}

	if message.Sender != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to delete this message")
		return
	}

	_, err = database.DB.Collection("messages").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "Delete message", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}

// UnreadCount reports the caller's total unread messages across all chats.
func UnreadCount(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	ctx, cancel := opContext(r)
	defer cancel()

	chatIDs, err := database.DB.Collection("chats").Distinct(ctx, "_id", bson.M{
		"participants": caller.ID,
	})
	if err != nil {
		serverError(w, "Get unread count", err)
		return
	}

	unread, err := database.DB.Collection("messages").CountDocuments(ctx, bson.M{
		"chat":      bson.M{"$in": chatIDs},
		"sender":    bson.M{"$ne": caller.ID},
		"isRead":    false,
		"isDeleted": false,
	})
	if err != nil {
		serverError(w, "Get unread count", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"unreadCount": unread})
}

// MarkChatRead marks every message from other participants as read.
func MarkChatRead(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var chat models.Chat
	err := database.DB.Collection("chats").FindOne(ctx, bson.M{"_id": oid}).Decode(&chat)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		serverError(w, "Mark as read", err)
		return
	}

	if !chat.HasParticipant(caller.ID) {
		writeError(w, http.StatusForbidden, "Not authorized to access this chat")
		return
	}

	if err := markChatRead(r, &chat, caller.ID); err != nil {
		serverError(w, "Mark as read", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat marked as read"})
}

// AvailableCounsellors lists counsellors open to conversations. Shares the
// cached public directory.
func AvailableCounsellors(w http.ResponseWriter, r *http.Request) {
	GetCounsellors(w, r)
}

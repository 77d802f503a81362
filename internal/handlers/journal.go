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

// journalView renders a wall entry. Anonymous entries carry no author object;
// the owner and admins still see their own attribution.
type journalView struct {
	models.Journal
	Author *authorRef `json:"author,omitempty"`
}

func journalViewFor(entry models.Journal, authors map[primitive.ObjectID]authorRef, caller *models.User) journalView {
	view := journalView{Journal: entry}
	if entry.IsAnonymous && (caller == nil || (caller.ID != entry.Author && caller.Role != models.RoleAdmin)) {
		return view
	}
	if ref, ok := authors[entry.Author]; ok {
		view.Author = &ref
	}
	return view
}

// PublicJournal returns the feelings wall: public, unmoderated entries, with an
// optional mood filter.
func PublicJournal(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 20)

	query := bson.M{"isPublic": true, "isModerated": false}
	if mood := r.URL.Query().Get("mood"); mood != "" {
		query["mood"] = mood
	}

	ctx, cancel := opContext(r)
	defer cancel()

	total, err := database.DB.Collection("journals").CountDocuments(ctx, query)
	if err != nil {
		serverError(w, "Get public entries", err)
		return
	}

	findOptions := options.Find().
		SetSort(p.Sort).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	cursor, err := database.DB.Collection("journals").Find(ctx, query, findOptions)
	if err != nil {
		serverError(w, "Get public entries", err)
		return
	}
	defer cursor.Close(ctx)

	var entries []models.Journal
	if err := cursor.All(ctx, &entries); err != nil {
		serverError(w, "Get public entries", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		if !e.IsAnonymous {
			ids = append(ids, e.Author)
		}
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		serverError(w, "Get public entries", err)
		return
	}

	caller, _ := middleware.UserFrom(r.Context())
	views := make([]journalView, 0, len(entries))
	for _, e := range entries {
		views = append(views, journalViewFor(e, authors, caller))
	}

	writeJSON(w, http.StatusOK, listEnvelope("entries", views, total, p))
}

// MyJournal returns the caller's own entries, private ones included.
func MyJournal(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	p := parsePage(r, 20)

	query := bson.M{"author": caller.ID}

	ctx, cancel := opContext(r)
	defer cancel()

	total, err := database.DB.Collection("journals").CountDocuments(ctx, query)
	if err != nil {
		serverError(w, "Get my entries", err)
		return
	}

	findOptions := options.Find().
		SetSort(p.Sort).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	cursor, err := database.DB.Collection("journals").Find(ctx, query, findOptions)
	if err != nil {
		serverError(w, "Get my entries", err)
		return
	}
	defer cursor.Close(ctx)

	entries := []models.Journal{}
	if err := cursor.All(ctx, &entries); err != nil {
		serverError(w, "Get my entries", err)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope("entries", entries, total, p))
}

type JournalRequest struct {
	Content     string   `json:"content"`
	Mood        string   `json:"mood"`
	IsAnonymous *bool    `json:"isAnonymous"`
	IsPublic    *bool    `json:"isPublic"`
	Tags        []string `json:"tags"`
}

// CreateJournalEntry adds an entry. Entries default to anonymous and public.
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var req JournalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if !models.ValidJournalMood(req.Mood) {
		writeError(w, http.StatusBadRequest, "Invalid mood")
		return
	}

	now := time.Now()
	entry := models.Journal{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Author:      caller.ID,
		Content:     req.Content,
		Mood:        req.Mood,
		IsAnonymous: true,
		IsPublic:    true,
		Tags:        req.Tags,
		Reactions:   []models.Reaction{},
		Comments:    []models.Comment{},
	}
	if req.IsAnonymous != nil {
		entry.IsAnonymous = *req.IsAnonymous
	}
	if req.IsPublic != nil {
		entry.IsPublic = *req.IsPublic
	}

	ctx, cancel := opContext(r)
	defer cancel()

	if _, err := database.DB.Collection("journals").InsertOne(ctx, entry); err != nil {
		serverError(w, "Create entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Journal entry created successfully",
		"entry":   entry,
	})
}

// UpdateJournalEntry edits an entry. Author only.
func UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var req JournalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var entry models.Journal
	err := database.DB.Collection("journals").FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		serverError(w, "Update entry", err)
		return
	}

	if entry.Author != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to edit this entry")
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.Mood != "" {
		if !models.ValidJournalMood(req.Mood) {
			writeError(w, http.StatusBadRequest, "Invalid mood")
			return
		}
		updates["mood"] = req.Mood
	}
	if req.IsAnonymous != nil {
		updates["isAnonymous"] = *req.IsAnonymous
	}
	if req.IsPublic != nil {
		updates["isPublic"] = *req.IsPublic
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	var updated models.Journal
	err = database.DB.Collection("journals").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		serverError(w, "Update entry", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Entry updated successfully",
		"entry":   updated,
	})
}

// DeleteJournalEntry removes an entry. Author only; admins moderate through
// the admin surface instead.
func DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var entry models.Journal
	err := database.DB.Collection("journals").FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		serverError(w, "Delete entry", err)
		return
	}

	if entry.Author != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to delete this entry")
		return
	}

	if _, err := database.DB.Collection("journals").DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		serverError(w, "Delete entry", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted successfully"})
}

type ReactRequest struct {
	ReactionType string `json:"reactionType"`
}

// ReactToEntry toggles the caller's reaction of the given type.
func ReactToEntry(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var req ReactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !models.ValidReactionType(req.ReactionType) {
		writeError(w, http.StatusBadRequest, "Invalid reaction type")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var entry models.Journal
	err := database.DB.Collection("journals").FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		serverError(w, "React to entry", err)
		return
	}

	added := entry.ToggleReaction(caller.ID, req.ReactionType, time.Now())

	_, err = database.DB.Collection("journals").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"reactions": entry.Reactions, "updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "React to entry", err)
		return
	}

	message := "Reaction removed"
	if added {
		message = "Reaction added"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   message,
		"reactions": entry.Reactions,
	})
}

type CommentRequest struct {
	Content     string `json:"content"`
	IsAnonymous *bool  `json:"isAnonymous"`
}

// CommentOnEntry appends a supportive comment to an entry.
func CommentOnEntry(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var req CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	comment := models.Comment{
		User:        caller.ID,
		Content:     req.Content,
		IsAnonymous: true,
		CreatedAt:   time.Now(),
	}
	if req.IsAnonymous != nil {
		comment.IsAnonymous = *req.IsAnonymous
	}

	ctx, cancel := opContext(r)
	defer cancel()

	result, err := database.DB.Collection("journals").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "Add comment", err)
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

type FlagRequest struct {
	Reason string `json:"reason"`
}

// FlagEntry marks an entry for moderator review.
func FlagEntry(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var req FlagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !models.ValidFlagReason(req.Reason) {
		writeError(w, http.StatusBadRequest, "Invalid flag reason")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	result, err := database.DB.Collection("journals").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"isFlagged": true, "flagReason": req.Reason, "updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "Flag entry", err)
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry flagged for moderation"})
}

// JournalMoodStats groups the caller's entries by mood.
func JournalMoodStats(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	ctx, cancel := opContext(r)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": caller.ID}}},
		{{Key: "$group", Value: bson.M{"_id": "$mood", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := database.DB.Collection("journals").Aggregate(ctx, pipeline)
	if err != nil {
		serverError(w, "Get mood stats", err)
		return
	}
	defer cursor.Close(ctx)

	stats := []bson.M{}
	if err := cursor.All(ctx, &stats); err != nil {
		serverError(w, "Get mood stats", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

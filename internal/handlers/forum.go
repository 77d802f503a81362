package handlers

import (
	"context"
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

// forumView renders a post with its populated author. Anonymous posts keep
// their attribution hidden from everyone but the author and admins.
type forumView struct {
	models.Forum
	Author *authorRef `json:"author,omitempty"`
}

type forumReplyView struct {
	models.ForumReply
	Author *authorRef `json:"author,omitempty"`
}

func forumViewFor(post models.Forum, authors map[primitive.ObjectID]authorRef, caller *models.User) forumView {
	view := forumView{Forum: post}
	if post.IsAnonymous && (caller == nil || (caller.ID != post.Author && caller.Role != models.RoleAdmin)) {
		return view
	}
	if ref, ok := authors[post.Author]; ok {
		view.Author = &ref
	}
	return view
}

func forumViews(ctx context.Context, posts []models.Forum, caller *models.User) ([]forumView, error) {
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, post := range posts {
		if !post.IsAnonymous {
			ids = append(ids, post.Author)
		}
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]forumView, 0, len(posts))
	for _, post := range posts {
		views = append(views, forumViewFor(post, authors, caller))
	}
	return views, nil
}

// ListForumPosts returns unmoderated posts with category and text-search
// filters.
func ListForumPosts(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 20)

	query := bson.M{"isModerated": false}
	if category := r.URL.Query().Get("category"); category != "" {
		query["category"] = category
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query["$text"] = bson.M{"$search": search}
	}

	ctx, cancel := opContext(r)
	defer cancel()

	total, err := database.DB.Collection("forums").CountDocuments(ctx, query)
	if err != nil {
		serverError(w, "Get forum posts", err)
		return
	}

	findOptions := options.Find().
		SetSort(p.Sort).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	cursor, err := database.DB.Collection("forums").Find(ctx, query, findOptions)
	if err != nil {
		serverError(w, "Get forum posts", err)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Forum
	if err := cursor.All(ctx, &posts); err != nil {
		serverError(w, "Get forum posts", err)
		return
	}

	caller, _ := middleware.UserFrom(r.Context())
	views, err := forumViews(ctx, posts, caller)
	if err != nil {
		serverError(w, "Get forum posts", err)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope("posts", views, total, p))
}

// PinnedForumPosts returns up to five newest pinned posts.
func PinnedForumPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(5)

	cursor, err := database.DB.Collection("forums").Find(ctx, bson.M{
		"isPinned":    true,
		"isModerated": false,
	}, findOptions)
	if err != nil {
		serverError(w, "Get pinned posts", err)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Forum
	if err := cursor.All(ctx, &posts); err != nil {
		serverError(w, "Get pinned posts", err)
		return
	}

	caller, _ := middleware.UserFrom(r.Context())
	views, err := forumViews(ctx, posts, caller)
	if err != nil {
		serverError(w, "Get pinned posts", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": views})
}

// GetForumPost returns a post with all of its replies and bumps the view
// counter.
func GetForumPost(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var post models.Forum
	err := database.DB.Collection("forums").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"views": 1}},
		findOneAndUpdateReturnAfter(),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(w, "Get forum post", err)
		return
	}

	replyOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.DB.Collection("forumreplies").Find(ctx, bson.M{"forum": oid}, replyOptions)
	if err != nil {
		serverError(w, "Get forum post", err)
		return
	}
	defer cursor.Close(ctx)

	replies := []models.ForumReply{}
	if err := cursor.All(ctx, &replies); err != nil {
		serverError(w, "Get forum post", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(replies)+1)
	if !post.IsAnonymous {
		ids = append(ids, post.Author)
	}
	for _, reply := range replies {
		if !reply.IsAnonymous {
			ids = append(ids, reply.Author)
		}
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		serverError(w, "Get forum post", err)
		return
	}

	caller, _ := middleware.UserFrom(r.Context())
	replyViews := make([]forumReplyView, 0, len(replies))
	for _, reply := range replies {
		view := forumReplyView{ForumReply: reply}
		hidden := reply.IsAnonymous && (caller == nil || (caller.ID != reply.Author && caller.Role != models.RoleAdmin))
		if !hidden {
			if ref, ok := authors[reply.Author]; ok {
				view.Author = &ref
			}
		}
		replyViews = append(replyViews, view)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post":    forumViewFor(post, authors, caller),
		"replies": replyViews,
	})
}

type ForumPostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	IsAnonymous *bool    `json:"isAnonymous"`
	Tags        []string `json:"tags"`
}

// CreateForumPost starts a new discussion thread.
func CreateForumPost(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var req ForumPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return
	}
	if !models.ValidForumCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	now := time.Now()
	post := models.Forum{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Author:      caller.ID,
		IsAnonymous: true,
		Tags:        req.Tags,
		VoteSets: models.VoteSets{
			Upvotes:   []primitive.ObjectID{},
			Downvotes: []primitive.ObjectID{},
		},
	}
	if req.IsAnonymous != nil {
		post.IsAnonymous = *req.IsAnonymous
	}

	ctx, cancel := opContext(r)
	defer cancel()

	if _, err := database.DB.Collection("forums").InsertOne(ctx, post); err != nil {
		serverError(w, "Create forum post", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Forum post created successfully",
		"post":    post,
	})
}

// UpdateForumPost edits a post. Author only.
func UpdateForumPost(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var req ForumPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var post models.Forum
	err := database.DB.Collection("forums").FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(w, "Update forum post", err)
		return
	}

	if post.Author != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to edit this post")
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		if !models.ValidForumCategory(req.Category) {
			writeError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		updates["category"] = req.Category
	}
	if req.IsAnonymous != nil {
		updates["isAnonymous"] = *req.IsAnonymous
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	var updated models.Forum
	err = database.DB.Collection("forums").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		serverError(w, "Update forum post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post updated successfully",
		"post":    updated,
	})
}

// DeleteForumPost removes a post and all of its replies. Author or admin.
func DeleteForumPost(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var post models.Forum
	err := database.DB.Collection("forums").FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(w, "Delete forum post", err)
		return
	}

	if post.Author != caller.ID && caller.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "Not authorized to delete this post")
		return
	}

	// Replies go first so a failed post delete leaves no orphans
	if _, err := database.DB.Collection("forumreplies").DeleteMany(ctx, bson.M{"forum": oid}); err != nil {
		serverError(w, "Delete forum post", err)
		return
	}
	if _, err := database.DB.Collection("forums").DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		serverError(w, "Delete forum post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

type ForumReplyRequest struct {
	Content     string `json:"content"`
	IsAnonymous *bool  `json:"isAnonymous"`
	ParentReply string `json:"parentReply"`
}

// ReplyToForumPost adds a reply, optionally nested one level under an existing
// reply.
func ReplyToForumPost(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var req ForumReplyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var post models.Forum
	err := database.DB.Collection("forums").FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(w, "Add reply", err)
		return
	}
	if post.IsLocked {
		writeError(w, http.StatusForbidden, "This post is locked")
		return
	}

	now := time.Now()
	reply := models.ForumReply{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Forum:       oid,
		Author:      caller.ID,
		Content:     req.Content,
		IsAnonymous: true,
		VoteSets: models.VoteSets{
			Upvotes:   []primitive.ObjectID{},
			Downvotes: []primitive.ObjectID{},
		},
	}
	if req.IsAnonymous != nil {
		reply.IsAnonymous = *req.IsAnonymous
	}
	if req.ParentReply != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentReply)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parent reply")
			return
		}
		reply.ParentReply = &parentID
	}

	if _, err := database.DB.Collection("forumreplies").InsertOne(ctx, reply); err != nil {
		serverError(w, "Add reply", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Reply added successfully",
		"reply":   reply,
	})
}

type VoteRequest struct {
	VoteType string `json:"voteType"`
}

// VoteOnForumPost toggles the caller's vote. Voting one way clears the other.
func VoteOnForumPost(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var req VoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var post models.Forum
	err := database.DB.Collection("forums").FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(w, "Vote", err)
		return
	}

	if !post.Apply(caller.ID, req.VoteType) {
		writeError(w, http.StatusBadRequest, "Invalid vote type")
		return
	}

	_, err = database.DB.Collection("forums").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"upvotes":   post.Upvotes,
			"downvotes": post.Downvotes,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		serverError(w, "Vote", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Vote recorded",
		"upvotes":   len(post.Upvotes),
		"downvotes": len(post.Downvotes),
	})
}

// FlagForumPost marks a post for moderator review.
func FlagForumPost(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
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

	result, err := database.DB.Collection("forums").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"isFlagged": true, "flagReason": req.Reason, "updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "Flag post", err)
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post flagged for moderation"})
}

// ForumCategoriesList lists the distinct categories in use.
func ForumCategoriesList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	categories, err := database.DB.Collection("forums").Distinct(ctx, "category", bson.M{})
	if err != nil {
		serverError(w, "Get categories", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

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

// resourceView embeds the populated author object in place of the raw ref.
type resourceView struct {
	models.Resource
	Author authorRef `json:"author"`
}

func resourceViews(ctx context.Context, resources []models.Resource) ([]resourceView, error) {
	ids := make([]primitive.ObjectID, 0, len(resources))
	for _, res := range resources {
		ids = append(ids, res.Author)
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]resourceView, 0, len(resources))
	for _, res := range resources {
		views = append(views, resourceView{Resource: res, Author: authors[res.Author]})
	}
	return views, nil
}

// ListResources returns published resources with category/type/difficulty and
// text-search filters.
func ListResources(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 10)

	query := bson.M{"isPublished": true}
	if category := r.URL.Query().Get("category"); category != "" {
		query["category"] = category
	}
	if resourceType := r.URL.Query().Get("type"); resourceType != "" {
		query["type"] = resourceType
	}
	if difficulty := r.URL.Query().Get("difficulty"); difficulty != "" {
		query["difficulty"] = difficulty
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query["$text"] = bson.M{"$search": search}
	}

	ctx, cancel := opContext(r)
	defer cancel()

	total, err := database.DB.Collection("resources").CountDocuments(ctx, query)
	if err != nil {
		serverError(w, "Get resources", err)
		return
	}

	findOptions := options.Find().
		SetSort(p.Sort).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	cursor, err := database.DB.Collection("resources").Find(ctx, query, findOptions)
	if err != nil {
		serverError(w, "Get resources", err)
		return
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		serverError(w, "Get resources", err)
		return
	}

	views, err := resourceViews(ctx, resources)
	if err != nil {
		serverError(w, "Get resources", err)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope("resources", views, total, p))
}

// FeaturedResources returns the six newest featured, published resources.
func FeaturedResources(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(6)

	cursor, err := database.DB.Collection("resources").Find(ctx, bson.M{
		"isPublished": true,
		"isFeatured":  true,
	}, findOptions)
	if err != nil {
		serverError(w, "Get featured resources", err)
		return
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		serverError(w, "Get featured resources", err)
		return
	}

	views, err := resourceViews(ctx, resources)
	if err != nil {
		serverError(w, "Get featured resources", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"resources": views})
}

// GetResource returns a single resource and bumps its view counter. Every
// resourceFetchFilter matches a resource by id. Unpublished resources match
// only for admins; filtering before the view increment keeps 404ed requests
// from counting.
func resourceFetchFilter(id primitive.ObjectID, caller *models.User) bson.M {
	filter := bson.M{"_id": id}
	if caller == nil || caller.Role != models.RoleAdmin {
		filter["isPublished"] = true
	}
	return filter
}

// detail fetch counts, repeat views included.
func GetResource(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	caller, _ := middleware.UserFrom(r.Context())

	ctx, cancel := opContext(r)
	defer cancel()

	var resource models.Resource
	err := database.DB.Collection("resources").FindOneAndUpdate(
		ctx,
		resourceFetchFilter(oid, caller),
		bson.M{"$inc": bson.M{"views": 1}},
		findOneAndUpdateReturnAfter(),
	).Decode(&resource)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err != nil {
		serverError(w, "Get resource", err)
		return
	}

	authors, err := loadAuthors(ctx, []primitive.ObjectID{resource.Author})
	if err != nil {
		serverError(w, "Get resource", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resource": resourceView{Resource: resource, Author: authors[resource.Author]},
	})
}

type ResourceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	MediaURL    string   `json:"mediaUrl"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
	IsFeatured  *bool    `json:"isFeatured"`
	ReadingTime int      `json:"readingTime"`
	Difficulty  string   `json:"difficulty"`
}

func (req *ResourceRequest) validate() string {
	if req.Title == "" || req.Description == "" || req.Content == "" {
		return "Title, description and content are required"
	}
	if !models.ValidResourceCategory(req.Category) {
		return "Invalid resource category"
	}
	if !models.ValidResourceType(req.Type) {
		return "Invalid resource type"
	}
	if req.Difficulty != "" && !models.ValidResourceDifficulty(req.Difficulty) {
		return "Invalid difficulty"
	}
	return ""
}

// CreateResource adds a library item. Counsellor or admin only (route gate).
func CreateResource(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var req ResourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	resource := models.Resource{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Type:        req.Type,
		MediaURL:    req.MediaURL,
		Thumbnail:   req.Thumbnail,
		Author:      caller.ID,
		Tags:        req.Tags,
		Likes:       []primitive.ObjectID{},
		ReadingTime: 5,
		Difficulty:  "beginner",
	}
	if req.IsPublished != nil {
		resource.IsPublished = *req.IsPublished
	}
	if req.IsFeatured != nil {
		resource.IsFeatured = *req.IsFeatured
	}
	if req.ReadingTime > 0 {
		resource.ReadingTime = req.ReadingTime
	}
	if req.Difficulty != "" {
		resource.Difficulty = req.Difficulty
	}

	ctx, cancel := opContext(r)
	defer cancel()

	if _, err := database.DB.Collection("resources").InsertOne(ctx, resource); err != nil {
		serverError(w, "Create resource", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Resource created successfully",
		"resource": resource,
	})
}

// UpdateResource edits a resource. Author or admin only.
func UpdateResource(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	var req ResourceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var resource models.Resource
	err := database.DB.Collection("resources").FindOne(ctx, bson.M{"_id": oid}).Decode(&resource)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err != nil {
		serverError(w, "Update resource", err)
		return
	}

	if resource.Author != caller.ID && caller.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "Not authorized to edit this resource")
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.Category != "" {
		if !models.ValidResourceCategory(req.Category) {
			writeError(w, http.StatusBadRequest, "Invalid resource category")
			return
		}
		updates["category"] = req.Category
	}
	if req.Type != "" {
		if !models.ValidResourceType(req.Type) {
			writeError(w, http.StatusBadRequest, "Invalid resource type")
			return
		}
		updates["type"] = req.Type
	}
	if req.Difficulty != "" {
		if !models.ValidResourceDifficulty(req.Difficulty) {
			writeError(w, http.StatusBadRequest, "Invalid difficulty")
			return
		}
		updates["difficulty"] = req.Difficulty
	}
	if req.MediaURL != "" {
		updates["mediaUrl"] = req.MediaURL
	}
	if req.Thumbnail != "" {
		updates["thumbnail"] = req.Thumbnail
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.IsPublished != nil {
		updates["isPublished"] = *req.IsPublished
	}
	if req.IsFeatured != nil {
		updates["isFeatured"] = *req.IsFeatured
	}
	if req.ReadingTime > 0 {
		updates["readingTime"] = req.ReadingTime
	}

	var updated models.Resource
	err = database.DB.Collection("resources").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		serverError(w, "Update resource", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Resource updated successfully",
		"resource": updated,
	})
}

// DeleteResource removes a resource. Admin only (route gate).
func DeleteResource(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	result, err := database.DB.Collection("resources").DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		serverError(w, "Delete resource", err)
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Resource deleted successfully"})
}

// LikeResource toggles the caller's membership in the likes set.
func LikeResource(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var resource models.Resource
	err := database.DB.Collection("resources").FindOne(ctx, bson.M{"_id": oid}).Decode(&resource)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err != nil {
		serverError(w, "Like resource", err)
		return
	}

	liked := resource.ToggleLike(caller.ID)

	_, err = database.DB.Collection("resources").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"likes": resource.Likes, "updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "Like resource", err)
		return
	}

	message := "Resource unliked"
	if liked {
		message = "Resource liked"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"likes":   len(resource.Likes),
	})
}

// ResourceCategories lists the distinct categories in use.
func ResourceCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	categories, err := database.DB.Collection("resources").Distinct(ctx, "category", bson.M{})
	if err != nil {
		serverError(w, "Get categories", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

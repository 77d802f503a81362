package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
	"github.com/mindhaven-app/mindhaven-backend/pkg/utils"
)

func groupStats(r *http.Request, collection string, pipeline mongo.Pipeline) ([]bson.M, error) {
	ctx, cancel := opContext(r)
	defer cancel()

	cursor, err := database.DB.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// AdminDashboard assembles the moderation console overview: per-role user
// stats, per-category content stats, recent signups and flag counts.
func AdminDashboard(w http.ResponseWriter, r *http.Request) {
	userStats, err := groupStats(r, "users", mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$role",
			"count":         bson.M{"$sum": 1},
			"activeCount":   bson.M{"$sum": bson.M{"$cond": bson.A{"$isActive", 1, 0}}},
			"verifiedCount": bson.M{"$sum": bson.M{"$cond": bson.A{"$isVerified", 1, 0}}},
		}}},
	})
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}

	resourceStats, err := groupStats(r, "resources", mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"totalViews": bson.M{"$sum": "$views"},
			"totalLikes": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}}},
		}}},
	})
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}

	journalStats, err := groupStats(r, "journals", mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$mood", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}

	forumStats, err := groupStats(r, "forums", mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"totalViews": bson.M{"$sum": "$views"},
		}}},
	})
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	recentOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(5)

	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{}, recentOptions)
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}
	var recentUsersRaw []models.User
	if err := cursor.All(ctx, &recentUsersRaw); err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}
	recentUsers := make([]bson.M, 0, len(recentUsersRaw))
	for _, u := range recentUsersRaw {
		recentUsers = append(recentUsers, bson.M{
			"id":        u.ID,
			"username":  u.Username,
			"email":     u.Email,
			"role":      u.Role,
			"createdAt": u.CreatedAt,
		})
	}

	cursor, err = database.DB.Collection("resources").Find(ctx, bson.M{}, recentOptions)
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}
	var recentResourcesRaw []models.Resource
	if err := cursor.All(ctx, &recentResourcesRaw); err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}
	recentResources := make([]bson.M, 0, len(recentResourcesRaw))
	for _, res := range recentResourcesRaw {
		recentResources = append(recentResources, bson.M{
			"id":        res.ID,
			"title":     res.Title,
			"category":  res.Category,
			"createdAt": res.CreatedAt,
		})
	}

	flaggedJournals, err := database.DB.Collection("journals").CountDocuments(ctx, bson.M{"isFlagged": true})
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}
	flaggedForums, err := database.DB.Collection("forums").CountDocuments(ctx, bson.M{"isFlagged": true})
	if err != nil {
		serverError(w, "Get admin dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userStats":       userStats,
		"resourceStats":   resourceStats,
		"journalStats":    journalStats,
		"forumStats":      forumStats,
		"recentUsers":     recentUsers,
		"recentResources": recentResources,
		"flaggedContent": map[string]int64{
			"journals": flaggedJournals,
			"forums":   flaggedForums,
		},
	})
}

// FlaggedContent lists flagged journals and forum posts awaiting moderation.
func FlaggedContent(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 20)
	contentType := r.URL.Query().Get("type")

	ctx, cancel := opContext(r)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	flaggedItems := []bson.M{}
	var total int64

	if contentType == "" || contentType == "journal" {
		cursor, err := database.DB.Collection("journals").Find(ctx, bson.M{"isFlagged": true}, findOptions)
		if err != nil {
			serverError(w, "Get flagged content", err)
			return
		}
		var items []bson.M
		if err := cursor.All(ctx, &items); err != nil {
			serverError(w, "Get flagged content", err)
			return
		}
		for _, item := range items {
			item["type"] = "journal"
			item["id"] = item["_id"]
			delete(item, "_id")
			flaggedItems = append(flaggedItems, item)
		}
		count, err := database.DB.Collection("journals").CountDocuments(ctx, bson.M{"isFlagged": true})
		if err != nil {
			serverError(w, "Get flagged content", err)
			return
		}
		total += count
	}

	if contentType == "" || contentType == "forum" {
		cursor, err := database.DB.Collection("forums").Find(ctx, bson.M{"isFlagged": true}, findOptions)
		if err != nil {
			serverError(w, "Get flagged content", err)
			return
		}
		var items []bson.M
		if err := cursor.All(ctx, &items); err != nil {
			serverError(w, "Get flagged content", err)
			return
		}
		for _, item := range items {
			item["type"] = "forum"
			item["id"] = item["_id"]
			delete(item, "_id")
			flaggedItems = append(flaggedItems, item)
		}
		count, err := database.DB.Collection("forums").CountDocuments(ctx, bson.M{"isFlagged": true})
		if err != nil {
			serverError(w, "Get flagged content", err)
			return
		}
		total += count
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flaggedItems": flaggedItems,
		"totalPages":   totalPages(total, p.Limit),
		"currentPage":  p.Page,
		"total":        total,
	})
}

type ModerateRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

var moderationCollections = map[string]string{
	"journal": "journals",
	"forum":   "forums",
}

// ModerateContent resolves a flagged item: approve clears the flag, reject
// keeps it, delete removes the document. Every action lands in the audit
// trail.
func ModerateContent(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	contentType := chi.URLParam(r, "type")
	collection, ok := moderationCollections[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid content type")
		return
	}

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Content not found")
		return
	}

	var req ModerateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var updates bson.M
	switch req.Action {
	case "approve":
		updates = bson.M{"isFlagged": false, "flagReason": "", "isModerated": true}
	case "reject":
		updates = bson.M{"isModerated": true}
	case "delete":
		result, err := database.DB.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			serverError(w, "Moderate content", err)
			return
		}
		if result.DeletedCount == 0 {
			writeError(w, http.StatusNotFound, "Content not found")
			return
		}
		if contentType == "forum" {
			database.DB.Collection("forumreplies").DeleteMany(ctx, bson.M{"forum": oid})
		}
		if err := services.RecordModeration(ctx, caller.ID.Hex(), contentType, oid.Hex(), req.Action, req.Reason); err != nil {
			log.Printf("Moderate content: audit write failed: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Content deleted successfully"})
		return
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	updates["updatedAt"] = time.Now()

	var item bson.M
	err := database.DB.Collection(collection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&item)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Content not found")
		return
	}
	if err != nil {
		serverError(w, "Moderate content", err)
		return
	}

	if err := services.RecordModeration(ctx, caller.ID.Hex(), contentType, oid.Hex(), req.Action, req.Reason); err != nil {
		log.Printf("Moderate content: audit write failed: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Content %sd successfully", req.Action),
		"item":    item,
	})
}

// AdminResources lists resources without the published filter.
func AdminResources(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 20)

	query := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		query["category"] = category
	}
	if published := r.URL.Query().Get("isPublished"); published != "" {
		query["isPublished"] = published == "true"
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

type AdminResourceRequest struct {
	IsPublished *bool `json:"isPublished"`
	IsFeatured  *bool `json:"isFeatured"`
}

// AdminUpdateResource flips publish/feature flags on a resource.
func AdminUpdateResource(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	var req AdminResourceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.IsPublished != nil {
		updates["isPublished"] = *req.IsPublished
	}
	if req.IsFeatured != nil {
		updates["isFeatured"] = *req.IsFeatured
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var updated models.Resource
	err := database.DB.Collection("resources").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if err != nil {
		serverError(w, "Update resource", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Resource updated successfully",
		"resource": updated,
	})
}

// AdminAnalytics returns registration, resource-view and mood trends over a
// named period.
func AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}
	days := utils.PeriodDays(period)
	startDate := time.Now().AddDate(0, 0, -days)

	match := bson.D{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": startDate}}}}
	byDay := bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}}

	userTrends, err := groupStats(r, "users", mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.M{"_id": byDay, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		serverError(w, "Get analytics", err)
		return
	}

	resourceViews, err := groupStats(r, "resources", mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.M{
			"_id":        byDay,
			"totalViews": bson.M{"$sum": "$views"},
			"count":      bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		serverError(w, "Get analytics", err)
		return
	}

	moodTrends, err := groupStats(r, "moods", mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.M{
			"_id":          bson.M{"date": byDay, "mood": "$mood"},
			"count":        bson.M{"$sum": 1},
			"avgIntensity": bson.M{"$avg": "$intensity"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id.date": 1}}},
	})
	if err != nil {
		serverError(w, "Get analytics", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userTrends":    userTrends,
		"resourceViews": resourceViews,
		"moodTrends":    moodTrends,
		"period":        period,
	})
}

// AuditLog pages through the moderation audit trail kept in Postgres.
func AuditLog(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 50)

	ctx, cancel := opContext(r)
	defer cancel()

	entries, total, err := services.ListModeration(ctx, p.Limit, int(p.Skip()))
	if err != nil {
		serverError(w, "Get audit log", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":     entries,
		"totalPages":  totalPages(total, p.Limit),
		"currentPage": p.Page,
		"total":       total,
	})
}

// DatabaseDump returns every collection's documents. Debugging aid behind the
// admin gate.
func DatabaseDump(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	names, err := database.DB.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		serverError(w, "Get database data", err)
		return
	}

	data := map[string][]bson.M{}
	for _, name := range names {
		cursor, err := database.DB.Collection(name).Find(ctx, bson.M{})
		if err != nil {
			serverError(w, "Get database data", err)
			return
		}
		docs := []bson.M{}
		if err := cursor.All(ctx, &docs); err != nil {
			serverError(w, "Get database data", err)
			return
		}
		data[name] = docs
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Database data retrieved successfully",
		"data":        data,
		"collections": names,
	})
}

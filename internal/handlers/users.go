package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

// ListUsers returns the paginated user directory. Admin only.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	p := parsePage(r, 20)

	query := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		query["role"] = role
	}
	if active := r.URL.Query().Get("isActive"); active != "" {
		query["isActive"] = active == "true"
	}

	ctx, cancel := opContext(r)
	defer cancel()

	total, err := database.DB.Collection("users").CountDocuments(ctx, query)
	if err != nil {
		serverError(w, "Get users", err)
		return
	}

	findOptions := options.Find().
		SetSort(p.Sort).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	cursor, err := database.DB.Collection("users").Find(ctx, query, findOptions)
	if err != nil {
		serverError(w, "Get users", err)
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		serverError(w, "Get users", err)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope("users", users, total, p))
}

// GetCounsellors returns the public directory of active, verified counsellors.
// The list is cached in Redis; the cache is best effort.
func GetCounsellors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	var cached []authorRef
	if services.CacheGet(ctx, services.CounsellorsCacheKey, &cached) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"counsellors": cached})
		return
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "profile.firstName", Value: 1}})
	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{
		"role":       models.RoleCounsellor,
		"isActive":   true,
		"isVerified": true,
	}, findOptions)
	if err != nil {
		serverError(w, "Get counsellors", err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		serverError(w, "Get counsellors", err)
		return
	}

	counsellors := make([]authorRef, 0, len(users))
	for i := range users {
		ref := refFromUser(&users[i])
		ref.Profile.Bio = users[i].Profile.Bio
		counsellors = append(counsellors, ref)
	}

	services.CacheSet(ctx, services.CounsellorsCacheKey, counsellors, services.CounsellorsCacheTTL)

	writeJSON(w, http.StatusOK, map[string]interface{}{"counsellors": counsellors})
}

// GetUser returns a user by id. Full document for self or admin, limited
// profile otherwise.
func GetUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, "Get user", err)
		return
	}

	if caller.ID != user.ID && caller.Role != models.RoleAdmin {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": user.Public()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

type AdminUpdateUserRequest struct {
	IsActive   *bool  `json:"isActive"`
	IsVerified *bool  `json:"isVerified"`
	Role       string `json:"role"`
}

// UpdateUser lets an admin change role/active/verified flags.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var req AdminUpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}
	if req.IsVerified != nil {
		updates["isVerified"] = *req.IsVerified
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		updates["role"] = req.Role
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var updated models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, "Update user", err)
		return
	}

	// Role/verified changes can affect the counsellor directory
	services.CacheDelete(ctx, services.CounsellorsCacheKey)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    updated,
	})
}

// DeleteUser removes an account outright. Admin only.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	result, err := database.DB.Collection("users").DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		serverError(w, "Delete user", err)
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	services.CacheDelete(ctx, services.CounsellorsCacheKey)

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// UserStatsOverview aggregates per-role account counts. Admin only.
func UserStatsOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := opContext(r)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$role",
			"count":         bson.M{"$sum": 1},
			"activeCount":   bson.M{"$sum": bson.M{"$cond": bson.A{"$isActive", 1, 0}}},
			"verifiedCount": bson.M{"$sum": bson.M{"$cond": bson.A{"$isVerified", 1, 0}}},
		}}},
	}

	cursor, err := database.DB.Collection("users").Aggregate(ctx, pipeline)
	if err != nil {
		serverError(w, "Get user stats", err)
		return
	}
	defer cursor.Close(ctx)

	stats := []bson.M{}
	if err := cursor.All(ctx, &stats); err != nil {
		serverError(w, "Get user stats", err)
		return
	}

	totalUsers, err := database.DB.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		serverError(w, "Get user stats", err)
		return
	}
	activeUsers, err := database.DB.Collection("users").CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		serverError(w, "Get user stats", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":       stats,
		"totalUsers":  totalUsers,
		"activeUsers": activeUsers,
	})
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/pkg/utils"
)

// ListMoods returns the caller's tracker entries, newest first, with optional
// date-range and mood filters.
func ListMoods(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	p := parsePage(r, 30)

	query := bson.M{"user": caller.ID}
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate != "" && endDate != "" {
		start, err1 := time.Parse("2006-01-02", startDate)
		end, err2 := time.Parse("2006-01-02", endDate)
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range")
			return
		}
		query["createdAt"] = bson.M{"$gte": start, "$lte": end.AddDate(0, 0, 1)}
	}
	if mood := r.URL.Query().Get("mood"); mood != "" {
		query["mood"] = mood
	}

	ctx, cancel := opContext(r)
	defer cancel()

	total, err := database.DB.Collection("moods").CountDocuments(ctx, query)
	if err != nil {
		serverError(w, "Get mood entries", err)
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(p.Limit)).
		SetSkip(p.Skip())

	cursor, err := database.DB.Collection("moods").Find(ctx, query, findOptions)
	if err != nil {
		serverError(w, "Get mood entries", err)
		return
	}
	defer cursor.Close(ctx)

	entries := []models.Mood{}
	if err := cursor.All(ctx, &entries); err != nil {
		serverError(w, "Get mood entries", err)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope("entries", entries, total, p))
}

// TodayMood returns the caller's entry for the current calendar day, or a null
// entry when none exists yet.
func TodayMood(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	ctx, cancel := opContext(r)
	defer cancel()

	start, end := utils.DayBounds(time.Now())

	var entry models.Mood
	err := database.DB.Collection("moods").FindOne(ctx, bson.M{
		"user":      caller.ID,
		"createdAt": bson.M{"$gte": start, "$lt": end},
	}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		writeJSON(w, http.StatusOK, map[string]interface{}{"entry": nil})
		return
	}
	if err != nil {
		serverError(w, "Get today's mood", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

type MoodRequest struct {
	Mood        string   `json:"mood"`
	Intensity   *int     `json:"intensity"`
	Activities  []string `json:"activities"`
	Notes       string   `json:"notes"`
	SleepHours  *float64 `json:"sleepHours"`
	StressLevel *int     `json:"stressLevel"`
	EnergyLevel *int     `json:"energyLevel"`
	IsPrivate   *bool    `json:"isPrivate"`
	Tags        []string `json:"tags"`
}

func (req *MoodRequest) validate() string {
	if req.Mood != "" && !models.ValidTrackerMood(req.Mood) {
		return "Invalid mood"
	}
	if req.Intensity != nil && (*req.Intensity < 1 || *req.Intensity > 10) {
		return "Intensity must be between 1 and 10"
	}
	if req.SleepHours != nil && (*req.SleepHours < 0 || *req.SleepHours > 24) {
		return "Sleep hours must be between 0 and 24"
	}
	if req.StressLevel != nil && (*req.StressLevel < 1 || *req.StressLevel > 10) {
		return "Stress level must be between 1 and 10"
	}
	if req.EnergyLevel != nil && (*req.EnergyLevel < 1 || *req.EnergyLevel > 10) {
		return "Energy level must be between 1 and 10"
	}
	for _, a := range req.Activities {
		if !models.ValidActivity(a) {
			return "Invalid activity"
		}
	}
	return ""
}

// sameDayMoodFilter matches the user's entry within the calendar day
// containing at.
func sameDayMoodFilter(user primitive.ObjectID, at time.Time) bson.M {
	start, end := utils.DayBounds(at)
	return bson.M{
		"user":      user,
		"createdAt": bson.M{"$gte": start, "$lt": end},
	}
}

// duplicateMoodBody is the conflict payload for a second same-day entry. It
// carries the existing entry so the client can offer an update instead.
func duplicateMoodBody(existing models.Mood) map[string]interface{} {
	return map[string]interface{}{
		"error": "Mood entry already exists for today",
		"entry": existing,
	}
}

// CreateMood records today's mood. One entry per user per calendar day; a
// duplicate returns the existing entry alongside the error.
func CreateMood(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	var req MoodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "Mood is required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var existing models.Mood
	err := database.DB.Collection("moods").FindOne(ctx, sameDayMoodFilter(caller.ID, time.Now())).Decode(&existing)
	if err == nil {
		writeJSON(w, http.StatusBadRequest, duplicateMoodBody(existing))
		return
	}
	if err != mongo.ErrNoDocuments {
		serverError(w, "Create mood entry", err)
		return
	}

	now := time.Now()
	entry := models.Mood{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		User:        caller.ID,
		Mood:        req.Mood,
		Intensity:   5,
		Activities:  req.Activities,
		Notes:       req.Notes,
		SleepHours:  req.SleepHours,
		StressLevel: req.StressLevel,
		EnergyLevel: req.EnergyLevel,
		IsPrivate:   true,
		Tags:        req.Tags,
	}
	if req.Intensity != nil {
		entry.Intensity = *req.Intensity
	}
	if req.IsPrivate != nil {
		entry.IsPrivate = *req.IsPrivate
	}

	if _, err := database.DB.Collection("moods").InsertOne(ctx, entry); err != nil {
		serverError(w, "Create mood entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Mood entry created successfully",
		"entry":   entry,
	})
}

// UpdateMood edits an entry. Owner only.
func UpdateMood(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Mood entry not found")
		return
	}

	var req MoodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var entry models.Mood
	err := database.DB.Collection("moods").FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Mood entry not found")
		return
	}
	if err != nil {
		serverError(w, "Update mood entry", err)
		return
	}

	if entry.User != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to edit this entry")
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Mood != "" {
		updates["mood"] = req.Mood
	}
	if req.Intensity != nil {
		updates["intensity"] = *req.Intensity
	}
	if req.Activities != nil {
		updates["activities"] = req.Activities
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if req.SleepHours != nil {
		updates["sleepHours"] = *req.SleepHours
	}
	if req.StressLevel != nil {
		updates["stressLevel"] = *req.StressLevel
	}
	if req.EnergyLevel != nil {
		updates["energyLevel"] = *req.EnergyLevel
	}
	if req.IsPrivate != nil {
		updates["isPrivate"] = *req.IsPrivate
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	var updated models.Mood
	err = database.DB.Collection("moods").FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		serverError(w, "Update mood entry", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Mood entry updated successfully",
		"entry":   updated,
	})
}

// DeleteMood removes an entry. Owner only.
func DeleteMood(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	oid, ok := objectIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Mood entry not found")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var entry models.Mood
	err := database.DB.Collection("moods").FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Mood entry not found")
		return
	}
	if err != nil {
		serverError(w, "Delete mood entry", err)
		return
	}

	if entry.User != caller.ID {
		writeError(w, http.StatusForbidden, "Not authorized to delete this entry")
		return
	}

	if _, err := database.DB.Collection("moods").DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		serverError(w, "Delete mood entry", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Mood entry deleted successfully"})
}

func daysParam(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("days"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 {
			return days
		}
	}
	return fallback
}

// MoodStatsOverview aggregates per-mood distribution and a daily intensity
// trend over a day window.
func MoodStatsOverview(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	days := daysParam(r, 30)
	startDate := time.Now().AddDate(0, 0, -days)

	ctx, cancel := opContext(r)
	defer cancel()

	match := bson.D{{Key: "$match", Value: bson.M{
		"user":      caller.ID,
		"createdAt": bson.M{"$gte": startDate},
	}}}

	statsPipeline := mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.M{
			"_id":            "$mood",
			"count":          bson.M{"$sum": 1},
			"avgIntensity":   bson.M{"$avg": "$intensity"},
			"avgStressLevel": bson.M{"$avg": "$stressLevel"},
			"avgEnergyLevel": bson.M{"$avg": "$energyLevel"},
			"avgSleepHours":  bson.M{"$avg": "$sleepHours"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := database.DB.Collection("moods").Aggregate(ctx, statsPipeline)
	if err != nil {
		serverError(w, "Get mood stats", err)
		return
	}
	stats := []bson.M{}
	if err := cursor.All(ctx, &stats); err != nil {
		serverError(w, "Get mood stats", err)
		return
	}

	trendPipeline := mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d", "date": "$createdAt",
			}},
			"avgIntensity":   bson.M{"$avg": "$intensity"},
			"avgStressLevel": bson.M{"$avg": "$stressLevel"},
			"avgEnergyLevel": bson.M{"$avg": "$energyLevel"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err = database.DB.Collection("moods").Aggregate(ctx, trendPipeline)
	if err != nil {
		serverError(w, "Get mood stats", err)
		return
	}
	trend := []bson.M{}
	if err := cursor.All(ctx, &trend); err != nil {
		serverError(w, "Get mood stats", err)
		return
	}

	var totalEntries int64
	for _, stat := range stats {
		switch count := stat["count"].(type) {
		case int32:
			totalEntries += int64(count)
		case int64:
			totalEntries += count
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":          stats,
		"intensityTrend": trend,
		"totalEntries":   totalEntries,
	})
}

// MoodTrends groups entries by (day, mood) over a named period.
func MoodTrends(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())

	days := utils.PeriodDays(r.URL.Query().Get("period"))
	startDate := time.Now().AddDate(0, 0, -days)

	ctx, cancel := opContext(r)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user":      caller.ID,
			"createdAt": bson.M{"$gte": startDate},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"date": bson.M{"$dateToString": bson.M{
					"format": "%Y-%m-%d", "date": "$createdAt",
				}},
				"mood": "$mood",
			},
			"count":        bson.M{"$sum": 1},
			"avgIntensity": bson.M{"$avg": "$intensity"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id.date": 1}}},
	}

	cursor, err := database.DB.Collection("moods").Aggregate(ctx, pipeline)
	if err != nil {
		serverError(w, "Get mood trends", err)
		return
	}
	defer cursor.Close(ctx)

	trends := []bson.M{}
	if err := cursor.All(ctx, &trends); err != nil {
		serverError(w, "Get mood trends", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trends": trends})
}

// MoodActivityStats ranks activities by frequency with the average mood
// intensity recorded alongside them.
func MoodActivityStats(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UserFrom(r.Context())
	days := daysParam(r, 30)
	startDate := time.Now().AddDate(0, 0, -days)

	ctx, cancel := opContext(r)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user":      caller.ID,
			"createdAt": bson.M{"$gte": startDate},
		}}},
		{{Key: "$unwind", Value: "$activities"}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$activities",
			"count":            bson.M{"$sum": 1},
			"avgMoodIntensity": bson.M{"$avg": "$intensity"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := database.DB.Collection("moods").Aggregate(ctx, pipeline)
	if err != nil {
		serverError(w, "Get activity stats", err)
		return
	}
	defer cursor.Close(ctx)

	activityStats := []bson.M{}
	if err := cursor.All(ctx, &activityStats); err != nil {
		serverError(w, "Get activity stats", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"activityStats": activityStats})
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
	"github.com/mindhaven-app/mindhaven-backend/pkg/utils"
)

var cfg *config.Config

// Init wires the loaded configuration into the handler package.
func Init(c *config.Config) {
	cfg = c
}

func opContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), opTimeoutSeconds*time.Second)
}

func mintToken(userID, role string) (string, error) {
	return services.GenerateToken(cfg.JWTSecret, userID, role, time.Duration(cfg.JWTExpireHours)*time.Hour)
}

type RegisterRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     string          `json:"role"`
	Profile  *models.Profile `json:"profile"`
}

// Register creates a new account and returns a bearer token for it.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	username := utils.NormalizeUsername(req.Username)
	email := utils.NormalizeEmail(req.Email)

	// Duplicate email or username is a validation failure regardless of role
	count, err := database.DB.Collection("users").CountDocuments(ctx, bson.M{
		"$or": []bson.M{{"email": email}, {"username": username}},
	})
	if err != nil {
		serverError(w, "Registration", err)
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "User with this email or username already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(w, "Registration", err)
		return
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Email:     email,
		Password:  hashed,
		Role:      req.Role,
		IsActive:  true,
	}
	if req.Profile != nil {
		user.Profile = *req.Profile
	}

	if _, err := database.DB.Collection("users").InsertOne(ctx, user); err != nil {
		serverError(w, "Registration", err)
		return
	}

	token, err := mintToken(user.ID.Hex(), user.Role)
	if err != nil {
		serverError(w, "Registration", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a fresh bearer token.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": utils.NormalizeEmail(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		serverError(w, "Login", err)
		return
	}

	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account is deactivated. Please contact support.")
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	database.DB.Collection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"lastLogin": now, "updatedAt": now},
	})

	token, err := mintToken(user.ID.Hex(), user.Role)
	if err != nil {
		serverError(w, "Login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Me returns the authenticated user's own profile.
func Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

type UpdateProfileRequest struct {
	Profile     map[string]interface{} `json:"profile"`
	Preferences map[string]interface{} `json:"preferences"`
}

var profileFields = map[string]bool{
	"firstName": true, "lastName": true, "bio": true,
	"avatar": true, "specialization": true,
}

var preferenceFields = map[string]bool{
	"notifications": true, "darkMode": true,
}

// UpdateProfile merges submitted profile/preference fields into the account.
// Unknown keys are dropped.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	for key, value := range req.Profile {
		if profileFields[key] {
			updates["profile."+key] = value
		}
	}
	for key, value := range req.Preferences {
		if preferenceFields[key] {
			updates["preferences."+key] = value
		}
	}

	ctx, cancel := opContext(r)
	defer cancel()

	var updated models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": updates},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		serverError(w, "Update profile", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword verifies the current password before storing the new hash.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := utils.VerifyPassword(req.CurrentPassword, user.Password)
	if err != nil || !ok {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		serverError(w, "Change password", err)
		return
	}

	ctx, cancel := opContext(r)
	defer cancel()

	_, err = database.DB.Collection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"password": hashed, "updatedAt": time.Now()},
	})
	if err != nil {
		serverError(w, "Change password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// Logout revokes the presented token so it cannot be replayed.
func Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if ok {
		ctx, cancel := opContext(r)
		defer cancel()
		if err := services.RevokeToken(ctx, claims); err != nil {
			serverError(w, "Logout", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Refresh mints a new token for the authenticated user.
func Refresh(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	token, err := mintToken(user.ID.Hex(), user.Role)
	if err != nil {
		serverError(w, "Token refresh", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

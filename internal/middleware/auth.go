package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

// UserFrom returns the authenticated user attached by Auth or OptionalAuth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// ClaimsFrom returns the verified token claims attached by Auth.
func ClaimsFrom(ctx context.Context) (*services.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*services.TokenClaims)
	return c, ok
}

// ExtractBearerToken pulls the raw token out of an Authorization header.
func ExtractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// resolveUser verifies the raw token and loads the account it names. Returns
// nil when the token is invalid, the account is missing, or it is deactivated.
func resolveUser(ctx context.Context, secret, raw string) (*models.User, *services.TokenClaims) {
	claims, err := services.VerifyToken(ctx, secret, raw)
	if err != nil {
		return nil, nil
	}

	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, nil
	}

	var user models.User
	if err := database.DB.Collection("users").FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, nil
	}
	if !user.IsActive {
		return nil, nil
	}
	return &user, claims
}

// Auth validates the bearer credential and attaches the resolved user and
// claims to the request context. Missing, malformed, expired or revoked tokens
// and deactivated accounts all produce 401.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractBearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				unauthorized(w, "Access denied. No token provided.")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			user, claims := resolveUser(ctx, secret, raw)
			if user == nil {
				unauthorized(w, "Invalid token.")
				return
			}

			reqCtx := context.WithValue(r.Context(), userKey, user)
			reqCtx = context.WithValue(reqCtx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(reqCtx))
		})
	}
}

// RequireRole gates a subtree on an allow-list of roles. Must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				unauthorized(w, "Authentication required.")
				return
			}
			if !allowed[user.Role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": "Insufficient permissions."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth attaches identity when a valid token is present and proceeds
// anonymously otherwise. Used by endpoints visible to both anonymous and
// authenticated callers (public journal feed, forum, resources).
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractBearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			user, claims := resolveUser(ctx, secret, raw)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			reqCtx := context.WithValue(r.Context(), userKey, user)
			reqCtx = context.WithValue(reqCtx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(reqCtx))
		})
	}
}

// WithUser returns a request context carrying user. Test helper for handlers
// that read identity via UserFrom.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

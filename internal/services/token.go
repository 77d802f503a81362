package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
)

const (
	// RevokedTokenKeyPrefix is the Redis key prefix for revoked token ids
	RevokedTokenKeyPrefix = "revoked_jti:"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// TokenClaims is what a verified bearer token resolves to.
type TokenClaims struct {
	UserID string // subject: user object id hex
	Role   string
	JTI    string
	Expiry time.Time
}

// GenerateToken mints a signed HS256 bearer token for a user. The jti claim
// lets logout revoke the token before its natural expiry.
func GenerateToken(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  uuid.NewString(),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a bearer token. It rejects unexpected
// signing methods, expired tokens and tokens whose jti has been revoked.
func VerifyToken(ctx context.Context, secret, raw string) (*TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)

	var expiry time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiry = exp.Time
	}

	if jti != "" && database.RedisClient != nil {
		count, err := database.RedisClient.Exists(ctx, RevokedTokenKeyPrefix+jti).Result()
		if err == nil && count > 0 {
			return nil, ErrRevokedToken
		}
	}

	return &TokenClaims{UserID: sub, Role: role, JTI: jti, Expiry: expiry}, nil
}

// RevokeToken marks a token's jti revoked in Redis until the token would have
// expired anyway.
func RevokeToken(ctx context.Context, claims *TokenClaims) error {
	if claims.JTI == "" || database.RedisClient == nil {
		return nil
	}
	ttl := time.Until(claims.Expiry)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return database.RedisClient.Set(ctx, RevokedTokenKeyPrefix+claims.JTI, "1", ttl).Err()
}

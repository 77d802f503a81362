package services

import (
	"context"
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	const secret = "test-secret"
	ctx := context.Background()

	t.Run("roundtrip", func(t *testing.T) {
		raw, err := GenerateToken(secret, "64f000000000000000000001", "student", time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		claims, err := VerifyToken(ctx, secret, raw)
		if err != nil {
			t.Fatalf("VerifyToken: %v", err)
		}
		if claims.UserID != "64f000000000000000000001" {
			t.Errorf("userID = %q", claims.UserID)
		}
		if claims.Role != "student" {
			t.Errorf("role = %q, want student", claims.Role)
		}
		if claims.JTI == "" {
			t.Error("jti is empty")
		}
		if until := time.Until(claims.Expiry); until < 55*time.Minute || until > time.Hour {
			t.Errorf("expiry %v not about an hour out", claims.Expiry)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		raw, err := GenerateToken(secret, "64f000000000000000000001", "student", time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		if _, err := VerifyToken(ctx, "other-secret", raw); err != ErrInvalidToken {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		raw, err := GenerateToken(secret, "64f000000000000000000001", "student", -time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		if _, err := VerifyToken(ctx, secret, raw); err != ErrInvalidToken {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := VerifyToken(ctx, secret, "not.a.token"); err != ErrInvalidToken {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("tokens carry distinct jtis", func(t *testing.T) {
		a, _ := GenerateToken(secret, "64f000000000000000000001", "student", time.Hour)
		b, _ := GenerateToken(secret, "64f000000000000000000001", "student", time.Hour)
		ca, err := VerifyToken(ctx, secret, a)
		if err != nil {
			t.Fatalf("VerifyToken(a): %v", err)
		}
		cb, err := VerifyToken(ctx, secret, b)
		if err != nil {
			t.Fatalf("VerifyToken(b): %v", err)
		}
		if ca.JTI == cb.JTI {
			t.Error("two tokens share a jti")
		}
	})
}

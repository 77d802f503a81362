package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		if !strings.HasPrefix(hash, "$argon2id$") {
			t.Errorf("hash = %q, want argon2id prefix", hash)
		}
		ok, err := VerifyPassword("correct horse battery staple", hash)
		if err != nil {
			t.Fatalf("VerifyPassword: %v", err)
		}
		if !ok {
			t.Error("correct password did not verify")
		}
	})

	t.Run("wrong password fails", func(t *testing.T) {
		hash, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		ok, err := VerifyPassword("password124", hash)
		if err != nil {
			t.Fatalf("VerifyPassword: %v", err)
		}
		if ok {
			t.Error("wrong password verified")
		}
	})

	t.Run("salts differ between hashes", func(t *testing.T) {
		h1, _ := HashPassword("password123")
		h2, _ := HashPassword("password123")
		if h1 == h2 {
			t.Error("two hashes of the same password are identical")
		}
	})

	t.Run("malformed hash errors", func(t *testing.T) {
		if _, err := VerifyPassword("whatever", "not-a-hash"); err == nil {
			t.Error("expected error for malformed hash")
		}
		if _, err := VerifyPassword("whatever", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"); err == nil {
			t.Error("expected error for non-argon2id hash")
		}
	})
}

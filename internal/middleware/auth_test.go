package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"Bearer   spaced ", "spaced"},
		{"bearer abc", ""},
		{"Basic dXNlcjpwYXNz", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := ExtractBearerToken(c.header); got != c.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole("admin", "counsellor")(next)

	do := func(user *models.User) *httptest.ResponseRecorder {
		r := httptest.NewRequest("GET", "/api/admin/dashboard", nil)
		if user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("allowed role passes", func(t *testing.T) {
		w := do(&models.User{Role: "admin"})
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("disallowed role gets 403", func(t *testing.T) {
		w := do(&models.User{Role: "student"})
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] == "" {
			t.Error("expected an error message in the body")
		}
	})

	t.Run("missing identity gets 401", func(t *testing.T) {
		w := do(nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))

	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

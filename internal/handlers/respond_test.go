package handlers

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := totalPages(c.total, c.limit); got != c.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/resources", nil)
		p := parsePage(r, 10)
		if p.Page != 1 || p.Limit != 10 {
			t.Errorf("page/limit = %d/%d, want 1/10", p.Page, p.Limit)
		}
		want := bson.D{{Key: "createdAt", Value: -1}}
		if len(p.Sort) != 1 || p.Sort[0] != want[0] {
			t.Errorf("sort = %v, want %v", p.Sort, want)
		}
		if p.Skip() != 0 {
			t.Errorf("skip = %d, want 0", p.Skip())
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/resources?page=3&limit=25&sortBy=views&sortOrder=asc", nil)
		p := parsePage(r, 10)
		if p.Page != 3 || p.Limit != 25 {
			t.Errorf("page/limit = %d/%d, want 3/25", p.Page, p.Limit)
		}
		if p.Sort[0].Key != "views" || p.Sort[0].Value != 1 {
			t.Errorf("sort = %v, want views asc", p.Sort)
		}
		if p.Skip() != 50 {
			t.Errorf("skip = %d, want 50", p.Skip())
		}
	})

	t.Run("bad values fall back", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/resources?page=-2&limit=5000", nil)
		p := parsePage(r, 20)
		if p.Page != 1 {
			t.Errorf("page = %d, want 1", p.Page)
		}
		if p.Limit != 20 {
			t.Errorf("limit = %d, want default 20 when over the cap", p.Limit)
		}
	})
}

func TestListEnvelope(t *testing.T) {
	p := pageParams{Page: 2, Limit: 10}
	env := listEnvelope("resources", []string{"a", "b"}, 25, p)

	if env["currentPage"] != 2 {
		t.Errorf("currentPage = %v, want 2", env["currentPage"])
	}
	if env["total"] != int64(25) {
		t.Errorf("total = %v, want 25", env["total"])
	}
	if env["totalPages"] != int64(3) {
		t.Errorf("totalPages = %v, want 3", env["totalPages"])
	}
	items, ok := env["resources"].([]string)
	if !ok || len(items) != 2 {
		t.Errorf("resources = %v, want the item slice under its key", env["resources"])
	}
}

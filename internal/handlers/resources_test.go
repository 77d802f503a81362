package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

func TestResourceFetchFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("anonymous callers see only published", func(t *testing.T) {
		filter := resourceFetchFilter(oid, nil)
		if filter["_id"] != oid {
			t.Errorf("_id = %v", filter["_id"])
		}
		if filter["isPublished"] != true {
			t.Error("anonymous fetch must require isPublished")
		}
	})

	t.Run("students see only published", func(t *testing.T) {
		filter := resourceFetchFilter(oid, &models.User{Role: models.RoleStudent})
		if filter["isPublished"] != true {
			t.Error("student fetch must require isPublished")
		}
	})

	t.Run("admins see drafts", func(t *testing.T) {
		filter := resourceFetchFilter(oid, &models.User{Role: models.RoleAdmin})
		if _, ok := filter["isPublished"]; ok {
			t.Error("admin fetch must not filter on isPublished")
		}
	})
}

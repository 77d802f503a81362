package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/pkg/utils"
)

// Seeds a set of test accounts for local development. Existing accounts are
// left untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	seedUsers := []models.User{
		{
			Username: "student1",
			Email:    "student1@test.com",
			Role:     models.RoleStudent,
			Profile: models.Profile{
				FirstName: "John",
				LastName:  "Student",
				Bio:       "Engineering student",
			},
		},
		{
			Username: "counsellor1",
			Email:    "counsellor1@test.com",
			Role:     models.RoleCounsellor,
			Profile: models.Profile{
				FirstName:      "Dr. Sarah",
				LastName:       "Counsellor",
				Bio:            "Licensed mental health counsellor",
				Specialization: "Anxiety and Stress Management",
			},
		},
		{
			Username: "counsellor2",
			Email:    "counsellor2@test.com",
			Role:     models.RoleCounsellor,
			Profile: models.Profile{
				FirstName:      "Dr. Michael",
				LastName:       "Therapist",
				Bio:            "Clinical psychologist",
				Specialization: "Depression and Academic Stress",
			},
		},
		{
			Username: "admin1",
			Email:    "admin1@test.com",
			Role:     models.RoleAdmin,
			Profile: models.Profile{
				FirstName: "Admin",
				LastName:  "User",
				Bio:       "Platform administrator",
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	for _, user := range seedUsers {
		var existing models.User
		err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing)
		if err == nil {
			log.Printf("User %s already exists, skipping...", user.Email)
			continue
		}
		if err != mongo.ErrNoDocuments {
			log.Fatal("Failed to check existing user:", err)
		}

		now := time.Now()
		user.ID = primitive.NewObjectID()
		user.CreatedAt = now
		user.UpdatedAt = now
		user.Password = hashed
		user.IsActive = true
		user.IsVerified = true

		if _, err := database.DB.Collection("users").InsertOne(ctx, user); err != nil {
			log.Fatal("Failed to create user:", err)
		}
		log.Printf("Created user: %s (%s)", user.Email, user.Role)
	}

	log.Println("Test users created successfully!")
	log.Println("Student: student1@test.com / password123")
	log.Println("Counsellor 1: counsellor1@test.com / password123")
	log.Println("Counsellor 2: counsellor2@test.com / password123")
	log.Println("Admin: admin1@test.com / password123")
}

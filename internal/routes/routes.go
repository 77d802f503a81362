package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/handlers"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	auth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	publisherOnly := middleware.RequireRole(models.RoleCounsellor, models.RoleAdmin)

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", handlers.Register)
		r.Post("/login", handlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", handlers.Me)
			r.Put("/profile", handlers.UpdateProfile)
			r.Put("/change-password", handlers.ChangePassword)
			r.Post("/logout", handlers.Logout)
			r.Post("/refresh", handlers.Refresh)
		})
	})

	// User routes
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/counsellors", handlers.GetCounsellors)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/{id}", handlers.GetUser)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", handlers.ListUsers)
				r.Put("/{id}", handlers.UpdateUser)
				r.Delete("/{id}", handlers.DeleteUser)
				r.Get("/stats/overview", handlers.UserStatsOverview)
			})
		})
	})

	// Resource library routes
	r.Route("/api/resources", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", handlers.ListResources)
			r.Get("/featured", handlers.FeaturedResources)
			r.Get("/categories/list", handlers.ResourceCategories)
			r.Get("/{id}", handlers.GetResource)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/{id}/like", handlers.LikeResource)

			r.With(publisherOnly).Post("/", handlers.CreateResource)
			r.With(publisherOnly).Put("/{id}", handlers.UpdateResource)
			r.With(adminOnly).Delete("/{id}", handlers.DeleteResource)
		})
	})

	// Feelings wall routes
	r.Route("/api/journal", func(r chi.Router) {
		r.With(optionalAuth).Get("/public", handlers.PublicJournal)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/my-entries", handlers.MyJournal)
			r.Post("/", handlers.CreateJournalEntry)
			r.Put("/{id}", handlers.UpdateJournalEntry)
			r.Delete("/{id}", handlers.DeleteJournalEntry)
			r.Post("/{id}/react", handlers.ReactToEntry)
			r.Post("/{id}/comment", handlers.CommentOnEntry)
			r.Post("/{id}/flag", handlers.FlagEntry)
			r.Get("/stats/mood", handlers.JournalMoodStats)
		})
	})

	// Forum routes
	r.Route("/api/forum", func(r chi.Router) {
		r.Get("/categories/list", handlers.ForumCategoriesList)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", handlers.ListForumPosts)
			r.Get("/pinned", handlers.PinnedForumPosts)
			r.Get("/{id}", handlers.GetForumPost)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", handlers.CreateForumPost)
			r.Put("/{id}", handlers.UpdateForumPost)
			r.Delete("/{id}", handlers.DeleteForumPost)
			r.Post("/{id}/reply", handlers.ReplyToForumPost)
			r.Post("/{id}/vote", handlers.VoteOnForumPost)
			r.Post("/{id}/flag", handlers.FlagForumPost)
		})
	})

	// Chat routes
	r.Route("/api/chat", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", handlers.ListChats)
		r.Post("/", handlers.CreateChat)
		r.Get("/unread/count", handlers.UnreadCount)
		r.Get("/counsellors/available", handlers.AvailableCounsellors)
		r.Get("/{id}", handlers.GetChat)
		r.Post("/{id}/messages", handlers.SendMessage)
		r.Post("/{id}/read", handlers.MarkChatRead)
		r.Put("/messages/{messageId}", handlers.EditMessage)
		r.Delete("/messages/{messageId}", handlers.DeleteMessage)
	})

	// Mood tracker routes
	r.Route("/api/mood", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", handlers.ListMoods)
		r.Get("/today", handlers.TodayMood)
		r.Post("/", handlers.CreateMood)
		r.Put("/{id}", handlers.UpdateMood)
		r.Delete("/{id}", handlers.DeleteMood)
		r.Get("/stats/overview", handlers.MoodStatsOverview)
		r.Get("/stats/trends", handlers.MoodTrends)
		r.Get("/stats/activities", handlers.MoodActivityStats)
	})

	// Admin console routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth, adminOnly)
		r.Get("/dashboard", handlers.AdminDashboard)
		r.Get("/moderation/flagged", handlers.FlaggedContent)
		r.Put("/moderation/{type}/{id}", handlers.ModerateContent)
		r.Get("/users", handlers.ListUsers)
		r.Put("/users/{id}", handlers.UpdateUser)
		r.Get("/resources", handlers.AdminResources)
		r.Put("/resources/{id}", handlers.AdminUpdateResource)
		r.Get("/analytics", handlers.AdminAnalytics)
		r.Get("/audit", handlers.AuditLog)
		r.Get("/database", handlers.DatabaseDump)
	})

	// File upload
	r.With(auth).Post("/api/upload", handlers.Upload)

	// Unmatched API paths get a JSON 404; everything else serves the frontend.
	r.NotFound(staticOrNotFound(cfg.FrontendDir))
}

// staticOrNotFound serves frontend assets for non-API paths and a JSON 404 for
// unknown API routes.
func staticOrNotFound(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Route not found"}`))
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			if r.URL.Path != "/" && filepath.Ext(r.URL.Path) == "" {
				http.ServeFile(w, r, filepath.Join(dir, "index.html"))
				return
			}
		}
		fs.ServeHTTP(w, r)
	}
}

package seed

import (
	"time"

	. "inkwell/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func Seed(db *gorm.DB, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	users := []User{
		{
			Username:    "admin",
			DisplayName: "Administrator",
			Email:       stringPtr("admin@example.com"),
			Team:        TeamRed,
			IsAdmin:     true,
		},
		{
			Username:    "ada",
			DisplayName: "Ada Lovelace",
			Email:       stringPtr("ada.lovelace@example.com"),
			Team:        TeamYellow,
			DiscordID:   stringPtr("100000000000000001"),
		},
		{
			Username:    "grace",
			DisplayName: "Grace Hopper",
			Email:       stringPtr("grace.hopper@example.com"),
			Team:        TeamBlue,
			DiscordID:   stringPtr("100000000000000002"),
		},
	}

	for _, user := range users {
		var existing User
		if err := db.First(&existing, "username = ?", user.Username).Error; err == nil {
			log.Info("User already exists", "username", user.Username)
			continue
		}
		log.Info("Seeding user", "username", user.Username)
		if err := db.Create(&user).Error; err != nil {
			return log.Err("failed to create user", err, "username", user.Username)
		}
	}

	posts := []Post{
		{
			Slug:        "getting-started-with-generics",
			Title:       "Getting Started with Generics",
			Description: "A practical tour of type parameters.",
			Categories:  []string{"go"},
			Keywords:    []string{"generics", "types"},
			PublishedAt: timePtr(time.Now().UTC().AddDate(0, -2, 0)),
		},
		{
			Slug:        "profiling-production-services",
			Title:       "Profiling Production Services",
			Description: "Finding hot paths without guesswork.",
			Categories:  []string{"go", "performance"},
			Keywords:    []string{"pprof", "profiling"},
			PublishedAt: timePtr(time.Now().UTC().AddDate(0, -1, 0)),
		},
		{
			Slug:        "caching-strategies",
			Title:       "Caching Strategies",
			Description: "Fresh, stale, and everything between.",
			Categories:  []string{"architecture"},
			Keywords:    []string{"cache", "swr"},
			PublishedAt: timePtr(time.Now().UTC().AddDate(0, 0, -7)),
		},
	}

	for _, post := range posts {
		var existing Post
		if err := db.First(&existing, "slug = ?", post.Slug).Error; err == nil {
			log.Info("Post already exists", "slug", post.Slug)
			continue
		}
		log.Info("Seeding post", "slug", post.Slug)
		if err := db.Create(&post).Error; err != nil {
			return log.Err("failed to create post", err, "slug", post.Slug)
		}
	}

	return nil
}

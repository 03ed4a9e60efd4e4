package controllers

import (
	"inkwell/config"
	"inkwell/internal/cache"
	blogController "inkwell/internal/controllers/blog"
	rankingsController "inkwell/internal/controllers/rankings"
	readsController "inkwell/internal/controllers/reads"
	recommendationsController "inkwell/internal/controllers/recommendations"
	"inkwell/internal/events"
	"inkwell/internal/repositories"
	"inkwell/internal/services"

	"gorm.io/gorm"
)

type Controllers struct {
	Blog            blogController.BlogControllerInterface
	Rankings        rankingsController.RankingsControllerInterface
	Recommendations recommendationsController.RecommendationsControllerInterface
	Reads           readsController.ReadsControllerInterface
}

func New(
	repos repositories.Repository,
	services *services.Service,
	eventBus *events.EventBus,
	db *gorm.DB,
	rankingsCache cache.Cache,
	memoryCache cache.Cache,
	config config.Config,
) Controllers {
	rankings := rankingsController.New(repos.PostRead, rankingsCache, db)

	return Controllers{
		Blog:     blogController.New(repos.Post, repos.PostRead, memoryCache, db, config),
		Rankings: rankings,
		Recommendations: recommendationsController.New(
			repos.Post,
			repos.PostRead,
			memoryCache,
			db,
		),
		Reads: readsController.New(
			repos.PostRead,
			repos.Post,
			rankings,
			services.Notifier,
			eventBus,
			db,
		),
	}
}

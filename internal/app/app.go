package app

import (
	"context"

	"inkwell/config"
	"inkwell/internal/cache"
	"inkwell/internal/controllers"
	"inkwell/internal/database"
	"inkwell/internal/events"
	"inkwell/internal/handlers/middleware"
	"inkwell/internal/jobs"
	"inkwell/internal/repositories"
	"inkwell/internal/services"
	"inkwell/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Cache backends
	Memory   *cache.Memory
	Rankings *cache.Valkey

	Repository  repositories.Repository
	Services    *services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	memory, err := cache.NewMemory(config.MemoryCacheSize)
	if err != nil {
		return &App{}, log.Err("failed to create memory cache", err)
	}
	rankingsCache := cache.NewValkey(db.Cache.Rankings)

	eventBus := events.New(db.Cache.Events)

	repos := repositories.New()

	transactionService := services.NewTransactionService(db)
	discordService := services.NewDiscordService(config)
	notifierService := services.NewNotifierService(discordService, config)
	catalogService := services.NewCatalogService(repos.Post, transactionService, memory)
	schedulerService := services.NewSchedulerService()

	service := &services.Service{
		Transaction: transactionService,
		Discord:     discordService,
		Notifier:    notifierService,
		Catalog:     catalogService,
		Scheduler:   schedulerService,
	}

	websocket := websockets.New(eventBus)
	middleware := middleware.New(db, config, repos)

	controllers := controllers.New(
		repos,
		service,
		eventBus,
		db.SQL,
		rankingsCache,
		memory,
		config,
	)

	if config.SchedulerEnabled {
		warmJob := jobs.NewRankingsWarmJob(controllers.Rankings, services.Hourly)
		if err := schedulerService.AddJob(warmJob); err != nil {
			return &App{}, log.Err("failed to register rankings warm job", err)
		}
		log.Info("Registered rankings warm job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Memory:      memory,
		Rankings:    rankingsCache,
		Repository:  repos,
		Services:    service,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Memory,
		a.Rankings,
		a.Services.Transaction,
		a.Services.Discord,
		a.Services.Notifier,
		a.Services.Catalog,
		a.Services.Scheduler,
		a.Controllers.Blog,
		a.Controllers.Rankings,
		a.Controllers.Recommendations,
		a.Controllers.Reads,
		a.Repository.Post,
		a.Repository.PostRead,
		a.Repository.User,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services != nil && a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/cache"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
)

// CacheNamespace prefixes every Redis key written by the service.
const CacheNamespace = "timetable"

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Roster    *service.RosterService
	Timetable *service.TimetableService

	db    *sqlx.DB
	redis *redis.Client
	deps  map[string]handler.Pinger
}

// New connects the optional roster database and cache and builds the services.
// Postgres is only opened for the database roster source; Redis failures
// disable caching instead of aborting start-up.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, deps: map[string]handler.Pinger{}}

	var store service.RosterStore
	if cfg.Roster.Source == config.RosterSourceDatabase {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect roster database: %w", err)
		}
		a.db = db
		repo := repository.NewRosterRepository(db)
		store = repo
		a.deps["postgres"] = repo
	}

	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, roster caching disabled", zap.Error(err))
		client = nil
	}
	a.redis = client

	a.Metrics = service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(client, CacheNamespace, logger)
	if client != nil {
		a.deps["redis"] = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, a.Metrics, cfg.Roster.CacheTTL, logger, cfg.Roster.CacheEnabled && client != nil)

	a.Roster = service.NewRosterService(cfg.Roster, store, cacheSvc, validate, logger)
	a.Timetable = service.NewTimetableService(a.Roster, a.Metrics, validate, logger, cfg.Scheduler, cfg.Export)
	return a, nil
}

// Dependencies lists the connections probed by the readiness endpoint.
func (a *App) Dependencies() map[string]handler.Pinger {
	return a.deps
}

// Close releases database and cache connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("close postgres", zap.Error(err))
		}
	}
}

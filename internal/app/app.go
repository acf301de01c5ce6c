// Package app assembles the scheduling pipeline from configuration. It is
// shared by the HTTP server and the command-line tool.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/unischeduler-api/internal/generator"
	"github.com/noah-isme/unischeduler-api/internal/handler"
	"github.com/noah-isme/unischeduler-api/internal/repository"
	"github.com/noah-isme/unischeduler-api/internal/scraper"
	"github.com/noah-isme/unischeduler-api/internal/service"
	"github.com/noah-isme/unischeduler-api/pkg/cache"
	"github.com/noah-isme/unischeduler-api/pkg/config"
	"github.com/noah-isme/unischeduler-api/pkg/database"
)

const cachePrefix = "unischeduler"

// App holds the wired services and the connections they own.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Schedules *service.ScheduleService
	Usage     *service.UsageService
	Checks    []handler.ReadinessCheck

	redis *redis.Client
	db    *sqlx.DB
}

// New connects the configured backends and wires the pipeline. The usage
// writer is not started; call Start.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: service.NewMetricsService()}

	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}

	gen, err := generator.NewGeminiGenerator(ctx, generator.GeminiConfig{
		APIKey:        cfg.Generator.APIKey,
		Model:         cfg.Generator.Model,
		MinGapMinutes: cfg.Scheduler.MinGapMinutes,
	}, logger.Named("generator"))
	if err != nil {
		a.Close()
		return nil, err
	}

	banner := scraper.NewBannerScraper(scraper.BannerConfig{
		BaseURL: cfg.Scraper.BaseURL,
		Campus:  cfg.Scraper.Campus,
		Timeout: cfg.Scraper.Timeout,
	}, logger.Named("scraper"))

	var sectionCache service.SectionCache
	if cfg.Scraper.CacheEnabled {
		sectionCache = repository.NewCacheRepository(a.redis, cachePrefix, logger)
	}
	sections := service.NewSectionService(banner, sectionCache, cfg.Scraper.SectionCacheTTL, a.Metrics, logger.Named("sections"))

	orchestrator := service.NewOrchestrator(gen, service.OrchestratorConfig{
		MaxAttempts:   cfg.Scheduler.MaxAttempts,
		MinGapMinutes: cfg.Scheduler.MinGapMinutes,
		CallTimeout:   cfg.Generator.CallTimeout,
	}, a.Metrics, logger.Named("orchestrator"))

	a.Usage = service.NewUsageService(a.usageStore(), a.runLog(), a.Metrics, logger.Named("usage"))
	a.Schedules = service.NewScheduleService(sections, orchestrator, a.Usage, validator.New(), cfg.Scheduler.MinGapMinutes, logger)
	return a, nil
}

// Start launches background workers.
func (a *App) Start(ctx context.Context) {
	a.Usage.Start(ctx)
}

// Close flushes pending usage records and releases connections.
func (a *App) Close() {
	if a.Usage != nil {
		a.Usage.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("postgres close failed", zap.Error(err))
		}
	}
}

func (a *App) connect(ctx context.Context) error {
	if a.Config.NeedsRedis() {
		client, err := cache.NewRedis(ctx, a.Config.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		a.Checks = append(a.Checks, handler.ReadinessCheck{Name: "redis", Ping: cache.Pinger(client)})
	}

	if a.Config.NeedsDatabase() {
		db, err := database.NewPostgres(ctx, a.Config.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.db = db
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		a.Checks = append(a.Checks, handler.ReadinessCheck{Name: "postgres", Ping: db.PingContext})
	}
	return nil
}

func (a *App) usageStore() service.UsageStore {
	switch a.Config.Usage.Backend {
	case config.UsageBackendRedis:
		return repository.NewUsageRedisRepository(a.redis, a.Config.Usage.RedisKey)
	case config.UsageBackendPostgres:
		return repository.NewUsageRepository(a.db)
	default:
		return service.NewMemoryUsageStore()
	}
}

func (a *App) runLog() service.RunLog {
	if !a.Config.Usage.RunLogEnabled {
		return nil
	}
	return repository.NewGenerationRunRepository(a.db)
}

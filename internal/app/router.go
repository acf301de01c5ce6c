package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/unischeduler-api/api/swagger"
	"github.com/noah-isme/unischeduler-api/internal/handler"
	internalmiddleware "github.com/noah-isme/unischeduler-api/internal/middleware"
	"github.com/noah-isme/unischeduler-api/internal/service"
	"github.com/noah-isme/unischeduler-api/pkg/config"
	appErrors "github.com/noah-isme/unischeduler-api/pkg/errors"
	"github.com/noah-isme/unischeduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/unischeduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/unischeduler-api/pkg/middleware/requestid"
	"github.com/noah-isme/unischeduler-api/pkg/response"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Schedules *handler.ScheduleHandler
	Usage     *handler.UsageHandler
	Metrics   *handler.MetricsHandler
}

// Router builds the HTTP handlers for a wired App.
func (a *App) Router() *gin.Engine {
	return NewRouter(a.Config, a.Logger, a.Metrics, Handlers{
		Schedules: handler.NewScheduleHandler(a.Schedules),
		Usage:     handler.NewUsageHandler(a.Usage),
		Metrics:   handler.NewMetricsHandler(a.Metrics, a.Checks...),
	})
}

// NewRouter mounts middleware and routes.
func NewRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	// The web client posts here and expects a bare {"classes": [...]}.
	r.POST("/api/generate_schedule", h.Schedules.GenerateLegacy)

	api := r.Group(cfg.APIPrefix)
	schedules := api.Group("/schedules")
	schedules.POST("/generate", h.Schedules.Generate)
	schedules.POST("/validate", h.Schedules.Validate)

	usage := api.Group("/usage")
	usage.GET("", h.Usage.Summary)
	usage.GET("/runs", h.Usage.Runs)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrNotFound)
	})

	return r
}

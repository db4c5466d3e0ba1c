package api

import (
	"github.com/gin-gonic/gin"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/api/handlers"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/api/middleware"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/config"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// Router sets up the HTTP router with all routes and middleware
type Router struct {
	engine         *gin.Engine
	searchHandler  *handlers.SearchHandler
	articleHandler *handlers.ArticleHandler
	healthHandler  *handlers.HealthHandler
	cfg            *config.Config
	logger         *logger.Logger
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	articleHandler *handlers.ArticleHandler,
	healthHandler *handlers.HealthHandler,
	cfg *config.Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		searchHandler:  searchHandler,
		articleHandler: articleHandler,
		healthHandler:  healthHandler,
		cfg:            cfg,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.cfg.Server.Mode)

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.LoggerMiddleware(r.logger))

	// Health check endpoints (no rate limiting)
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/health/ready", r.healthHandler.Readiness)
	r.engine.GET("/health/live", r.healthHandler.Liveness)

	v1 := r.engine.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(
		r.cfg.RateLimit.RequestsPerMinute,
		r.cfg.RateLimit.Burst,
	))
	{
		v1.POST("/search", r.searchHandler.Search)
		v1.GET("/search", r.searchHandler.SearchQuery)
		v1.GET("/search/stats", r.searchHandler.Stats)
		v1.GET("/suggestions", r.searchHandler.Suggestions)

		articles := v1.Group("/articles")
		{
			articles.POST("", r.articleHandler.Index)
			articles.DELETE("/:id", r.articleHandler.Delete)
		}
	}

	return r.engine
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	if r.engine == nil {
		return r.Setup()
	}
	return r.engine
}

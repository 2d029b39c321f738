package http

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/askbar/askbar/internal/infra/cache"
	"github.com/askbar/askbar/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *WidgetHandler, counters cache.Cache, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := newEngine(cfg, handler, counters, logger)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func newEngine(cfg *config.Config, handler *WidgetHandler, counters cache.Cache, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/widget.js", handler.WidgetBundle)

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, counters, logger))
	{
		api.POST("/chat", handler.Chat)
		api.GET("/config", handler.Config)
		api.POST("/lead", handler.Lead)
		api.POST("/events", handler.Event)
	}

	admin := api.Group("/admin")
	admin.Use(adminAuthMiddleware(cfg.Admin.Token))
	{
		admin.POST("/cache/clear", handler.AdminCacheClear)
		admin.POST("/embeddings/sync", handler.AdminEmbeddingsSync)
	}

	return router
}

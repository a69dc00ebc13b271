package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/logging"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Manager == nil {
		cfg.Manager = contact.NewManager()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(cfg.Logger))

	h := &ContactHandler{manager: cfg.Manager, repo: cfg.Repository, log: cfg.Logger}

	r.GET("/healthcheck", HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/contacts", h.List)
		api.POST("/contacts", h.Create)
	}
	return r
}

func requestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

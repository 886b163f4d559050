// internal/server/router.go
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"careers-api/internal/common/config"
	"careers-api/internal/common/logger"
)

// Registrar mounts a group of routes. Domain handlers implement it.
type Registrar interface {
	Register(r gin.IRouter)
}

// Dependencies holds everything the router needs.
type Dependencies struct {
	Config        config.ServerConfig
	Logger        logger.Logger
	Handlers      []Registrar
	Readiness     []ReadinessCheck
	EnableMetrics bool
}

// NewRouter builds the gin engine: middleware, operational endpoints and the
// /api group with every registered handler.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		gin.Recovery(),
		RequestID(),
		AccessLog(deps.Logger),
		Metrics(),
		cors.New(corsConfig(deps.Config.AllowedOrigins)),
		BodyLimit(deps.Config.MaxBodyBytes),
	)

	r.GET("/health", Health)
	r.GET("/ready", Ready(deps.Readiness))
	if deps.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	for _, h := range deps.Handlers {
		h.Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	cfg.ExposeHeaders = []string{RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// NewHTTPServer wraps the router with the configured listener timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:       120 * time.Second,
	}
}

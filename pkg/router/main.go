package router

import (
	"github.com/gin-contrib/logger"
	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iLert/ilert-feed-sync/pkg/collector"
	"github.com/iLert/ilert-feed-sync/pkg/handlers"
	"github.com/iLert/ilert-feed-sync/pkg/storage"
)

// maxRequestSize column settings are the largest bodies the api accepts
const maxRequestSize = 64 * 1024

// Setup init new router
func Setup(srg *storage.Storage, env *handlers.Env) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.SetLogger(logger.Config{
		SkipPath: []string{
			"/api/health",
			"/metrics",
		},
	}))
	router.Use(gin.Recovery())
	router.Use(limits.RequestSizeLimiter(maxRequestSize))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collector.NewCollector(srg),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prom := promhttp.HandlerFor(
		registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
	router.GET("/metrics", func(c *gin.Context) {
		prom.ServeHTTP(c.Writer, c.Request)
	})
	router.GET("/api/health", healthHandler)

	handlers.SetUpFeedRoutes(router, env)

	return router
}

func healthHandler(ctx *gin.Context) {
	ctx.PureJSON(200, gin.H{
		"ok": true,
	})
}
